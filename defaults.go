package adbenv

import "github.com/giantswarm/adbenv/internal/core"

// Name is the database type served by this package; see Supports.
const Name = "oracleADB"

// DefaultImageRepository is the image repository of the instance image.
const DefaultImageRepository = "loiclefevre/oracle-adb"

// Default configuration values for NewController.
const (
	// DefaultImage is the image used unless WithImage or WithImageTag is set.
	DefaultImage = core.DefaultImage

	// DefaultDatabaseName is the name of the shared default database. It
	// cannot be selected explicitly with WithDatabaseName.
	DefaultDatabaseName = core.DefaultDatabaseName

	// DefaultUsername is the static application user.
	DefaultUsername = core.DefaultUsername

	// DefaultPassword is used for both the application user and ADMIN.
	DefaultPassword = core.DefaultPassword

	DefaultWorkloadType = core.DefaultWorkloadType

	// DefaultProfile is the credentials file profile.
	DefaultProfile = core.DefaultProfile

	// DefaultReadyTimeout bounds Start. Provisioning a cloud database takes
	// minutes on a cold start; reused instances are ready in seconds.
	DefaultReadyTimeout = core.DefaultReadyTimeout

	// DefaultConnectTimeout is reported to JDBC clients.
	DefaultConnectTimeout = core.DefaultConnectTimeout

	// DefaultTerminationGrace is how long Stop lets a non-reusable instance
	// tear down its cloud resources after SIGTERM.
	DefaultTerminationGrace = core.DefaultTerminationGrace

	// DefaultFreeTier requests an Always Free database.
	DefaultFreeTier = true

	// DefaultCredentialsFile is relative to the user's home directory.
	DefaultCredentialsFile = ".oci/config"
)

// MaxUsernamePrefixLength is the longest prefix WithUsernamePrefix accepts.
const MaxUsernamePrefixLength = core.MaxUsernamePrefixLength

// Connection constants for JDBC clients.
const (
	DriverClassName = core.DriverClassName
	TestQuery       = core.TestQuery
)

// Supports reports whether databaseType names the database this package
// manages.
func Supports(databaseType string) bool {
	return databaseType == Name
}
