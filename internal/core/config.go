package core

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Defaults shared by the public options and the CLI.
const (
	DefaultImage            = "loiclefevre/oracle-adb:19.0.0"
	DefaultDatabaseName     = "adb1"
	DefaultUsername         = "test"
	DefaultPassword         = "C0mplex_Passw0rd"
	DefaultWorkloadType     = "oltp"
	DefaultProfile          = "DEFAULT"
	DefaultReadyTimeout     = 120 * time.Second
	DefaultConnectTimeout   = 60 * time.Second
	DefaultTerminationGrace = 20 * time.Second
)

// MaxUsernamePrefixLength bounds the prefix so that prefix plus the unique
// user id still fits Oracle's identifier limit.
const MaxUsernamePrefixLength = 9

// workloadTypes are the accepted workload types, compared case-insensitively.
var workloadTypes = []string{"json", "oltp", "dw", "apex"}

// reservedUsernames are accounts and roles managed by Oracle inside every
// Autonomous Database. Lower case; compared case-insensitively.
var reservedUsernames = map[string]struct{}{}

func init() {
	for _, u := range []string{
		"acchk_read", "adm_parallel_execute_task", "anonymous", "application_trace_viewer", "appqossys",
		"aq_administrator_role", "aq_user_role", "audit_admin", "audit_viewer", "audsys", "authenticateduser",
		"avtune_pkg_role", "bdsql_admin", "bdsql_user", "capture_admin", "cdb_dba", "connect", "ctxapp", "ctxsys",
		"datapatch_role", "datapump_exp_full_database", "datapump_imp_full_database", "dba", "dbfs_role",
		"dbms_mdx_internal", "dbsfwuser", "dbsnmp", "dgpdb_int", "dip", "dvf", "dvsys", "dv_acctmgr", "dv_admin",
		"dv_audit_cleanup", "dv_datapump_network_link", "dv_goldengate_admin", "dv_goldengate_redo_access",
		"dv_monitor", "dv_owner", "dv_patch_admin", "dv_policy_owner", "dv_secanalyst", "dv_streams_admin",
		"dv_xstream_admin", "em_express_all", "em_express_basic", "execute_catalog_role", "exp_full_database",
		"gather_system_statistics", "gds_catalog_select", "ggsys", "ggsys_role", "global_aq_user_role",
		"gsmadmin_internal", "gsmadmin_role", "gsmcatuser", "gsmrootuser", "gsmrootuser_role", "gsmuser",
		"gsmuser_role", "gsm_pooladmin_role", "hs_admin_execute_role", "hs_admin_role", "hs_admin_select_role",
		"imp_full_database", "lbacsys", "lbac_dba", "logstdby_administrator", "maintplan_app", "mddata", "mdsys",
		"oem_advisor", "oem_monitor", "olap_xs_admin", "optimizer_processing_rate", "oracle_ocm", "outln", "pdb_dba",
		"pplb_role", "provisioner", "rdfctx_admin", "recovery_catalog_owner", "recovery_catalog_owner_vpd",
		"recovery_catalog_user", "remote_scheduler_agent", "resource", "scheduler_admin", "select_catalog_role",
		"soda_app", "sys", "sys$umf", "sysbackup", "sysdg", "syskm", "sysrac", "system", "sysumf_role", "xdb", "xdbadmin",
		"xdb_set_invoker", "xdb_webservices", "xdb_webservices_over_http", "xdb_webservices_with_public", "xs$null",
		"xs_cache_admin", "xs_connect", "xs_namespace_admin", "xs_session_admin",
	} {
		reservedUsernames[u] = struct{}{}
	}
}

// IsReservedUsername reports whether name is an Oracle-managed account.
func IsReservedUsername(name string) bool {
	_, ok := reservedUsernames[strings.ToLower(name)]
	return ok
}

// ValidateUsername checks a static username.
func ValidateUsername(name string) error {
	if name == "" {
		return fmt.Errorf("%w: username must not be empty", ErrInvalidArgument)
	}
	if IsReservedUsername(name) {
		return fmt.Errorf("%w: username %q is an Oracle-managed account", ErrInvalidArgument, name)
	}
	return nil
}

// ValidateUsernamePrefix checks a scoped-user prefix.
func ValidateUsernamePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("%w: username prefix must not be empty", ErrInvalidArgument)
	}
	if len(prefix) > MaxUsernamePrefixLength {
		return fmt.Errorf("%w: username prefix %q is longer than %d characters",
			ErrInvalidArgument, prefix, MaxUsernamePrefixLength)
	}
	return nil
}

// ValidateDatabaseName checks an explicitly chosen database name. The default
// name is reserved for the shared default instance and cannot be requested.
func ValidateDatabaseName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: database name must not be empty", ErrInvalidArgument)
	}
	if strings.EqualFold(name, DefaultDatabaseName) {
		return fmt.Errorf("%w: database name cannot be set to %s", ErrInvalidArgument, DefaultDatabaseName)
	}
	return nil
}

// ValidateWorkloadType checks a workload type against the accepted set.
func ValidateWorkloadType(workload string) error {
	if workload == "" {
		return fmt.Errorf("%w: workload type must not be empty", ErrInvalidArgument)
	}
	if !slices.Contains(workloadTypes, strings.ToLower(workload)) {
		return fmt.Errorf("%w: workload type cannot be set to %s, use one of: %s",
			ErrInvalidArgument, workload, strings.Join(workloadTypes, ", "))
	}
	return nil
}

// ValidateNonEmpty checks a plain string option.
func ValidateNonEmpty(what, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidArgument, what)
	}
	return nil
}

// ControllerConfig holds configuration for a Controller.
// All fields are immutable after construction via NewController.
type ControllerConfig struct {
	DatabaseName string
	// Username is the static application user. Ignored when UsernamePrefix
	// is set.
	Username string
	// UsernamePrefix switches the controller to scoped-user mode: each
	// isolation key gets its own user named prefix + unique user id.
	UsernamePrefix string
	Password       string
	AdminPassword  string
	WorkloadType   string
	Profile        string
	FreeTier       bool
	// Reuse keeps the instance alive across controller lifetimes.
	Reuse bool

	// IsolationKey identifies the test context that owns the scoped user.
	IsolationKey string

	// CredentialsFile is the OCI credentials file (sectioned key=value).
	CredentialsFile string
	// DescriptorDir receives <DatabaseName>.json, written by the instance
	// once it is ready, and the start lock file.
	DescriptorDir string

	Image string
	// PublicIP is forwarded to the instance as IP_ADDRESS when set.
	PublicIP string

	// ReadyTimeout bounds Start, from launch to the readiness log line.
	ReadyTimeout time.Duration
	// ConnectTimeout is exposed for JDBC clients; the controller never opens
	// connections itself.
	ConnectTimeout time.Duration
	// TerminationGrace is how long Stop waits for the instance to tear down
	// its cloud resources after SIGTERM before removing it.
	TerminationGrace time.Duration

	// JournalPath enables the provisioning journal when non-empty.
	JournalPath string
}

// ScopedUsers reports whether the controller provisions per-key users.
func (c ControllerConfig) ScopedUsers() bool {
	return c.UsernamePrefix != ""
}

// Validate checks all ControllerConfig invariants and returns every violation
// joined with errors.Join. Each violation wraps ErrInvalidArgument.
//
// The database name is not compared against the default here: the default
// name is valid, it just cannot be requested explicitly (ValidateDatabaseName).
func (c ControllerConfig) Validate() error {
	var errs []error

	if err := ValidateNonEmpty("database name", c.DatabaseName); err != nil {
		errs = append(errs, err)
	}
	if c.ScopedUsers() {
		if err := ValidateUsernamePrefix(c.UsernamePrefix); err != nil {
			errs = append(errs, err)
		}
	} else if err := ValidateUsername(c.Username); err != nil {
		errs = append(errs, err)
	}
	for _, f := range []struct{ what, value string }{
		{"password", c.Password},
		{"admin password", c.AdminPassword},
		{"profile", c.Profile},
		{"isolation key", c.IsolationKey},
		{"credentials file", c.CredentialsFile},
		{"descriptor directory", c.DescriptorDir},
		{"image", c.Image},
	} {
		if err := ValidateNonEmpty(f.what, f.value); err != nil {
			errs = append(errs, err)
		}
	}
	if err := ValidateWorkloadType(c.WorkloadType); err != nil {
		errs = append(errs, err)
	}
	for _, d := range []struct {
		what  string
		value time.Duration
	}{
		{"ready timeout", c.ReadyTimeout},
		{"connect timeout", c.ConnectTimeout},
		{"termination grace", c.TerminationGrace},
	} {
		if d.value <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be greater than 0, got %s", ErrInvalidArgument, d.what, d.value))
		}
	}

	return errors.Join(errs...)
}
