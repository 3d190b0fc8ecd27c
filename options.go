package adbenv

import (
	"fmt"
	"time"

	"github.com/giantswarm/adbenv/internal/core"
	"github.com/giantswarm/adbenv/internal/identity"
)

// requirePositive rejects non-positive durations.
func requirePositive(name string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: %s must be greater than 0, got %s", ErrInvalidArgument, name, d)
	}
	return nil
}

// Option configures a Controller during construction via NewController.
// Each With* function returns an Option that sets a specific field.
//
// An Option that rejects its value returns an error wrapping
// ErrInvalidArgument. NewController applies every option and reports all
// rejections together, before any external command runs.
type Option func(*controllerConfig) error

// WithUsername sets the static application user. Oracle-managed accounts
// (SYS, SYSTEM, ADMIN roles and similar) are rejected, case-insensitively.
//
// Default: "test". Ignored when WithUsernamePrefix is set.
func WithUsername(name string) Option {
	return func(c *controllerConfig) error {
		if err := core.ValidateUsername(name); err != nil {
			return err
		}
		c.Username = name
		return nil
	}
}

// WithUsernamePrefix switches to scoped users: Start creates a user named
// prefix + unique user id inside the instance, Stop drops it. The prefix is
// at most MaxUsernamePrefixLength characters.
func WithUsernamePrefix(prefix string) Option {
	return func(c *controllerConfig) error {
		if err := core.ValidateUsernamePrefix(prefix); err != nil {
			return err
		}
		c.UsernamePrefix = prefix
		return nil
	}
}

// WithPassword sets the application user's password.
func WithPassword(password string) Option {
	return func(c *controllerConfig) error {
		if err := core.ValidateNonEmpty("password", password); err != nil {
			return err
		}
		c.Password = password
		return nil
	}
}

// WithAdminPassword sets the ADMIN password of the database.
func WithAdminPassword(password string) Option {
	return func(c *controllerConfig) error {
		if err := core.ValidateNonEmpty("admin password", password); err != nil {
			return err
		}
		c.AdminPassword = password
		return nil
	}
}

// WithDatabaseName sets the database name. DefaultDatabaseName is rejected
// in any case spelling.
func WithDatabaseName(name string) Option {
	return func(c *controllerConfig) error {
		if err := core.ValidateDatabaseName(name); err != nil {
			return err
		}
		c.DatabaseName = name
		return nil
	}
}

// WithProfile selects the credentials file profile.
//
// Default: "DEFAULT".
func WithProfile(profile string) Option {
	return func(c *controllerConfig) error {
		if err := core.ValidateNonEmpty("profile", profile); err != nil {
			return err
		}
		c.Profile = profile
		return nil
	}
}

// WithWorkloadType sets the workload type: json, oltp, dw or apex, in any
// case. The value is passed on as given.
//
// Default: "oltp".
func WithWorkloadType(workload string) Option {
	return func(c *controllerConfig) error {
		if err := core.ValidateWorkloadType(workload); err != nil {
			return err
		}
		c.WorkloadType = workload
		return nil
	}
}

// WithFreeTier requests an Always Free database.
//
// Default: true.
func WithFreeTier(free bool) Option {
	return func(c *controllerConfig) error {
		c.FreeTier = free
		return nil
	}
}

// WithReuse keeps the instance running after Stop so later runs attach to it.
//
// Default: false.
func WithReuse(reuse bool) Option {
	return func(c *controllerConfig) error {
		c.Reuse = reuse
		return nil
	}
}

// WithIsolationKey names the test context owning the scoped user. Controllers
// sharing a key in one process share the user until one of them stops.
//
// Default: a key unique to the controller.
func WithIsolationKey(key string) Option {
	return func(c *controllerConfig) error {
		if err := core.ValidateNonEmpty("isolation key", key); err != nil {
			return err
		}
		c.IsolationKey = key
		return nil
	}
}

// WithCredentialsFile sets the OCI credentials file.
//
// Default: $HOME/.oci/config.
func WithCredentialsFile(path string) Option {
	return func(c *controllerConfig) error {
		if err := core.ValidateNonEmpty("credentials file", path); err != nil {
			return err
		}
		c.CredentialsFile = path
		return nil
	}
}

// WithDescriptorDir sets the directory receiving the <database>.json
// descriptor and the start lock. Processes sharing a reusable instance must
// use the same directory.
//
// Default: os.TempDir().
func WithDescriptorDir(dir string) Option {
	return func(c *controllerConfig) error {
		if err := core.ValidateNonEmpty("descriptor directory", dir); err != nil {
			return err
		}
		c.DescriptorDir = dir
		return nil
	}
}

// WithImage sets the full image reference.
//
// Default: DefaultImage.
func WithImage(image string) Option {
	return func(c *controllerConfig) error {
		if err := core.ValidateNonEmpty("image", image); err != nil {
			return err
		}
		c.Image = image
		return nil
	}
}

// WithImageTag selects a tag of DefaultImageRepository.
func WithImageTag(tag string) Option {
	return func(c *controllerConfig) error {
		if err := core.ValidateNonEmpty("image tag", tag); err != nil {
			return err
		}
		c.Image = DefaultImageRepository + ":" + tag
		return nil
	}
}

// WithReadyTimeout bounds Start, from launch until the instance reports
// readiness.
//
// Default: 120 seconds.
func WithReadyTimeout(d time.Duration) Option {
	return func(c *controllerConfig) error {
		if err := requirePositive("ready timeout", d); err != nil {
			return err
		}
		c.ReadyTimeout = d
		return nil
	}
}

// WithConnectTimeout sets the connection timeout reported to JDBC clients.
//
// Default: 60 seconds.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *controllerConfig) error {
		if err := requirePositive("connect timeout", d); err != nil {
			return err
		}
		c.ConnectTimeout = d
		return nil
	}
}

// WithTerminationGrace sets how long Stop waits, after SIGTERM, for a
// non-reusable instance to exit before removing it. Stop returns earlier when
// the instance exits first.
//
// Default: 20 seconds.
func WithTerminationGrace(d time.Duration) Option {
	return func(c *controllerConfig) error {
		if err := requirePositive("termination grace", d); err != nil {
			return err
		}
		c.TerminationGrace = d
		return nil
	}
}

// WithPublicIP passes the caller's public IP address to the instance, which
// adds it to the database access control list.
func WithPublicIP(ip string) Option {
	return func(c *controllerConfig) error {
		if err := core.ValidateNonEmpty("public IP", ip); err != nil {
			return err
		}
		c.PublicIP = ip
		return nil
	}
}

// WithJournal records created and dropped scoped users in a SQLite file at
// path, so users leaked by crashed runs can be listed (adbenv users).
func WithJournal(path string) Option {
	return func(c *controllerConfig) error {
		if err := core.ValidateNonEmpty("journal path", path); err != nil {
			return err
		}
		c.JournalPath = path
		return nil
	}
}

// WithRuntime replaces the container runtime.
//
// Default: Docker through testcontainers-go.
func WithRuntime(rt Runtime) Option {
	return func(c *controllerConfig) error {
		if rt == nil {
			return fmt.Errorf("%w: runtime must not be nil", ErrInvalidArgument)
		}
		c.runtime = rt
		return nil
	}
}

// Allocator hands out scoped user ids. See NewAllocator.
type Allocator = identity.Allocator

// WithAllocator replaces the process-wide scoped user allocator.
func WithAllocator(a *Allocator) Option {
	return func(c *controllerConfig) error {
		if a == nil {
			return fmt.Errorf("%w: allocator must not be nil", ErrInvalidArgument)
		}
		c.allocator = a
		return nil
	}
}
