package adbenv

import (
	"context"
	"time"

	"github.com/giantswarm/adbenv/internal/core"
)

// Controller drives one database instance through its lifecycle.
//
// Callers must follow this lifecycle ordering:
//
//	NewController → [Configure] → Start → Stop
//
// Configure is optional; Start performs it when needed. A controller is
// single-use: after Stop, create a new one. Start on a started controller and
// Stop on a controller that is not running return ErrInvalidTransition.
//
// Accessors are safe to call from any goroutine at any time. Start, Stop and
// Configure are serialized internally.
type Controller interface {
	// Configure resolves the private key from the credentials file and
	// prepares the descriptor file the instance writes its connection
	// details to. Returns an error wrapping ErrConfiguration on failure.
	Configure(ctx context.Context) error

	// Start launches the instance and blocks until it reports readiness or
	// the ready timeout passes (ErrStartupTimeout). With a username prefix,
	// the scoped user is created afterwards; a failure to create it is only
	// logged and shows up later as a login error.
	Start(ctx context.Context) error

	// Stop ends the controller's lifecycle. A non-reusable instance is sent
	// SIGTERM, given up to the termination grace to release its cloud
	// resources, and removed. A reusable instance keeps running; with a
	// username prefix the scoped user is dropped first.
	//
	// Only the final removal of a non-reusable instance can fail Stop.
	Stop(ctx context.Context) error

	// JDBCURL returns the JDBC URL of the instance. It needs the descriptor
	// written by the instance, so it fails with ErrDescriptorRead until Start
	// succeeded, and with ErrNotConfigured before Configure.
	JDBCURL() (string, error)

	// WebConsoleURL returns the SQL Developer Web URL of the instance.
	WebConsoleURL() (string, error)

	// Username returns the application user. With a username prefix it is
	// the scoped user of the controller's isolation key, allocated on first
	// call.
	Username() string

	Password() string
	AdminPassword() string
	DatabaseName() string
	WorkloadType() string
	Profile() string
	FreeTier() bool
	Reusable() bool
	IsolationKey() string

	// ConnectTimeout is the connection timeout suggested to JDBC pools.
	ConnectTimeout() time.Duration

	// DriverClassName returns the JDBC driver class.
	DriverClassName() string

	// TestQueryString returns a query that succeeds on any live connection.
	TestQueryString() string

	// State returns the current lifecycle state.
	State() State
}

// Runtime launches and controls the container hosting an instance. The
// default is backed by testcontainers-go; WithRuntime substitutes another.
type Runtime = core.Runtime

// InstanceSpec is what a Runtime receives from Start.
type InstanceSpec = core.InstanceSpec

// Bind mounts a host path into the instance.
type Bind = core.Bind

// ExecResult is the outcome of Runtime.Exec.
type ExecResult = core.ExecResult
