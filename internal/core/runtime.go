package core

import (
	"context"
	"regexp"
	"time"
)

// Paths inside the instance where host files are mounted.
const (
	DescriptorMountPath  = "/opt/oracle/database.json"
	KeyFileMountPath     = "/opt/oracle/key"
	CredentialsMountPath = "/opt/oracle/config"
)

// ReadyPattern matches the log line the instance prints once the database
// can accept connections.
var ReadyPattern = regexp.MustCompile(`.*DATABASE IS READY TO USE!.*\s`)

// Bind mounts a host path into the instance.
type Bind struct {
	HostPath      string
	ContainerPath string
	ReadOnly      bool
}

// InstanceSpec is everything the runtime needs to launch the instance.
type InstanceSpec struct {
	// Name is stable for a database name, so reusable runtimes can find an
	// instance started by an earlier process.
	Name  string
	Image string
	Env   map[string]string
	Binds []Bind
	// Reuse asks the runtime to attach to an existing instance of the same
	// Name instead of creating a new one, and to leave it running.
	Reuse        bool
	ReadyPattern *regexp.Regexp
	ReadyTimeout time.Duration
}

// ExecResult is the outcome of a command run inside the instance.
type ExecResult struct {
	ExitCode int
	Output   []byte
}

// Runtime launches and controls the container hosting the instance.
// Implementations need not be safe for concurrent use: the Controller
// serializes calls.
type Runtime interface {
	// Start launches the instance and blocks until ReadyPattern appears in
	// its log or ctx ends. Only the log wait is bounded by ReadyTimeout; when
	// it expires Start returns an error wrapping context.DeadlineExceeded.
	Start(ctx context.Context, spec InstanceSpec) error
	// Exec runs cmd inside the started instance and drains its output.
	Exec(ctx context.Context, cmd []string) (ExecResult, error)
	// Kill delivers a signal (e.g. "SIGTERM") to the instance's main process.
	Kill(ctx context.Context, signal string) error
	// Running reports whether the instance process is still alive. Runtimes
	// that cannot tell return an error.
	Running(ctx context.Context) (bool, error)
	// Terminate stops and removes the instance.
	Terminate(ctx context.Context) error
}
