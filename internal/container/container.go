// Package container runs the instance with testcontainers-go.
//
// Reusable instances are looked up by name and must outlive the test process,
// so suites that use reuse typically run with TESTCONTAINERS_RYUK_DISABLED=true.
package container

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	dockercontainer "github.com/docker/docker/api/types/container"
	"github.com/giantswarm/adbenv/internal/core"
	"github.com/giantswarm/adbenv/internal/sentinel"
	"github.com/testcontainers/testcontainers-go"
	tcexec "github.com/testcontainers/testcontainers-go/exec"
	"github.com/testcontainers/testcontainers-go/wait"
)

// ErrNotStarted is returned by every method except Start before the
// container exists.
const ErrNotStarted = sentinel.Error("container not started")

// Compile-time check: Runtime must satisfy core.Runtime.
var _ core.Runtime = (*Runtime)(nil)

// Runtime is a core.Runtime backed by a Docker container. It is not safe for
// concurrent use; the Controller serializes calls.
type Runtime struct {
	attrs []any
	ctr   testcontainers.Container
}

// New returns a Runtime that logs through core.Logger() with attrs added.
// The logger is looked up on every use, so a later SetLogger applies.
func New(attrs ...any) *Runtime {
	return &Runtime{attrs: attrs}
}

func (r *Runtime) log() *slog.Logger {
	return core.Logger().With(r.attrs...)
}

// Start creates and starts the container, or attaches to the running one of
// the same name when spec.Reuse is set, and waits for the readiness line.
func (r *Runtime) Start(ctx context.Context, spec core.InstanceSpec) error {
	ctr, err := testcontainers.GenericContainer(ctx, request(spec))
	if err != nil {
		if ctr != nil && !spec.Reuse {
			if terr := ctr.Terminate(context.WithoutCancel(ctx)); terr != nil {
				r.log().Warn("failed to remove container after failed start", "error", terr)
			}
		}
		return fmt.Errorf("start container %s: %w", spec.Image, err)
	}
	r.ctr = ctr
	r.log().Debug("container started", "id", ctr.GetContainerID(), "image", spec.Image, "reuse", spec.Reuse)
	return nil
}

// request maps an InstanceSpec onto a testcontainers request. Only reusable
// instances are named: a fixed name on a throwaway container would collide
// with a concurrent run of the same database.
func request(spec core.InstanceSpec) testcontainers.GenericContainerRequest {
	var name string
	if spec.Reuse {
		name = spec.Name
	}

	strategy := wait.ForLog(spec.ReadyPattern.String()).AsRegexp().WithOccurrence(1)
	if spec.ReadyTimeout > 0 {
		strategy = strategy.WithStartupTimeout(spec.ReadyTimeout)
	}

	binds := bindSpecs(spec.Binds)
	return testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:      spec.Image,
			Name:       name,
			Env:        spec.Env,
			WaitingFor: strategy,
			HostConfigModifier: func(hc *dockercontainer.HostConfig) {
				hc.Binds = append(hc.Binds, binds...)
			},
		},
		Started: true,
		Reuse:   spec.Reuse,
	}
}

// bindSpecs renders binds in Docker's host:container:mode form.
func bindSpecs(binds []core.Bind) []string {
	out := make([]string, 0, len(binds))
	for _, b := range binds {
		mode := "rw"
		if b.ReadOnly {
			mode = "ro"
		}
		out = append(out, b.HostPath+":"+b.ContainerPath+":"+mode)
	}
	return out
}

// Exec runs cmd in the container and drains its combined output.
func (r *Runtime) Exec(ctx context.Context, cmd []string) (core.ExecResult, error) {
	if r.ctr == nil {
		return core.ExecResult{}, ErrNotStarted
	}
	code, reader, err := r.ctr.Exec(ctx, cmd, tcexec.Multiplexed())
	if err != nil {
		return core.ExecResult{}, fmt.Errorf("exec %s: %w", cmd[0], err)
	}
	out, err := io.ReadAll(reader)
	if err != nil {
		return core.ExecResult{ExitCode: code}, fmt.Errorf("read %s output: %w", cmd[0], err)
	}
	return core.ExecResult{ExitCode: code, Output: out}, nil
}

// Kill sends signal to the container's main process through the Docker API.
func (r *Runtime) Kill(ctx context.Context, signal string) error {
	if r.ctr == nil {
		return ErrNotStarted
	}
	cli, err := testcontainers.NewDockerClientWithOpts(ctx)
	if err != nil {
		return fmt.Errorf("docker client: %w", err)
	}
	defer cli.Close() //nolint:errcheck // best-effort close

	if err := cli.ContainerKill(ctx, r.ctr.GetContainerID(), signal); err != nil {
		return fmt.Errorf("send %s to container: %w", signal, err)
	}
	return nil
}

// Running reports whether the container's main process is alive.
func (r *Runtime) Running(ctx context.Context) (bool, error) {
	if r.ctr == nil {
		return false, ErrNotStarted
	}
	state, err := r.ctr.State(ctx)
	if err != nil {
		return false, fmt.Errorf("inspect container: %w", err)
	}
	return state.Running, nil
}

// Terminate stops and removes the container.
func (r *Runtime) Terminate(ctx context.Context) error {
	if r.ctr == nil {
		return ErrNotStarted
	}
	if err := r.ctr.Terminate(ctx); err != nil {
		return fmt.Errorf("terminate container: %w", err)
	}
	r.ctr = nil
	return nil
}
