package adbenv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/giantswarm/adbenv/internal/container"
	"github.com/giantswarm/adbenv/internal/core"
	"golang.org/x/sync/errgroup"
)

// Compile-time interface satisfaction check.
var _ Controller = (*controllerWrapper)(nil)

// controllerWrapper wraps core.Controller to implement the Controller
// interface.
//
// The core.Controller is stored as a named (unexported) field rather than
// embedded to prevent callers from using type assertions to access internal
// methods (e.g. Spec, Config) that are not part of the public interface.
type controllerWrapper struct {
	ctl *core.Controller
}

func (w *controllerWrapper) Configure(ctx context.Context) error { return w.ctl.Configure(ctx) }
func (w *controllerWrapper) Start(ctx context.Context) error     { return w.ctl.Start(ctx) }
func (w *controllerWrapper) Stop(ctx context.Context) error      { return w.ctl.Stop(ctx) }
func (w *controllerWrapper) JDBCURL() (string, error)            { return w.ctl.JDBCURL() }
func (w *controllerWrapper) WebConsoleURL() (string, error)      { return w.ctl.WebConsoleURL() }
func (w *controllerWrapper) Username() string                    { return w.ctl.Username() }
func (w *controllerWrapper) Password() string                    { return w.ctl.Config().Password }
func (w *controllerWrapper) AdminPassword() string               { return w.ctl.Config().AdminPassword }
func (w *controllerWrapper) DatabaseName() string                { return w.ctl.Config().DatabaseName }
func (w *controllerWrapper) WorkloadType() string                { return w.ctl.Config().WorkloadType }
func (w *controllerWrapper) Profile() string                     { return w.ctl.Config().Profile }
func (w *controllerWrapper) FreeTier() bool                      { return w.ctl.Config().FreeTier }
func (w *controllerWrapper) Reusable() bool                      { return w.ctl.Config().Reuse }
func (w *controllerWrapper) IsolationKey() string                { return w.ctl.Config().IsolationKey }
func (w *controllerWrapper) ConnectTimeout() time.Duration       { return w.ctl.Config().ConnectTimeout }
func (w *controllerWrapper) DriverClassName() string             { return DriverClassName }
func (w *controllerWrapper) TestQueryString() string             { return TestQuery }
func (w *controllerWrapper) State() State                        { return w.ctl.State() }

// defaultControllerConfig returns a controllerConfig populated with all
// default values. Both NewController and test helpers use this to avoid
// duplicating the default field assignments.
func defaultControllerConfig() controllerConfig {
	var credentials string
	if home, err := os.UserHomeDir(); err == nil {
		credentials = filepath.Join(home, DefaultCredentialsFile)
	}
	return controllerConfig{ControllerConfig: core.ControllerConfig{
		DatabaseName:     DefaultDatabaseName,
		Username:         DefaultUsername,
		Password:         DefaultPassword,
		AdminPassword:    DefaultPassword,
		WorkloadType:     DefaultWorkloadType,
		Profile:          DefaultProfile,
		FreeTier:         DefaultFreeTier,
		CredentialsFile:  credentials,
		DescriptorDir:    os.TempDir(),
		Image:            DefaultImage,
		ReadyTimeout:     DefaultReadyTimeout,
		ConnectTimeout:   DefaultConnectTimeout,
		TerminationGrace: DefaultTerminationGrace,
	}}
}

// buildConfig applies opts over the defaults. Every rejected option is
// reported, joined, before the assembled config is validated.
func buildConfig(opts ...Option) (controllerConfig, error) {
	cfg := defaultControllerConfig()

	var errs []error
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return controllerConfig{}, err
	}

	if cfg.IsolationKey == "" {
		cfg.IsolationKey = core.NextIsolationKey()
	}
	if err := cfg.Validate(); err != nil {
		return controllerConfig{}, err
	}
	return cfg, nil
}

// NewController returns a Controller configured by opts. No I/O happens
// until Configure or Start.
//
// Invalid options are reported together; each wraps ErrInvalidArgument.
//
//nolint:ireturn // Controller is the public surface.
func NewController(opts ...Option) (Controller, error) {
	cfg, err := buildConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("new controller: %w", err)
	}

	rt := cfg.runtime
	if rt == nil {
		rt = container.New("database", cfg.DatabaseName)
	}
	return &controllerWrapper{ctl: core.NewController(cfg.toCoreConfig(), rt, cfg.allocator)}, nil
}

// StopAll stops the given controllers concurrently and returns every error,
// joined. Controllers that are not running are skipped.
func StopAll(ctx context.Context, ctls ...Controller) error {
	errs := make([]error, len(ctls))
	var g errgroup.Group
	for i, c := range ctls {
		if c == nil || c.State() != StateRunning {
			continue
		}
		g.Go(func() error {
			if err := c.Stop(ctx); err != nil {
				errs[i] = fmt.Errorf("stop %s: %w", c.DatabaseName(), err)
			}
			return nil
		})
	}
	// errgroup always returns nil here since goroutines always return nil.
	_ = g.Wait()
	return errors.Join(errs...)
}
