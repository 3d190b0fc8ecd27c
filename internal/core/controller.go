package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/giantswarm/adbenv/internal/descriptor"
	"github.com/giantswarm/adbenv/internal/filelock"
	"github.com/giantswarm/adbenv/internal/fileutil"
	"github.com/giantswarm/adbenv/internal/identity"
	"github.com/giantswarm/adbenv/internal/journal"
	"github.com/giantswarm/adbenv/internal/ociconfig"
	"github.com/giantswarm/adbenv/internal/readiness"
)

// Connection constants handed to JDBC clients.
const (
	DriverClassName = "oracle.jdbc.OracleDriver"
	TestQuery       = "SELECT 1 FROM DUAL"
	jdbcURLPrefix   = "jdbc:oracle:thin:@"
	jdbcURLOptions  = "?oracle.jdbc.fanEnabled=false&oracle.jdbc.thinForceDNSLoadBalancing=true"
)

// sharedDatabaseUser is passed as USER when users are provisioned per
// isolation key after startup rather than by the instance itself.
const sharedDatabaseUser = "sharedDatabase"

// teardownPollInterval is how often Stop checks whether the instance exited
// after SIGTERM.
const teardownPollInterval = 500 * time.Millisecond

// instanceNamePrefix namespaces runtime instance names.
const instanceNamePrefix = "adbenv-"

var isolationSeq atomic.Uint64

// NextIsolationKey returns a process-unique isolation key for controllers
// that were not given one.
func NextIsolationKey() string {
	return "c" + strconv.FormatUint(isolationSeq.Add(1), 10)
}

// InstanceName returns the runtime name of the instance backing databaseName.
func InstanceName(databaseName string) string {
	return instanceNamePrefix + databaseName
}

// Controller drives one instance through its lifecycle and provisions the
// scoped user of its isolation key.
//
// Synchronization strategy:
//   - state and loader are atomics so accessors never block behind a slow
//     Start or Stop.
//   - spec is written by Configure and read by Start, both under mu.
type Controller struct {
	cfg     ControllerConfig
	rt      Runtime
	alloc   *identity.Allocator
	journal *journal.Journal // nil when disabled

	state  atomic.Uint32
	loader atomic.Pointer[descriptor.Loader]

	// mu serializes Configure, Start and Stop.
	mu   sync.Mutex
	spec InstanceSpec

	log *slog.Logger
}

// NewController creates a Controller in the Unconfigured state. A nil alloc
// selects identity.Default().
// Panics if rt is nil or cfg fails validation (see ControllerConfig.Validate).
// These are programmer errors; the public constructor validates first.
func NewController(cfg ControllerConfig, rt Runtime, alloc *identity.Allocator) *Controller {
	if rt == nil {
		panic("adbenv: runtime must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		panic("adbenv: invalid controller config: " + err.Error())
	}
	if alloc == nil {
		alloc = identity.Default()
	}
	c := &Controller{
		cfg:   cfg,
		rt:    rt,
		alloc: alloc,
		log:   Logger().With("database", cfg.DatabaseName, "isolation_key", cfg.IsolationKey),
	}
	if cfg.JournalPath != "" {
		c.journal = journal.New(cfg.JournalPath)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

func (c *Controller) setState(s State) {
	prev := State(c.state.Swap(uint32(s)))
	c.log.Debug("state change", "from", prev, "to", s)
}

// Config returns the controller configuration.
func (c *Controller) Config() ControllerConfig {
	return c.cfg
}

// Configure resolves the private key from the credentials file, prepares the
// descriptor file and builds the instance spec. It is idempotent once
// configured and is called by Start when needed.
func (c *Controller) Configure(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.configureLocked()
}

func (c *Controller) configureLocked() error {
	switch s := c.State(); s {
	case StateUnconfigured:
	case StateConfiguring:
		return nil
	default:
		return fmt.Errorf("%w: configure in state %s", ErrInvalidTransition, s)
	}

	keyFile, err := ociconfig.KeyFilePath(c.cfg.CredentialsFile, c.cfg.Profile)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	exists, err := fileutil.RegularFileExists(keyFile)
	if err != nil {
		return fmt.Errorf("%w: check private key %s: %w", ErrConfiguration, keyFile, err)
	}
	if !exists {
		return fmt.Errorf("%w: private key (%s) %s not found", ErrConfiguration, ociconfig.KeyFileKey, keyFile)
	}

	descPath := descriptor.Path(c.cfg.DescriptorDir, c.cfg.DatabaseName)
	if err := descriptor.Prepare(descPath); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	c.spec = c.instanceSpec(keyFile, descPath)
	c.loader.Store(descriptor.NewLoader(descPath))
	c.setState(StateConfiguring)
	c.log.Info("configured", "profile", c.cfg.Profile, "descriptor", descPath)
	return nil
}

func (c *Controller) instanceSpec(keyFile, descPath string) InstanceSpec {
	user := sharedDatabaseUser
	if !c.cfg.ScopedUsers() {
		user = c.cfg.Username
	}
	env := map[string]string{
		"REUSE":          strconv.FormatBool(c.cfg.Reuse),
		"PROFILE_NAME":   c.cfg.Profile,
		"WORKLOAD_TYPE":  c.cfg.WorkloadType,
		"DATABASE_NAME":  c.cfg.DatabaseName,
		"ADMIN_PASSWORD": c.cfg.AdminPassword,
		"USER_PASSWORD":  c.cfg.Password,
		"FREE_TIERS":     strconv.FormatBool(c.cfg.FreeTier),
		"USER":           user,
	}
	if c.cfg.PublicIP != "" {
		env["IP_ADDRESS"] = c.cfg.PublicIP
	}
	return InstanceSpec{
		Name:  InstanceName(c.cfg.DatabaseName),
		Image: c.cfg.Image,
		Env:   env,
		Binds: []Bind{
			{HostPath: descPath, ContainerPath: DescriptorMountPath},
			{HostPath: keyFile, ContainerPath: KeyFileMountPath, ReadOnly: true},
			{HostPath: c.cfg.CredentialsFile, ContainerPath: CredentialsMountPath, ReadOnly: true},
		},
		Reuse:        c.cfg.Reuse,
		ReadyPattern: ReadyPattern,
		ReadyTimeout: c.cfg.ReadyTimeout,
	}
}

// Spec returns the instance spec built by Configure. The zero value is
// returned before Configure.
func (c *Controller) Spec() InstanceSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spec
}

// Start configures the controller if needed, launches the instance and waits
// for it to become ready. In scoped-user mode the user of the isolation key
// is then created; a failure to do so is logged, not returned.
//
// Starts of the same instance name are serialized across processes through
// a lock file in the descriptor directory.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch s := c.State(); s {
	case StateUnconfigured:
		if err := c.configureLocked(); err != nil {
			return err
		}
	case StateConfiguring:
	default:
		return fmt.Errorf("%w: start in state %s", ErrInvalidTransition, s)
	}

	c.setState(StateStarting)
	if err := c.launch(ctx); err != nil {
		c.setState(StateConfiguring)
		return err
	}
	c.setState(StateRunning)
	c.log.Info("instance ready", "instance", c.spec.Name, "reuse", c.cfg.Reuse)

	if c.cfg.ScopedUsers() {
		c.provision(ctx, createUser)
	}
	return nil
}

func (c *Controller) launch(ctx context.Context) error {
	lock, err := filelock.Acquire(ctx, filelock.Path(c.cfg.DescriptorDir, c.spec.Name), c.log)
	if err != nil {
		return fmt.Errorf("lock instance %s: %w", c.spec.Name, err)
	}
	defer lock.Release()

	// The runtime bounds only the readiness wait by spec.ReadyTimeout; image
	// pull and creation run under ctx alone.
	started := time.Now()
	err = c.rt.Start(ctx, c.spec)
	if err == nil {
		c.log.Debug("instance started", "elapsed", time.Since(started))
		return nil
	}
	if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s after %s: %w", ErrStartupTimeout, c.spec.Name, c.cfg.ReadyTimeout, err)
	}
	return fmt.Errorf("start instance %s: %w", c.spec.Name, err)
}

// Stop ends the controller's lifecycle:
//   - not reusable: SIGTERM so the instance tears down its cloud resources,
//     wait up to the termination grace for it to exit, then remove it;
//   - reusable with scoped users: drop the user of the isolation key and
//     release its identity so the next Start gets a fresh user;
//   - reusable with a static user: nothing, the instance keeps running.
//
// Only the final removal can fail Stop. Cancelling ctx shortens the grace
// wait but never skips removal.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s := c.State(); s != StateRunning {
		return fmt.Errorf("%w: stop in state %s", ErrInvalidTransition, s)
	}
	c.setState(StateStopping)

	var err error
	switch {
	case !c.cfg.Reuse:
		err = c.terminate(ctx)
	case c.cfg.ScopedUsers():
		c.provision(ctx, deleteUser)
		c.alloc.Release(c.cfg.IsolationKey)
	default:
		c.log.Debug("instance kept running for reuse", "instance", c.spec.Name)
	}

	c.setState(StateStopped)
	return err
}

func (c *Controller) terminate(ctx context.Context) error {
	if err := c.rt.Kill(ctx, "SIGTERM"); err != nil {
		c.log.Warn("termination signal not delivered", "error", err)
	}
	c.awaitTeardown(ctx)

	if err := c.rt.Terminate(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("terminate instance %s: %w", c.spec.Name, err)
	}
	c.log.Info("instance terminated", "instance", c.spec.Name)

	if c.cfg.ScopedUsers() {
		c.journalDeleted(ctx, c.Username())
	}
	return nil
}

// awaitTeardown waits until the instance exits or the grace period passes.
// A runtime that cannot report liveness makes this a fixed delay.
func (c *Controller) awaitTeardown(ctx context.Context) {
	interval := min(teardownPollInterval, c.cfg.TerminationGrace)
	err := readiness.Until(ctx, readiness.Config{
		Interval: interval,
		Timeout:  c.cfg.TerminationGrace,
		Name:     "instance teardown",
		Logger:   c.log,
	}, func(pollCtx context.Context, _ int) (bool, error) {
		running, err := c.rt.Running(pollCtx)
		if err != nil {
			c.log.Debug("instance liveness unknown", "error", err)
			return false, nil
		}
		return !running, nil
	})
	if err != nil {
		c.log.Debug("teardown not confirmed, removing instance", "grace", c.cfg.TerminationGrace, "error", err)
	}
}

// Username returns the application user: the static username, or in
// scoped-user mode the prefix followed by the unique user id of the
// isolation key.
func (c *Controller) Username() string {
	if !c.cfg.ScopedUsers() {
		return c.cfg.Username
	}
	return c.cfg.UsernamePrefix + c.alloc.UniqueUserID(c.cfg.IsolationKey)
}

// JDBCURL returns the JDBC URL from the instance descriptor. The descriptor
// is written by the instance, so this fails until the instance is ready.
func (c *Controller) JDBCURL() (string, error) {
	ic, err := c.instanceConfig()
	if err != nil {
		return "", err
	}
	return jdbcURLPrefix + ic.ConnectionString + jdbcURLOptions, nil
}

// WebConsoleURL returns the SQL Developer Web URL from the descriptor.
func (c *Controller) WebConsoleURL() (string, error) {
	ic, err := c.instanceConfig()
	if err != nil {
		return "", err
	}
	return ic.WebConsoleURL, nil
}

func (c *Controller) instanceConfig() (descriptor.InstanceConfig, error) {
	l := c.loader.Load()
	if l == nil {
		return descriptor.InstanceConfig{}, ErrNotConfigured
	}
	return l.Get()
}
