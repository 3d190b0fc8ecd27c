package adbenv

import (
	"errors"
	"time"

	"github.com/giantswarm/adbenv/internal/identity"
)

// ConfigSnapshot holds a copy of controllerConfig fields for test assertions.
// Exported only via export_test.go so that the _test package can verify
// option closures actually mutate the config without accessing internals.
type ConfigSnapshot struct {
	DatabaseName     string
	Username         string
	UsernamePrefix   string
	Password         string
	AdminPassword    string
	WorkloadType     string
	Profile          string
	FreeTier         bool
	Reuse            bool
	IsolationKey     string
	CredentialsFile  string
	DescriptorDir    string
	Image            string
	PublicIP         string
	ReadyTimeout     time.Duration
	ConnectTimeout   time.Duration
	TerminationGrace time.Duration
	JournalPath      string
	HasRuntime       bool
	HasAllocator     bool
}

// ApplyOptionsForTesting creates a default controllerConfig, applies the given
// options and returns a snapshot of the result together with the joined
// option errors. The assembled config is not validated.
func ApplyOptionsForTesting(opts ...Option) (ConfigSnapshot, error) {
	cfg := defaultControllerConfig()
	var errs []error
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			errs = append(errs, err)
		}
	}

	return ConfigSnapshot{
		DatabaseName:     cfg.DatabaseName,
		Username:         cfg.Username,
		UsernamePrefix:   cfg.UsernamePrefix,
		Password:         cfg.Password,
		AdminPassword:    cfg.AdminPassword,
		WorkloadType:     cfg.WorkloadType,
		Profile:          cfg.Profile,
		FreeTier:         cfg.FreeTier,
		Reuse:            cfg.Reuse,
		IsolationKey:     cfg.IsolationKey,
		CredentialsFile:  cfg.CredentialsFile,
		DescriptorDir:    cfg.DescriptorDir,
		Image:            cfg.Image,
		PublicIP:         cfg.PublicIP,
		ReadyTimeout:     cfg.ReadyTimeout,
		ConnectTimeout:   cfg.ConnectTimeout,
		TerminationGrace: cfg.TerminationGrace,
		JournalPath:      cfg.JournalPath,
		HasRuntime:       cfg.runtime != nil,
		HasAllocator:     cfg.allocator != nil,
	}, errors.Join(errs...)
}

// ResetProcessAllocatorForTesting forgets every scoped user id handed out by
// the process-wide allocator and restarts its sequence.
func ResetProcessAllocatorForTesting() { identity.Default().Reset() }
