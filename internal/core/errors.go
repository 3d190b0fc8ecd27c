package core

import (
	"github.com/giantswarm/adbenv/internal/descriptor"
	"github.com/giantswarm/adbenv/internal/ociconfig"
	"github.com/giantswarm/adbenv/internal/sentinel"
)

// ErrInvalidArgument is wrapped by every rejected option value and every
// ControllerConfig.Validate violation. It is reported before any external
// command runs.
const ErrInvalidArgument = sentinel.Error("invalid argument")

// ErrConfiguration is returned by Configure when the credentials file, the
// profile's key file or the descriptor file cannot be used.
const ErrConfiguration = sentinel.Error("configuration error")

// ErrStartupTimeout is returned by Start when the instance does not report
// readiness within the ready timeout. Nothing is retried; callers may call
// Start again.
const ErrStartupTimeout = sentinel.Error("instance did not become ready in time")

// ErrNotConfigured is returned by connection accessors before Configure.
const ErrNotConfigured = sentinel.Error("controller not configured")

// ErrInvalidTransition is returned when Configure, Start or Stop is called in
// a state that does not allow it (Start twice, Stop before Start).
const ErrInvalidTransition = sentinel.Error("invalid lifecycle transition")

// Credentials file and descriptor errors are re-exported so the public API
// imports only from core.
const (
	ErrMalformedConfig = ociconfig.ErrMalformedConfig
	ErrProfileNotFound = ociconfig.ErrProfileNotFound
	ErrKeyFileNotFound = ociconfig.ErrKeyFileNotFound
	ErrDescriptorRead  = descriptor.ErrDescriptorRead
)
