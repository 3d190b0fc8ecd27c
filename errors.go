package adbenv

import "github.com/giantswarm/adbenv/internal/core"

// Sentinel errors for error inspection with errors.Is.
// These are immutable constants safe for use in wrapped error chain comparison.
const (
	// ErrInvalidArgument is wrapped by every rejected option. NewController
	// reports all rejected options at once.
	ErrInvalidArgument = core.ErrInvalidArgument

	// ErrConfiguration is returned by Configure and Start when the
	// credentials file, its key file or the descriptor file cannot be used.
	// It wraps the underlying cause (e.g. ErrProfileNotFound, fs.ErrNotExist).
	ErrConfiguration = core.ErrConfiguration

	// ErrStartupTimeout is returned by Start when the instance is not ready
	// within the ready timeout.
	ErrStartupTimeout = core.ErrStartupTimeout

	// ErrNotConfigured is returned by JDBCURL and WebConsoleURL before
	// Configure or Start.
	ErrNotConfigured = core.ErrNotConfigured

	// ErrInvalidTransition is returned by Start on a started controller and
	// by Stop on a controller that is not running.
	ErrInvalidTransition = core.ErrInvalidTransition

	// ErrMalformedConfig is wrapped when the credentials file is not valid
	// sectioned key=value text.
	ErrMalformedConfig = core.ErrMalformedConfig

	// ErrProfileNotFound is wrapped when the selected profile is absent from
	// the credentials file.
	ErrProfileNotFound = core.ErrProfileNotFound

	// ErrKeyFileNotFound is wrapped when the profile has no key_file entry.
	ErrKeyFileNotFound = core.ErrKeyFileNotFound

	// ErrDescriptorRead is returned by the connection accessors while the
	// instance has not written a usable descriptor yet.
	ErrDescriptorRead = core.ErrDescriptorRead
)
