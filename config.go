package adbenv

import (
	"github.com/giantswarm/adbenv/internal/core"
	"github.com/giantswarm/adbenv/internal/identity"
)

// controllerConfig holds configuration for a Controller. This unexported type
// wraps core.ControllerConfig via embedding, keeping internal/core types out
// of the public API signature while avoiding field-by-field duplication.
type controllerConfig struct {
	core.ControllerConfig

	runtime   core.Runtime
	allocator *identity.Allocator
}

// toCoreConfig returns the embedded core.ControllerConfig.
func (c controllerConfig) toCoreConfig() core.ControllerConfig {
	return c.ControllerConfig
}
