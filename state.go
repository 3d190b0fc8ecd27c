package adbenv

import "github.com/giantswarm/adbenv/internal/core"

// State is the lifecycle state of a Controller:
//
//	StateUnconfigured -> StateConfiguring -> StateStarting -> StateRunning -> StateStopping -> StateStopped
//
// A failed Start returns the controller to StateConfiguring.
type State = core.State

const (
	// StateUnconfigured is the state of a new controller.
	StateUnconfigured = core.StateUnconfigured

	// StateConfiguring means the credentials were resolved and the
	// descriptor file prepared; the instance has not been started.
	StateConfiguring = core.StateConfiguring

	// StateStarting covers the wait for the readiness log line.
	StateStarting = core.StateStarting

	// StateRunning means the instance reported readiness.
	StateRunning = core.StateRunning

	// StateStopping covers teardown or scoped user removal.
	StateStopping = core.StateStopping

	// StateStopped is terminal. A reusable instance keeps running after its
	// controller reaches it.
	StateStopped = core.StateStopped
)
