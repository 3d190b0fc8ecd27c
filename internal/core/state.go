package core

import "fmt"

// State is a Controller lifecycle state. Transitions only move forward:
//
//	Unconfigured -> Configuring -> Starting -> Running -> Stopping -> Stopped
//
// A failed Start falls back to Configuring so it can be attempted again.
type State uint32

const (
	StateUnconfigured State = iota
	StateConfiguring
	StateStarting
	StateRunning
	StateStopping
	StateStopped
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "Unconfigured"
	case StateConfiguring:
		return "Configuring"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateStopped:
		return "Stopped"
	default:
		return fmt.Sprintf("State(%d)", uint32(s))
	}
}
