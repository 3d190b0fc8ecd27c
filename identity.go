package adbenv

import (
	"github.com/giantswarm/adbenv/internal/identity"
	"github.com/google/uuid"
)

// NewAllocator returns an allocator with a fresh random process identity,
// independent of the process-wide one. Useful to keep parallel tests of
// scoped users from observing each other's sequence numbers.
func NewAllocator() *Allocator {
	return identity.New(uuid.New())
}

// ProcessIdentity returns the 10-character identity embedded in every scoped
// user created by this process through the process-wide allocator.
func ProcessIdentity() string {
	return identity.Default().Identity()
}
