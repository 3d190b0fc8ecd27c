package identity

import (
	"sync"

	"github.com/google/uuid"
)

var (
	defaultMu    sync.Mutex
	defaultAlloc *Allocator
)

// Default returns the process-wide Allocator, creating it from a random token
// on first use.
func Default() *Allocator {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultAlloc == nil {
		defaultAlloc = New(uuid.New())
	}
	return defaultAlloc
}
