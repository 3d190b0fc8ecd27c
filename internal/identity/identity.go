// Package identity allocates database user identifiers that stay unique across
// concurrently running test processes and across callers within one process.
//
// Every process draws one random token at first use. The token is folded and
// encoded into a short process identity; callers combine it with an isolation
// key of their choosing (a test name, a run token) and a process-wide sequence
// number to form a unique user ID:
//
//	<identity>_<isolation key>_<sequence>
package identity

import (
	"encoding/binary"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// alphabet is the symbol set of the identity encoding. Database identifiers
// are case-insensitive, so only upper-case letters are used.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_"

// Length is the number of characters in an encoded identity.
const Length = 10

// Encode folds the 128-bit token into 64 bits (high half XOR low half) and
// encodes the signed result with alphabet. The result is left-padded with
// '0' and truncated to its Length most significant symbols.
func Encode(token uuid.UUID) string {
	v := int64(binary.BigEndian.Uint64(token[:8]) ^ binary.BigEndian.Uint64(token[8:])) //nolint:gosec // G115: reinterpreting bits is intended

	base := int64(len(alphabet))
	var digits []byte
	for v != 0 {
		idx := v % base
		if idx < 0 {
			idx += base
		}
		digits = append(digits, alphabet[idx])
		v /= base
	}
	for len(digits) < Length {
		digits = append(digits, '0')
	}

	out := make([]byte, len(digits))
	for i, d := range digits {
		out[len(digits)-1-i] = d
	}
	return string(out[:Length])
}

// Allocator hands out memoized unique user IDs. It is safe for concurrent use.
//
// Sequence numbers start at 1, are never reused, and are shared by every
// caller of the same Allocator, so uniqueness holds across all controllers in
// a process as long as they share one (see Default).
type Allocator struct {
	identity string

	mu   sync.Mutex
	next uint64
	ids  map[string]string // user key -> unique user id
}

// New creates an Allocator whose identity is derived from token.
func New(token uuid.UUID) *Allocator {
	return &Allocator{
		identity: Encode(token),
		next:     1,
		ids:      make(map[string]string),
	}
}

// Identity returns the encoded process identity. It never changes.
func (a *Allocator) Identity() string {
	return a.identity
}

// UserKey returns identity + "_" + isolationKey.
func (a *Allocator) UserKey(isolationKey string) string {
	return a.identity + "_" + isolationKey
}

// UniqueUserID returns the unique user ID for isolationKey, allocating a new
// sequence number on the first call and returning the cached value after that.
func (a *Allocator) UniqueUserID(isolationKey string) string {
	userKey := a.UserKey(isolationKey)

	a.mu.Lock()
	defer a.mu.Unlock()

	if id, ok := a.ids[userKey]; ok {
		return id
	}
	id := userKey + "_" + strconv.FormatUint(a.next, 10)
	a.next++
	a.ids[userKey] = id
	return id
}

// Release forgets the memoized ID for isolationKey. The sequence number is not
// returned: the next UniqueUserID call for the same key gets a new one.
func (a *Allocator) Release(isolationKey string) {
	userKey := a.UserKey(isolationKey)

	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.ids, userKey)
}

// Reset clears all memoized IDs and restarts the sequence at 1. The identity
// is kept. Only tests should call it; in production it would allow a sequence
// number to be handed out twice.
func (a *Allocator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.next = 1
	clear(a.ids)
}
