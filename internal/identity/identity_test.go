package identity

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
)

// tokenFrom builds a token whose high and low halves are msb and lsb.
func tokenFrom(msb, lsb uint64) uuid.UUID {
	var u uuid.UUID
	binary.BigEndian.PutUint64(u[:8], msb)
	binary.BigEndian.PutUint64(u[8:], lsb)
	return u
}

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		token uuid.UUID
		want  string
	}{
		"zero":               {token: tokenFrom(0, 0), want: "0000000000"},
		"one":                {token: tokenFrom(0, 1), want: "0000000001"},
		"base":               {token: tokenFrom(0, 37), want: "0000000010"},
		"minus one":          {token: tokenFrom(0, ^uint64(0)), want: "000000000_"},
		"halves cancel":      {token: tokenFrom(42, 42), want: "0000000000"},
		"nine digits":        {token: tokenFrom(123456789, 0), want: "00001SWB9_"},
		"max int64 truncate": {token: tokenFrom(1<<63-1, 0), want: "1EV3XEWY4O"},
		"min int64 truncate": {token: tokenFrom(0, 1<<63), want: "_N6Y4N53XD"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := Encode(tc.token)
			if got != tc.want {
				t.Errorf("Encode() = %q, want %q", got, tc.want)
			}
			if len(got) != Length {
				t.Errorf("len(Encode()) = %d, want %d", len(got), Length)
			}
		})
	}
}

func TestEncode_Deterministic(t *testing.T) {
	t.Parallel()

	token := uuid.New()
	if a, b := Encode(token), Encode(token); a != b {
		t.Errorf("Encode() not deterministic: %q != %q", a, b)
	}
	if got := New(token).Identity(); got != Encode(token) {
		t.Errorf("Identity() = %q, want %q", got, Encode(token))
	}
}

func TestAllocator_UniqueUserID(t *testing.T) {
	t.Parallel()

	a := New(tokenFrom(0, 1))

	first := a.UniqueUserID("worker-a")
	if first != "0000000001_worker-a_1" {
		t.Errorf("first id = %q, want %q", first, "0000000001_worker-a_1")
	}
	if again := a.UniqueUserID("worker-a"); again != first {
		t.Errorf("repeated call = %q, want memoized %q", again, first)
	}

	second := a.UniqueUserID("worker-b")
	if second != "0000000001_worker-b_2" {
		t.Errorf("second id = %q, want %q", second, "0000000001_worker-b_2")
	}
}

func TestAllocator_ReleaseNeverReusesSequence(t *testing.T) {
	t.Parallel()

	a := New(tokenFrom(0, 1))

	before := a.UniqueUserID("k")
	a.Release("k")
	after := a.UniqueUserID("k")

	if before == after {
		t.Fatalf("id after release = %q, want a new one", after)
	}
	if suffix(t, after) <= suffix(t, before) {
		t.Errorf("sequence went from %d to %d, want strictly increasing", suffix(t, before), suffix(t, after))
	}

	// Releasing an unknown key is a no-op.
	a.Release("never-allocated")
	if got := a.UniqueUserID("k"); got != after {
		t.Errorf("UniqueUserID() = %q, want %q", got, after)
	}
}

func TestAllocator_SequentialMonotonic(t *testing.T) {
	t.Parallel()

	a := New(uuid.New())

	last := uint64(0)
	for i := range 50 {
		id := a.UniqueUserID(fmt.Sprintf("key-%d", i))
		n := suffix(t, id)
		if n <= last {
			t.Fatalf("allocation %d got sequence %d after %d", i, n, last)
		}
		last = n
	}
}

func TestAllocator_Concurrent(t *testing.T) {
	t.Parallel()

	a := New(uuid.New())

	const workers = 32
	const callsPerWorker = 20

	results := make([][]string, workers)
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("worker-%d", w)
			for range callsPerWorker {
				results[w] = append(results[w], a.UniqueUserID(key))
			}
		}()
	}
	wg.Wait()

	seen := make(map[string]int, workers)
	for w, ids := range results {
		for _, id := range ids[1:] {
			if id != ids[0] {
				t.Errorf("worker %d got %q then %q, want a stable id", w, ids[0], id)
			}
		}
		if other, dup := seen[ids[0]]; dup {
			t.Errorf("workers %d and %d share id %q", other, w, ids[0])
		}
		seen[ids[0]] = w
	}

	numbers := make(map[uint64]bool, workers)
	for id := range seen {
		numbers[suffix(t, id)] = true
	}
	for n := uint64(1); n <= workers; n++ {
		if !numbers[n] {
			t.Errorf("sequence number %d was never handed out", n)
		}
	}
}

func TestAllocator_Reset(t *testing.T) {
	t.Parallel()

	a := New(tokenFrom(0, 37))
	a.UniqueUserID("x")
	a.UniqueUserID("y")
	identity := a.Identity()

	a.Reset()

	if got := a.UniqueUserID("y"); got != "0000000010_y_1" {
		t.Errorf("UniqueUserID() after Reset = %q, want %q", got, "0000000010_y_1")
	}
	if a.Identity() != identity {
		t.Error("Reset must keep the identity")
	}
}

func TestDefault(t *testing.T) {
	// Not parallel: swaps the process-wide allocator.
	first := Default()
	if Default() != first {
		t.Fatal("Default() must return the same allocator")
	}

	defaultMu.Lock()
	defaultAlloc = nil
	defaultMu.Unlock()

	if Default() == first {
		t.Error("Default() after reset must build a new allocator")
	}
}

// suffix returns the trailing sequence number of a unique user id.
func suffix(t *testing.T, id string) uint64 {
	t.Helper()

	idx := strings.LastIndexByte(id, '_')
	if idx < 0 {
		t.Fatalf("id %q has no sequence suffix", id)
	}
	n, err := strconv.ParseUint(id[idx+1:], 10, 64)
	if err != nil {
		t.Fatalf("id %q: parse sequence: %v", id, err)
	}
	return n
}
