// Package filelock serializes work on a named database instance across
// processes. Test binaries that run in parallel (go test ./... builds one per
// package) may try to start or reuse the same instance at the same time; the
// lock makes the start-or-attach decision happen one process at a time.
package filelock

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/giantswarm/adbenv/internal/fileutil"
	"github.com/gofrs/flock"
)

// retryInterval is the delay between lock attempts while another process
// holds the lock.
const retryInterval = 100 * time.Millisecond

// Lock is a held cross-process lock.
type Lock struct {
	fl  *flock.Flock
	log *slog.Logger
}

// Path returns the lock file location for an instance name inside dir.
func Path(dir, name string) string {
	return filepath.Join(dir, name+".lock")
}

// Acquire blocks until the exclusive lock on path is held or ctx is done.
func Acquire(ctx context.Context, path string, log *slog.Logger) (*Lock, error) {
	if err := fileutil.EnsureDirForFile(path); err != nil {
		return nil, err
	}

	fl := flock.New(path)
	locked, err := fl.TryLockContext(ctx, retryInterval)
	if err != nil {
		return nil, fmt.Errorf("acquiring file lock %s: %w", path, err)
	}
	if !locked {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquiring file lock %s: %w", path, ctx.Err())
		}
		return nil, fmt.Errorf("acquiring file lock %s: lock not acquired", path)
	}

	if log == nil {
		log = slog.Default()
	}
	return &Lock{fl: fl, log: log}, nil
}

// Release unlocks and closes the lock file. The file stays on disk: removing
// it could race with another process that has just opened it.
func (l *Lock) Release() {
	if l == nil || l.fl == nil {
		return
	}
	if err := l.fl.Close(); err != nil {
		l.log.Debug("failed to release file lock", "path", l.fl.Path(), "error", err)
	}
	l.fl = nil
}
