package core

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Compile-time check: fakeRuntime must satisfy Runtime.
var _ Runtime = (*fakeRuntime)(nil)

// fakeRuntime records every call and returns scripted results.
type fakeRuntime struct {
	mu sync.Mutex

	// startBlocks makes Start never see the ready line, so it waits out
	// spec.ReadyTimeout or ctx.
	startBlocks bool
	// pullDelay is spent before the readiness wait, bounded by ctx only.
	pullDelay    time.Duration
	startErr     error
	execErr      error
	execExitCode int
	killErr      error
	terminateErr error
	// running scripts Running per 1-based call. Nil reports "not running".
	running func(call int) (bool, error)

	starts       []InstanceSpec
	execs        [][]string
	kills        []string
	runningCalls int
	terminates   int
}

func (f *fakeRuntime) Start(ctx context.Context, spec InstanceSpec) error {
	f.mu.Lock()
	f.starts = append(f.starts, spec)
	blocks, pull, err := f.startBlocks, f.pullDelay, f.startErr
	f.mu.Unlock()

	if pull > 0 {
		select {
		case <-time.After(pull):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if blocks {
		waitCtx, cancel := context.WithTimeout(ctx, spec.ReadyTimeout)
		defer cancel()
		<-waitCtx.Done()
		return waitCtx.Err()
	}
	return err
}

func (f *fakeRuntime) Exec(_ context.Context, cmd []string) (ExecResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execs = append(f.execs, slices.Clone(cmd))
	if f.execErr != nil {
		return ExecResult{}, f.execErr
	}
	return ExecResult{ExitCode: f.execExitCode, Output: []byte("done")}, nil
}

func (f *fakeRuntime) Kill(_ context.Context, signal string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kills = append(f.kills, signal)
	return f.killErr
}

func (f *fakeRuntime) Running(_ context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runningCalls++
	if f.running == nil {
		return false, nil
	}
	return f.running(f.runningCalls)
}

func (f *fakeRuntime) Terminate(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminates++
	return f.terminateErr
}

func (f *fakeRuntime) snapshot() fakeRuntime {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fakeRuntime{
		starts:       slices.Clone(f.starts),
		execs:        slices.Clone(f.execs),
		kills:        slices.Clone(f.kills),
		runningCalls: f.runningCalls,
		terminates:   f.terminates,
	}
}
