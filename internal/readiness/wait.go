// Package readiness polls a condition until it holds or a deadline passes.
package readiness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/giantswarm/adbenv/internal/sentinel"
	"k8s.io/apimachinery/pkg/util/wait"
)

// ErrIntervalNotPositive indicates a non-positive poll interval.
const ErrIntervalNotPositive = sentinel.Error("interval must be positive")

// ErrTimeoutNotPositive indicates a non-positive timeout.
const ErrTimeoutNotPositive = sentinel.Error("timeout must be positive")

// Check reports whether the awaited condition holds. The attempt number is
// 1-based. A non-nil error aborts polling.
type Check func(ctx context.Context, attempt int) (done bool, err error)

// Config configures Until.
type Config struct {
	Interval time.Duration
	Timeout  time.Duration
	Name     string       // for logs and errors, e.g. "instance teardown"
	Logger   *slog.Logger // optional, defaults to slog.Default()
}

// Until calls check every Interval until it returns true, returns an error,
// or Timeout elapses. The first check runs immediately.
func Until(ctx context.Context, cfg Config, check Check) error {
	if cfg.Name == "" {
		return errors.New("poll: name must not be empty")
	}
	if cfg.Interval <= 0 {
		return fmt.Errorf("poll %s: %w", cfg.Name, ErrIntervalNotPositive)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("poll %s: %w", cfg.Name, ErrTimeoutNotPositive)
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	// PollUntilContextTimeout runs the condition sequentially, so attempt
	// needs no synchronization.
	attempt := 0
	if err := wait.PollUntilContextTimeout(ctx, cfg.Interval, cfg.Timeout, true,
		func(pollCtx context.Context) (bool, error) {
			attempt++
			done, err := check(pollCtx, attempt)
			if err != nil {
				return false, err
			}
			if done {
				log.Debug("poll succeeded", "name", cfg.Name, "attempt", attempt)
			}
			return done, nil
		}); err != nil {
		return fmt.Errorf("wait for %s: %w", cfg.Name, err)
	}
	return nil
}
