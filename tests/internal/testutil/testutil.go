//go:build integration

// Package testutil provides shared helpers for integration test packages.
package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/giantswarm/adbenv"
)

// SetupTestLogging routes slog and adbenv logs to stderr at the level named
// by ADBENV_LOG_LEVEL (default INFO).
func SetupTestLogging() {
	levelStr := os.Getenv("ADBENV_LOG_LEVEL")
	if levelStr == "" {
		levelStr = "INFO"
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))

	adbenv.SetLogger(slog.Default().With("component", "adbenv"))
}

// CredentialsFile returns ADBENV_CREDENTIALS, or the default OCI location.
func CredentialsFile() string {
	if path := os.Getenv("ADBENV_CREDENTIALS"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, adbenv.DefaultCredentialsFile)
}

// RequireEnvironmentOrExit exits the process when Docker or the OCI
// credentials file is unavailable. Used in TestMain, where *testing.T is not
// available. Exits 0: missing cloud credentials is an expected setup on
// contributor machines.
func RequireEnvironmentOrExit() {
	if _, err := exec.LookPath("docker"); err != nil {
		fmt.Fprintln(os.Stderr, "docker not found in PATH; skipping integration tests")
		os.Exit(0)
	}
	if _, err := os.Stat(CredentialsFile()); err != nil {
		fmt.Fprintf(os.Stderr, "OCI credentials file not available (%v); set ADBENV_CREDENTIALS\n", err)
		os.Exit(0)
	}
}

// RunTestMain runs all tests and stops the given controllers afterwards, also
// when the run is interrupted. Returns the exit code.
func RunTestMain(m *testing.M, ctls ...adbenv.Controller) int {
	sigCh := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			signal.Stop(sigCh) // Restore default handler so a second signal force-kills
			fmt.Fprintf(os.Stderr, "\nReceived %s, stopping instances...\n", sig)
			if err := adbenv.StopAll(context.Background(), ctls...); err != nil {
				fmt.Fprintf(os.Stderr, "Stop error: %v\n", err)
			}
			os.Exit(1)
		case <-done:
			return
		}
	}()

	code := m.Run()

	signal.Stop(sigCh)
	close(done)
	if err := adbenv.StopAll(context.Background(), ctls...); err != nil {
		fmt.Fprintf(os.Stderr, "Stop error: %v\n", err)
	}
	return code
}
