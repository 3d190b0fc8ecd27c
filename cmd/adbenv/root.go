package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/giantswarm/adbenv"
	"github.com/spf13/cobra"
)

// logLevels maps --log-level values to slog levels.
var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// globalFlags are shared by all subcommands.
type globalFlags struct {
	logLevel    string
	credentials string
	profile     string

	// runtime replaces the container runtime of run when set.
	runtime adbenv.Runtime
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&globalFlags{})
}

func newRootCmdWith(g *globalFlags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "adbenv",
		Short:        "Autonomous Database test instances",
		Long:         "adbenv starts container-hosted Oracle Autonomous Database instances for tests and inspects their state.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initLogging(cmd, g.logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&g.credentials, "credentials", defaultCredentialsFile(), "OCI credentials file")
	rootCmd.PersistentFlags().StringVarP(&g.profile, "profile", "p", adbenv.DefaultProfile, "credentials file profile")

	rootCmd.AddCommand(newRunCmd(g))
	rootCmd.AddCommand(newKeyFileCmd(g))
	rootCmd.AddCommand(newIdentityCmd())
	rootCmd.AddCommand(newUsersCmd())
	return rootCmd
}

// initLogging routes library logs to stderr at the requested level.
func initLogging(cmd *cobra.Command, level string) error {
	lvl, ok := logLevels[strings.ToLower(level)]
	if !ok {
		return fmt.Errorf("unknown log level %q", level)
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl})
	adbenv.SetLogger(slog.New(handler).With("component", "adbenv"))
	return nil
}

func defaultCredentialsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, adbenv.DefaultCredentialsFile)
}
