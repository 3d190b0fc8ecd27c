package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giantswarm/adbenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// instanceFile is the YAML form of the controller options. Zero values keep
// the library defaults.
type instanceFile struct {
	DatabaseName     string        `yaml:"databaseName"`
	Username         string        `yaml:"username"`
	UsernamePrefix   string        `yaml:"usernamePrefix"`
	Password         string        `yaml:"password"`
	AdminPassword    string        `yaml:"adminPassword"`
	WorkloadType     string        `yaml:"workloadType"`
	FreeTier         *bool         `yaml:"freeTier"`
	Reuse            bool          `yaml:"reuse"`
	IsolationKey     string        `yaml:"isolationKey"`
	DescriptorDir    string        `yaml:"descriptorDir"`
	Image            string        `yaml:"image"`
	PublicIP         string        `yaml:"publicIP"`
	ReadyTimeout     time.Duration `yaml:"readyTimeout"`
	TerminationGrace time.Duration `yaml:"terminationGrace"`
	Journal          string        `yaml:"journal"`
}

func loadInstanceFile(path string) (instanceFile, error) {
	var f instanceFile
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is a CLI argument
	if err != nil {
		return f, fmt.Errorf("read instance file: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse instance file %s: %w", path, err)
	}
	return f, nil
}

// options turns the file into controller options. Only fields that are set
// produce an option, so validation errors name what the file actually says.
func (f instanceFile) options() []adbenv.Option {
	var opts []adbenv.Option
	add := func(set bool, opt adbenv.Option) {
		if set {
			opts = append(opts, opt)
		}
	}
	add(f.DatabaseName != "", adbenv.WithDatabaseName(f.DatabaseName))
	add(f.Username != "", adbenv.WithUsername(f.Username))
	add(f.UsernamePrefix != "", adbenv.WithUsernamePrefix(f.UsernamePrefix))
	add(f.Password != "", adbenv.WithPassword(f.Password))
	add(f.AdminPassword != "", adbenv.WithAdminPassword(f.AdminPassword))
	add(f.WorkloadType != "", adbenv.WithWorkloadType(f.WorkloadType))
	add(f.FreeTier != nil, adbenv.WithFreeTier(f.FreeTier != nil && *f.FreeTier))
	add(f.Reuse, adbenv.WithReuse(true))
	add(f.IsolationKey != "", adbenv.WithIsolationKey(f.IsolationKey))
	add(f.DescriptorDir != "", adbenv.WithDescriptorDir(f.DescriptorDir))
	add(f.Image != "", adbenv.WithImage(f.Image))
	add(f.PublicIP != "", adbenv.WithPublicIP(f.PublicIP))
	add(f.ReadyTimeout != 0, adbenv.WithReadyTimeout(f.ReadyTimeout))
	add(f.TerminationGrace != 0, adbenv.WithTerminationGrace(f.TerminationGrace))
	add(f.Journal != "", adbenv.WithJournal(f.Journal))
	return opts
}

// connectionInfo is printed once the instance is ready.
type connectionInfo struct {
	DatabaseName    string `yaml:"databaseName"`
	Username        string `yaml:"username"`
	JDBCURL         string `yaml:"jdbcUrl"`
	WebConsoleURL   string `yaml:"webConsoleUrl,omitempty"`
	DriverClassName string `yaml:"driverClassName"`
	TestQuery       string `yaml:"testQuery"`
	Reusable        bool   `yaml:"reusable"`
}

func describe(ctl adbenv.Controller) (connectionInfo, error) {
	url, err := ctl.JDBCURL()
	if err != nil {
		return connectionInfo{}, err
	}
	web, err := ctl.WebConsoleURL()
	if err != nil {
		return connectionInfo{}, err
	}
	return connectionInfo{
		DatabaseName:    ctl.DatabaseName(),
		Username:        ctl.Username(),
		JDBCURL:         url,
		WebConsoleURL:   web,
		DriverClassName: ctl.DriverClassName(),
		TestQuery:       ctl.TestQueryString(),
		Reusable:        ctl.Reusable(),
	}, nil
}

// stopTimeout bounds Stop once the run ends.
const stopTimeout = 2 * time.Minute

func newRunCmd(g *globalFlags) *cobra.Command {
	var (
		file   string
		detach bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start an instance and keep it until interrupted",
		Long: "Start an instance described by a YAML file, print its connection details as YAML, " +
			"and stop it on SIGINT or SIGTERM. With --detach a reusable instance is left running.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInstance(cmd, g, file, detach)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "instance YAML file")
	cmd.Flags().BoolVar(&detach, "detach", false, "leave a reusable instance running and exit")
	return cmd
}

func runInstance(cmd *cobra.Command, g *globalFlags, file string, detach bool) (err error) {
	var f instanceFile
	if file != "" {
		if f, err = loadInstanceFile(file); err != nil {
			return err
		}
	}
	if detach && !f.Reuse {
		return fmt.Errorf("--detach requires reuse: true")
	}

	opts := append([]adbenv.Option{
		adbenv.WithCredentialsFile(g.credentials),
		adbenv.WithProfile(g.profile),
	}, f.options()...)
	if g.runtime != nil {
		opts = append(opts, adbenv.WithRuntime(g.runtime))
	}
	ctl, err := adbenv.NewController(opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ctl.Start(ctx); err != nil {
		return err
	}
	if !detach {
		// Stop runs on every exit after a successful start, including a
		// failure to describe the instance.
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
			defer cancel()
			if stopErr := ctl.Stop(stopCtx); stopErr != nil {
				err = errors.Join(err, fmt.Errorf("stop instance: %w", stopErr))
			}
		}()
	}

	info, err := describe(ctl)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	if err := enc.Encode(info); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if detach {
		return nil
	}

	<-ctx.Done()
	return nil
}
