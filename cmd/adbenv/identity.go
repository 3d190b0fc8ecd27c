package main

import (
	"fmt"

	"github.com/giantswarm/adbenv"
	"github.com/giantswarm/adbenv/internal/core"
	"github.com/giantswarm/adbenv/internal/identity"
	"github.com/spf13/cobra"
)

func newIdentityCmd() *cobra.Command {
	var prefix, key string

	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Print the process identity used in scoped user names",
		Long: "Print the 10-character identity of this process. With --key, also print the scoped " +
			"user name the first controller of that isolation key would get.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("prefix") {
				if err := core.ValidateUsernamePrefix(prefix); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, adbenv.ProcessIdentity())
			if key == "" {
				return nil
			}
			fmt.Fprintln(out, prefix+identity.Default().UniqueUserID(key))
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "username prefix")
	cmd.Flags().StringVar(&key, "key", "", "isolation key")
	return cmd
}
