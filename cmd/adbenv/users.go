package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/giantswarm/adbenv/internal/journal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// pendingUser is the YAML form of a journal entry.
type pendingUser struct {
	Database  string    `yaml:"database"`
	Username  string    `yaml:"username"`
	Profile   string    `yaml:"profile"`
	CreatedAt time.Time `yaml:"createdAt"`
}

func newUsersCmd() *cobra.Command {
	var (
		path     string
		database string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List scoped users that were created but never dropped",
		Long: "Read the provisioning journal written by controllers using a journal and list " +
			"the scoped users still present in their databases, oldest first.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := journal.New(path).Pending(cmd.Context(), database)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "table":
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "DATABASE\tUSERNAME\tPROFILE\tCREATED")
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Database, e.Username, e.Profile, e.CreatedAt.UTC().Format(time.RFC3339))
				}
				return tw.Flush()
			case "yaml":
				users := make([]pendingUser, 0, len(entries))
				for _, e := range entries {
					users = append(users, pendingUser{
						Database:  e.Database,
						Username:  e.Username,
						Profile:   e.Profile,
						CreatedAt: e.CreatedAt.UTC(),
					})
				}
				enc := yaml.NewEncoder(out)
				if err := enc.Encode(users); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("unknown output format %q", format)
			}
		},
	}

	cmd.Flags().StringVar(&path, "journal", "", "journal file (required)")
	cmd.Flags().StringVar(&database, "database", "", "only list users of this database")
	cmd.Flags().StringVarP(&format, "output", "o", "table", "output format: table|yaml")
	_ = cmd.MarkFlagRequired("journal")
	return cmd
}
