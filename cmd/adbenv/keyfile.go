package main

import (
	"fmt"
	"strings"

	"github.com/giantswarm/adbenv/internal/ociconfig"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// encodings are the credentials file encodings --encoding accepts. A nil
// value selects UTF-8 with an optional byte order mark.
var encodings = map[string]encoding.Encoding{
	"utf-8":        nil,
	"utf-16":       unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM),
	"latin1":       charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	enc, ok := encodings[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

func newKeyFileCmd(g *globalFlags) *cobra.Command {
	var (
		encName string
		list    bool
	)

	cmd := &cobra.Command{
		Use:   "keyfile",
		Short: "Print the private key path of a credentials profile",
		Long: "Parse the OCI credentials file and print the key_file entry of the selected profile, " +
			"or with --list the names of all profiles.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc, err := lookupEncoding(encName)
			if err != nil {
				return err
			}
			cfg, err := ociconfig.ParseFile(g.credentials, enc)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if list {
				for _, name := range cfg.Profiles() {
					fmt.Fprintln(out, name)
				}
				return nil
			}
			keyFile, err := cfg.KeyFile(g.profile)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, keyFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&encName, "encoding", "utf-8", "credentials file encoding: utf-8|utf-16|latin1|windows-1252")
	cmd.Flags().BoolVar(&list, "list", false, "list profile names instead")
	return cmd
}
