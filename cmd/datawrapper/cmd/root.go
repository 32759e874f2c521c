// Package cmd defines the CLI commands for datawrapper.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// NewRootCmd creates the root command for datawrapper.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "datawrapper",
		Short: "Keep secrets encoded at rest and in memory",
		Long: `datawrapper stores small secrets in a local database, encoded with a
keystream derived from your passphrase. Secrets are decoded only into
locked, wiped memory for the moment they are printed.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (yaml, json or toml)")
	flags.String("db", "", "path to the record database")
	flags.StringP("namespace", "n", "", "namespace the records live in")
	flags.String("kdf-profile", "", "Argon2id cost profile for new records: interactive, moderate or sensitive")
	flags.BoolP("verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(newPutCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of datawrapper",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "datawrapper %s\n", Version)
		},
	}
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
