package cmd

import "github.com/spf13/cobra"

func newPutCmd() *cobra.Command {
	var force, plain bool
	cmd := &cobra.Command{
		Use:   "put NAME",
		Short: "Store a secret typed at the terminal or piped on stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *store) error {
				return s.put(cmd, args[0], force, plain)
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing record")
	cmd.Flags().BoolVar(&plain, "plain", false, "store without passphrase encoding")
	return cmd
}

func newGetCmd() *cobra.Command {
	var asHex bool
	cmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Print a stored secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *store) error {
				return s.get(cmd, args[0], asHex)
			})
		},
	}
	cmd.Flags().BoolVar(&asHex, "hex", false, "print the secret hex encoded")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the secrets in a namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *store) error {
				return s.list(cmd)
			})
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a stored secret",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *store) error {
				return s.delete(args[0])
			})
		},
	}
}
