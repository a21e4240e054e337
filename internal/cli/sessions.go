package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionsCmd() *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Maintain sign-in sessions",
	}
	sessionsCmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Delete expired sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(configFrom(cmd.Context()), nil)
			if err != nil {
				return err
			}
			defer e.close()

			n, err := e.auth.PruneSessions(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Pruned %d expired sessions\n", n)
			return nil
		},
	})
	return sessionsCmd
}
