package cli

import (
	"fmt"

	"careers/internal/config"

	"github.com/spf13/cobra"
)

func newSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "setup",
		Short:   "Create the first administrator",
		Long:    "Create the first administrator account. Fails once any user exists.",
		Example: `  careers setup --email admin@example.com --name "Ada Admin" --password '...'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "email", "name", "password"); err != nil {
				return err
			}
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			password, _ := cmd.Flags().GetString("password")

			cfg := configFrom(cmd.Context())
			e, err := openEnv(cfg, nil)
			if err != nil {
				return err
			}
			defer e.close()

			u, err := e.auth.CreateInitialUser(cmd.Context(), email, name, password)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Administrator created: %s (%s)\n", u.Email, u.ID)
			if cfg.Store == config.StoreMemory {
				fmt.Fprintln(out, warnStyle.Render("note: the memory store does not persist; use STORE=postgres"))
			}
			return nil
		},
	}
	cmd.Flags().String("email", "", "administrator email")
	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("password", "", "password (8 to 72 characters)")
	return cmd
}
