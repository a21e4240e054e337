package cli

import (
	"errors"
	"fmt"

	"careers/internal/config"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the postgres schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd.Context())
			if cfg.Store != config.StorePostgres {
				return errors.New("migrate requires STORE=postgres")
			}
			e, err := openEnv(cfg, nil)
			if err != nil {
				return err
			}
			defer e.close()
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Schema is up to date")
			return nil
		},
	}
}
