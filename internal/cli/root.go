// Package cli implements the careers command line.
package cli

import (
	"context"
	"errors"
	"fmt"

	"careers/internal/config"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

type contextKey struct{}

var configContextKey = contextKey{}

func configFrom(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(configContextKey).(*config.Config)
	return cfg
}

// NewRootCmd builds the careers command tree.
func NewRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "careers",
		Short: "Careers site and hiring admin",
		Long: `careers serves the public job board and the staff admin used to review
applications, notify candidates and manage postings.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configContextKey, cfg))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSetupCmd(),
		newUserCmd(),
		newStatsCmd(),
		newSessionsCmd(),
	)
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func requireFlags(cmd *cobra.Command, names ...string) error {
	for _, n := range names {
		v, _ := cmd.Flags().GetString(n)
		if v == "" {
			return errors.New("--" + n + " is required")
		}
	}
	return nil
}
