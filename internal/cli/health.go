package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func NewHealthCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API is up",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := rootOpts.client().Health(context.Background())
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), h)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s ok (db %s, %s)\n", h.Service, h.DB, h.Time)
			return nil
		},
	}
}
