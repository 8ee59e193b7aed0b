package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"samplesort/internal/aifallback"
)

func newAICommand(ctx *commandContext) *cobra.Command {
	aiCmd := &cobra.Command{
		Use:   "ai",
		Short: "AI fallback utilities",
	}
	aiCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Verify the AI endpoint answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			adapter, err := aifallback.NewFromConfig(cfg, ctx.loadIndex(""), ctx.loggerFor())
			if err != nil {
				return fmt.Errorf("ai fallback unavailable: %w", err)
			}
			if err := adapter.HealthCheck(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "AI endpoint reachable (model %s, circuit %s)\n", cfg.AI.Model, adapter.State())
			return nil
		},
	})
	return aiCmd
}
