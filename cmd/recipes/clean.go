package main

import (
	"fmt"

	"github.com/spf13/cobra"

	staticcmd "github.com/goliatone/go-recipes/internal/commands/static"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the generated output directory",
		Long: "Remove the generated output directory.\n\n" +
			"The <output>.lock file beside it is kept: builds and cleans share it to\n" +
			"avoid running concurrently. It may be deleted when no build is running.",
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := ctx.ensureModule(cmd)
			if err != nil {
				return err
			}
			if err := module.handlers.clean.Execute(ensureContext(cmd.Context()), staticcmd.CleanSiteCommand{}); err != nil {
				return fmt.Errorf("clean site: %w", err)
			}
			cfg, _ := ctx.ensureConfig(cmd)
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cfg.Output.Dir)
			return nil
		},
	}
}
