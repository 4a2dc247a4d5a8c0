package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	staticcmd "github.com/goliatone/go-recipes/internal/commands/static"
	"github.com/goliatone/go-recipes/internal/generator"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate the listing, render directives and HTML pages",
		Long: "Generate the site into the output directory, which is recreated on every run.\n\n" +
			"Builds hold an exclusive lock on <output>.lock, created beside the output\n" +
			"directory and kept between runs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := ctx.ensureModule(cmd)
			if err != nil {
				return err
			}

			var result *generator.BuildResult
			msg := staticcmd.BuildSiteCommand{
				DryRun: dryRun,
				ResultCallback: func(env staticcmd.ResultEnvelope) {
					result = env.Result
				},
			}
			execErr := module.handlers.build.Execute(ensureContext(cmd.Context()), msg)
			if result != nil {
				fmt.Fprintln(cmd.OutOrStdout(), renderBuildSummary(result))
			}
			if execErr != nil {
				return fmt.Errorf("build site: %w", execErr)
			}
			if result == nil {
				return errors.New("build site: no result reported")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute the build without writing files")
	return cmd
}

func renderBuildSummary(result *generator.BuildResult) string {
	mode := "write"
	if result.DryRun {
		mode = "dry-run"
	}
	rows := [][]string{
		{"Build", result.BuildID.String()},
		{"Mode", mode},
		{"Timestamp", result.Timestamp},
		{"Pages", strconv.Itoa(result.PagesBuilt)},
		{"Assets", strconv.Itoa(result.AssetsBuilt)},
		{"Directives", strconv.Itoa(len(result.Directives))},
		{"Errors", strconv.Itoa(len(result.Errors))},
		{"Duration", result.Duration.Round(time.Millisecond).String()},
	}
	return renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}
