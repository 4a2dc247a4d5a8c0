package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	flags := &cliFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           "recipes",
		Short:         "Build a static site from a directory of Markdown recipes",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path (TOML or YAML; defaults to ./recipes.toml when present)")
	pf.StringVar(&flags.sourceDir, "source", "", "Directory holding the recipe sources")
	pf.StringVarP(&flags.outputDir, "output", "o", "", "Directory the site is written to")
	pf.IntVar(&flags.workers, "workers", 0, "Concurrent page renders (0 uses every CPU)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Minimum log level")
	pf.StringVar(&flags.logProvider, "log-provider", "", "Logging provider: console or gologger")
	pf.StringVar(&flags.logFormat, "log-format", "", "go-logger output format: console, json or pretty")

	rootCmd.AddCommand(newBuildCommand(ctx))
	rootCmd.AddCommand(newCleanCommand(ctx))
	rootCmd.AddCommand(newManifestCommand(ctx))
	rootCmd.AddCommand(newIndexCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
