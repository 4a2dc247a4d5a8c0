package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	staticcmd "github.com/goliatone/go-recipes/internal/commands/static"
)

func newManifestCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print the page manifest without writing output",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showManifest(cmd, ctx, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", staticcmd.FormatTable, "Output format: table, json, yaml or listing")
	return cmd
}

func newIndexCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Print the index listing for the current sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showManifest(cmd, ctx, staticcmd.FormatListing)
		},
	}
}

func showManifest(cmd *cobra.Command, ctx *commandContext, format string) error {
	module, err := ctx.ensureModule(cmd)
	if err != nil {
		return err
	}

	var envelope *staticcmd.ManifestEnvelope
	msg := staticcmd.ShowManifestCommand{
		Format: format,
		Callback: func(env staticcmd.ManifestEnvelope) {
			envelope = &env
		},
	}
	if err := module.handlers.manifest.Execute(ensureContext(cmd.Context()), msg); err != nil {
		return fmt.Errorf("show manifest: %w", err)
	}
	if envelope == nil {
		return fmt.Errorf("show manifest: no manifest reported")
	}
	return writeManifest(cmd.OutOrStdout(), *envelope)
}

func writeManifest(w io.Writer, env staticcmd.ManifestEnvelope) error {
	pages := env.Manifest.Pages()
	switch env.Format {
	case staticcmd.FormatListing:
		_, err := io.WriteString(w, env.Listing)
		return err
	case staticcmd.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(pages)
	case staticcmd.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(pages); err != nil {
			return err
		}
		return enc.Close()
	default:
		rows := make([][]string, 0, len(pages))
		for _, page := range pages {
			kind := "recipe"
			if env.Manifest.IsIndex(page) {
				kind = "index"
			}
			rows = append(rows, []string{page.Icon, page.Name, page.SourcePath, kind})
		}
		_, err := fmt.Fprintln(w, renderTable([]string{"Icon", "Name", "Source", "Kind"}, rows, nil))
		return err
	}
}
