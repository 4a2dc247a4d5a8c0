package staticcmd

import (
	"context"
	"strings"

	"github.com/goliatone/go-recipes/internal/commands"
	"github.com/goliatone/go-recipes/internal/generator"
	"github.com/goliatone/go-recipes/internal/recipes"
	"github.com/goliatone/go-recipes/pkg/interfaces"
)

// BuildSiteHandler orchestrates generator builds using the shared command handler foundation.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler constructs a handler wired to the provided generator service.
func NewBuildSiteHandler(service generator.Service, logger interfaces.Logger, opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		if service == nil {
			return generator.ErrServiceDisabled
		}
		result, err := service.Build(ctx, generator.BuildOptions{DryRun: msg.DryRun})
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Result: result,
			Metadata: map[string]any{
				"operation": "build",
				"dry_run":   msg.DryRun,
			},
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](baseLogger),
		commands.WithOperation[BuildSiteCommand]("static.build"),
		commands.WithMessageFields(func(msg BuildSiteCommand) map[string]any {
			if msg.DryRun {
				return map[string]any{"dry_run": true}
			}
			return nil
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CleanSiteHandler clears generator artifacts.
type CleanSiteHandler struct {
	inner *commands.Handler[CleanSiteCommand]
}

// NewCleanSiteHandler constructs a handler that cleans generator output.
func NewCleanSiteHandler(service generator.Service, logger interfaces.Logger, opts ...commands.HandlerOption[CleanSiteCommand]) *CleanSiteHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg CleanSiteCommand) error {
		if service == nil {
			return generator.ErrServiceDisabled
		}
		return service.Clean(ctx)
	}

	handlerOpts := []commands.HandlerOption[CleanSiteCommand]{
		commands.WithLogger[CleanSiteCommand](baseLogger),
		commands.WithOperation[CleanSiteCommand]("static.clean"),
		commands.WithTelemetry(commands.DefaultTelemetry[CleanSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CleanSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CleanSiteCommand].
func (h *CleanSiteHandler) Execute(ctx context.Context, msg CleanSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ShowManifestHandler builds the manifest and hands it to the caller.
type ShowManifestHandler struct {
	inner *commands.Handler[ShowManifestCommand]
}

// NewShowManifestHandler constructs a handler that reports the manifest and its listing.
func NewShowManifestHandler(service generator.Service, formatter recipes.IndexFormatter, logger interfaces.Logger, opts ...commands.HandlerOption[ShowManifestCommand]) *ShowManifestHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ShowManifestCommand) error {
		if service == nil {
			return generator.ErrServiceDisabled
		}
		manifest, err := service.Manifest(ctx)
		if err != nil {
			return err
		}
		format := strings.TrimSpace(msg.Format)
		if format == "" {
			format = FormatTable
		}
		msg.Callback(ManifestEnvelope{
			Manifest: manifest,
			Listing:  formatter.Format(manifest),
			Format:   format,
		})
		return nil
	}

	handlerOpts := []commands.HandlerOption[ShowManifestCommand]{
		commands.WithLogger[ShowManifestCommand](baseLogger),
		commands.WithOperation[ShowManifestCommand]("static.manifest"),
		commands.WithMessageFields(func(msg ShowManifestCommand) map[string]any {
			return map[string]any{"format": msg.Format}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ShowManifestHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ShowManifestCommand].
func (h *ShowManifestHandler) Execute(ctx context.Context, msg ShowManifestCommand) error {
	return h.inner.Execute(ctx, msg)
}

func invokeCallback(cb ResultCallback, envelope ResultEnvelope) {
	if cb == nil {
		return
	}
	cb(envelope)
}
