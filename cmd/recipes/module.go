package main

import (
	"context"
	"io"

	command "github.com/goliatone/go-command"

	recipes "github.com/goliatone/go-recipes"
	staticcmd "github.com/goliatone/go-recipes/internal/commands/static"
	"github.com/goliatone/go-recipes/internal/runtimeconfig"
)

type handlerSet struct {
	build    command.Commander[staticcmd.BuildSiteCommand]
	clean    command.Commander[staticcmd.CleanSiteCommand]
	manifest command.Commander[staticcmd.ShowManifestCommand]
}

type moduleOptions struct {
	config    runtimeconfig.Config
	logWriter io.Writer
}

type moduleResources struct {
	handlers handlerSet
}

// moduleBuilder is swapped in tests to run commands against stub handlers.
var moduleBuilder = func(opts moduleOptions) (*moduleResources, error) {
	module, err := recipes.New(opts.config, recipes.WithLogWriter(opts.logWriter))
	if err != nil {
		return nil, err
	}
	cmds := module.Commands()
	return &moduleResources{
		handlers: handlerSet{
			build:    cmds.Build,
			clean:    cmds.Clean,
			manifest: cmds.Manifest,
		},
	}, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
