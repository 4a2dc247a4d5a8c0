package di

import (
	"context"
	"time"

	"github.com/goliatone/go-recipes/internal/recipes"
	"github.com/goliatone/go-recipes/pkg/interfaces"
)

// loggedBuilder reports manifest builds on the scanner logger.
type loggedBuilder struct {
	builder recipes.Builder
	logger  interfaces.Logger
}

func (b loggedBuilder) Build(ctx context.Context, dir string) (recipes.Manifest, error) {
	start := time.Now()
	manifest, err := b.builder.Build(ctx, dir)
	if err != nil {
		b.logger.Error("scanner.manifest.failed", "source", dir, "error", err)
		return manifest, err
	}
	b.logger.Debug("scanner.manifest.built", "source", dir, "pages", manifest.Len(), "duration", time.Since(start))
	return manifest, nil
}
