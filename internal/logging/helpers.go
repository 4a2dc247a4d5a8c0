package logging

import (
	"maps"
	"strings"

	"github.com/goliatone/go-recipes/pkg/interfaces"
)

// WithFields attaches structured fields to a logger when the implementation
// supports the optional FieldsLogger extension. Nil or empty maps are a no-op.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(maps.Clone(fields))
	}

	return logger
}

// WithPageContext enriches the logger with the page name and source path of a
// render directive. Empty values are ignored.
func WithPageContext(logger interfaces.Logger, name, source string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		fields[fieldPageName] = trimmed
	}
	if trimmed := strings.TrimSpace(source); trimmed != "" {
		fields[fieldPageSource] = trimmed
	}
	return WithFields(logger, fields)
}

// WithBuildContext tags every entry with the identifier of the running build.
func WithBuildContext(logger interfaces.Logger, buildID string) interfaces.Logger {
	if strings.TrimSpace(buildID) == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldBuildID: buildID})
}
