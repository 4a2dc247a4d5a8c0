package staticcmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-recipes/internal/generator"
	"github.com/goliatone/go-recipes/internal/recipes"
)

const (
	buildSiteMessageType    = "recipes.static.build"
	cleanSiteMessageType    = "recipes.static.clean"
	showManifestMessageType = "recipes.static.manifest"
)

// Manifest output formats understood by ShowManifestCommand.
const (
	FormatTable   = "table"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatListing = "listing"
)

// ResultCallback receives build results produced by generator operations. The callback is optional
// and is invoked synchronously from the handler when a BuildResult is available.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a static command execution that generated a BuildResult.
type ResultEnvelope struct {
	Result   *generator.BuildResult
	Metadata map[string]any
}

// BuildSiteCommand executes a full site build.
type BuildSiteCommand struct {
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (BuildSiteCommand) Validate() error { return nil }

// CleanSiteCommand removes the generated output tree.
type CleanSiteCommand struct{}

// Type implements command.Message.
func (CleanSiteCommand) Type() string { return cleanSiteMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (CleanSiteCommand) Validate() error { return nil }

// ManifestCallback receives the manifest produced by ShowManifestCommand.
type ManifestCallback func(ManifestEnvelope)

// ManifestEnvelope carries a manifest together with its rendered listing.
type ManifestEnvelope struct {
	Manifest recipes.Manifest
	Listing  string
	Format   string
}

// ShowManifestCommand builds the manifest without writing any output.
type ShowManifestCommand struct {
	Format   string           `json:"format,omitempty"`
	Callback ManifestCallback `json:"-"`
}

// Type implements command.Message.
func (ShowManifestCommand) Type() string { return showManifestMessageType }

// Validate restricts Format to the supported renderings and requires a callback.
func (cmd ShowManifestCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Format, validation.In(FormatTable, FormatJSON, FormatYAML, FormatListing).
			ErrorObject(validation.NewError("recipes.static.manifest.format_invalid", "format must be one of table, json, yaml, listing"))),
		validation.Field(&cmd.Callback, validation.By(func(value any) error {
			if cb, _ := value.(ManifestCallback); cb == nil {
				return validation.NewError("recipes.static.manifest.callback_required", "callback is required")
			}
			return nil
		})),
	)
}
