package runtimeconfig

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrConfigFormatUnsupported reports a config file whose extension is neither TOML nor YAML.
var ErrConfigFormatUnsupported = errors.New("recipes config: unsupported config format")

// DefaultConfigFile is picked up from the working directory when no path is given.
const DefaultConfigFile = "recipes.toml"

// Load overlays the file at path on DefaultConfig and validates the result.
// An empty path loads DefaultConfigFile when present and the defaults
// otherwise. The returned bool reports whether a file was read.
func Load(path string) (Config, bool, error) {
	cfg := DefaultConfig()

	path = strings.TrimSpace(path)
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	file, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, false, cfg.Validate()
		}
		return Config{}, false, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := Decode(file, filepath.Ext(path), &cfg); err != nil {
		return Config{}, true, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, true, err
	}
	return cfg, true, nil
}

// Decode reads a TOML or YAML document, selected by extension, into cfg.
// Keys absent from the document keep their current values.
func Decode(r io.Reader, ext string, cfg *Config) error {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		if err := toml.NewDecoder(r).Decode(cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse config: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrConfigFormatUnsupported, ext)
	}
	return nil
}

// Encode writes cfg in the format selected by ext.
func Encode(w io.Writer, ext string, cfg Config) error {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		return toml.NewEncoder(w).Encode(cfg)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrConfigFormatUnsupported, ext)
	}
}
