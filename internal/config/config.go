// Package config loads the workspace configuration file burnls.jsonc from
// the workspace root. A missing file yields the defaults; a present file
// is validated against the embedded schema before use.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonc "github.com/muhammadmuzzammil1998/jsonc"

	"github.com/burn-lang/burnls/internal/schemas"
)

// FileName is the configuration file looked up at the workspace root.
const FileName = "burnls.jsonc"

// IndexConfig controls the persistent workspace symbol index.
type IndexConfig struct {
	Enabled *bool  `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

// Config is the workspace configuration.
type Config struct {
	SchemaVersion    string      `json:"schemaVersion,omitempty"`
	SourceExtensions []string    `json:"sourceExtensions,omitempty"`
	IgnoreGlobs      []string    `json:"ignoreGlobs,omitempty"`
	Index            IndexConfig `json:"index,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		SourceExtensions: []string{".bn"},
		IgnoreGlobs:      []string{"**/.git/**", "**/node_modules/**", "**/.burnls/**"},
		Index: IndexConfig{
			Path: filepath.Join(".burnls", "index.db"),
		},
	}
}

// Load reads burnls.jsonc from root. A missing file is not an error: the
// defaults are returned. Unset fields fall back to their defaults.
func Load(root string) (*Config, error) {
	path := filepath.Join(root, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	clean := jsonc.ToJSON(data)

	schema, err := schemas.Compile(schemas.Burnls)
	if err != nil {
		return nil, err
	}
	var instance any
	if err := json.Unmarshal(clean, &instance); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := schema.Validate(instance); err != nil {
		return nil, fmt.Errorf("%s invalid: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(clean, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(cfg.SourceExtensions) == 0 {
		cfg.SourceExtensions = Default().SourceExtensions
	}
	if cfg.Index.Path == "" {
		cfg.Index.Path = Default().Index.Path
	}
	return cfg, nil
}

// IndexEnabled reports whether the symbol index should be maintained.
// The index is on unless explicitly disabled.
func (c *Config) IndexEnabled() bool {
	return c.Index.Enabled == nil || *c.Index.Enabled
}

// IsSourceFile reports whether path carries one of the configured source
// extensions.
func (c *Config) IsSourceFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range c.SourceExtensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}
