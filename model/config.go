package model

import (
	"github.com/frankiem-4/Metron/cst"
	"gopkg.in/yaml.v3"
)

// Config holds the handful of knobs a Library's load phase needs, layered in
// from an optional YAML file rather than environment variables.
type Config struct {
	SearchPaths []string `yaml:"search_paths"`
	// Strict promotes a duplicate-load (same filename loaded twice) from a
	// warning to a fatal diagnostic.
	Strict bool `yaml:"strict"`
}

// LoadConfig unmarshals a Config from YAML bytes. A nil/empty input yields
// the zero-value Config (no search paths, lenient duplicate loads).
func LoadConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if len(data) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewLibraryFromConfig builds a Library with its search paths and strict
// mode pre-applied from cfg.
func NewLibraryFromConfig(cfg *Config, reader Reader, parser cst.Parser, discoverer ModuleDiscoverer) *Library {
	lib := NewLibrary(reader, parser, discoverer)
	if cfg == nil {
		return lib
	}
	lib.SearchPaths = append(lib.SearchPaths, cfg.SearchPaths...)
	lib.Strict = cfg.Strict
	return lib
}
