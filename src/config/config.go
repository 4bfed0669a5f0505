package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// defaultConfigFiles are tried in order when no path is given.
var defaultConfigFiles = []string{
	".playerforge.yml",
	".playerforge.yaml",
	".playerforge.toml",
}

// Config is the top-level PlayerForge configuration.
type Config struct {
	Version      int              `yaml:"version" toml:"version"`
	Project      string           `yaml:"project" toml:"project"`
	Editor       EditorConfig     `yaml:"editor" toml:"editor"`
	Dependencies DependencyConfig `yaml:"dependencies" toml:"dependencies"`
	Naming       NamingConfig     `yaml:"naming" toml:"naming"`
	Retention    RetentionConfig  `yaml:"retention,omitempty" toml:"retention,omitempty"`

	// Source is the file the config was read from, empty for defaults.
	Source string `yaml:"-" toml:"-"`
}

// EditorConfig controls how the Unity editor is invoked.
type EditorConfig struct {
	// Path is the editor executable. UNITY_EDITOR overrides it.
	Path string `yaml:"path" toml:"path"`

	// BuildMethod is the static editor method that performs the build.
	BuildMethod string `yaml:"build_method" toml:"build_method"`

	// Timeout bounds a single editor invocation, e.g. "90m". Empty = none.
	Timeout string `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
}

// DependencyConfig selects the dependency resolver.
type DependencyConfig struct {
	// Resolver is a registered resolver name ("edm4u", "none").
	Resolver string `yaml:"resolver" toml:"resolver"`

	// Method overrides the resolver's editor entry method.
	Method string `yaml:"method,omitempty" toml:"method,omitempty"`
}

// NamingConfig holds artifact naming defaults. Environment values win.
type NamingConfig struct {
	Prefix          string `yaml:"prefix,omitempty" toml:"prefix,omitempty"`
	OutputDir       string `yaml:"output_dir,omitempty" toml:"output_dir,omitempty"`
	CanonicalBranch string `yaml:"canonical_branch" toml:"canonical_branch"`
	UnknownBranch   string `yaml:"unknown_branch" toml:"unknown_branch"`
}

// Load reads configuration from a YAML or TOML file, chosen by extension.
// If path is empty, it tries the default files.
// Returns sensible defaults if no file exists.
func Load(path string) (*Config, error) {
	if path == "" {
		for _, candidate := range defaultConfigFiles {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return defaults(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaults(), nil
		}
		return nil, err
	}

	cfg := defaults()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Version: 1,
		Project: ".",
		Editor: EditorConfig{
			Path:        "Unity",
			BuildMethod: "PlayerForge.Editor.BuildEntry.Run",
		},
		Dependencies: DependencyConfig{
			Resolver: "edm4u",
		},
		Naming: NamingConfig{
			CanonicalBranch: "master",
			UnknownBranch:   "unknown-branch",
		},
	}
}
