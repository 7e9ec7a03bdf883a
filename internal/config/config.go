// Package config contains the resolved integration settings and the loader for the
// optional .clientkit.yaml project file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultFileName is the project-level configuration file looked up in the project root.
	DefaultFileName = ".clientkit.yaml"
	// DefaultEnvironment is used when no environment name is configured.
	DefaultEnvironment = "production"
	// DSNKey is the environment variable holding the connection string.
	DSNKey = "SENTRY_DSN"
	// ExampleDSN is the placeholder seeded into .env.example files.
	ExampleDSN = "https://your-key@your-host/1"
)

// Integration holds the resolved settings for one installation run.
// It is created once a connection string is known and never modified afterwards.
type Integration struct {
	// DSN is the connection string events are sent to.
	DSN string
	// Environment is the environment name reported with events.
	Environment string
	// Release is an optional release identifier.
	Release string
}

// NewIntegration builds an Integration, defaulting the environment name.
func NewIntegration(dsn, environment, release string) Integration {
	environment = strings.TrimSpace(environment)
	if environment == "" {
		environment = DefaultEnvironment
	}
	return Integration{
		DSN:         strings.TrimSpace(dsn),
		Environment: environment,
		Release:     strings.TrimSpace(release),
	}
}

// HasDSN reports whether a connection string is present.
func (i Integration) HasDSN() bool {
	return i.DSN != ""
}

// File is the typed model of .clientkit.yaml. Secrets are deliberately absent.
type File struct {
	// APIURL is the provisioning API base URL.
	APIURL string `yaml:"apiUrl,omitempty"`
	// Team is the default team name for API-driven provisioning.
	Team string `yaml:"team,omitempty"`
	// Project is the default project name for API-driven provisioning.
	Project string `yaml:"project,omitempty"`
	// Environment is the default environment name.
	Environment string `yaml:"environment,omitempty"`
	// Release is the default release identifier.
	Release string `yaml:"release,omitempty"`
	// TemplatesDir points to a directory overriding the built-in templates,
	// relative to the file's directory when not absolute.
	TemplatesDir string `yaml:"templatesDir,omitempty"`
	// Patches lists exact-anchor text patches applied after a full install.
	Patches []Patch `yaml:"patches,omitempty"`
}

// Patch describes a declarative text patch against a project file.
type Patch struct {
	// File is the target path relative to the project root.
	File string `yaml:"file"`
	// Anchor is the exact text to find.
	Anchor string `yaml:"anchor"`
	// Replacement is the exact text that replaces Anchor.
	Replacement string `yaml:"replacement"`
}

// LoadFile reads a configuration file. When optional is set a missing file yields an
// empty File instead of an error.
func LoadFile(path string, optional bool) (File, error) {
	var cfg File
	if strings.TrimSpace(path) == "" {
		return cfg, fmt.Errorf("config path is empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return cfg, fmt.Errorf("resolve config path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", absPath, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", absPath, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %q: %w", absPath, err)
	}

	if cfg.TemplatesDir != "" && !filepath.IsAbs(cfg.TemplatesDir) {
		cfg.TemplatesDir = filepath.Join(filepath.Dir(absPath), cfg.TemplatesDir)
	}
	return cfg, nil
}

func (f File) validate() error {
	for i, p := range f.Patches {
		if strings.TrimSpace(p.File) == "" {
			return fmt.Errorf("patches[%d]: file is required", i)
		}
		if filepath.IsAbs(p.File) || strings.HasPrefix(filepath.Clean(p.File), "..") {
			return fmt.Errorf("patches[%d]: file %q must stay inside the project", i, p.File)
		}
		if p.Anchor == "" {
			return fmt.Errorf("patches[%d]: anchor is required", i)
		}
	}
	return nil
}
