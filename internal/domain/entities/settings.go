package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultParallelism       = 1
	DefaultPresenceCacheSize = 65536
	maxParallelism           = 256
)

// Settings is the optional file configuration for git-import-commit.
// Command-line flags override these values.
type Settings struct {
	Quiet             bool `yaml:"quiet"`
	Parallelism       int  `yaml:"parallelism"`
	PruneExisting     bool `yaml:"prune_existing"`
	AllowSubmodules   bool `yaml:"allow_submodules"`
	PresenceCacheSize int  `yaml:"presence_cache_size"`
}

// NewDefaultSettings returns the settings used when no file is found.
func NewDefaultSettings() *Settings {
	return &Settings{
		Parallelism:       DefaultParallelism,
		PresenceCacheSize: DefaultPresenceCacheSize,
	}
}

// NewSettings reads and validates a configuration file. Keys missing from the
// file keep their default values.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	settings := NewDefaultSettings()
	if unmarshalErr := yaml.Unmarshal(data, settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	if validateErr := settings.Validate(); validateErr != nil {
		return nil, validateErr
	}

	return settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".git-import-commit.yaml",
		".git-import-commit.yml",
		"git-import-commit.yaml",
		"git-import-commit.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// Validate checks value ranges.
func (it *Settings) Validate() error {
	if it.Parallelism < 1 || it.Parallelism > maxParallelism {
		return fmt.Errorf("parallelism must be between 1 and %d, got %d", maxParallelism, it.Parallelism)
	}
	if it.PresenceCacheSize < 0 {
		return fmt.Errorf("presence_cache_size must not be negative, got %d", it.PresenceCacheSize)
	}
	return nil
}

// CopyOptions converts the settings into engine options.
func (it *Settings) CopyOptions(dryRun bool) CopyOptions {
	return CopyOptions{
		Parallelism:       it.Parallelism,
		PruneExisting:     it.PruneExisting,
		AllowSubmodules:   it.AllowSubmodules,
		DryRun:            dryRun,
		PresenceCacheSize: it.PresenceCacheSize,
	}
}
