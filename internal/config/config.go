// Package config loads the CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-tabwrap/internal/fileutil"
	"github.com/alnah/go-tabwrap/internal/hints"
	"github.com/alnah/go-tabwrap/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// Config holds all configuration for table compilation runs.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Layout  LayoutConfig  `yaml:"layout"`
	Compile CompileConfig `yaml:"compile"`
	Batch   BatchConfig   `yaml:"batch"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = current directory)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = current directory)
	Suffix     string `yaml:"suffix"`     // Artifact stem suffix (default: "_compiled")
	Format     string `yaml:"format"`     // "pdf", "png", "svg" (default: "pdf")
}

// LayoutConfig defines document shell options.
type LayoutConfig struct {
	Landscape bool `yaml:"landscape"`
	NoResize  bool `yaml:"noResize"`
	Header    bool `yaml:"header"`
}

// CompileConfig defines compiler invocation options.
type CompileConfig struct {
	Packages []string `yaml:"packages"` // Extra packages loaded before detected ones
	KeepTex  bool     `yaml:"keepTex"`  // Retain intermediate .tex/.aux/.log files
	Timeout  string   `yaml:"timeout"`  // Per-invocation timeout (e.g. "60s", "2m")
	Workers  int      `yaml:"workers"`  // Parallel workers (0 = auto)
}

// BatchConfig defines multi-file run options.
type BatchConfig struct {
	Recursive bool `yaml:"recursive"` // Discover .tex files in subdirectories
	Combine   bool `yaml:"combine"`   // Merge successful PDFs with a table of contents
}

// DefaultConfig returns a neutral configuration with all features disabled.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Suffix: "_compiled", Format: "pdf"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-tabwrap/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-tabwrap", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s%s", ErrConfigNotFound,
		strings.Join(triedPaths, ", "), hints.ForConfigNotFound(triedPaths))
}
