package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the resolved build configuration for one invocation of the
// tool. It is immutable after creation via LoadConfig(); the runner treats
// it as an opaque read-only value.
type Config struct {
	// Engine is the LaTeX executable used for builds. Must be on PATH.
	Engine string `yaml:"engine"`

	// Flags are extra flags passed to the engine before the built-in ones.
	Flags []string `yaml:"flags"`

	// BuildDir is the directory the engine writes its output to.
	// Empty means the working directory.
	BuildDir string `yaml:"build_dir"`

	// CleanBuild removes auxiliary byproducts (log, aux, toc, ...) from
	// the build directory after each job completes, keeping only the
	// source and the primary artifact.
	CleanBuild bool `yaml:"clean_build"`

	// Jobs is the maximum number of engine processes running at once.
	Jobs int `yaml:"jobs"`

	// PollInterval is the idle delay between drain-loop sweeps when no
	// job has made progress, as a Go duration string.
	PollInterval string `yaml:"poll_interval"`

	// Verbose dumps every parsed diagnostic of each completed job.
	Verbose bool `yaml:"verbose"`
}

// PollIntervalDuration parses the poll interval as a Duration.
func (c *Config) PollIntervalDuration() (time.Duration, error) {
	return time.ParseDuration(c.PollInterval)
}

// LoadConfig loads configuration from dir. It applies defaults, then
// optional file values from .texbuild.yaml, then environment overrides,
// then validates.
func LoadConfig(dir string) (*Config, error) {
	cfg := DefaultConfig()

	// A missing config file is not an error, defaults apply.
	configPath := filepath.Join(dir, ConfigFileName)
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
