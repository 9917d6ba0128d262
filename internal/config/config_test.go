package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeConfigFile creates a .texbuild.yaml with the given content
func writeConfigFile(t *testing.T, dir, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Engine != DefaultEngine {
		t.Errorf("expected Engine to be %q, got %q", DefaultEngine, cfg.Engine)
	}
	if cfg.Jobs != DefaultJobs {
		t.Errorf("expected Jobs to be %d, got %d", DefaultJobs, cfg.Jobs)
	}
	if cfg.PollInterval != DefaultPollInterval {
		t.Errorf("expected PollInterval to be %q, got %q", DefaultPollInterval, cfg.PollInterval)
	}
	if cfg.BuildDir != "" {
		t.Errorf("expected BuildDir to be empty, got %q", cfg.BuildDir)
	}
	if cfg.CleanBuild {
		t.Error("expected CleanBuild to be false")
	}
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
engine: lualatex
flags:
  - -shell-escape
build_dir: out
clean_build: true
jobs: 8
poll_interval: 100ms
`)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Engine != "lualatex" {
		t.Errorf("expected Engine to be %q, got %q", "lualatex", cfg.Engine)
	}
	if len(cfg.Flags) != 1 || cfg.Flags[0] != "-shell-escape" {
		t.Errorf("expected Flags to be [-shell-escape], got %v", cfg.Flags)
	}
	if cfg.BuildDir != "out" {
		t.Errorf("expected BuildDir to be %q, got %q", "out", cfg.BuildDir)
	}
	if !cfg.CleanBuild {
		t.Error("expected CleanBuild to be true")
	}
	if cfg.Jobs != 8 {
		t.Errorf("expected Jobs to be %d, got %d", 8, cfg.Jobs)
	}
	if cfg.PollInterval != "100ms" {
		t.Errorf("expected PollInterval to be %q, got %q", "100ms", cfg.PollInterval)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "engine: lualatex\njobs: 8\n")

	t.Setenv("TEXBUILD_ENGINE", "xelatex")
	t.Setenv("TEXBUILD_JOBS", "2")
	t.Setenv("TEXBUILD_POLL_INTERVAL", "25ms")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Engine != "xelatex" {
		t.Errorf("expected env to override file Engine, got %q", cfg.Engine)
	}
	if cfg.Jobs != 2 {
		t.Errorf("expected env to override file Jobs, got %d", cfg.Jobs)
	}
	if cfg.PollInterval != "25ms" {
		t.Errorf("expected env to override PollInterval, got %q", cfg.PollInterval)
	}
}

func TestLoadConfig_EnvInvalidJobsIgnored(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TEXBUILD_JOBS", "not-a-number")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Jobs != DefaultJobs {
		t.Errorf("expected unparseable TEXBUILD_JOBS to be ignored, got %d", cfg.Jobs)
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, ": not valid yaml [")

	_, err := LoadConfig(dir)
	if err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		field   string
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, "", false},
		{"empty engine", func(c *Config) { c.Engine = "" }, "engine", true},
		{"unknown engine", func(c *Config) { c.Engine = "wordstar" }, "engine", true},
		{"zero jobs", func(c *Config) { c.Jobs = 0 }, "jobs", true},
		{"negative jobs", func(c *Config) { c.Jobs = -3 }, "jobs", true},
		{"bad poll interval", func(c *Config) { c.PollInterval = "fast" }, "poll_interval", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected error on field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}

func TestPollIntervalDuration(t *testing.T) {
	cfg := DefaultConfig()
	d, err := cfg.PollIntervalDuration()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 50*time.Millisecond {
		t.Errorf("expected 50ms, got %v", d)
	}
}
