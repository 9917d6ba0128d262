package cli

import (
	"os"
	"testing"

	"github.com/texbuild/texbuild/internal/config"
	"github.com/spf13/cobra"
)

// chdir switches into dir for the duration of the test; it stands in for
// t.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("chdir back: %v", err)
		}
	})
}

// buildFlagCmd sets up a bare command carrying the shared build flags.
func buildFlagCmd(t *testing.T) (*cobra.Command, *BuildOptions) {
	t.Helper()
	var opts BuildOptions
	cmd := &cobra.Command{Use: "test"}
	addBuildFlags(cmd, &opts)
	return cmd, &opts
}

func TestResolveConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	cmd, opts := buildFlagCmd(t)

	cfg, err := resolveConfig(cmd, *opts, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Engine != config.DefaultEngine {
		t.Errorf("Engine = %q, want %q", cfg.Engine, config.DefaultEngine)
	}
	if cfg.Jobs != config.DefaultJobs {
		t.Errorf("Jobs = %d, want %d", cfg.Jobs, config.DefaultJobs)
	}
	if cfg.Verbose {
		t.Error("Verbose = true, want false")
	}
}

func TestResolveConfig_FlagOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	cmd, opts := buildFlagCmd(t)

	for flag, value := range map[string]string{
		"engine":     "xelatex",
		"jobs":       "2",
		"build-dir":  "out",
		"latex-flag": "-shell-escape",
		"clean":      "true",
	} {
		if err := cmd.Flags().Set(flag, value); err != nil {
			t.Fatalf("failed to set flag %s: %v", flag, err)
		}
	}

	cfg, err := resolveConfig(cmd, *opts, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Engine != "xelatex" {
		t.Errorf("Engine = %q, want %q", cfg.Engine, "xelatex")
	}
	if cfg.Jobs != 2 {
		t.Errorf("Jobs = %d, want 2", cfg.Jobs)
	}
	if cfg.BuildDir != "out" {
		t.Errorf("BuildDir = %q, want %q", cfg.BuildDir, "out")
	}
	if len(cfg.Flags) != 1 || cfg.Flags[0] != "-shell-escape" {
		t.Errorf("Flags = %v, want [-shell-escape]", cfg.Flags)
	}
	if !cfg.CleanBuild {
		t.Error("CleanBuild = false, want true")
	}
	if !cfg.Verbose {
		t.Error("Verbose = false, want true")
	}
}

func TestResolveConfig_UntouchedFlagsKeepFileValues(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeTestConfig(t, "engine: lualatex\njobs: 8\n")

	cmd, opts := buildFlagCmd(t)
	if err := cmd.Flags().Set("jobs", "2"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	cfg, err := resolveConfig(cmd, *opts, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Engine != "lualatex" {
		t.Errorf("Engine = %q, want file value %q", cfg.Engine, "lualatex")
	}
	if cfg.Jobs != 2 {
		t.Errorf("Jobs = %d, want flag value 2", cfg.Jobs)
	}
}

func TestResolveConfig_InvalidEngine(t *testing.T) {
	chdir(t, t.TempDir())
	cmd, opts := buildFlagCmd(t)
	if err := cmd.Flags().Set("engine", "wordperfect"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	if _, err := resolveConfig(cmd, *opts, false); err == nil {
		t.Fatal("expected validation error for unknown engine")
	}
}

func writeTestConfig(t *testing.T, content string) {
	t.Helper()
	if err := os.WriteFile(config.ConfigFileName, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}
