package config

import (
	"os"
	"strconv"
)

// envOverrides maps environment variables to config field setters.
var envOverrides = []struct {
	envVar string
	apply  func(*Config, string)
}{
	{
		envVar: "TEXBUILD_ENGINE",
		apply: func(c *Config, v string) {
			c.Engine = v
		},
	},
	{
		envVar: "TEXBUILD_BUILD_DIR",
		apply: func(c *Config, v string) {
			c.BuildDir = v
		},
	},
	{
		envVar: "TEXBUILD_JOBS",
		apply: func(c *Config, v string) {
			if n, err := strconv.Atoi(v); err == nil {
				c.Jobs = n
			}
		},
	},
	{
		envVar: "TEXBUILD_POLL_INTERVAL",
		apply: func(c *Config, v string) {
			c.PollInterval = v
		},
	},
}

// applyEnvOverrides modifies config in place with environment variable values.
func applyEnvOverrides(cfg *Config) {
	for _, override := range envOverrides {
		if val := os.Getenv(override.envVar); val != "" {
			override.apply(cfg, val)
		}
	}
}
