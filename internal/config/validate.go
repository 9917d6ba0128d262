package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/texbuild/texbuild/internal/engine"
)

// ValidationError contains details about what failed validation.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config.%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// Validate checks the config after any overrides have been applied.
func (c *Config) Validate() error {
	return validateConfig(c)
}

// validateConfig checks all config values for validity.
// Returns nil if valid, or joined errors for all validation failures.
func validateConfig(cfg *Config) error {
	var errs []error

	if cfg.Engine == "" {
		errs = append(errs, &ValidationError{
			Field:   "engine",
			Value:   cfg.Engine,
			Message: "must not be empty",
		})
	} else if !engine.Known(cfg.Engine) {
		errs = append(errs, &ValidationError{
			Field:   "engine",
			Value:   cfg.Engine,
			Message: "unrecognized LaTeX engine",
		})
	}

	if cfg.Jobs < 1 {
		errs = append(errs, &ValidationError{
			Field:   "jobs",
			Value:   cfg.Jobs,
			Message: "must be at least 1",
		})
	}

	if _, err := time.ParseDuration(cfg.PollInterval); err != nil {
		errs = append(errs, &ValidationError{
			Field:   "poll_interval",
			Value:   cfg.PollInterval,
			Message: "must be a valid duration string",
		})
	}

	return errors.Join(errs...)
}
