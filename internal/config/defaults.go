package config

const (
	// ConfigFileName is the optional per-project config file.
	ConfigFileName = ".texbuild.yaml"

	DefaultEngine       = "pdflatex"
	DefaultJobs         = 4
	DefaultPollInterval = "50ms"
)

// DefaultConfig returns a Config with all default values applied.
func DefaultConfig() *Config {
	return &Config{
		Engine:       DefaultEngine,
		Flags:        nil,
		BuildDir:     "",
		CleanBuild:   false,
		Jobs:         DefaultJobs,
		PollInterval: DefaultPollInterval,
		Verbose:      false,
	}
}
