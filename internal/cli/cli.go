package cli

import (
	"github.com/spf13/cobra"
)

// VersionInfo holds build-time version metadata
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// App represents the CLI application with all wired dependencies
type App struct {
	// Root command
	rootCmd *cobra.Command

	// Runtime state
	verbose bool

	versionInfo VersionInfo
}

// New creates a new CLI application
func New() *App {
	app := &App{}
	app.setupRootCmd()
	return app
}

// Execute runs the CLI application
func (a *App) Execute() error {
	return a.rootCmd.Execute()
}

// SetVersion sets the version string for the version command
func (a *App) SetVersion(version, commit, date string) {
	a.versionInfo = VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// setupRootCmd configures the root Cobra command
func (a *App) setupRootCmd() {
	a.rootCmd = &cobra.Command{
		Use:   "texbuild",
		Short: "Parallel LaTeX build runner",
		Long: `texbuild wraps a LaTeX engine with intelligent rebuilding and
simplified build reports.

Multiple input files build concurrently through non-blocking polls of the
underlying engine processes, and each engine log is parsed into a
structured report of errors, warnings, and bad boxes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	a.rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"Verbose output")

	a.rootCmd.AddCommand(NewBuildCmd(a))
	a.rootCmd.AddCommand(NewWatchCmd(a))
	a.rootCmd.AddCommand(NewVersionCmd(a))
}
