package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/texbuild/texbuild/internal/cli/tui"
	"github.com/texbuild/texbuild/internal/config"
	"github.com/texbuild/texbuild/internal/events"
	"github.com/texbuild/texbuild/internal/runner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// BuildOptions holds flags for the build command
type BuildOptions struct {
	Engine   string   // LaTeX engine executable
	Flags    []string // Extra engine flags (repeatable)
	BuildDir string   // Directory for engine output
	Clean    bool     // Remove byproducts after building
	Jobs     int      // Max concurrent engine processes
	JSON     bool     // Force JSON line output
	NoTUI    bool     // Disable TUI even when stdout is a TTY
}

// NewBuildCmd creates the build command
func NewBuildCmd(app *App) *cobra.Command {
	var opts BuildOptions

	cmd := &cobra.Command{
		Use:   "build <files...>",
		Short: "Build LaTeX documents in parallel",
		Long: `Build runs the configured LaTeX engine over each input file, deciding
automatically when a second pass is required to resolve forward
references, and reports structured diagnostics per job.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts, app.verbose)
			if err != nil {
				return err
			}
			return app.RunBuild(context.Background(), cfg, opts, args)
		},
	}

	addBuildFlags(cmd, &opts)
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Emit events as JSON lines")
	cmd.Flags().BoolVar(&opts.NoTUI, "no-tui", false, "Disable interactive TUI (summary-only output)")

	return cmd
}

// addBuildFlags registers the flags shared by build and watch.
func addBuildFlags(cmd *cobra.Command, opts *BuildOptions) {
	cmd.Flags().StringVar(&opts.Engine, "engine", config.DefaultEngine, "LaTeX engine executable")
	cmd.Flags().StringArrayVar(&opts.Flags, "latex-flag", nil, "Extra engine flag (repeatable)")
	cmd.Flags().StringVar(&opts.BuildDir, "build-dir", "", "Directory for engine output")
	cmd.Flags().BoolVar(&opts.Clean, "clean", false, "Remove auxiliary byproducts after building")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", config.DefaultJobs, "Max concurrent engine processes")
}

// resolveConfig loads file/env configuration and applies explicit flag
// overrides on top. Flags the user did not touch leave the loaded values
// alone.
func resolveConfig(cmd *cobra.Command, opts BuildOptions, verbose bool) (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	cfg, err := config.LoadConfig(wd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("engine") {
		cfg.Engine = opts.Engine
	}
	if flags.Changed("latex-flag") {
		// Repeated flags add to the configured set rather than replace it.
		cfg.Flags = append(cfg.Flags, opts.Flags...)
	}
	if flags.Changed("build-dir") {
		cfg.BuildDir = opts.BuildDir
	}
	if flags.Changed("jobs") {
		cfg.Jobs = opts.Jobs
	}
	if opts.Clean {
		cfg.CleanBuild = true
	}
	if verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunBuild executes one build run over the given files
func (a *App) RunBuild(ctx context.Context, cfg *config.Config, opts BuildOptions, files []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := events.NewBus()
	defer bus.Close()

	run := runner.New(cfg, bus)

	// The signal goroutine only cancels the context and flips the
	// runner's cancellation flag; the drain loop does the teardown.
	handler := NewSignalHandler(cancel)
	handler.OnShutdown(run.Cancel)
	handler.Start()
	defer handler.Stop()

	jsonMode := events.IsJSONMode(opts.JSON)
	useTUI := !opts.NoTUI && !jsonMode && term.IsTerminal(int(os.Stdout.Fd()))

	var console *Console
	var tuiProgram *tea.Program
	var tuiBridge *tui.Bridge
	var g errgroup.Group

	switch {
	case jsonMode:
		bus.Subscribe(events.JSONEmitterHandler(events.NewJSONEmitter(os.Stdout)))

	case useTUI:
		model := tui.NewModel(len(files), cfg.Jobs)
		tuiProgram = tea.NewProgram(model)
		tuiBridge = tui.NewBridge(tuiProgram)
		bus.Subscribe(tuiBridge.Handler())
		if cfg.Verbose {
			bus.Subscribe(events.LogHandler(events.LogConfig{
				Writer: tui.NewLogWriter(tuiProgram),
			}))
		}
		g.Go(func() error {
			_, err := tuiProgram.Run()
			return err
		})

	default:
		console = NewConsole(os.Stdout, cfg.Verbose)
		bus.Subscribe(console.Handler())
	}

	submitted := 0
	for _, path := range files {
		if err := run.Submit(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		submitted++
	}
	if submitted == 0 {
		if tuiProgram != nil {
			tuiBridge.SendDone()
			_ = g.Wait()
		}
		return fmt.Errorf("no buildable files submitted")
	}

	report, err := run.Run(ctx)

	if tuiProgram != nil {
		tuiBridge.SendDone()
		if werr := g.Wait(); werr != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", werr)
		}
	}
	if err != nil {
		return err
	}

	if console != nil {
		console.PrintSummary(report)
	} else if !jsonMode {
		fmt.Println(report)
	}

	if run.Canceled() {
		return fmt.Errorf("run canceled: %s", report)
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", report.Failed, report.TotalJobs)
	}
	return nil
}
