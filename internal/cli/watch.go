package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/texbuild/texbuild/internal/config"
	"github.com/texbuild/texbuild/internal/events"
	"github.com/texbuild/texbuild/internal/runner"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchDebounce coalesces editor save bursts into a single rebuild.
const watchDebounce = 300 * time.Millisecond

// watchExts are the file suffixes that trigger a rebuild.
var watchExts = map[string]bool{
	".tex": true,
	".bib": true,
	".sty": true,
	".cls": true,
}

// NewWatchCmd creates the watch command
func NewWatchCmd(app *App) *cobra.Command {
	var opts BuildOptions

	cmd := &cobra.Command{
		Use:   "watch <files...>",
		Short: "Rebuild documents when their sources change",
		Long: `Watch builds the given files, then monitors their directories and
rebuilds whenever a LaTeX source file changes. Press Ctrl+C to stop.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts, app.verbose)
			if err != nil {
				return err
			}
			return app.RunWatch(context.Background(), cfg, args)
		},
	}

	addBuildFlags(cmd, &opts)

	return cmd
}

// RunWatch builds the files once, then rebuilds on filesystem changes
// until the context is canceled or an interrupt arrives.
func (a *App) RunWatch(ctx context.Context, cfg *config.Config, files []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := events.NewBus()
	defer bus.Close()

	console := NewConsole(os.Stdout, cfg.Verbose)
	bus.Subscribe(console.Handler())

	handler := NewSignalHandler(cancel)
	handler.Start()
	defer handler.Stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dirs := map[string]bool{}
	for _, path := range files {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	rebuild := func() {
		run := runner.New(cfg, bus)
		handler.OnShutdown(run.Cancel)
		for _, path := range files {
			if err := run.Submit(path); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
		report, err := run.Run(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		console.PrintSummary(report)
	}

	bus.Emit(events.NewEvent(events.WatchStarted, "").
		WithPayload(map[string]any{"dirs": len(dirs), "files": len(files)}))
	rebuild()

	var debounce *time.Timer
	trigger := make(chan string, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			if !watchExts[filepath.Ext(ev.Name)] {
				continue
			}
			// Restart the debounce window on every relevant event so a
			// burst of saves produces one rebuild.
			if debounce != nil {
				debounce.Stop()
			}
			name := ev.Name
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case trigger <- name:
				default:
				}
			})

		case name := <-trigger:
			bus.Emit(events.NewEvent(events.WatchTriggered, filepath.Base(name)).
				WithPayload(map[string]any{"path": name}))
			rebuild()

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", werr)
		}
	}
}
