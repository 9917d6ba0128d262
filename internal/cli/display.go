package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/texbuild/texbuild/internal/events"
	"github.com/texbuild/texbuild/internal/outparse"
	"github.com/texbuild/texbuild/internal/runner"
	"github.com/charmbracelet/lipgloss"
)

const (
	symbolComplete = "✓"
	symbolFailed   = "✗"
	symbolRerun    = "↻"
)

// Console writes per-job progress lines and a final summary. It is the
// output surface for non-TTY and --no-tui runs.
type Console struct {
	w       io.Writer
	verbose bool

	ok   lipgloss.Style
	fail lipgloss.Style
	name lipgloss.Style
	dim  lipgloss.Style
}

// NewConsole creates a console reporter writing to w.
func NewConsole(w io.Writer, verbose bool) *Console {
	return &Console{
		w:       w,
		verbose: verbose,
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		fail:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		name:    lipgloss.NewStyle().Bold(true),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Handler returns an event handler that prints one line per job
// transition. The bus dispatches synchronously, so writes are ordered.
func (c *Console) Handler() events.Handler {
	return func(e events.Event) {
		switch e.Type {
		case events.JobStarted:
			if c.verbose {
				fmt.Fprintf(c.w, "%s %s run #%d\n",
					c.dim.Render("•"), c.name.Render(e.Job), runOf(e))
			}
		case events.JobRerun:
			fmt.Fprintf(c.w, "%s %s rerunning to resolve references\n",
				c.dim.Render(symbolRerun), c.name.Render(e.Job))
		case events.JobCompleted:
			fmt.Fprintf(c.w, "%s %s %s\n",
				c.ok.Render(symbolComplete), c.name.Render(e.Job),
				c.dim.Render(payloadSummary(e)))
		case events.JobFailed:
			line := fmt.Sprintf("%s %s %s",
				c.fail.Render(symbolFailed), c.name.Render(e.Job),
				c.dim.Render(payloadSummary(e)))
			if e.Error != "" {
				line += " " + c.fail.Render(e.Error)
			}
			fmt.Fprintln(c.w, line)
		case events.JobKilled:
			fmt.Fprintf(c.w, "%s %s killed\n",
				c.fail.Render(symbolFailed), c.name.Render(e.Job))
		}
	}
}

// PrintSummary writes the run statistics line and, in verbose mode,
// every diagnostic message collected per job.
func (c *Console) PrintSummary(r *runner.RunnerReport) {
	fmt.Fprintln(c.w, r)
	if !c.verbose {
		return
	}

	names := make([]string, 0, len(r.BuildReports))
	for name := range r.BuildReports {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		br := r.BuildReports[name]
		if len(br.Messages) == 0 {
			continue
		}
		fmt.Fprintf(c.w, "\n%s (%s)\n", c.name.Render(name), br)
		for _, m := range br.Messages {
			c.printMessage(m)
		}
	}
}

func (c *Console) printMessage(m outparse.Message) {
	style := c.dim
	switch m.Kind {
	case outparse.KindError:
		style = c.fail
	case outparse.KindWarning, outparse.KindBadbox:
		style = c.name
	}
	fmt.Fprintf(c.w, "  %s %s\n", style.Render(m.Kind.String()+":"), m.Full)
	for _, ctx := range m.ContextLines {
		fmt.Fprintf(c.w, "    %s\n", c.dim.Render(ctx))
	}
}

func runOf(e events.Event) int {
	if e.Run != nil {
		return *e.Run
	}
	return 0
}

func payloadSummary(e events.Event) string {
	if p, ok := e.Payload.(map[string]any); ok {
		if s, ok := p["summary"].(string); ok {
			return s
		}
	}
	return ""
}
