package cli

import (
	"strings"
	"testing"

	"github.com/texbuild/texbuild/internal/events"
	"github.com/texbuild/texbuild/internal/outparse"
	"github.com/texbuild/texbuild/internal/runner"
)

func TestConsole_JobCompletedLine(t *testing.T) {
	var buf strings.Builder
	console := NewConsole(&buf, false)
	h := console.Handler()

	h(events.NewEvent(events.JobCompleted, "thesis").WithRun(1).
		WithPayload(map[string]any{"summary": "Errors: 0, Warnings: 2, Badboxes: 1"}))

	out := buf.String()
	if !strings.Contains(out, symbolComplete) {
		t.Errorf("output %q should contain %q", out, symbolComplete)
	}
	if !strings.Contains(out, "thesis") {
		t.Errorf("output %q should contain the job name", out)
	}
	if !strings.Contains(out, "Errors: 0, Warnings: 2, Badboxes: 1") {
		t.Errorf("output %q should contain the report summary", out)
	}
}

func TestConsole_JobFailedLine(t *testing.T) {
	var buf strings.Builder
	console := NewConsole(&buf, false)
	h := console.Handler()

	h(events.Event{Type: events.JobFailed, Job: "paper", Error: "exit status 1"})

	out := buf.String()
	if !strings.Contains(out, symbolFailed) {
		t.Errorf("output %q should contain %q", out, symbolFailed)
	}
	if !strings.Contains(out, "exit status 1") {
		t.Errorf("output %q should contain the error", out)
	}
}

func TestConsole_QuietByDefault(t *testing.T) {
	var buf strings.Builder
	console := NewConsole(&buf, false)
	h := console.Handler()

	h(events.NewEvent(events.JobQueued, "thesis"))
	h(events.NewEvent(events.JobStarted, "thesis").WithRun(1))

	if buf.Len() != 0 {
		t.Errorf("queued/started should print nothing without verbose, got %q", buf.String())
	}
}

func TestConsole_PrintSummary(t *testing.T) {
	var buf strings.Builder
	console := NewConsole(&buf, false)

	console.PrintSummary(&runner.RunnerReport{TotalJobs: 2, Succeeded: 1, Failed: 1})

	want := "Build statistics: 2 jobs, 1 succeeded, 1 failed."
	if !strings.Contains(buf.String(), want) {
		t.Errorf("summary %q should contain %q", buf.String(), want)
	}
}

func TestConsole_PrintSummaryVerboseDumpsMessages(t *testing.T) {
	var buf strings.Builder
	console := NewConsole(&buf, true)

	report := outparse.ParseString("! Undefined control sequence.\nl.5 \\badmacro")
	console.PrintSummary(&runner.RunnerReport{
		TotalJobs: 1,
		Failed:    1,
		BuildReports: map[string]*outparse.BuildReport{
			"main": report,
		},
	})

	out := buf.String()
	if !strings.Contains(out, "! Undefined control sequence.") {
		t.Errorf("verbose summary %q should contain the diagnostic", out)
	}
	if !strings.Contains(out, "l.5 \\badmacro") {
		t.Errorf("verbose summary %q should contain the context line", out)
	}
}
