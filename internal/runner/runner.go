// Package runner schedules engine build jobs under a concurrency bound.
//
// One control-flow path drives the drain loop; parallelism comes from the
// independently scheduled external engine processes, never from concurrent
// job-handling code. No operation blocks the controlling goroutine:
// completion checks are non-blocking polls and spawning is fire-and-forget.
package runner

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/texbuild/texbuild/internal/config"
	"github.com/texbuild/texbuild/internal/events"
	"github.com/texbuild/texbuild/internal/outparse"
)

// DefaultPollInterval is the idle delay between drain-loop sweeps when no
// job has made progress, used when the config carries no usable interval.
const DefaultPollInterval = 50 * time.Millisecond

// Runner admits, polls, and retires a collection of jobs under a bounded
// active window. One Runner per invocation of the tool.
type Runner struct {
	cfg *config.Config
	bus *events.Bus

	pending   []*Job // FIFO submission queue
	active    []*Job // bounded window of jobs with live processes
	completed []*Job

	// canceled is the only state shared across a concurrency boundary:
	// the signal source flips it, the drain loop observes it once per
	// sweep. All teardown happens on the drain loop.
	canceled atomic.Bool

	pollInterval time.Duration
}

// New creates a runner for the given configuration. Events are emitted on
// bus; a nil bus disables reporting.
func New(cfg *config.Config, bus *events.Bus) *Runner {
	if bus == nil {
		bus = events.NewBus()
	}
	interval, err := cfg.PollIntervalDuration()
	if err != nil || interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Runner{
		cfg:          cfg,
		bus:          bus,
		pollInterval: interval,
	}
}

// Cancel requests that the run stop. Safe to call from a signal-handling
// goroutine; the drain loop performs the actual teardown on its next sweep.
func (r *Runner) Cancel() {
	r.canceled.Store(true)
}

// Canceled reports whether cancellation has been requested.
func (r *Runner) Canceled() bool {
	return r.canceled.Load()
}

// Submit validates the path and appends a job to the pending queue.
// A nonexistent path fails the submission immediately without enqueueing.
func (r *Runner) Submit(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	job := NewJob(r.cfg, r.bus, path)
	r.pending = append(r.pending, job)
	r.bus.Emit(events.NewEvent(events.JobQueued, job.Name))
	return nil
}

// Run drains all submitted jobs and builds the run summary. Cancellation
// (via Cancel or ctx) kills active jobs, discards pending ones, and
// reports only jobs that reached a terminal status. A cleanup failure is
// returned alongside the report as a run-level failure.
func (r *Runner) Run(ctx context.Context) (*RunnerReport, error) {
	r.bus.Emit(events.NewEvent(events.RunStarted, "").
		WithPayload(map[string]any{"job_count": len(r.pending)}))

	r.drain(ctx)

	if r.cfg.CleanBuild {
		for _, job := range r.completed {
			if err := job.Cleanup(); err != nil {
				return nil, err
			}
		}
	}

	report, err := r.buildReport()
	if err != nil {
		return nil, err
	}
	r.bus.Emit(events.NewEvent(events.RunCompleted, "").WithPayload(map[string]any{
		"total":     report.TotalJobs,
		"succeeded": report.Succeeded,
		"failed":    report.Failed,
	}))
	return report, nil
}

// maxActive returns the active window capacity.
func (r *Runner) maxActive() int {
	if r.cfg.Jobs < 1 {
		return 1
	}
	return r.cfg.Jobs
}

// drain is the central control loop: sweep the active window, retire
// terminal jobs, backfill from pending, and back off briefly when a full
// sweep makes no progress.
func (r *Runner) drain(ctx context.Context) {
	for len(r.pending) > 0 || len(r.active) > 0 {
		if r.canceled.Load() || ctx.Err() != nil {
			r.teardown()
			return
		}

		r.admit()

		progressed := false
		remaining := r.active[:0]
		for _, job := range r.active {
			if job.Poll() {
				r.retire(job)
				progressed = true
			} else {
				remaining = append(remaining, job)
			}
		}
		r.active = remaining

		// Backfill freed capacity before sleeping so the window stays
		// saturated while pending work exists.
		r.admit()

		if !progressed {
			time.Sleep(r.pollInterval)
		}
	}
}

// admit moves jobs from the head of pending into the active window while
// spare capacity exists. The first Poll spawns the process; a spawn
// failure retires the job immediately.
func (r *Runner) admit() {
	for len(r.active) < r.maxActive() && len(r.pending) > 0 {
		job := r.pending[0]
		r.pending = r.pending[1:]

		if job.Poll() {
			r.retire(job)
			continue
		}
		r.active = append(r.active, job)
		r.bus.Emit(events.NewEvent(events.JobStarted, job.Name).WithRun(job.RunCount))
	}
}

// retire moves a terminal job to completed and reports it.
func (r *Runner) retire(job *Job) {
	r.completed = append(r.completed, job)

	eventType := events.JobCompleted
	if job.Status == StatusFailed {
		eventType = events.JobFailed
	}
	evt := events.NewEvent(eventType, job.Name).WithRun(job.RunCount).WithError(job.Err)
	if job.Report != nil {
		evt = evt.WithPayload(map[string]any{
			"errors":   job.Report.Errors,
			"warnings": job.Report.Warnings,
			"badboxes": job.Report.Badboxes,
			"info":     job.Report.Info,
			"summary":  job.Report.String(),
		})
	}
	r.bus.Emit(evt)
}

// teardown ends the run on cancellation: kill everything in the active
// window and discard the entire pending queue without spawning any of it.
// Jobs already completed stay reported.
func (r *Runner) teardown() {
	for _, job := range r.active {
		job.Kill()
		r.bus.Emit(events.NewEvent(events.JobKilled, job.Name).WithRun(job.RunCount))
	}
	r.active = nil
	r.pending = nil
	r.bus.Emit(events.NewEvent(events.RunCanceled, ""))
}

// buildReport classifies every completed job into the run summary.
// A completed job without terminal status is an unrecoverable
// internal-consistency fault, not a user-facing condition.
func (r *Runner) buildReport() (*RunnerReport, error) {
	report := &RunnerReport{
		TotalJobs:    len(r.completed),
		BuildReports: make(map[string]*outparse.BuildReport, len(r.completed)),
	}
	for _, job := range r.completed {
		switch job.Status {
		case StatusSuccess:
			report.Succeeded++
		case StatusFailed:
			report.Failed++
		default:
			return nil, ErrJobNotTerminal
		}
		if job.Report != nil {
			report.BuildReports[job.Name] = job.Report
		}
	}
	return report, nil
}
