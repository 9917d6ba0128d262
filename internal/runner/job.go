package runner

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/texbuild/texbuild/internal/config"
	"github.com/texbuild/texbuild/internal/engine"
	"github.com/texbuild/texbuild/internal/events"
	"github.com/texbuild/texbuild/internal/outparse"
)

// JobStatus is the externally observable state of a job.
// Pending -> Active -> {Success, Failed}. A rebuild for unresolved
// references is an Active -> Active self-transition, not a distinct state.
type JobStatus int

const (
	StatusPending JobStatus = iota
	StatusActive
	StatusSuccess
	StatusFailed
)

// String returns the lowercase name of the status.
func (s JobStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusActive:
		return "active"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is final.
func (s JobStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// Job owns one build attempt for one source file, potentially spanning
// multiple engine runs. The process handle and its captured output are
// exclusively owned by the job until the output has been drained into the
// parser.
type Job struct {
	// Name is the job name, derived from the source file stem.
	Name string

	// Source is the submitted source path.
	Source string

	// RunCount is the number of engine runs spawned so far.
	RunCount int

	// Report is the parsed report of the most recent completed run.
	Report *outparse.BuildReport

	// Status is the job's position in the state machine.
	Status JobStatus

	// Err is the failure cause when Status is Failed for a reason other
	// than engine diagnostics (spawn or wait failure).
	Err error

	cfg  *config.Config
	bus  *events.Bus
	args []string

	// cmd and its captured stdout are present only while Active.
	cmd    *exec.Cmd
	stdout *bytes.Buffer

	// done receives the process wait result; 1-buffered so the wait
	// goroutine never blocks on a retired job.
	done chan error
}

// NewJob constructs a job for the given source path. Construction does not
// spawn; the process starts on the first Poll.
func NewJob(cfg *config.Config, bus *events.Bus, source string) *Job {
	args := make([]string, 0, len(cfg.Flags)+3)
	args = append(args, cfg.Flags...)
	args = append(args, engine.NonstopFlag)
	if cfg.BuildDir != "" {
		args = append(args, engine.OutputDirFlagPrefix+cfg.BuildDir)
	}
	args = append(args, source)

	base := filepath.Base(source)
	return &Job{
		Name:   strings.TrimSuffix(base, filepath.Ext(base)),
		Source: source,
		Status: StatusPending,
		cfg:    cfg,
		bus:    bus,
		args:   args,
	}
}

// spawn starts one engine run. Stdout is captured, stderr passes through
// to the invoking terminal.
func (j *Job) spawn() error {
	cmd := exec.Command(j.cfg.Engine, j.args...)
	j.stdout = &bytes.Buffer{}
	cmd.Stdout = j.stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn %s for %s: %w", j.cfg.Engine, j.Name, err)
	}
	j.cmd = cmd
	j.RunCount++

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()
	j.done = done
	return nil
}

// release drops the process handle and captured output after the output
// has been drained into the parser.
func (j *Job) release() {
	j.cmd = nil
	j.stdout = nil
	j.done = nil
}

// Poll advances the job state machine without blocking. It returns true
// exactly when the job reaches a terminal status on this call; polling a
// terminal job is an inert no-op.
func (j *Job) Poll() bool {
	switch j.Status {
	case StatusPending:
		if err := j.spawn(); err != nil {
			j.Err = err
			j.Status = StatusFailed
			return true
		}
		j.Status = StatusActive
		return false

	case StatusActive:
		select {
		case waitErr := <-j.done:
			return j.checkBuildLog(waitErr)
		default:
			return false
		}

	default:
		return false
	}
}

// checkBuildLog parses the captured output of a finished run and decides
// between terminal status and an in-place rebuild. Exit code zero is
// necessary but not sufficient: a clean exit with parsed errors is still a
// failure. At most one automatic rebuild is performed, and only when the
// first run left forward references unresolved.
func (j *Job) checkBuildLog(waitErr error) bool {
	exitOK := waitErr == nil
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			// The wait itself failed, not the process.
			j.Err = fmt.Errorf("wait for %s: %w", j.Name, waitErr)
			j.Status = StatusFailed
			j.release()
			return true
		}
	}

	report, err := outparse.Parse(j.stdout)
	j.release()
	if err != nil {
		j.Err = fmt.Errorf("parse log for %s: %w", j.Name, err)
		j.Status = StatusFailed
		return true
	}
	j.Report = report

	switch {
	case report.Errors > 0 || !exitOK:
		j.Status = StatusFailed
		return true

	case j.RunCount == 1 && report.NeedsRerun():
		if err := j.spawn(); err != nil {
			j.Err = err
			j.Status = StatusFailed
			return true
		}
		if j.bus != nil {
			j.bus.Emit(events.NewEvent(events.JobRerun, j.Name).WithRun(j.RunCount))
		}
		return false

	default:
		j.Status = StatusSuccess
		return true
	}
}

// Kill is a best-effort request that the underlying process terminate
// immediately. It does not change the job status; used only for
// cancellation.
func (j *Job) Kill() {
	if j.cmd != nil && j.cmd.Process != nil {
		_ = j.cmd.Process.Kill()
	}
}

// Cleanup removes build byproducts: every entry in the output directory
// whose name begins with the job name, except the source file and the
// engine's primary artifact. Filesystem errors propagate to the caller.
func (j *Job) Cleanup() error {
	dir := j.cfg.BuildDir
	if dir == "" {
		dir = "."
	}
	artifactExt, err := engine.ArtifactExt(j.cfg.Engine)
	if err != nil {
		return err
	}
	keep := map[string]bool{
		artifactExt:            true,
		filepath.Ext(j.Source): true,
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("cleanup %s: %w", j.Name, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, j.Name) || keep[filepath.Ext(name)] {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("cleanup %s: %w", j.Name, err)
		}
	}
	return nil
}
