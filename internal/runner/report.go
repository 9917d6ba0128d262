package runner

import (
	"fmt"

	"github.com/texbuild/texbuild/internal/outparse"
)

// RunnerReport summarizes one run of the tool. Built once, after draining
// ends. BuildReports is keyed by job name and has no defined ordering.
type RunnerReport struct {
	TotalJobs    int
	Succeeded    int
	Failed       int
	BuildReports map[string]*outparse.BuildReport
}

// String returns the human summary line.
func (r *RunnerReport) String() string {
	return fmt.Sprintf("Build statistics: %d jobs, %d succeeded, %d failed.",
		r.TotalJobs, r.Succeeded, r.Failed)
}
