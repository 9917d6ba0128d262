package runner

import "errors"

var (
	// ErrPathNotFound is returned by Submit for a source path that does
	// not exist. It aborts that submission only.
	ErrPathNotFound = errors.New("path does not exist")

	// ErrJobNotTerminal is an internal-consistency fault: a completed job
	// was neither Success nor Failed at report-build time.
	ErrJobNotTerminal = errors.New("completed job has no terminal status")
)
