package events

import (
	"fmt"
	"strings"
	"time"
)

// Event represents a single occurrence in the build run lifecycle
type Event struct {
	// Time is when the event occurred (set by bus on emit)
	Time time.Time `json:"time"`

	// Type identifies what happened
	Type EventType `json:"type"`

	// Job is the job name this event relates to (empty for run events)
	Job string `json:"job,omitempty"`

	// Run is the engine run number within the job (nil if not run-related)
	Run *int `json:"run,omitempty"`

	// Payload contains event-specific data (type varies by event)
	Payload any `json:"payload,omitempty"`

	// Error contains error message if this is a failure event
	Error string `json:"error,omitempty"`
}

// EventType is a string constant identifying the event category
type EventType string

// Run lifecycle events
const (
	RunStarted   EventType = "run.started"   // Payload: job_count (int)
	RunCompleted EventType = "run.completed" // Payload: total, succeeded, failed (int)
	RunCanceled  EventType = "run.canceled"
)

// Job lifecycle events
const (
	JobQueued    EventType = "job.queued"
	JobStarted   EventType = "job.started"
	JobRerun     EventType = "job.rerun" // the rebuild pass for unresolved references
	JobCompleted EventType = "job.completed"
	JobFailed    EventType = "job.failed"
	JobKilled    EventType = "job.killed" // cancellation teardown
)

// Watch mode events
const (
	WatchStarted   EventType = "watch.started"
	WatchTriggered EventType = "watch.triggered" // Payload: path (string)
)

// NewEvent creates an event with the given type and job name
func NewEvent(eventType EventType, job string) Event {
	return Event{
		Type: eventType,
		Job:  job,
	}
}

// WithRun returns a copy of the event with the run number set
func (e Event) WithRun(run int) Event {
	e.Run = &run
	return e
}

// WithPayload returns a copy of the event with the payload set
func (e Event) WithPayload(payload any) Event {
	e.Payload = payload
	return e
}

// WithError returns a copy of the event with the error message set
func (e Event) WithError(err error) Event {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// IsFailure returns true if this is a failure event type
func (e Event) IsFailure() bool {
	return strings.HasSuffix(string(e.Type), ".failed")
}

// String returns a human-readable representation of the event
func (e Event) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s]", e.Type))

	if e.Job != "" {
		parts = append(parts, e.Job)
	}

	if e.Run != nil {
		parts = append(parts, fmt.Sprintf("run=#%d", *e.Run))
	}

	return strings.Join(parts, " ")
}
