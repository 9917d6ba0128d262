package tui

import (
	"github.com/texbuild/texbuild/internal/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Bridge connects the event bus to the bubbletea program
type Bridge struct {
	program *tea.Program
}

// NewBridge creates a new bridge for the given program
func NewBridge(program *tea.Program) *Bridge {
	return &Bridge{
		program: program,
	}
}

// Handler returns an event handler function for the event bus
func (b *Bridge) Handler() events.Handler {
	return func(evt events.Event) {
		msg := b.eventToMsg(evt)
		if msg != nil {
			b.program.Send(msg)
		}
	}
}

// eventToMsg converts an events.Event to a tea.Msg
func (b *Bridge) eventToMsg(evt events.Event) tea.Msg {
	run := 0
	if evt.Run != nil {
		run = *evt.Run
	}

	switch evt.Type {
	case events.RunStarted:
		totalJobs := 0
		if payload, ok := evt.Payload.(map[string]any); ok {
			if t, ok := payload["job_count"].(int); ok {
				totalJobs = t
			}
		}
		return RunStartedMsg{
			TotalJobs: totalJobs,
		}

	case events.JobStarted:
		return JobStartedMsg{
			Name: evt.Job,
			Run:  run,
		}

	case events.JobRerun:
		return JobRerunMsg{
			Name: evt.Job,
			Run:  run,
		}

	case events.JobCompleted:
		summary := ""
		if payload, ok := evt.Payload.(map[string]any); ok {
			if s, ok := payload["summary"].(string); ok {
				summary = s
			}
		}
		return JobCompletedMsg{
			Name:    evt.Job,
			Summary: summary,
		}

	case events.JobFailed:
		return JobFailedMsg{
			Name:  evt.Job,
			Error: evt.Error,
		}

	default:
		return nil
	}
}

// SendDone sends a DoneMsg to the program
func (b *Bridge) SendDone() {
	b.program.Send(DoneMsg{})
}

// SendQuit sends a QuitMsg to the program
func (b *Bridge) SendQuit() {
	b.program.Send(QuitMsg{})
}
