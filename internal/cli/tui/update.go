package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case TickMsg:
		// Continue ticking for timer updates
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case DoneMsg:
		m.Done = true
		return m, tea.Quit

	case QuitMsg:
		m.Quitting = true
		return m, tea.Quit

	case RunStartedMsg:
		m.TotalJobs = msg.TotalJobs

	case JobStartedMsg:
		m.ActiveJobs[msg.Name] = &JobState{
			Name:  msg.Name,
			Run:   msg.Run,
			Phase: "building",
		}

	case JobRerunMsg:
		if job, ok := m.ActiveJobs[msg.Name]; ok {
			job.Run = msg.Run
			job.Phase = "rerunning for cross-references"
		}

	case JobCompletedMsg:
		delete(m.ActiveJobs, msg.Name)
		m.CompletedJobs++

	case JobFailedMsg:
		delete(m.ActiveJobs, msg.Name)
		m.FailedJobs++

	case LogMsg:
		m.LogLines = append(m.LogLines, msg.Line)
		if m.LogLimit > 0 && len(m.LogLines) > m.LogLimit {
			m.LogLines = m.LogLines[len(m.LogLines)-m.LogLimit:]
		}
	}

	return m, nil
}
