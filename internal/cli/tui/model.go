package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// JobState tracks the state of a single build job in the TUI
type JobState struct {
	Name  string
	Run   int
	Phase string
}

// Model is the bubbletea model for the TUI
type Model struct {
	// Configuration
	TotalJobs   int
	Parallelism int
	Styles      Styles

	// State
	ActiveJobs    map[string]*JobState
	CompletedJobs int
	FailedJobs    int
	StartTime     time.Time
	LogLines      []string
	LogLimit      int
	Width         int
	Height        int

	Spinner spinner.Model

	// Control
	Quitting bool
	Done     bool
}

// NewModel creates a new TUI model
func NewModel(totalJobs, parallelism int) *Model {
	styles := DefaultStyles()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.JobActive

	return &Model{
		TotalJobs:   totalJobs,
		Parallelism: parallelism,
		Styles:      styles,
		ActiveJobs:  make(map[string]*JobState),
		StartTime:   time.Now(),
		LogLimit:    500,
		Spinner:     sp,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		m.Spinner.Tick,
	)
}

// TickMsg is sent every second to update the timer
type TickMsg time.Time

// tickCmd returns a command that sends TickMsg every second
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// DoneMsg signals the TUI should exit
type DoneMsg struct{}

// QuitMsg signals the user requested quit (q or Ctrl+C)
type QuitMsg struct{}

// RunStartedMsg indicates the run has started with the job count
type RunStartedMsg struct {
	TotalJobs int
}

// JobStartedMsg indicates a job's engine process has been spawned
type JobStartedMsg struct {
	Name string
	Run  int
}

// JobRerunMsg indicates a job is rebuilding to resolve references
type JobRerunMsg struct {
	Name string
	Run  int
}

// JobCompletedMsg indicates a job has completed successfully
type JobCompletedMsg struct {
	Name    string
	Summary string
}

// JobFailedMsg indicates a job has failed
type JobFailedMsg struct {
	Name  string
	Error string
}
