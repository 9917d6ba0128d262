package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// View implements tea.Model
func (m *Model) View() string {
	if m.Done || m.Quitting {
		return ""
	}

	var b strings.Builder

	// Header
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	// Active jobs
	b.WriteString(m.renderActiveJobs())

	// Status line
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")

	// Recent log lines
	b.WriteString(m.renderLog())

	// Footer
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title line with timer and parallelism
func (m *Model) renderHeader() string {
	elapsed := time.Since(m.StartTime).Round(time.Second)
	timer := fmt.Sprintf("[%s]", formatDuration(elapsed))
	parallelism := fmt.Sprintf("Jobs: %d", m.Parallelism)

	return fmt.Sprintf("%s  %s  %s",
		m.Styles.Title.Render("texbuild"),
		m.Styles.Timer.Render(timer),
		m.Styles.Parallelism.Render(parallelism),
	)
}

// renderActiveJobs renders the list of in-progress jobs
func (m *Model) renderActiveJobs() string {
	if len(m.ActiveJobs) == 0 {
		return "  No active jobs\n\n"
	}

	var b strings.Builder

	// Sort jobs by name for stable display
	names := make([]string, 0, len(m.ActiveJobs))
	for name := range m.ActiveJobs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		job := m.ActiveJobs[name]
		phase := m.Styles.PhaseText.Render(fmt.Sprintf("run #%d: %s", job.Run, job.Phase))
		fmt.Fprintf(&b, "  %s %s %s\n",
			m.Spinner.View(),
			m.Styles.JobName.Render(job.Name),
			phase,
		)
	}
	b.WriteString("\n")

	return b.String()
}

// renderProgressBar creates a progress bar of the given width
func (m *Model) renderProgressBar(completed, total, width int) string {
	if total == 0 {
		total = 1 // Avoid division by zero
	}

	filled := min((completed*width)/total, width)

	filledStr := strings.Repeat("█", filled)
	emptyStr := strings.Repeat("░", width-filled)

	return "[" +
		m.Styles.ProgressFilled.Render(filledStr) +
		m.Styles.ProgressEmpty.Render(emptyStr) +
		"]"
}

// renderStatusLine renders the summary status line
func (m *Model) renderStatusLine() string {
	activeCount := len(m.ActiveJobs)
	done := m.CompletedJobs + m.FailedJobs

	progress := m.renderProgressBar(done, m.TotalJobs, 20)
	complete := m.Styles.StatusComplete.Render(fmt.Sprintf("%d complete", m.CompletedJobs))
	failed := m.Styles.StatusFailed.Render(fmt.Sprintf("%d failed", m.FailedJobs))
	active := m.Styles.StatusActive.Render(fmt.Sprintf("%d active", activeCount))

	return fmt.Sprintf("  %s %d/%d %s | %s | %s",
		progress,
		done,
		m.TotalJobs,
		complete,
		failed,
		active,
	)
}

// renderLog renders the tail of captured log lines
func (m *Model) renderLog() string {
	if len(m.LogLines) == 0 {
		return ""
	}

	shown := m.LogLines
	if len(shown) > 5 {
		shown = shown[len(shown)-5:]
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(m.Styles.LogTitle.Render("  Recent output"))
	b.WriteString("\n")
	for _, line := range shown {
		b.WriteString("  ")
		b.WriteString(m.Styles.LogLine.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// renderFooter renders the help text
func (m *Model) renderFooter() string {
	key := m.Styles.FooterKey.Render("q")
	return m.Styles.Footer.Render(fmt.Sprintf("  Press %s to quit", key))
}

// formatDuration formats a duration as HH:MM:SS
func formatDuration(d time.Duration) string {
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
