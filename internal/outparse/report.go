package outparse

import (
	"fmt"
	"regexp"
)

// MessageKind identifies the class of a diagnostic message.
type MessageKind int

const (
	KindError MessageKind = iota
	KindWarning
	KindBadbox
	KindInfo
)

// String returns the lowercase name of the kind.
func (k MessageKind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindWarning:
		return "warning"
	case KindBadbox:
		return "badbox"
	case KindInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Message is a single diagnostic reconstructed from the engine log.
//
// Full holds the verbatim matched line, including any continuation text
// appended later. Details maps extracted field names to values; recognized
// keys are "type", "component"/"package"/"class", "extra", "message", and
// for badboxes "direction", "by", and "line" or "start_line"/"end_line".
// ContextLines are raw lines captured immediately after the match.
type Message struct {
	Kind         MessageKind
	Full         string
	Details      map[string]string
	ContextLines []string
}

// ComponentName returns the component that produced the message, checking
// the generic "component" key first, then "package" and "class".
// Badboxes never carry a component.
func (m *Message) ComponentName() string {
	if m.Kind == KindBadbox {
		return ""
	}
	for _, key := range []string{"component", "package", "class"} {
		if name, ok := m.Details[key]; ok {
			return name
		}
	}
	return ""
}

func (m *Message) extendMessage(text string) {
	if cur, ok := m.Details["message"]; ok && cur != "" {
		m.Details["message"] = cur + " " + text
	} else {
		m.Details["message"] = text
	}
	m.Full += " " + text
}

func (m *Message) addContext(line string) {
	m.ContextLines = append(m.ContextLines, line)
}

// BuildReport aggregates the diagnostics of one engine run. The counters
// always equal the number of messages of the matching kind. A report is
// created empty, mutated only by the parser, and immutable once returned.
type BuildReport struct {
	Errors   int
	Warnings int
	Badboxes int
	Info     int
	Messages []Message
}

func newBuildReport() *BuildReport {
	return &BuildReport{}
}

// String summarizes the report counters.
func (r *BuildReport) String() string {
	return fmt.Sprintf("Errors: %d, Warnings: %d, Badboxes: %d",
		r.Errors, r.Warnings, r.Badboxes)
}

// missingRefPattern matches the message text of warnings about unresolved
// references or citations, capturing the label.
var missingRefPattern = regexp.MustCompile("^(Reference|Citation) [`']([^']+)' (?:on page \\S+ )?undefined")

// rerunPattern matches the summary warnings the engine emits when another
// pass would resolve forward references.
var rerunPattern = regexp.MustCompile(`Rerun to get |There were undefined (references|citations)`)

// NeedsRerun reports whether the log indicates unresolved forward
// references that a second engine run would typically resolve.
func (r *BuildReport) NeedsRerun() bool {
	for i := range r.Messages {
		m := &r.Messages[i]
		if m.Kind != KindWarning {
			continue
		}
		text := m.Details["message"]
		if rerunPattern.MatchString(text) || missingRefPattern.MatchString(text) {
			return true
		}
	}
	return false
}

// MissingReferences returns the labels of all references and citations
// reported undefined, in log order.
func (r *BuildReport) MissingReferences() []string {
	var labels []string
	for i := range r.Messages {
		m := &r.Messages[i]
		if m.Kind != KindWarning {
			continue
		}
		if match := missingRefPattern.FindStringSubmatch(m.Details["message"]); match != nil {
			labels = append(labels, match[2])
		}
	}
	return labels
}
