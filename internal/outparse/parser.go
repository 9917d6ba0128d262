// Package outparse reconstructs structured diagnostics from the
// line-oriented, loosely formatted output of a LaTeX engine run.
//
// The engine emits multi-line diagnostics with no terminator token: later
// lines of a message are only recognizable by a component-name echo or by
// raw positional proximity. The parser therefore carries state (which
// message is current, how many trailing context lines remain to harvest)
// across line-processing calls.
package outparse

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// DefaultContextLines is the number of raw lines captured after a
// diagnostic that supports trailing context.
const DefaultContextLines = 2

// Recognition patterns, compiled once at process start and shared
// read-only for the remainder of the run.
var (
	// typeTag is the common prefix of typed diagnostics: an engine-family
	// tag, "Package", or "Class", optionally followed by a component name.
	infoPattern = regexp.MustCompile(
		`^((?:La|pdf)TeX|Package|Class)(?: (\S+))? [Ii]nfo(?: \(([^()]+)\))?: (.*)$`)
	warningPattern = regexp.MustCompile(
		`^((?:La|pdf)TeX|Package|Class)(?: (\S+))? [Ww]arning(?: \(([^()]+)\))?: (.*)$`)
	errorPattern = regexp.MustCompile(
		`^! (?:((?:La|pdf)TeX|Package|Class)(?: (\S+))? [Ee]rror(?: \(([^()]+)\))?: (.*)|(.*))$`)
	badboxPattern = regexp.MustCompile(
		`^(Over|Under)full \\([hv])box \((?:badness (\d+)|([0-9.]+[a-z]+ too \w+))\)` +
			`(?: (?:in (?:paragraph|alignment) at lines (\d+)--(\d+)|detected at line (\d+)|has occurred while \\output is active.*))?`)
)

// Parser is a streaming, stateful log parser. Lines are processed strictly
// in order; unmatched lines are silently discarded. The zero value is not
// usable, use NewParser.
type Parser struct {
	report *BuildReport

	// lastIdx indexes the most recently produced message in
	// report.Messages, or -1. An index rather than a pointer: appending
	// to Messages may reallocate the backing array.
	lastIdx int

	// contextLeft is the remaining trailing-context budget for the
	// message at lastIdx.
	contextLeft int

	contextBudget int
}

// NewParser creates a parser with the default trailing-context budget.
func NewParser() *Parser {
	return &Parser{
		report:        newBuildReport(),
		lastIdx:       -1,
		contextBudget: DefaultContextLines,
	}
}

// Parse consumes r line by line and returns the resulting report.
// The only error condition is a failed read of the underlying stream.
func Parse(r io.Reader) (*BuildReport, error) {
	p := NewParser()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.ProcessLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read engine output: %w", err)
	}
	return p.Report(), nil
}

// ParseString parses a complete log held in memory.
func ParseString(log string) *BuildReport {
	report, _ := Parse(strings.NewReader(log))
	return report
}

// Report returns the report accumulated so far.
func (p *Parser) Report() *BuildReport {
	return p.report
}

// ProcessLine feeds one log line through the parser. Checks are ordered by
// priority: continuation of the previous message, trailing-context
// collection, then classification. The formats are mutually exclusive by
// construction, so the first match wins.
func (p *Parser) ProcessLine(line string) {
	if p.consumeContinuation(line) {
		return
	}
	if p.contextLeft > 0 {
		p.last().addContext(line)
		p.contextLeft--
		return
	}
	p.classify(line)
}

// last returns a mutable view of the most recent message. Only valid when
// lastIdx >= 0.
func (p *Parser) last() *Message {
	return &p.report.Messages[p.lastIdx]
}

// consumeContinuation handles the component-name echo the engine uses to
// wrap long messages, e.g.
//
//	Package babel Warning: Unknown option `latin'.
//	(babel)                Either you misspelled it ...
//
// A consumed line extends the previous message and is not classified.
func (p *Parser) consumeContinuation(line string) bool {
	if p.lastIdx < 0 {
		return false
	}
	m := p.last()
	name := m.ComponentName()
	if name == "" {
		return false
	}
	prefix := "(" + name + ") "
	if !strings.HasPrefix(line, prefix) {
		return false
	}
	rest := strings.TrimLeft(line[len(prefix):], " \t")
	m.extendMessage(rest)
	return true
}

// classify matches line against the recognition patterns, in order: info,
// badbox, warning, error. Garbage lines fall through and are dropped.
func (p *Parser) classify(line string) {
	if match := infoPattern.FindStringSubmatch(line); match != nil {
		p.report.Info++
		p.append(Message{Kind: KindInfo, Full: line, Details: typedDetails(match)})
		return
	}
	if match := badboxPattern.FindStringSubmatch(line); match != nil {
		p.report.Badboxes++
		p.append(Message{Kind: KindBadbox, Full: line, Details: badboxDetails(match)})
		return
	}
	if match := warningPattern.FindStringSubmatch(line); match != nil {
		p.report.Warnings++
		p.append(Message{Kind: KindWarning, Full: line, Details: typedDetails(match)})
		return
	}
	if match := errorPattern.FindStringSubmatch(line); match != nil {
		p.report.Errors++
		p.append(Message{Kind: KindError, Full: line, Details: errorDetails(match)})
		// The engine echoes the offending source after an error
		// ("l.42 \badmacro"), worth harvesting as context.
		p.contextLeft = p.contextBudget
		return
	}
}

func (p *Parser) append(m Message) {
	p.report.Messages = append(p.report.Messages, m)
	p.lastIdx = len(p.report.Messages) - 1
	p.contextLeft = 0
}

// typedDetails extracts fields from a typed info/warning match:
// tag, component, extra, message.
func typedDetails(match []string) map[string]string {
	details := map[string]string{
		"type":    match[1],
		"message": match[4],
	}
	if match[2] != "" {
		details[componentKey(match[1])] = match[2]
	}
	if match[3] != "" {
		details["extra"] = match[3]
	}
	return details
}

// errorDetails extracts fields from an error match. Typed errors carry the
// same structure as warnings; bare engine errors ("! Undefined control
// sequence.") carry only the message text.
func errorDetails(match []string) map[string]string {
	if match[1] == "" {
		return map[string]string{"message": match[5]}
	}
	details := map[string]string{
		"type":    match[1],
		"message": match[4],
	}
	if match[2] != "" {
		details[componentKey(match[1])] = match[2]
	}
	if match[3] != "" {
		details["extra"] = match[3]
	}
	return details
}

// componentKey picks the detail key for a component name based on the
// type tag that introduced it.
func componentKey(tag string) string {
	switch tag {
	case "Package":
		return "package"
	case "Class":
		return "class"
	default:
		return "component"
	}
}

// badboxDetails extracts direction, badness or overage, and the location,
// which is one of: a line range, a single line, or absent (the "while
// \output is active" form).
func badboxDetails(match []string) map[string]string {
	details := map[string]string{
		"direction": match[2],
	}
	if match[3] != "" {
		details["by"] = match[3] // badness number
	} else {
		details["by"] = match[4] // overage with unit
	}
	switch {
	case match[5] != "":
		details["start_line"] = match[5]
		details["end_line"] = match[6]
	case match[7] != "":
		details["line"] = match[7]
	}
	return details
}
