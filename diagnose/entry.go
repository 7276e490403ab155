// Package diagnose implements the diagnostics sink of §4.6 and §5: a
// single-producer/single-consumer channel of Entry values terminated by
// a sentinel, plus output-mode formatters (§4.6 "CompilerOutput" and
// "HtmlOutput").
package diagnose

import (
	"fmt"

	"github.com/wardcheck/ward/cast"
)

// Kind discriminates the three entry severities of §3 "Diagnostic
// entry".
type Kind int

const (
	Note Kind = iota
	Warning
	Error
)

func (k Kind) String() string {
	switch k {
	case Note:
		return "note"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Entry is a single diagnostic: a severity, a source position, and a
// text payload (§3 "Diagnostic entry").
type Entry struct {
	Kind     Kind
	Position cast.Position
	Text     string
}

// String renders e as "path:line: kind: text", the line format used by
// CompilerOutput (§4.6).
func (e Entry) String() string {
	return fmt.Sprintf("%s: %s: %s", e.Position, e.Kind, e.Text)
}
