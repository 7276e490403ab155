package diagnose

import (
	"fmt"
	"io"
	"strings"
)

// OutputMode selects how Drain renders entries (§4.6).
type OutputMode int

const (
	CompilerOutput OutputMode = iota
	HtmlOutput
)

// Summary counts the warnings and errors seen by a Drain call, for the
// footer line required by §4.6 ("footer is the summary line 'Warnings:
// W, Errors: E'").
type Summary struct {
	Warnings int
	Errors   int
}

// Drain reads from sink until the terminator, writing each entry to w
// formatted per mode, then writes the mode's footer. It returns the
// accumulated Summary; the caller uses Summary.Errors to pick an exit
// code (§7 "exit non-zero iff at least one Error entry was emitted").
func Drain(w io.Writer, sink *Sink, mode OutputMode) Summary {
	var sum Summary
	if mode == HtmlOutput {
		fmt.Fprint(w, "<html><body><ul>")
	}
	for {
		e, ok := sink.Next()
		if !ok {
			break
		}
		switch e.Kind {
		case Warning:
			sum.Warnings++
		case Error:
			sum.Errors++
		}
		writeEntry(w, e, mode)
	}
	writeFooter(w, sum, mode)
	return sum
}

func writeEntry(w io.Writer, e Entry, mode OutputMode) {
	switch mode {
	case HtmlOutput:
		fmt.Fprintf(w, `<li class="%s">%s</li>`, e.Kind, htmlEscape(e.Text))
	default:
		fmt.Fprintln(w, e.String())
	}
}

func writeFooter(w io.Writer, sum Summary, mode OutputMode) {
	line := fmt.Sprintf("Warnings: %d, Errors: %d", sum.Warnings, sum.Errors)
	switch mode {
	case HtmlOutput:
		fmt.Fprintf(w, "%s</ul></body></html>", htmlEscape(line))
	default:
		fmt.Fprintln(w, line)
	}
}

func htmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
