package diagnose

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// colorForKind returns the color CompilerOutput uses for a given
// severity when writing to a terminal.
func colorForKind(k Kind) *color.Color {
	switch k {
	case Warning:
		return color.New(color.FgYellow)
	case Error:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgHiBlack)
	}
}

// IsTerminal reports whether w is a terminal file descriptor worth
// coloring output for. DrainColor falls back to the plain CompilerOutput
// format whenever this is false, e.g. when output is redirected to a
// file or piped to another process.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// DrainColor behaves like Drain with CompilerOutput, except each
// entry's "kind:" token is colorized when w is a terminal (§4.6;
// coloring is an ambient presentation detail the specification does not
// prescribe, so it is layered on top of, not instead of, the plain
// format).
func DrainColor(w io.Writer, sink *Sink) Summary {
	colorize := IsTerminal(w)
	var sum Summary
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
		if colorize {
			prefix := colorForKind(e.Kind).Sprint(e.Kind.String())
			writeLine(w, e.Position.String()+": "+prefix+": "+e.Text)
		} else {
			writeEntry(w, e, CompilerOutput)
		}
	}
	writeFooter(w, sum, CompilerOutput)
	return sum
}

func writeLine(w io.Writer, s string) {
	io.WriteString(w, s)
	io.WriteString(w, "\n")
}
