package diagnose

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
)

// SourceLookup returns the source line at a position, or "" if
// unavailable. DrainHTML uses it to embed syntax-highlighted context
// around each entry; this is additive to the §4.6 HtmlOutput format,
// never a replacement for it.
type SourceLookup func(filename string, line int) string

// DrainHTML behaves like Drain with HtmlOutput, except each entry's
// `<li>` is followed by a highlighted `<pre>` block showing the line the
// entry points at, when lookup can find it.
func DrainHTML(w io.Writer, sink *Sink, lookup SourceLookup) Summary {
	var sum Summary
	fmt.Fprint(w, "<html><body><ul>")
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
		writeEntry(w, e, HtmlOutput)
		if lookup == nil {
			continue
		}
		line := lookup(e.Position.Filename, e.Position.Line)
		if line == "" {
			continue
		}
		fmt.Fprint(w, `<pre class="context">`)
		if err := quick.Highlight(w, line, "c", "html", "monokai"); err != nil {
			fmt.Fprint(w, htmlEscape(line))
		}
		fmt.Fprint(w, "</pre>")
	}
	writeFooter(w, sum, HtmlOutput)
	return sum
}
