// Package cast defines the abstraction-level C abstract syntax tree that
// Ward consumes from its external preprocessor/parser (§6 "C ingest" of
// the specification). Ward's core packages never parse C source
// themselves: the preprocessor and parser are treated as a black box that
// hands back values of the types in this package (package cparse is the
// front end cmd/ward uses). Only the constructs enumerated in
// §4.2 are represented; anything else the real parser might produce
// (struct/enum/typedef declarations, inline asm operands, and so on) is
// simply not modelled, because it contributes no calls.
package cast

import "fmt"

// Position is a source location, preserved from the external AST.
type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename == "" {
		return "<unknown>"
	}
	if p.Line == 0 {
		return p.Filename
	}
	if p.Column == 0 {
		return fmt.Sprintf("%s:%d", p.Filename, p.Line)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// IsValid reports whether p carries at least a filename.
func (p Position) IsValid() bool { return p.Filename != "" }
