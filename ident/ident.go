// Package ident implements function identifiers and the static-name
// disambiguation pass of §4.1.
package ident

import (
	"strings"

	"github.com/wardcheck/ward/cast"
)

// FunctionIdent is the triple (name, hash, source-position) preserved
// from the external AST (§3 "Function identifier"). Equality is by name
// and hash alone, after static-prefixing — two FunctionIdents at
// different positions but with the same (post-prefix) name and hash
// denote the same declared entity, e.g. a prototype and its later
// definition.
type FunctionIdent struct {
	Name     string
	Hash     uint64
	Position cast.Position
}

// Equal reports whether f and g denote the same entity.
func (f FunctionIdent) Equal(g FunctionIdent) bool {
	return f.Name == g.Name && f.Hash == g.Hash
}

// Separator joins a static function's defining path to its name, e.g.
// `a.c` + `init` -> "a.c`init" (§4.1). The backtick is chosen because it
// cannot appear in either a filesystem path or a C identifier, so the
// composition is injective: no non-static name can collide with it.
const Separator = "`"

// StaticName returns the disambiguated name for a static function named
// name defined in translation unit path.
func StaticName(path, name string) string {
	return path + Separator + name
}

// IsStaticName reports whether name was produced by StaticName, and if
// so returns the original path and bare name.
func IsStaticName(name string) (path, bare string, ok bool) {
	i := strings.Index(name, Separator)
	if i < 0 {
		return "", "", false
	}
	return name[:i], name[i+len(Separator):], true
}
