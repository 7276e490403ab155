package cast

// StorageClass distinguishes file-local ("static") functions from
// externally-visible ones, per §4.1.
type StorageClass int

const (
	StorageExtern StorageClass = iota
	StorageStatic
)

// RawAttribute is an unparsed attribute expression attached to a
// specifier or declarator, e.g. the text inside `__attribute__((...))` or
// a bare `ward(need(lock))`. Attribute extraction (§4.3) turns the ones
// that match the `ward(action(identifier))` grammar into permission
// actions and emits a Warning for anything else.
type RawAttribute struct {
	Position Position
	// Text is the attribute's call-expression text, e.g. "ward(need(lock))".
	Text string
}

// FuncDecl is a function declaration or definition, at the abstraction
// level the name map needs (§3 "Name map"). A pure declaration (a
// forward prototype) has Body == nil.
type FuncDecl struct {
	// Name is the declarator identifier, before any static-prefixing
	// (§4.1 is applied by the namemap package, not here).
	Name string
	// Hash is an opaque identity token preserved from the external AST,
	// used to keep reference equality consistent within a translation
	// unit (§3 "Function identifier").
	Hash uint64
	Position Position
	Storage  StorageClass
	// SpecifierAttributes and DeclaratorAttributes hold raw attributes
	// found on the declaration's specifiers and on its declarator(s),
	// respectively; §4.3 says extraction collects from both.
	SpecifierAttributes  []RawAttribute
	DeclaratorAttributes []RawAttribute
	// Body is nil for a declaration without a body.
	Body *Block
}

// Attributes returns every raw attribute attached to the declaration, in
// the order specifiers then declarators, matching the order §4.3
// describes extraction walking them in.
func (f *FuncDecl) Attributes() []RawAttribute {
	if len(f.SpecifierAttributes) == 0 {
		return f.DeclaratorAttributes
	}
	if len(f.DeclaratorAttributes) == 0 {
		return f.SpecifierAttributes
	}
	out := make([]RawAttribute, 0, len(f.SpecifierAttributes)+len(f.DeclaratorAttributes))
	out = append(out, f.SpecifierAttributes...)
	out = append(out, f.DeclaratorAttributes...)
	return out
}

// TranslationUnit is an ordered list of function declarations/definitions
// from a single source file, as the external parser would hand back for
// that file. Declarations of anything other than a function (types,
// objects, etc.) are outside the abstraction level this package models
// and are not represented.
type TranslationUnit struct {
	Decls []*FuncDecl
}
