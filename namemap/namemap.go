// Package namemap builds the whole-program name map (§2 step 3, §3
// "Name map") from the disambiguated declaration list that package ident
// produces.
package namemap

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/wardcheck/ward/cast"
	"github.com/wardcheck/ward/ident"
	"github.com/wardcheck/ward/permission"
)

// Entry is the value type of a NameMap: a function's source position, its
// optional body, and the permission actions collected from its
// declaration attributes.
type Entry struct {
	Position cast.Position
	Body     *cast.Block
	Actions  permission.ActionSet
}

// NameMap maps a (disambiguated) function identifier to its Entry.
type NameMap map[string]Entry

// DuplicateDefinitionError reports two non-equal bodies declared for the
// same identifier — a fatal setup error (§5 "Fatal conditions").
type DuplicateDefinitionError struct {
	Name string
	First, Second cast.Position
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("multiple definitions of %q at %s and %s", e.Name, e.First, e.Second)
}

// Build constructs a NameMap from a list of disambiguated declarations
// (the output of ident.Disambiguate). It also returns the structural
// warnings accumulated while extracting permission actions from
// attributes (§4.3, §7).
//
// Build fails with a *DuplicateDefinitionError if two declarations of the
// same identifier carry different, non-empty bodies. Declarations of the
// same identifier are otherwise merged: their action sets union (§4.3
// "Attributes on function definitions union with attributes on prior
// declarations of the same identifier"), and a body from either one is
// kept.
func Build(decls []*cast.FuncDecl) (NameMap, []permission.Warning, error) {
	nm := make(NameMap)
	var warnings []permission.Warning
	// Sort a stable-ordered copy so that, given the same input multiset,
	// errors are reported deterministically regardless of decl order.
	ordered := make([]*cast.FuncDecl, len(decls))
	copy(ordered, decls)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	for _, d := range ordered {
		actions, ws := permission.Extract(d.Attributes())
		warnings = append(warnings, ws...)

		existing, ok := nm[d.Name]
		if !ok {
			nm[d.Name] = Entry{Position: d.Position, Body: d.Body, Actions: actions}
			continue
		}
		merged := existing.Actions.Union(actions)
		body := existing.Body
		if body == nil {
			body = d.Body
		} else if d.Body != nil && !reflect.DeepEqual(body, d.Body) {
			return nil, warnings, &DuplicateDefinitionError{
				Name:   d.Name,
				First:  existing.Position,
				Second: d.Position,
			}
		}
		nm[d.Name] = Entry{Position: existing.Position, Body: body, Actions: merged}
	}
	return nm, warnings, nil
}

// BuildFromUnits is a convenience wrapper running ident.Disambiguate then
// Build, the whole of §2 steps 2-3.
func BuildFromUnits(units []ident.Unit) (NameMap, []permission.Warning, error) {
	return Build(ident.Disambiguate(units))
}
