package analyzer

import (
	"github.com/wardcheck/ward/callmap"
	"github.com/wardcheck/ward/callseq"
	"github.com/wardcheck/ward/cast"
	"github.com/wardcheck/ward/config"
	"github.com/wardcheck/ward/lattice"
	"github.com/wardcheck/ward/permission"
)

// engine holds the whole-program state threaded through both the
// fixed-point inference pass and the reporting pass.
type engine struct {
	cm     callmap.CallMap
	policy *config.Config

	// extra is the accumulated InferredExtra(f) set for every function:
	// the Need/Use actions the fixed point discovered f transitively
	// requires beyond what it declares. It is read by both passes once
	// the fixed point has converged — callers use declared(callee) ∪
	// extra[callee] wherever §4.4's transfer table asks for "the
	// callee's declared action".
	extra map[string]permission.ActionSet
}

// fullFootprint returns name's declared actions, the fixed point's
// InferredExtra(name), and an implicit Need for every permission policy
// declares implicit that name does not waive — the complete footprint
// used both to decide what a caller's transfer sees (effectiveActionsOf)
// and to compare against a declared set for enforcement.
func (e *engine) fullFootprint(name string) permission.ActionSet {
	entry := e.cm[name]
	full := entry.Actions.Union(e.extra[name])
	for _, implicitName := range e.policy.ImplicitNames() {
		if entry.Actions.Has(permission.Action{Kind: permission.Waive, Name: implicitName}) {
			continue
		}
		full.Add(permission.Action{Kind: permission.Need, Name: implicitName})
	}
	return full
}

// effectiveActionsOf returns the action set the engine currently uses
// when name is called as a callee: its literal declared actions unioned
// with whatever the fixed point has inferred for it so far. A name absent
// from cm (an external or unresolved symbol) carries no actions at all,
// so calling it never constrains or is constrained by anything — §4.2
// only models calls to identifiers that end up in the call map.
func (e *engine) effectiveActionsOf(name string) permission.ActionSet {
	if _, ok := e.cm[name]; !ok {
		return permission.ActionSet{}
	}
	return e.fullFootprint(name)
}

// walkSequence threads state through seq, applying every call site's
// effective action set via applyAction. At a Choice node both arms are
// evaluated independently from the same incoming state and their results
// are pointwise joined (§4.4 "Composition over a choice"). Violations
// found in modeReport are appended to *violations with the position of
// the call site that raised them.
//
// conflicts, when non-nil, accumulates every permission name that is
// ever CapConflict immediately after a join, for the lifetime of the
// call — not just whatever capability that key happens to carry in the
// sequence's final returned state. A later unconditional Grant/Revoke on
// the same key overwrites CapConflict in the threaded state (§4.4's
// transfer table always replaces the capability outright), which would
// otherwise erase a real conflict before the caller ever sees it; §4.4
// asks for a report "for each permission key in any state" whose
// capability is CapConflict, not just the terminal one (§8 "Conflict
// preservation").
func (e *engine) walkSequence(seq callseq.Sequence, state lattice.PresenceSet, mode stepMode, extra permission.ActionSet, violations *[]positioned, conflicts map[string]bool) lattice.PresenceSet {
	for _, tree := range seq {
		if tree.Choice != nil {
			trueState := e.walkSequence(tree.Choice.True, state, mode, extra, violations, conflicts)
			falseState := e.walkSequence(tree.Choice.False, state, mode, extra, violations, conflicts)
			state = trueState.Join(falseState)
			if conflicts != nil {
				for _, key := range state.Conflicts() {
					conflicts[key] = true
				}
			}
			continue
		}
		callee := e.effectiveActionsOf(tree.Call)
		for _, a := range callee.Sorted() {
			var v *violation
			state, v = applyAction(state, a, mode, extra)
			if v != nil && violations != nil {
				*violations = append(*violations, positioned{pos: tree.CallPosition, callee: tree.Call, text: v.text})
			}
		}
	}
	return state
}

// positioned pairs a transfer violation with the call site that raised it.
type positioned struct {
	pos    cast.Position
	callee string
	text   string
}
