package analyzer

import "github.com/wardcheck/ward/permission"

// runFixedPoint computes InferredExtra(f) for every function in e.cm by
// round-robin iteration (§9 "Cyclic call graphs": "a naive round-robin
// recomputation... both terminate, because the lattice has finite
// height"). Each round recomputes every function's extra set from the
// current approximation of its callees' effective action sets; the loop
// stops once a full round changes nothing.
//
// A deterministic, sorted function order is used on every round so that
// two runs over the same call map take the identical path to the fixed
// point, even though the fixed point itself does not depend on order.
func (e *engine) runFixedPoint() {
	names := sortedNames(e.cm)
	e.extra = make(map[string]permission.ActionSet, len(names))
	for _, name := range names {
		e.extra[name] = permission.ActionSet{}
	}

	for {
		changed := false
		for _, name := range names {
			next := e.inferOne(name)
			prev := e.extra[name]
			if !prev.Equal(next) {
				changed = true
			}
			e.extra[name] = next
		}
		if !changed {
			return
		}
	}
}

// inferOne recomputes InferredExtra(f) by walking f's call sequence from
// its own initial state (modeInfer: failed Need/Use preconditions are
// repaired into the returned set rather than reported).
func (e *engine) inferOne(name string) permission.ActionSet {
	entry := e.cm[name]
	state := initialState(entry.Actions, e.policy)
	extra := permission.ActionSet{}
	e.walkSequence(entry.Calls, state, modeInfer, extra, nil, nil)
	return extra
}
