package analyzer

import (
	"fmt"

	"github.com/wardcheck/ward/lattice"
	"github.com/wardcheck/ward/permission"
)

// violation describes a failed transfer precondition (§4.4's transfer
// table, the "else raise ... error" clauses).
type violation struct {
	text string
}

// stepMode selects which of the two transfer passes applyAction is being
// used for. The REPORTING pass (modeReport) never repairs a failed
// precondition — it records the violation and, per §7 ("analysis
// continues"), still applies the post-state update so later call sites
// keep seeing a sensible state. The INFERENCE pass (modeInfer) is used
// only to discover a function's transitive Need/Use footprint: a failed
// Need/Use precondition there is silently repaired (the permission is
// added to extra, as something this function turns out to require from
// its own callers) rather than reported, because whether that requirement
// is actually satisfied is a question for whoever calls this function,
// not for this function's own footprint.
type stepMode int

const (
	modeReport stepMode = iota
	modeInfer
)

// applyAction runs one callee action's transfer function against state,
// per §4.4's transfer-function table, returning the updated state and,
// for modeReport, any violation raised. In modeInfer, Need/Use actions
// whose precondition is unmet are folded into extra instead of reported;
// Need/Use actions whose precondition already holds are added to extra
// as well.
func applyAction(state lattice.PresenceSet, a permission.Action, mode stepMode, extra permission.ActionSet) (lattice.PresenceSet, *violation) {
	p := string(a.Name)
	pre := state.Get(p)

	switch a.Kind {
	case permission.Need:
		if !pre.Capability.HasAtLeastHas() {
			if mode == modeInfer {
				extra.Add(a)
				state = state.Set(p, pre.WithCapability(lattice.CapHas))
				return state, nil
			}
			return state, &violation{text: fmt.Sprintf("need permission %q", p)}
		}
		if mode == modeInfer {
			extra.Add(a)
		}
		return state, nil

	case permission.Use:
		if !pre.Capability.HasAtLeastHas() {
			if mode == modeInfer {
				extra.Add(a)
				state = state.Set(p, pre.WithCapability(lattice.CapHas).WithUses())
				return state, nil
			}
			return state.Set(p, pre.WithUses()), &violation{text: fmt.Sprintf("need permission %q", p)}
		}
		if mode == modeInfer {
			extra.Add(a)
		}
		return state.Set(p, state.Get(p).WithUses()), nil

	case permission.Grant:
		v := (*violation)(nil)
		if !pre.Capability.Leq(lattice.CapLacks) {
			v = &violation{text: fmt.Sprintf("cannot grant permission %q: already held", p)}
		}
		return state.Set(p, pre.WithCapability(lattice.CapHas)), v

	case permission.Revoke:
		v := (*violation)(nil)
		if !pre.Capability.HasAtLeastHas() {
			v = &violation{text: fmt.Sprintf("cannot revoke permission %q: not held", p)}
		}
		return state.Set(p, pre.WithCapability(lattice.CapLacks)), v

	case permission.Deny:
		v := (*violation)(nil)
		if !pre.Capability.Leq(lattice.CapLacks) {
			v = &violation{text: fmt.Sprintf("permission %q denied", p)}
		}
		return state, v

	default: // Waive: no transfer effect.
		return state, nil
	}
}
