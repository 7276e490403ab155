package analyzer

import (
	"github.com/wardcheck/ward/config"
	"github.com/wardcheck/ward/lattice"
	"github.com/wardcheck/ward/permission"
)

// initialState builds the pre-state a function starts in, purely from its
// own declared actions and the config's implicit-permission rule (§4.4
// "Initial state"). This is the one quantity in the engine that never
// changes across fixed-point iterations: it depends only on a function's
// own attributes and the fixed policy, never on what other functions turn
// out to need.
func initialState(actions permission.ActionSet, policy *config.Config) lattice.PresenceSet {
	state := lattice.PresenceSet{}
	for _, name := range policy.ImplicitNames() {
		if actions.Has(permission.Action{Kind: permission.Waive, Name: name}) {
			continue
		}
		state = applyInitial(state, permission.Action{Kind: permission.Need, Name: name})
	}
	for _, a := range actions.Sorted() {
		state = applyInitial(state, a)
	}
	return state
}

// applyInitial applies one declaration's contribution to a function's
// entry state, per the initial-state table in §4.4:
//
//	Need(p)/Use(p) -> CapHas (Use also sets Uses)
//	Grant(p)       -> CapLacks
//	Revoke(p)      -> CapHas
//	Deny(p)        -> CapLacks
//	Waive(p)       -> no change
func applyInitial(state lattice.PresenceSet, a permission.Action) lattice.PresenceSet {
	p := string(a.Name)
	switch a.Kind {
	case permission.Need:
		return state.Set(p, state.Get(p).WithCapability(lattice.CapHas))
	case permission.Use:
		return state.Set(p, state.Get(p).WithCapability(lattice.CapHas).WithUses())
	case permission.Grant:
		return state.Set(p, state.Get(p).WithCapability(lattice.CapLacks))
	case permission.Revoke:
		return state.Set(p, state.Get(p).WithCapability(lattice.CapHas))
	case permission.Deny:
		return state.Set(p, state.Get(p).WithCapability(lattice.CapLacks))
	default: // Waive
		return state
	}
}
