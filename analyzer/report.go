package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wardcheck/ward/callmap"
	"github.com/wardcheck/ward/diagnose"
	"github.com/wardcheck/ward/ident"
	"github.com/wardcheck/ward/lattice"
	"github.com/wardcheck/ward/permission"
)

// report runs the second, reporting pass of §4.4 over every function in
// e.cm, using the now-converged fixed point in e.extra, and returns the
// diagnostics in the deterministic order given by a sorted function walk
// (§5 "Ordering").
func (e *engine) report() []diagnose.Entry {
	var entries []diagnose.Entry
	for _, name := range sortedNames(e.cm) {
		entries = append(entries, e.reportOne(name)...)
	}
	return entries
}

// reportOne produces every diagnostic attributable to a single function:
// call-site transfer violations, capability conflicts, an enforcement
// mismatch if the function is enforced, and restriction violations for
// every permission it ends up using.
func (e *engine) reportOne(name string) []diagnose.Entry {
	entry := e.cm[name]
	state := initialState(entry.Actions, e.policy)

	var violations []positioned
	conflicts := map[string]bool{}
	final := e.walkSequence(entry.Calls, state, modeReport, nil, &violations, conflicts)

	var out []diagnose.Entry
	for _, v := range violations {
		out = append(out, diagnose.Entry{Kind: diagnose.Error, Position: v.pos, Text: v.text})
	}

	for _, p := range sortedKeys(conflicts) {
		out = append(out, diagnose.Entry{
			Kind:     diagnose.Error,
			Position: entry.Position,
			Text:     fmt.Sprintf("permission %q: conflicting capability state", p),
		})
	}

	if mismatch := e.enforcementMismatch(name, entry); mismatch != "" {
		out = append(out, diagnose.Entry{Kind: diagnose.Error, Position: entry.Position, Text: mismatch})
	}

	out = append(out, e.restrictionViolations(entry, final)...)
	return out
}

// enforcementMismatch returns a non-empty description when name is
// selected by an enforcement rule and its inferred action set differs
// from its declared one (§4.4 "Reporting" bullet 3, §4.5).
func (e *engine) enforcementMismatch(name string, entry callmap.Entry) string {
	path, bare, isStatic := ident.IsStaticName(name)
	funcName := name
	if isStatic {
		funcName = bare
	}
	if path == "" {
		path = entry.Position.Filename
	}
	if !e.policy.Enforced(path, funcName) {
		return ""
	}

	// inferred only ever grows relative to declared (extra and the
	// implicit-Need rule both add, never remove), so Diff's "missing"
	// side (present in declared, absent from inferred) is always empty
	// here; what an enforced function must not have is the "extra" side,
	// actions the fixed point found it transitively requires that its
	// own declaration never admitted to. Over-declared actions that are
	// never actually exercised are not detected by this pass; doing so
	// would require tracking usage during walkSequence itself, which the
	// reporting pass does not currently do.
	inferred := e.fullFootprint(name)
	_, extra := permission.Diff(entry.Actions, inferred)
	if len(extra) == 0 {
		return ""
	}
	return fmt.Sprintf("enforced function %q: undeclared %s", funcName, formatActions(extra))
}

// sortedKeys returns m's keys in sorted order, for the deterministic
// diagnostic ordering §5 requires.
func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatActions(actions []permission.Action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = fmt.Sprintf("%s(%s)", a.Kind, a.Name)
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

// restrictionViolations evaluates every restriction declared on a
// permission name against final whenever final records Uses for that
// permission (§4.4 "Reporting" bullet 4).
func (e *engine) restrictionViolations(entry callmap.Entry, final lattice.PresenceSet) []diagnose.Entry {
	var out []diagnose.Entry
	for _, key := range final.Keys() {
		presence := final.Get(key)
		if presence.Usage != lattice.Uses {
			continue
		}
		for _, r := range e.policy.Restrictions(permission.Name(key)) {
			if r.Expr.Eval(final) {
				continue
			}
			text := r.Description
			if text == "" {
				text = fmt.Sprintf("restriction on %q violated", key)
			}
			out = append(out, diagnose.Entry{Kind: diagnose.Error, Position: entry.Position, Text: text})
		}
	}
	return out
}
