package analyzer

import (
	"strings"
	"testing"

	"github.com/wardcheck/ward/callmap"
	"github.com/wardcheck/ward/callseq"
	"github.com/wardcheck/ward/cast"
	"github.com/wardcheck/ward/config"
	"github.com/wardcheck/ward/ident"
	"github.com/wardcheck/ward/lattice"
	"github.com/wardcheck/ward/permission"
)

func pos(file string, line int) cast.Position {
	return cast.Position{Filename: file, Line: line}
}

func act(kind permission.Kind, name string) permission.Action {
	return permission.Action{Kind: kind, Name: permission.Name(name)}
}

func mustPresenceHas() lattice.Presence {
	return lattice.Presence{Capability: lattice.CapHas}
}

// TestBasicNeedSatisfied mirrors the "basic need satisfied" scenario: a
// function that grants a permission, called before one that needs it,
// produces no diagnostics.
func TestBasicNeedSatisfied(t *testing.T) {
	cm := callmap.CallMap{
		"take_lock": {Position: pos("a.c", 1), Actions: permission.NewActionSet(act(permission.Grant, "lock"))},
		"do_work":   {Position: pos("a.c", 5), Actions: permission.NewActionSet(act(permission.Need, "lock"))},
		"main": {
			Position: pos("a.c", 10),
			Calls: callseq.Append(
				callseq.CallAt("take_lock", pos("a.c", 11)),
				callseq.CallAt("do_work", pos("a.c", 12)),
			),
		},
	}
	result := Analyze(cm, Config{Policy: config.New()})
	if len(result.Diagnostics) != 0 {
		t.Fatalf("got %d diagnostics, want 0: %+v", len(result.Diagnostics), result.Diagnostics)
	}
}

// TestNeedUnsatisfied mirrors the "need unsatisfied" scenario: calling a
// function that needs a permission, with no prior grant anywhere in the
// caller, reports exactly one error at the call site.
func TestNeedUnsatisfied(t *testing.T) {
	cm := callmap.CallMap{
		"do_work": {Position: pos("a.c", 5), Actions: permission.NewActionSet(act(permission.Need, "lock"))},
		"main": {
			Position: pos("a.c", 10),
			Calls:    callseq.CallAt("do_work", pos("a.c", 11)),
		},
	}
	result := Analyze(cm, Config{Policy: config.New()})
	if len(result.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(result.Diagnostics), result.Diagnostics)
	}
	entry := result.Diagnostics[0]
	if entry.Position.Line != 11 {
		t.Errorf("error at line %d, want the call site (11)", entry.Position.Line)
	}
	if !strings.Contains(entry.Text, `need permission "lock"`) {
		t.Errorf("text = %q, want it to mention the missing permission", entry.Text)
	}
}

// TestBranchConflict constructs two arms that leave a permission in
// genuinely different, non-bottom capability states (one ends CapHas, the
// other ends CapLacks via a clean grant-then-revoke), which the join at
// the end of the branch must report as a conflict.
func TestBranchConflict(t *testing.T) {
	cm := callmap.CallMap{
		"take_lock":   {Actions: permission.NewActionSet(act(permission.Grant, "lock"))},
		"release_lock": {Actions: permission.NewActionSet(act(permission.Revoke, "lock"))},
		"do_work":     {Actions: permission.NewActionSet(act(permission.Need, "lock"))},
		"main": {
			Position: pos("a.c", 1),
			Calls: callseq.Append(
				callseq.ChoiceOf(
					callseq.CallAt("take_lock", pos("a.c", 2)),
					callseq.Append(
						callseq.CallAt("take_lock", pos("a.c", 3)),
						callseq.CallAt("release_lock", pos("a.c", 4)),
					),
				),
				callseq.CallAt("do_work", pos("a.c", 5)),
			),
		},
	}
	result := Analyze(cm, Config{Policy: config.New()})
	if len(result.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(result.Diagnostics), result.Diagnostics)
	}
	if !strings.Contains(result.Diagnostics[0].Text, `"lock": conflicting capability state`) {
		t.Errorf("text = %q, want a conflict report", result.Diagnostics[0].Text)
	}
}

// TestRecursiveLockRestriction exercises a restriction over a permission
// a function both uses and (through a call) tries to grant again. Both
// the failed grant precondition and the restriction violation are
// reported; the scenario's English description in the specification
// ("cannot take the lock recursively") names only the restriction, but
// nothing in the transfer-function table suppresses the grant-site error
// once the function's own Use(lock) declaration has already raised its
// entry state to CapHas.
func TestRecursiveLockRestriction(t *testing.T) {
	policy := config.New()
	restriction := config.Restriction{
		Expr:        config.Not(config.Ctx("lock", mustPresenceHas())),
		Description: "cannot take the lock recursively",
	}
	policy.Declarations = map[permission.Name]*config.Declaration{
		"lock": {Restrictions: []config.Restriction{restriction}},
	}
	cm := callmap.CallMap{
		"take_lock": {Actions: permission.NewActionSet(act(permission.Grant, "lock"))},
		"recursive_take": {
			Position: pos("a.c", 1),
			Calls:    callseq.CallAt("take_lock", pos("a.c", 2)),
			Actions:  permission.NewActionSet(act(permission.Use, "lock")),
		},
	}
	result := Analyze(cm, Config{Policy: policy})
	if got := countErrorsWithText(result, "cannot take the lock recursively"); got != 1 {
		t.Errorf("got %d restriction errors, want 1: %+v", got, result.Diagnostics)
	}
	if got := countErrorsWithText(result, "already held"); got != 1 {
		t.Errorf("got %d grant errors, want 1: %+v", got, result.Diagnostics)
	}
}

// TestImplicitWithWaiver checks that a function not waiving an implicit
// permission is treated as needing it, while one that waives it is not,
// and that calling the latter from the former raises no error.
func TestImplicitWithWaiver(t *testing.T) {
	policy := config.New()
	policy.Declarations = map[permission.Name]*config.Declaration{
		"gc_safe": {Implicit: true},
	}
	cm := callmap.CallMap{
		"g": {Actions: permission.NewActionSet(act(permission.Waive, "gc_safe"))},
		"f": {
			Position: pos("a.c", 1),
			Calls:    callseq.CallAt("g", pos("a.c", 2)),
		},
	}
	result := Analyze(cm, Config{Policy: policy})
	if len(result.Diagnostics) != 0 {
		t.Fatalf("got %d diagnostics, want 0: %+v", len(result.Diagnostics), result.Diagnostics)
	}
	if !result.Effective["f"].Has(act(permission.Need, "gc_safe")) {
		t.Errorf("f's effective actions = %v, want it to include need(gc_safe)", result.Effective["f"])
	}
	if result.Effective["g"].Has(act(permission.Need, "gc_safe")) {
		t.Errorf("g's effective actions = %v, want it to exclude need(gc_safe) (waived)", result.Effective["g"])
	}
}

// TestStaticCollision checks that two static functions with the same bare
// name in different translation units, disambiguated per §4.1, are kept
// fully independent by the engine: granting a permission in one's body
// never leaks into the other's.
func TestStaticCollision(t *testing.T) {
	nameA := ident.StaticName("a.c", "helper")
	nameB := ident.StaticName("b.c", "helper")
	cm := callmap.CallMap{
		nameA: {Position: pos("a.c", 1), Actions: permission.NewActionSet(act(permission.Grant, "x"))},
		nameB: {Position: pos("b.c", 1), Actions: permission.NewActionSet(act(permission.Need, "x"))},
		"caller_a": {
			Position: pos("a.c", 10),
			Calls:    callseq.CallAt(nameA, pos("a.c", 11)),
		},
		"caller_b": {
			Position: pos("b.c", 10),
			Calls:    callseq.CallAt(nameB, pos("b.c", 11)),
		},
	}
	result := Analyze(cm, Config{Policy: config.New()})
	if len(result.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1 (b.c's helper still needs x, unaffected by a.c's grant): %+v", len(result.Diagnostics), result.Diagnostics)
	}
	if !strings.Contains(result.Diagnostics[0].Text, `need permission "x"`) {
		t.Errorf("text = %q, want a missing-need error for x", result.Diagnostics[0].Text)
	}
	if result.Diagnostics[0].Position.Filename != "b.c" {
		t.Errorf("error reported in %q, want it attributed to b.c's caller", result.Diagnostics[0].Position.Filename)
	}
}

// TestEnforcementMismatchFlagsUndeclaredInference exercises §4.4's
// enforcement bullet in the direction it actually specifies: an enforced
// function whose inferred footprint exceeds its declaration is flagged,
// not one whose declaration exceeds its footprint (which can't happen,
// since the fixed point and the implicit-Need rule only ever add to a
// function's footprint).
func TestEnforcementMismatchFlagsUndeclaredInference(t *testing.T) {
	policy := config.New()
	policy.Enforcements = []config.Enforcement{config.EnforceFunction("main")}
	cm := callmap.CallMap{
		"take_lock": {Actions: permission.NewActionSet(act(permission.Grant, "lock"))},
		"do_work":   {Actions: permission.NewActionSet(act(permission.Need, "lock"))},
		"main": {
			Position: pos("a.c", 1),
			Calls: callseq.Append(
				callseq.CallAt("take_lock", pos("a.c", 2)),
				callseq.CallAt("do_work", pos("a.c", 3)),
			),
		},
	}
	result := Analyze(cm, Config{Policy: policy})
	if got := countErrorsWithText(result, `enforced function "main": undeclared need(lock)`); got != 1 {
		t.Errorf("got %d enforcement-mismatch errors, want 1: %+v", got, result.Diagnostics)
	}
	if got := countErrorsWithText(result, `need permission "lock"`); got != 0 {
		t.Errorf("got %d need-violation errors, want 0 (main's own take_lock call already satisfies do_work's need): %+v", got, result.Diagnostics)
	}
}

// TestConflictPreservedAfterOverwrite checks that a conflict introduced
// at a branch join is still reported even when a later call on the same
// permission unconditionally overwrites the capability before the
// function's sequence ends, so the conflict never appears in the
// function's final state (§8 "Conflict preservation").
func TestConflictPreservedAfterOverwrite(t *testing.T) {
	cm := callmap.CallMap{
		"take_lock":    {Actions: permission.NewActionSet(act(permission.Grant, "lock"))},
		"release_lock": {Actions: permission.NewActionSet(act(permission.Revoke, "lock"))},
		"main": {
			Position: pos("a.c", 1),
			Calls: callseq.Append(
				callseq.ChoiceOf(
					callseq.CallAt("take_lock", pos("a.c", 2)),
					callseq.Append(
						callseq.CallAt("take_lock", pos("a.c", 3)),
						callseq.CallAt("release_lock", pos("a.c", 4)),
					),
				),
				// Unconditionally overwrites the joined CapConflict with
				// CapLacks before the sequence ends; final state alone
				// would show no conflict at all.
				callseq.CallAt("release_lock", pos("a.c", 5)),
			),
		},
	}
	result := Analyze(cm, Config{Policy: config.New()})
	if got := countErrorsWithText(result, `"lock": conflicting capability state`); got != 1 {
		t.Errorf("got %d conflict diagnostics, want 1 (the join-point conflict): %+v", got, result.Diagnostics)
	}
}

func countErrorsWithText(result *Result, substr string) int {
	n := 0
	for _, e := range result.Diagnostics {
		if strings.Contains(e.Text, substr) {
			n++
		}
	}
	return n
}
