// Package analyzer implements the permission-inference engine of §4.4:
// a whole-program, context-insensitive, flow-sensitive fixed point over
// the permission lattice, followed by the reporting rules of §4.4's
// "Reporting" bullet list, §4.5's enforcement selection, and the
// restriction evaluation of §4.4's last bullet.
package analyzer

import (
	"sort"

	"github.com/wardcheck/ward/callmap"
	"github.com/wardcheck/ward/config"
	"github.com/wardcheck/ward/diagnose"
	"github.com/wardcheck/ward/permission"
)

// Config bundles the declared policy that shapes inference: implicit
// permissions, restrictions, and enforcement selection (§3 "Config").
type Config struct {
	Policy *config.Config
}

// Result is the outcome of a whole-program Analyze call.
type Result struct {
	// Diagnostics holds every Note, Warning, and Error produced by the
	// reporting pass, in a deterministic order (§5 "Ordering": "order
	// between reports from different functions is unspecified but
	// deterministic given a fixed function iteration order").
	Diagnostics []diagnose.Entry
	// Effective holds, for every function, its declared action set
	// unioned with whatever Need/Use actions the fixed point inferred it
	// transitively requires (§4.4 "whole-program fixed point"). This is
	// what the enforcement check (§4.4 bullet 3) compares against each
	// function's literal declared action set.
	Effective map[string]permission.ActionSet
}

// Analyze runs the full pipeline of §4.4 over cm under policy: it
// computes the whole-program fixed point, then walks every function a
// second time to produce diagnostics (§4.4 "Reporting").
func Analyze(cm callmap.CallMap, cfg Config) *Result {
	policy := cfg.Policy
	if policy == nil {
		policy = config.New()
	}
	eng := &engine{cm: cm, policy: policy}
	eng.runFixedPoint()
	diags := eng.report()

	effective := make(map[string]permission.ActionSet, len(cm))
	for _, name := range cm.Names() {
		effective[name] = eng.fullFootprint(name)
	}
	return &Result{Diagnostics: diags, Effective: effective}
}

// sortedNames returns cm's identifiers in the fixed, deterministic
// iteration order the rest of the package relies on.
func sortedNames(cm callmap.CallMap) []string {
	names := cm.Names()
	sort.Strings(names)
	return names
}
