package config

import "strings"

// Enforcement selects which functions must be fully annotated: their
// inferred action set must equal their declared action set (§3
// "Config", §4.5). At most one of Path and Function is empty, never
// both:
//
//	Path != "", Function == ""  -> EnforcePath(Path)
//	Path == "", Function != ""  -> EnforceFunction(Function)
//	Path != "", Function != ""  -> EnforcePathFunction(Path, Function)
type Enforcement struct {
	Path     string
	Function string
}

// EnforcePath builds an EnforcePath(path) rule.
func EnforcePath(path string) Enforcement { return Enforcement{Path: path} }

// EnforceFunction builds an EnforceFunction(name) rule.
func EnforceFunction(name string) Enforcement { return Enforcement{Function: name} }

// EnforcePathFunction builds an EnforcePathFunction(path, name) rule.
func EnforcePathFunction(path, name string) Enforcement {
	return Enforcement{Path: path, Function: name}
}

// Matches reports whether the function at path named name is selected by
// e (§4.5): a Path criterion matches by suffix, a Function criterion
// matches by exact name, and both criteria must hold when both are set.
func (e Enforcement) Matches(path, name string) bool {
	if e.Path != "" && !strings.HasSuffix(path, e.Path) {
		return false
	}
	if e.Function != "" && name != e.Function {
		return false
	}
	return e.Path != "" || e.Function != ""
}

// Enforced reports whether any enforcement in c selects the function at
// path named name.
func (c *Config) Enforced(path, name string) bool {
	for _, e := range c.Enforcements {
		if e.Matches(path, name) {
			return true
		}
	}
	return false
}
