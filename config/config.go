// Package config implements the Config data model (§3 "Config") and a
// parser for its declarative syntax (§6). Config-file syntax is named in
// §1 as an external collaborator the core only specifies the interface
// for; this package provides one concrete implementation of that
// collaborator so the CLI has something real to parse, but nothing in
// the analyzer package depends on the parser — only on the Config type.
package config

import (
	"sort"

	"github.com/wardcheck/ward/permission"
)

// Declaration is the policy declared for a single permission name (§3
// "Config"): whether it is implicit, an optional human-readable
// description, and the restrictions that apply to it.
type Declaration struct {
	Implicit     bool
	Description  string
	Restrictions []Restriction
}

// Restriction is a single `uses(name) ⟹ expression` rule (§3
// "Restriction").
type Restriction struct {
	Expr        *Expression
	Description string
}

// Config is the whole declared policy: per-permission declarations plus
// the list of enforcement rules (§3 "Config").
type Config struct {
	Declarations map[permission.Name]*Declaration
	Enforcements []Enforcement
}

// New returns an empty Config.
func New() *Config {
	return &Config{Declarations: make(map[permission.Name]*Declaration)}
}

// declare returns the Declaration for name, creating an empty one if
// necessary.
func (c *Config) declare(name permission.Name) *Declaration {
	if c.Declarations == nil {
		c.Declarations = make(map[permission.Name]*Declaration)
	}
	d, ok := c.Declarations[name]
	if !ok {
		d = &Declaration{}
		c.Declarations[name] = d
	}
	return d
}

// Implicit reports whether name is declared implicit (§4.4 "Initial
// state": "for permissions declared implicit in config, every function
// not waiving them is treated as if it declared Need(p)").
func (c *Config) Implicit(name permission.Name) bool {
	d, ok := c.Declarations[name]
	return ok && d.Implicit
}

// ImplicitNames returns every permission name declared implicit, sorted.
func (c *Config) ImplicitNames() []permission.Name {
	var out []permission.Name
	for name, d := range c.Declarations {
		if d.Implicit {
			out = append(out, name)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Restrictions returns the restrictions declared for name, or nil.
func (c *Config) Restrictions(name permission.Name) []Restriction {
	d, ok := c.Declarations[name]
	if !ok {
		return nil
	}
	return d.Restrictions
}

// Merge combines a and b under the §3 merge rule: declarations for the
// same permission name OR their Implicit flags, join their descriptions
// with "; ", and concatenate their restriction lists; enforcement lists
// concatenate.
func Merge(a, b *Config) *Config {
	out := New()
	for name, d := range a.Declarations {
		out.Declarations[name] = cloneDeclaration(d)
	}
	for name, d := range b.Declarations {
		existing, ok := out.Declarations[name]
		if !ok {
			out.Declarations[name] = cloneDeclaration(d)
			continue
		}
		existing.Implicit = existing.Implicit || d.Implicit
		existing.Description = joinDescriptions(existing.Description, d.Description)
		existing.Restrictions = append(existing.Restrictions, d.Restrictions...)
	}
	out.Enforcements = append(out.Enforcements, a.Enforcements...)
	out.Enforcements = append(out.Enforcements, b.Enforcements...)
	return out
}

func cloneDeclaration(d *Declaration) *Declaration {
	clone := *d
	clone.Restrictions = append([]Restriction(nil), d.Restrictions...)
	return &clone
}

func joinDescriptions(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "; " + b
	}
}
