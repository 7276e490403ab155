package lattice

import "sort"

// PresenceSet maps a permission name to its Presence. Absent keys read as
// Bottom; the zero value of PresenceSet is the lattice bottom (the empty
// map). PresenceSet is not a free semigroup over permission names — its
// only meaningful aggregation across the analysis is Join, never
// concatenation or overwrite.
type PresenceSet map[string]Presence

// Get returns the presence at key, or Bottom if key is absent.
func (s PresenceSet) Get(key string) Presence {
	if s == nil {
		return Bottom
	}
	return s[key]
}

// Set returns a copy of s with key bound to p. s is never mutated in
// place: the fixed-point loop in the analyzer package keeps distinct
// per-branch working sets alive simultaneously, so aliasing a shared map
// would corrupt sibling states.
func (s PresenceSet) Set(key string, p Presence) PresenceSet {
	out := s.Clone()
	if p.IsBottom() {
		delete(out, key)
		return out
	}
	out[key] = p
	return out
}

// Clone returns a shallow copy of s.
func (s PresenceSet) Clone() PresenceSet {
	out := make(PresenceSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Join returns the pointwise join of s and t: keys present in only one
// operand are lifted by joining with Bottom (i.e. the other side's
// presence is used as-is), and keys present in both are joined according
// to Presence.Join — which is where a CapConflict can be introduced, per
// §4.4 "Composition over a choice".
func (s PresenceSet) Join(t PresenceSet) PresenceSet {
	out := make(PresenceSet, len(s)+len(t))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range t {
		if existing, ok := out[k]; ok {
			joined := existing.Join(v)
			if joined.IsBottom() {
				delete(out, k)
			} else {
				out[k] = joined
			}
		} else {
			out[k] = v
		}
	}
	return out
}

// Keys returns the permission names present in s, sorted, for
// deterministic iteration.
func (s PresenceSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Conflicts returns the sorted list of permission names whose capability
// is CapConflict in s.
func (s PresenceSet) Conflicts() []string {
	var out []string
	for _, k := range s.Keys() {
		if s[k].Capability == CapConflict {
			out = append(out, k)
		}
	}
	return out
}

// Equal reports whether s and t bind the same non-bottom keys to equal
// presences.
func (s PresenceSet) Equal(t PresenceSet) bool {
	if len(s) != len(t) {
		return false
	}
	for k, v := range s {
		if t[k] != v {
			return false
		}
	}
	return true
}
