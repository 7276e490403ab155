package permission

import "sort"

// ActionSet is a set of Actions attached to a single function. Duplicates
// collapse; ordering is irrelevant to equality but Sorted gives a
// deterministic iteration order for reporting and testing.
type ActionSet map[Action]struct{}

// NewActionSet builds a set from a list of actions, collapsing duplicates.
func NewActionSet(actions ...Action) ActionSet {
	s := make(ActionSet, len(actions))
	for _, a := range actions {
		s[a] = struct{}{}
	}
	return s
}

// Add inserts action into s.
func (s ActionSet) Add(a Action) { s[a] = struct{}{} }

// Has reports whether s contains a.
func (s ActionSet) Has(a Action) bool {
	_, ok := s[a]
	return ok
}

// Union returns a new set containing every action in s or t.
func (s ActionSet) Union(t ActionSet) ActionSet {
	out := make(ActionSet, len(s)+len(t))
	for a := range s {
		out[a] = struct{}{}
	}
	for a := range t {
		out[a] = struct{}{}
	}
	return out
}

// Sorted returns the actions in s in a deterministic order: by kind, then
// by name.
func (s ActionSet) Sorted() []Action {
	out := make([]Action, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Equal reports whether s and t contain exactly the same actions. The
// analyzer's fixed-point loop uses it to detect a round that changed
// nothing.
func (s ActionSet) Equal(t ActionSet) bool {
	if len(s) != len(t) {
		return false
	}
	for a := range s {
		if !t.Has(a) {
			return false
		}
	}
	return true
}

// Diff returns the actions in declared but not in inferred, and the
// actions in inferred but not in declared, both sorted. It is used to describe an enforcement mismatch (§4.4
// "Reporting").
func Diff(declared, inferred ActionSet) (missing, extra []Action) {
	for a := range declared {
		if !inferred.Has(a) {
			missing = append(missing, a)
		}
	}
	for a := range inferred {
		if !declared.Has(a) {
			extra = append(extra, a)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return actionLess(missing[i], missing[j]) })
	sort.Slice(extra, func(i, j int) bool { return actionLess(extra[i], extra[j]) })
	return missing, extra
}

func actionLess(a, b Action) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.Name < b.Name
}
