// Package callmap builds the whole-program call map (§2 step 5, §3
// "Call map") by lowering every function body in a name map to a call
// sequence.
package callmap

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/wardcheck/ward/callseq"
	"github.com/wardcheck/ward/cast"
	"github.com/wardcheck/ward/namemap"
	"github.com/wardcheck/ward/permission"
)

// Entry is the value type of a CallMap: a function's source position,
// its lowered call sequence, and its permission action set.
type Entry struct {
	Position cast.Position
	Calls    callseq.Sequence
	Actions  permission.ActionSet
}

// CallMap maps a (disambiguated) function identifier to its Entry.
type CallMap map[string]Entry

// DuplicateDefinitionError reports two non-equal call sequences for the
// same identifier, raised when merging two call maps (§3 "Call map":
// "if both bodies are non-empty and differ, raise a fatal 'multiple
// definitions' error").
type DuplicateDefinitionError struct {
	Name string
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("multiple definitions of %q", e.Name)
}

// Lower replaces each function definition in nm with its lowered call
// sequence (§2 step 5), returning the resulting CallMap along with every
// structural warning raised while lowering (§7).
func Lower(nm namemap.NameMap) (CallMap, []callseq.Warning) {
	cm := make(CallMap, len(nm))
	var warnings []callseq.Warning
	names := make([]string, 0, len(nm))
	for name := range nm {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entry := nm[name]
		seq, ws := callseq.Lower(entry.Body)
		warnings = append(warnings, ws...)
		cm[name] = Entry{Position: entry.Position, Calls: seq, Actions: entry.Actions}
	}
	return cm, warnings
}

// Merge combines a and b under the §3 Call map merge rule: action sets
// union, a non-empty call sequence is kept, and two different non-empty
// call sequences for the same identifier are a fatal error. An empty
// Sequence is treated as "no body", the call-sequence analogue of a
// name-map entry without a body.
func Merge(a, b CallMap) (CallMap, error) {
	out := make(CallMap, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for name, eb := range b {
		ea, ok := out[name]
		if !ok {
			out[name] = eb
			continue
		}
		actions := ea.Actions.Union(eb.Actions)
		calls := ea.Calls
		switch {
		case len(calls) == 0:
			calls = eb.Calls
		case len(eb.Calls) != 0 && !reflect.DeepEqual(calls, eb.Calls):
			return nil, &DuplicateDefinitionError{Name: name}
		}
		pos := ea.Position
		if !pos.IsValid() {
			pos = eb.Position
		}
		out[name] = Entry{Position: pos, Calls: calls, Actions: actions}
	}
	return out, nil
}

// Names returns the identifiers in cm, sorted, for deterministic
// iteration over the whole program (§5 "Ordering": "order between
// reports from different functions is unspecified but deterministic
// given a fixed function iteration order").
func (cm CallMap) Names() []string {
	out := make([]string, 0, len(cm))
	for name := range cm {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
