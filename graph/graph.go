// Package graph implements the call-graph dump/parse format of §6: a
// JSON document mapping function identifier to {position, calls,
// permissions}, where calls is the recursive sum type Call | Choice |
// Sequence over identifiers (§3 "Call tree / call sequence"). The same
// format is accepted back in as input via Parse.
package graph

import (
	"encoding/json"
	"fmt"

	"github.com/wardcheck/ward/callmap"
	"github.com/wardcheck/ward/callseq"
	"github.com/wardcheck/ward/cast"
	"github.com/wardcheck/ward/permission"
)

// CallMapUnitParseError reports that a graph document failed to parse
// into a CallMap (§6: "invalid input yields CallMapUnitParseError").
type CallMapUnitParseError struct {
	Name string
	Err  error
}

func (e *CallMapUnitParseError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("call-graph document: %v", e.Err)
	}
	return fmt.Sprintf("call-graph document, function %q: %v", e.Name, e.Err)
}

func (e *CallMapUnitParseError) Unwrap() error { return e.Err }

// document is the on-disk JSON shape: one entry per function identifier.
type document map[string]unit

type unit struct {
	Position    position  `json:"position"`
	Calls       []node    `json:"calls"`
	Permissions []string  `json:"permissions,omitempty"`
}

type position struct {
	Filename string `json:"filename,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

// node is a single CallTree element: either a call (Kind == "call") or a
// choice (Kind == "choice") between two nested sequences.
type node struct {
	Kind     string `json:"kind"`
	Call     string `json:"call,omitempty"`
	Position position `json:"position,omitempty"`
	True     []node `json:"true,omitempty"`
	False    []node `json:"false,omitempty"`
}

// Dump renders cm as a call-graph document (§6). The JSON encoder sorts
// map keys lexicographically, so the output is deterministic without any
// extra bookkeeping here.
func Dump(cm callmap.CallMap) ([]byte, error) {
	doc := make(document, len(cm))
	for _, name := range cm.Names() {
		entry := cm[name]
		doc[name] = unit{
			Position:    toPosition(entry.Position),
			Calls:       toNodes(entry.Calls),
			Permissions: toPermissions(entry.Actions),
		}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Parse reconstructs a CallMap from a call-graph document, returning a
// *CallMapUnitParseError on any structural or semantic problem.
func Parse(data []byte) (callmap.CallMap, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CallMapUnitParseError{Err: err}
	}
	cm := make(callmap.CallMap, len(doc))
	for name, u := range doc {
		seq, err := fromNodes(u.Calls)
		if err != nil {
			return nil, &CallMapUnitParseError{Name: name, Err: err}
		}
		actions, err := fromPermissions(u.Permissions)
		if err != nil {
			return nil, &CallMapUnitParseError{Name: name, Err: err}
		}
		cm[name] = callmap.Entry{
			Position: fromPosition(u.Position),
			Calls:    seq,
			Actions:  actions,
		}
	}
	return cm, nil
}

func toPosition(p cast.Position) position {
	return position{Filename: p.Filename, Line: p.Line, Column: p.Column}
}

func fromPosition(p position) cast.Position {
	return cast.Position{Filename: p.Filename, Line: p.Line, Column: p.Column}
}

func toNodes(seq callseq.Sequence) []node {
	out := make([]node, 0, len(seq))
	for _, tree := range seq {
		if tree.Choice != nil {
			out = append(out, node{
				Kind:  "choice",
				True:  toNodes(tree.Choice.True),
				False: toNodes(tree.Choice.False),
			})
			continue
		}
		out = append(out, node{Kind: "call", Call: tree.Call, Position: toPosition(tree.CallPosition)})
	}
	return out
}

func fromNodes(nodes []node) (callseq.Sequence, error) {
	out := make(callseq.Sequence, 0, len(nodes))
	for _, n := range nodes {
		switch n.Kind {
		case "call":
			if n.Call == "" {
				return nil, fmt.Errorf("call node missing a name")
			}
			out = append(out, callseq.Tree{Call: n.Call, CallPosition: fromPosition(n.Position)})
		case "choice":
			trueArm, err := fromNodes(n.True)
			if err != nil {
				return nil, err
			}
			falseArm, err := fromNodes(n.False)
			if err != nil {
				return nil, err
			}
			out = append(out, callseq.Tree{Choice: &callseq.Choice{True: trueArm, False: falseArm}})
		default:
			return nil, fmt.Errorf("unrecognized call node kind %q", n.Kind)
		}
	}
	return out, nil
}

// toPermissions renders an action set as "kind:name" strings, sorted.
func toPermissions(actions permission.ActionSet) []string {
	sorted := actions.Sorted()
	out := make([]string, len(sorted))
	for i, a := range sorted {
		out[i] = fmt.Sprintf("%s:%s", a.Kind, a.Name)
	}
	return out
}

func fromPermissions(perms []string) (permission.ActionSet, error) {
	out := permission.NewActionSet()
	for _, p := range perms {
		kindText, name, ok := splitOnce(p, ':')
		if !ok {
			return nil, fmt.Errorf("malformed permission %q, want kind:name", p)
		}
		kind, ok := permission.ParseKind(kindText)
		if !ok {
			return nil, fmt.Errorf("unrecognized permission kind %q", kindText)
		}
		out.Add(permission.Action{Kind: kind, Name: permission.Name(name)})
	}
	return out, nil
}

func splitOnce(s string, sep byte) (before, after string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}
