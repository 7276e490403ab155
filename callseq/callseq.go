// Package callseq lowers a cast function body into the compact call
// sequence representation (§3 "Call tree / call sequence", §4.2
// "Lowering to call sequences") that the rest of Ward's pipeline
// operates on.
package callseq

import "github.com/wardcheck/ward/cast"

// Tree is a single element of a CallSequence: either a call site to a
// named identifier, or a Choice between two arms, both of which must be
// analyzed.
type Tree struct {
	// Call holds the callee name when this node is a call site; it is
	// empty when Choice is non-nil.
	Call string
	// CallPosition is the source position of the call, valid iff Call
	// is non-empty.
	CallPosition cast.Position
	// Choice, when non-nil, holds the two arms of a branch. Exactly one
	// of Call and Choice is set on any well-formed Tree.
	Choice *Choice
}

// Choice is a binary branch; either arm may be an empty Sequence,
// representing an optional arm (§3: "Choice with an empty arm is
// equivalent to making that arm optional").
type Choice struct {
	True, False Sequence
}

// Sequence is an ordered, finite sequence of call trees — the lowered
// form of a function body. The empty sequence denotes "no call".
type Sequence []Tree

// CallAt returns a one-element Sequence holding a single call site.
func CallAt(name string, pos cast.Position) Sequence {
	return Sequence{{Call: name, CallPosition: pos}}
}

// Append returns the concatenation of s and t. Concatenation is
// associative with the empty Sequence as identity (§8 "Call-sequence
// algebra"); nil is a valid empty Sequence on either side.
func Append(s, t Sequence) Sequence {
	if len(s) == 0 {
		return t
	}
	if len(t) == 0 {
		return s
	}
	out := make(Sequence, 0, len(s)+len(t))
	out = append(out, s...)
	out = append(out, t...)
	return out
}

// Cons prepends a single Tree node to s.
func Cons(head Tree, s Sequence) Sequence {
	return Append(Sequence{head}, s)
}

// ChoiceOf builds a one-element Sequence wrapping a Choice between true
// and false, unless both sides are empty, in which case it returns nil.
// An empty arm is kept as a real, wrapped Choice rather than collapsed to
// its sibling: it still means that branch — an if-without-else, or a
// loop's zero-iteration path — executes no calls, and the join at the
// end of the Choice must see both arms to compute the right joined
// state.
func ChoiceOf(trueArm, falseArm Sequence) Sequence {
	if len(trueArm) == 0 && len(falseArm) == 0 {
		return nil
	}
	return Sequence{{Choice: &Choice{True: trueArm, False: falseArm}}}
}
