package callseq

// Simplify normalizes s: it collapses a Choice whose two arms are both
// empty to nothing, and recurses into both arms of every surviving
// Choice. A Choice with exactly one empty arm is kept as a Choice, not
// collapsed to its non-empty sibling — an empty arm means that branch of
// an if-without-else, or a loop's zero-iteration path, executes no
// calls, which is a fact about the branch Simplify must preserve rather
// than optimize away. Simplify is idempotent (§8 "Call-sequence
// algebra"): simplifying an already-simplified sequence returns it
// unchanged.
func Simplify(s Sequence) Sequence {
	if len(s) == 0 {
		return nil
	}
	out := make(Sequence, 0, len(s))
	for _, t := range s {
		if t.Choice == nil {
			out = append(out, t)
			continue
		}
		trueArm := Simplify(t.Choice.True)
		falseArm := Simplify(t.Choice.False)
		out = Append(out, ChoiceOf(trueArm, falseArm))
	}
	return out
}
