package config

import (
	"strings"

	"github.com/wardcheck/ward/lattice"
	"github.com/wardcheck/ward/permission"
)

// ExprKind discriminates the shape of an Expression node.
type ExprKind int

const (
	ExprContext ExprKind = iota
	ExprAnd
	ExprOr
	ExprNot
)

// Expression is the boolean tree over Context atoms that a Restriction's
// predicate is built from (§3 "Expression"). Context holds Name and
// Presence; And/Or hold X and Y; Not holds X alone.
type Expression struct {
	Kind     ExprKind
	Name     permission.Name
	Presence lattice.Presence
	X, Y     *Expression
}

// Ctx builds a Context(name, presence) leaf.
func Ctx(name permission.Name, presence lattice.Presence) *Expression {
	return &Expression{Kind: ExprContext, Name: name, Presence: presence}
}

// And builds an And(x, y) node.
func And(x, y *Expression) *Expression { return &Expression{Kind: ExprAnd, X: x, Y: y} }

// Or builds an Or(x, y) node.
func Or(x, y *Expression) *Expression { return &Expression{Kind: ExprOr, X: x, Y: y} }

// Not builds a Not(x) node.
func Not(x *Expression) *Expression { return &Expression{Kind: ExprNot, X: x} }

// Eval evaluates e against state. Context(p, presence) holds iff the
// state at key p is ⊒ presence in the presence lattice; And, Or, Not are
// standard boolean connectives (§4.4 "Expression evaluation").
func (e *Expression) Eval(state lattice.PresenceSet) bool {
	switch e.Kind {
	case ExprContext:
		return e.Presence.Leq(state.Get(string(e.Name)))
	case ExprAnd:
		return e.X.Eval(state) && e.Y.Eval(state)
	case ExprOr:
		return e.X.Eval(state) || e.Y.Eval(state)
	case ExprNot:
		return !e.X.Eval(state)
	default:
		return false
	}
}

// String renders e using the output-only precedence Not > And > Or (§3
// "Expression").
func (e *Expression) String() string {
	var b strings.Builder
	e.write(&b, 0)
	return b.String()
}

// precedence returns the binding strength of e's top-level operator.
func (e *Expression) precedence() int {
	switch e.Kind {
	case ExprNot:
		return 3
	case ExprAnd:
		return 2
	case ExprOr:
		return 1
	default:
		return 4
	}
}

func (e *Expression) write(b *strings.Builder, parentPrec int) {
	switch e.Kind {
	case ExprContext:
		b.WriteString(string(e.Name))
	case ExprNot:
		b.WriteByte('!')
		e.X.write(b, e.precedence())
	case ExprAnd, ExprOr:
		prec := e.precedence()
		needParens := prec < parentPrec
		if needParens {
			b.WriteByte('(')
		}
		e.X.write(b, prec)
		if e.Kind == ExprAnd {
			b.WriteString(" && ")
		} else {
			b.WriteString(" || ")
		}
		e.Y.write(b, prec+1)
		if needParens {
			b.WriteByte(')')
		}
	}
}
