package callseq

import "github.com/wardcheck/ward/cast"

// Warning is a structural warning raised while lowering a function body:
// an indirect call site or an unanalyzable construct (§7 "Structural
// warnings"). Lowering never fails outright — it always produces some
// Sequence — but callers should surface Warnings through the
// diagnostics sink.
type Warning struct {
	Position cast.Position
	Text     string
}

// Lower lowers a function body to a Sequence, following the table in
// §4.2. body may be nil (a declaration without a body), in which case
// Lower returns an empty Sequence and no warnings.
func Lower(body *cast.Block) (Sequence, []Warning) {
	if body == nil {
		return nil, nil
	}
	var w []Warning
	seq := lowerStmt(body, &w)
	return Simplify(seq), w
}

func lowerStmt(s cast.Stmt, w *[]Warning) Sequence {
	switch s := s.(type) {
	case nil:
		return nil
	case *cast.Block:
		var out Sequence
		for _, sub := range s.Stmts {
			out = Append(out, lowerStmt(sub, w))
		}
		return out
	case *cast.ExprStmt:
		return lowerExpr(s.X, w)
	case *cast.If:
		cond := lowerExpr(s.Cond, w)
		return Append(cond, ChoiceOf(lowerStmt(s.Then, w), lowerStmt(s.Else, w)))
	case *cast.Switch:
		// §9: switch does not introduce a Choice. The body is flattened
		// into the linear sequence, conservatively over-approximating
		// execution order rather than modelling which case runs.
		tag := lowerExpr(s.Tag, w)
		return Append(tag, lowerStmt(s.Body, w))
	case *cast.Loop:
		var header Sequence
		header = Append(header, lowerExpr(s.Init, w))
		header = Append(header, lowerExpr(s.Cond, w))
		header = Append(header, lowerExpr(s.Post, w))
		// The loop runs zero or one times at the lattice level (§4.2).
		return Append(header, ChoiceOf(lowerStmt(s.Body, w), nil))
	case *cast.DoWhile:
		body := lowerStmt(s.Body, w)
		cond := lowerExpr(s.Cond, w)
		return Append(body, cond)
	case *cast.Labeled:
		return lowerStmt(s.Stmt, w)
	case *cast.Opaque:
		return nil
	default:
		return nil
	}
}

func lowerExpr(e cast.Expr, w *[]Warning) Sequence {
	switch e := e.(type) {
	case nil:
		return nil
	case *cast.Ident:
		return nil
	case *cast.Call:
		args := lowerExprList(e.Args, w)
		ident, ok := e.Fun.(*cast.Ident)
		if !ok {
			*w = append(*w, Warning{
				Position: e.Position,
				Text:     "indirect call site; callee is not resolvable statically",
			})
			return Append(args, lowerExpr(e.Fun, w))
		}
		return Append(args, CallAt(ident.Name, e.Position))
	case *cast.Comma:
		return Append(lowerExpr(e.X, w), lowerExpr(e.Y, w))
	case *cast.Assign:
		return Append(lowerExpr(e.Lhs, w), lowerExpr(e.Rhs, w))
	case *cast.Binary:
		return Append(lowerExpr(e.X, w), lowerExpr(e.Y, w))
	case *cast.Unary:
		return lowerExpr(e.X, w)
	case *cast.Index:
		return Append(lowerExpr(e.X, w), lowerExpr(e.Sub, w))
	case *cast.Member:
		return lowerExpr(e.X, w)
	case *cast.Ternary:
		cond := lowerExpr(e.Cond, w)
		return Append(cond, ChoiceOf(lowerExpr(e.Then, w), lowerExpr(e.Else, w)))
	case *cast.CompoundLiteral:
		return lowerExprList(e.Elements, w)
	case *cast.StmtExpr:
		return lowerStmt(e.Body, w)
	case *cast.Opaque:
		return nil
	default:
		return nil
	}
}

func lowerExprList(es []cast.Expr, w *[]Warning) Sequence {
	var out Sequence
	for _, e := range es {
		out = Append(out, lowerExpr(e, w))
	}
	return out
}
