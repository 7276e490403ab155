package cast

// Expr is a C expression, restricted to the shapes §4.2 lowers.
type Expr interface{ exprNode() }

// Ident is a bare identifier reference, e.g. a variable or the callee
// name in a direct call.
type Ident struct {
	Position Position
	Name     string
}

// Call is a function call f(a1, ..., an). Fun is an Ident when the callee
// is a named identifier (the common case, which lowers to an appended
// Call node per §4.2); otherwise Fun is some other Expr and the call is
// indirect, which the lowering pass reports as a warning and otherwise
// skips (§1 "Non-goals": indirect calls are reported and skipped).
type Call struct {
	Position Position
	Fun      Expr
	Args     []Expr
}

// Comma is the comma operator, expr1, expr2, .... §4.2 lowers each
// operand in sequence; N-ary comma expressions are represented as a
// left-leaning chain of binary Comma nodes, same as the source grammar.
type Comma struct {
	X, Y Expr
}

// Assign covers simple and compound assignment (a = b, a op= b). Binary
// operators without assignment (a op b) are Binary nodes; both lower the
// same way (§4.2: "lower operands left-to-right").
type Assign struct {
	Lhs, Rhs Expr
}

// Binary is a binary operator with no assignment semantics (arithmetic,
// comparison, logical, etc).
type Binary struct {
	X, Y Expr
}

// Unary is a prefix/postfix unary operator (negation, increment,
// dereference, address-of, cast, and so on) — every unary shape lowers
// the same way, by lowering its operand.
type Unary struct {
	X Expr
}

// Index is an array/pointer subscript a[b].
type Index struct {
	X, Sub Expr
}

// Member is a member access a.m, a->m, or the null-conditional a?.m; all
// three lower their base operand left-to-right and contribute no call of
// their own.
type Member struct {
	X    Expr
	Name string
}

// Ternary is the conditional operator a ? b : c.
type Ternary struct {
	Cond, Then, Else Expr
}

// CompoundLiteral is a compound literal or designated initializer list,
// (T){e1, e2, ...}; §4.2 lowers every initializer expression.
type CompoundLiteral struct {
	Elements []Expr
}

// StmtExpr is a GNU statement expression, ({ stmt...; expr }); §4.2
// lowers the contained statements.
type StmtExpr struct {
	Body *Block
}

// Opaque stands in for every expression or statement shape that
// contributes no calls: sizeof, string/integer constants, &&label, goto,
// continue, break, inline asm, and nested function definitions (every
// row of §4.2's table that lowers to "empty"). It satisfies both Expr
// and Stmt so one zero-size marker serves both positions.
type Opaque struct{}

func (*Ident) exprNode()           {}
func (*Call) exprNode()            {}
func (*Comma) exprNode()           {}
func (*Assign) exprNode()          {}
func (*Binary) exprNode()          {}
func (*Unary) exprNode()           {}
func (*Index) exprNode()           {}
func (*Member) exprNode()          {}
func (*Ternary) exprNode()         {}
func (*CompoundLiteral) exprNode() {}
func (*StmtExpr) exprNode()        {}
func (*Opaque) exprNode()          {}
