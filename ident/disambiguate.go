package ident

import "github.com/wardcheck/ward/cast"

// Unit pairs a translation unit with the path it was parsed from — the
// input shape of §2 step 1 ("AST ingest").
type Unit struct {
	Path string
	AST  *cast.TranslationUnit
}

// Disambiguate renames every function defined with static storage class
// by prefixing it with its defining path, rewriting both the declarator
// and every call site inside that same translation unit that names it
// (§4.1). Non-static definitions and external references are untouched.
// After renaming, the translation units are concatenated into a single
// declaration list, which is what Disambiguate returns.
//
// Renaming is scoped to a single translation unit: a static function is
// only visible within the file that defines it, so only calls appearing
// in that same unit's declarations are candidates for rewriting.
func Disambiguate(units []Unit) []*cast.FuncDecl {
	var all []*cast.FuncDecl
	for _, u := range units {
		staticNames := make(map[string]string, len(u.AST.Decls)) // bare name -> disambiguated name
		for _, d := range u.AST.Decls {
			if d.Storage == cast.StorageStatic {
				staticNames[d.Name] = StaticName(u.Path, d.Name)
			}
		}
		for _, d := range u.AST.Decls {
			if renamed, ok := staticNames[d.Name]; ok {
				d.Name = renamed
			}
			rewriteCallsInBlock(d.Body, staticNames)
			all = append(all, d)
		}
	}
	return all
}

func rewriteCallsInBlock(b *cast.Block, staticNames map[string]string) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		rewriteCallsInStmt(s, staticNames)
	}
}

func rewriteCallsInStmt(s cast.Stmt, staticNames map[string]string) {
	switch s := s.(type) {
	case nil:
	case *cast.Block:
		rewriteCallsInBlock(s, staticNames)
	case *cast.ExprStmt:
		rewriteCallsInExpr(s.X, staticNames)
	case *cast.If:
		rewriteCallsInExpr(s.Cond, staticNames)
		rewriteCallsInStmt(s.Then, staticNames)
		rewriteCallsInStmt(s.Else, staticNames)
	case *cast.Switch:
		rewriteCallsInExpr(s.Tag, staticNames)
		rewriteCallsInStmt(s.Body, staticNames)
	case *cast.Loop:
		rewriteCallsInExpr(s.Init, staticNames)
		rewriteCallsInExpr(s.Cond, staticNames)
		rewriteCallsInExpr(s.Post, staticNames)
		rewriteCallsInStmt(s.Body, staticNames)
	case *cast.DoWhile:
		rewriteCallsInStmt(s.Body, staticNames)
		rewriteCallsInExpr(s.Cond, staticNames)
	case *cast.Labeled:
		rewriteCallsInStmt(s.Stmt, staticNames)
	}
}

func rewriteCallsInExpr(e cast.Expr, staticNames map[string]string) {
	switch e := e.(type) {
	case nil:
	case *cast.Call:
		if id, ok := e.Fun.(*cast.Ident); ok {
			if renamed, ok := staticNames[id.Name]; ok {
				id.Name = renamed
			}
		}
		rewriteCallsInExpr(e.Fun, staticNames)
		for _, a := range e.Args {
			rewriteCallsInExpr(a, staticNames)
		}
	case *cast.Comma:
		rewriteCallsInExpr(e.X, staticNames)
		rewriteCallsInExpr(e.Y, staticNames)
	case *cast.Assign:
		rewriteCallsInExpr(e.Lhs, staticNames)
		rewriteCallsInExpr(e.Rhs, staticNames)
	case *cast.Binary:
		rewriteCallsInExpr(e.X, staticNames)
		rewriteCallsInExpr(e.Y, staticNames)
	case *cast.Unary:
		rewriteCallsInExpr(e.X, staticNames)
	case *cast.Index:
		rewriteCallsInExpr(e.X, staticNames)
		rewriteCallsInExpr(e.Sub, staticNames)
	case *cast.Member:
		rewriteCallsInExpr(e.X, staticNames)
	case *cast.Ternary:
		rewriteCallsInExpr(e.Cond, staticNames)
		rewriteCallsInExpr(e.Then, staticNames)
		rewriteCallsInExpr(e.Else, staticNames)
	case *cast.CompoundLiteral:
		for _, el := range e.Elements {
			rewriteCallsInExpr(el, staticNames)
		}
	case *cast.StmtExpr:
		rewriteCallsInBlock(e.Body, staticNames)
	}
}
