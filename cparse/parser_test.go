package cparse

import (
	"testing"

	"github.com/wardcheck/ward/cast"
)

func mustParse(t *testing.T, src string) *cast.TranslationUnit {
	t.Helper()
	tu, err := Parse("t.c", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tu
}

func findDecl(t *testing.T, tu *cast.TranslationUnit, name string) *cast.FuncDecl {
	t.Helper()
	for _, d := range tu.Decls {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("no declaration named %q among %d decls", name, len(tu.Decls))
	return nil
}

func TestParsePrototypeAndDefinition(t *testing.T) {
	tu := mustParse(t, `
int foo(int x);

int foo(int x) {
	return x + 1;
}
`)
	var prototype, definition *cast.FuncDecl
	for _, d := range tu.Decls {
		if d.Name != "foo" {
			continue
		}
		if d.Body == nil {
			prototype = d
		} else {
			definition = d
		}
	}
	if prototype == nil || definition == nil {
		t.Fatalf("want one bodyless prototype and one definition named foo, got %d decls", len(tu.Decls))
	}
	if definition.Storage != cast.StorageExtern {
		t.Errorf("storage = %v, want StorageExtern", definition.Storage)
	}
}

func TestParseStaticStorage(t *testing.T) {
	tu := mustParse(t, `static void init(void) { }`)
	d := findDecl(t, tu, "init")
	if d.Storage != cast.StorageStatic {
		t.Errorf("storage = %v, want StorageStatic", d.Storage)
	}
}

func TestParseGNUAttribute(t *testing.T) {
	tu := mustParse(t, `
int take_lock(void) __attribute__((ward(grant(lock)))) {
	return 0;
}
`)
	d := findDecl(t, tu, "take_lock")
	attrs := d.Attributes()
	if len(attrs) != 1 || attrs[0].Text != "ward(grant(lock))" {
		t.Fatalf("attrs = %+v, want one ward(grant(lock))", attrs)
	}
}

func TestParseCallsInBody(t *testing.T) {
	tu := mustParse(t, `
void main(void) {
	if (c) {
		take_lock();
	} else {
		release_lock();
	}
	do_work();
}
`)
	d := findDecl(t, tu, "main")
	if d.Body == nil || len(d.Body.Stmts) != 2 {
		t.Fatalf("body = %+v, want 2 top-level statements", d.Body)
	}
	ifStmt, ok := d.Body.Stmts[0].(*cast.If)
	if !ok {
		t.Fatalf("first statement is %T, want *cast.If", d.Body.Stmts[0])
	}
	if ifStmt.Else == nil {
		t.Error("expected an else arm")
	}
}

func TestParseLocalDeclarationSkipped(t *testing.T) {
	tu := mustParse(t, `
void f(void) {
	int x = compute();
	use(x);
}
`)
	d := findDecl(t, tu, "f")
	if len(d.Body.Stmts) != 2 {
		t.Fatalf("got %d statements, want 2 (declaration + use(x))", len(d.Body.Stmts))
	}
	if _, ok := d.Body.Stmts[0].(*cast.Opaque); !ok {
		t.Errorf("first statement is %T, want *cast.Opaque (local declaration contributes no calls)", d.Body.Stmts[0])
	}
	exprStmt, ok := d.Body.Stmts[1].(*cast.ExprStmt)
	if !ok {
		t.Fatalf("second statement is %T, want *cast.ExprStmt", d.Body.Stmts[1])
	}
	call, ok := exprStmt.X.(*cast.Call)
	if !ok {
		t.Fatalf("second statement expression is %T, want *cast.Call", exprStmt.X)
	}
	if ident, ok := call.Fun.(*cast.Ident); !ok || ident.Name != "use" {
		t.Errorf("call.Fun = %+v, want Ident(use)", call.Fun)
	}
}

func TestParseStructDeclarationSkipped(t *testing.T) {
	tu := mustParse(t, `
struct point { int x; int y; };

typedef struct point Point;

void move(Point p) {
	apply(p);
}
`)
	if len(tu.Decls) != 1 {
		t.Fatalf("got %d decls, want exactly 1 (move); struct/typedef aren't function declarations", len(tu.Decls))
	}
	findDecl(t, tu, "move")
}

func TestParseLineMarkerRebasesPositions(t *testing.T) {
	tu := mustParse(t, "# 5 \"orig.c\"\nvoid f(void) { g(); }\n")
	d := findDecl(t, tu, "f")
	if d.Position.Filename != "orig.c" || d.Position.Line != 5 {
		t.Errorf("position = %+v, want orig.c:5", d.Position)
	}
}

func TestParseForLoopAndTernary(t *testing.T) {
	tu := mustParse(t, `
void f(void) {
	for (int i = 0; i < 10; i++) {
		c ? take(i) : drop(i);
	}
}
`)
	d := findDecl(t, tu, "f")
	loop, ok := d.Body.Stmts[0].(*cast.Loop)
	if !ok {
		t.Fatalf("statement is %T, want *cast.Loop", d.Body.Stmts[0])
	}
	if loop.Init != nil {
		t.Errorf("loop.Init = %+v, want nil (declaration contributes no calls)", loop.Init)
	}
	inner, ok := loop.Body.(*cast.Block)
	if !ok || len(inner.Stmts) != 1 {
		t.Fatalf("loop body = %+v", loop.Body)
	}
	exprStmt := inner.Stmts[0].(*cast.ExprStmt)
	if _, ok := exprStmt.X.(*cast.Ternary); !ok {
		t.Errorf("loop body expression is %T, want *cast.Ternary", exprStmt.X)
	}
}
