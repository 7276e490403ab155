package namemap

import (
	"testing"

	"github.com/wardcheck/ward/cast"
	"github.com/wardcheck/ward/permission"
)

func TestBuildMergesForwardDeclarationAndDefinition(t *testing.T) {
	body := &cast.Block{}
	decls := []*cast.FuncDecl{
		{Name: "take_lock", SpecifierAttributes: []cast.RawAttribute{{Text: "ward(grant(lock))"}}},
		{Name: "take_lock", Body: body},
	}
	nm, _, err := Build(decls)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	entry := nm["take_lock"]
	if entry.Body != body {
		t.Errorf("body not merged from definition")
	}
	if !entry.Actions.Has(permission.Action{Kind: permission.Grant, Name: "lock"}) {
		t.Errorf("action from forward declaration lost: %+v", entry.Actions)
	}
}

func TestBuildDuplicateDefinitionIsFatal(t *testing.T) {
	bodyA := &cast.Block{Stmts: []cast.Stmt{&cast.Opaque{}}}
	bodyB := &cast.Block{Stmts: []cast.Stmt{
		&cast.ExprStmt{X: &cast.Call{Fun: &cast.Ident{Name: "f"}}},
	}}
	decls := []*cast.FuncDecl{
		{Name: "init", Body: bodyA},
		{Name: "init", Body: bodyB},
	}
	_, _, err := Build(decls)
	if err == nil {
		t.Fatal("Build did not report the duplicate definition")
	}
	if _, ok := err.(*DuplicateDefinitionError); !ok {
		t.Errorf("err = %T, want *DuplicateDefinitionError", err)
	}
}

func TestBuildIdenticalBodiesDoNotConflict(t *testing.T) {
	body := &cast.Block{}
	decls := []*cast.FuncDecl{
		{Name: "f", Body: &cast.Block{}},
		{Name: "f", Body: body},
	}
	if _, _, err := Build(decls); err != nil {
		t.Errorf("Build reported a conflict for structurally-equal empty bodies: %v", err)
	}
}
