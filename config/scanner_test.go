package config

import (
	"testing"
)

func TestScannerTokens(t *testing.T) {
	src := `lock "a mutex" -> !locked "must hold before release"; # trailing comment
implicit irq;
enforce "driver/"; enforce function foo;`
	toks, err := newScanner(src).tokens()
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	var kinds []tokenKind
	for _, tok := range toks {
		kinds = append(kinds, tok.kind)
	}
	want := []tokenKind{
		tokIdent, tokString, tokArrow, tokNot, tokIdent, tokString, tokSemi,
		tokIdent, tokIdent, tokSemi,
		tokIdent, tokString, tokSemi,
		tokIdent, tokIdent, tokIdent, tokSemi,
		tokEOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(kinds), kinds, len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestScannerUnterminatedString(t *testing.T) {
	if _, err := newScanner(`foo "bar`).tokens(); err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestScannerUnexpectedCharacter(t *testing.T) {
	if _, err := newScanner(`foo @ bar;`).tokens(); err == nil {
		t.Fatal("expected error for unexpected character")
	}
}

func TestScannerLineTracking(t *testing.T) {
	toks, err := newScanner("foo;\nbar;\n").tokens()
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	if toks[0].line != 1 {
		t.Errorf("first token: got line %d, want 1", toks[0].line)
	}
	if toks[2].line != 2 {
		t.Errorf("third token: got line %d, want 2", toks[2].line)
	}
}
