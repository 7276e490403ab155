package permission

import "testing"

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"need": Need, "use": Use, "grant": Grant,
		"revoke": Revoke, "deny": Deny, "waive": Waive,
	}
	for s, want := range cases {
		got, ok := ParseKind(s)
		if !ok || got != want {
			t.Errorf("ParseKind(%q) = %v, %v; want %v, true", s, got, ok, want)
		}
	}
	if _, ok := ParseKind("needs"); ok {
		t.Errorf("ParseKind(%q) unexpectedly succeeded", "needs")
	}
}

func TestActionSetDedup(t *testing.T) {
	s := NewActionSet(
		Action{Kind: Need, Name: "lock"},
		Action{Kind: Need, Name: "lock"},
		Action{Kind: Grant, Name: "lock"},
	)
	if len(s) != 2 {
		t.Errorf("len(s) = %d, want 2", len(s))
	}
}

func TestActionSetEqual(t *testing.T) {
	a := NewActionSet(Action{Kind: Need, Name: "lock"})
	b := NewActionSet(Action{Kind: Need, Name: "lock"})
	c := NewActionSet(Action{Kind: Grant, Name: "lock"})
	if !a.Equal(b) {
		t.Errorf("a.Equal(b) = false, want true")
	}
	if a.Equal(c) {
		t.Errorf("a.Equal(c) = true, want false")
	}
}

func TestDiff(t *testing.T) {
	declared := NewActionSet(Action{Kind: Need, Name: "lock"}, Action{Kind: Grant, Name: "gc_safe"})
	inferred := NewActionSet(Action{Kind: Need, Name: "lock"}, Action{Kind: Use, Name: "net"})
	missing, extra := Diff(declared, inferred)
	if len(missing) != 1 || missing[0].Name != "gc_safe" {
		t.Errorf("missing = %+v, want [grant gc_safe]", missing)
	}
	if len(extra) != 1 || extra[0].Name != "net" {
		t.Errorf("extra = %+v, want [use net]", extra)
	}
}
