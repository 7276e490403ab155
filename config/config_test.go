package config

import (
	"testing"

	"github.com/wardcheck/ward/permission"
)

func TestConfigImplicitNamesSorted(t *testing.T) {
	cfg := New()
	cfg.declare(permission.Name("zeta")).Implicit = true
	cfg.declare(permission.Name("alpha")).Implicit = true
	cfg.declare(permission.Name("mid"))

	got := cfg.ImplicitNames()
	want := []permission.Name{"alpha", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("ImplicitNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ImplicitNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestConfigMerge(t *testing.T) {
	a, err := Parse(`lock "first" -> !lock "r1"; implicit irq; enforce "a/";`)
	if err != nil {
		t.Fatalf("Parse a: %v", err)
	}
	b, err := Parse(`lock "second" -> uses(irq) "r2"; implicit dma; enforce function foo;`)
	if err != nil {
		t.Fatalf("Parse b: %v", err)
	}

	merged := Merge(a, b)

	lock := merged.Declarations[permission.Name("lock")]
	if lock.Description != "first; second" {
		t.Errorf("Description = %q", lock.Description)
	}
	if len(lock.Restrictions) != 2 {
		t.Fatalf("Restrictions = %v, want 2", lock.Restrictions)
	}
	if !merged.Implicit(permission.Name("irq")) || !merged.Implicit(permission.Name("dma")) {
		t.Error("expected both irq and dma implicit")
	}
	if len(merged.Enforcements) != 2 {
		t.Errorf("Enforcements = %v, want 2", merged.Enforcements)
	}

	// Merge must not mutate its inputs.
	if len(a.Declarations[permission.Name("lock")].Restrictions) != 1 {
		t.Error("Merge mutated a's restrictions")
	}
}

func TestConfigRestrictionsAbsent(t *testing.T) {
	cfg := New()
	if rs := cfg.Restrictions(permission.Name("missing")); rs != nil {
		t.Errorf("Restrictions(missing) = %v, want nil", rs)
	}
}
