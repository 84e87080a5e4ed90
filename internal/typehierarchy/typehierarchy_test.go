package typehierarchy

import (
	"testing"

	"icfg/internal/ir"
)

func TestSubtypesTransitive(t *testing.T) {
	th := New()
	th.RegisterType("Animal", "")
	th.RegisterType("Dog", "Animal")
	th.RegisterType("Puppy", "Dog")
	th.RegisterType("Cat", "Animal")

	subs := th.Subtypes("Animal")
	want := map[string]bool{"Animal": true, "Dog": true, "Puppy": true, "Cat": true}
	if len(subs) != len(want) {
		t.Fatalf("want %d subtypes, got %d: %v", len(want), len(subs), subs)
	}
	for _, s := range subs {
		if !want[s] {
			t.Fatalf("unexpected subtype %q", s)
		}
	}
}

func TestSubtypesCacheInvalidatesOnRegister(t *testing.T) {
	th := New()
	th.RegisterType("Animal", "")
	if got := th.Subtypes("Animal"); len(got) != 1 {
		t.Fatalf("want 1 subtype before registering Dog, got %v", got)
	}
	th.RegisterType("Dog", "Animal")
	if got := th.Subtypes("Animal"); len(got) != 2 {
		t.Fatalf("want 2 subtypes after registering Dog, got %v", got)
	}
}

func TestResolveVTableSlotUpwardInherits(t *testing.T) {
	th := New()
	th.RegisterType("Animal", "")
	th.RegisterType("Dog", "Animal")

	speak := &ir.Function{Name: "Animal::speak"}
	th.RegisterVirtualMethod("Animal", 0, speak)

	if fn := th.ResolveVTableSlot("Dog", 0); fn != nil {
		t.Fatalf("Dog does not override slot 0 directly, want nil, got %v", fn)
	}
	if fn := th.ResolveVTableSlotUpward("Dog", 0); fn != speak {
		t.Fatalf("want inherited Animal::speak, got %v", fn)
	}

	bark := &ir.Function{Name: "Dog::speak"}
	th.RegisterVirtualMethod("Dog", 0, bark)
	if fn := th.ResolveVTableSlotUpward("Dog", 0); fn != bark {
		t.Fatalf("want overridden Dog::speak, got %v", fn)
	}
}

func TestHasVFTable(t *testing.T) {
	th := New()
	th.RegisterType("Plain", "")
	if th.HasVFTable("Plain") {
		t.Fatal("Plain has no registered virtual methods")
	}
	th.RegisterVirtualMethod("Plain", 0, &ir.Function{Name: "Plain::m"})
	if !th.HasVFTable("Plain") {
		t.Fatal("Plain now has a virtual method")
	}
}
