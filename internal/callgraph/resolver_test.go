package callgraph

import (
	"testing"

	"icfg/internal/ir"
	"icfg/internal/pointsto"
	"icfg/internal/typehierarchy"
)

func vcall(receiver, receiverType string, slot int) *ir.Instruction {
	return &ir.Instruction{Op: ir.OpCall, Receiver: receiver, ReceiverType: receiverType, VTableIndex: slot}
}

func TestIsVirtualFunctionCall(t *testing.T) {
	th := typehierarchy.New()
	th.RegisterType("Dog", "")
	th.RegisterVirtualMethod("Dog", 0, &ir.Function{Name: "Dog::speak"})

	cases := []struct {
		name string
		n    *ir.Instruction
		th   *typehierarchy.TypeHierarchy
		want bool
	}{
		{"not call-like", &ir.Instruction{Op: ir.OpReturn}, th, false},
		{"no receiver", &ir.Instruction{Op: ir.OpCall}, th, false},
		{"unregistered type", vcall("d", "Cat", 0), th, false},
		{"no vtable", func() *ir.Instruction {
			th.RegisterType("Plain", "")
			return vcall("p", "Plain", 0)
		}(), th, false},
		{"negative slot", vcall("d", "Dog", -1), th, false},
		{"valid virtual call", vcall("d", "Dog", 0), th, true},
		{"nil hierarchy", vcall("d", "Dog", 0), nil, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsVirtualFunctionCall(c.n, c.th); got != c.want {
				t.Fatalf("want %v, got %v", c.want, got)
			}
		})
	}
}

func buildDiamondHierarchy() *typehierarchy.TypeHierarchy {
	th := typehierarchy.New()
	th.RegisterType("Animal", "")
	th.RegisterType("Dog", "Animal")
	th.RegisterType("Cat", "Animal")
	th.RegisterVirtualMethod("Animal", 0, &ir.Function{Name: "Animal::speak"})
	dogSpeak := &ir.Function{Name: "Dog::speak"}
	th.RegisterVirtualMethod("Dog", 0, dogSpeak)
	return th
}

func TestCHAResolvesAllOverridesAcrossSubtypes(t *testing.T) {
	th := buildDiamondHierarchy()
	r := &chaResolver{th: th}
	n := vcall("a", "Animal", 0)
	targets := r.ResolveVirtualCall(n)
	names := map[string]bool{}
	for _, f := range targets {
		names[f.Name] = true
	}
	if !names["Dog::speak"] || !names["Animal::speak"] {
		t.Fatalf("want both Dog::speak (override) and Animal::speak (Cat inherits it), got %v", names)
	}
	if len(targets) != 2 {
		t.Fatalf("want exactly 2 targets, got %d: %v", len(targets), names)
	}
}

func TestRTANarrowsToConstructedTypes(t *testing.T) {
	th := buildDiamondHierarchy()
	r := &rtaResolver{chaResolver: chaResolver{th: th}, constructed: map[string]bool{"Dog": true}}
	targets := r.ResolveVirtualCall(vcall("a", "Animal", 0))
	if len(targets) != 1 || targets[0].Name != "Dog::speak" {
		t.Fatalf("want only Dog::speak, got %v", targets)
	}

	r.OtherInst(&ir.Instruction{Op: ir.OpAlloc, AllocType: "Cat", AllocVar: "c"})
	targets = r.ResolveVirtualCall(vcall("a", "Animal", 0))
	if len(targets) != 2 {
		t.Fatalf("want 2 targets once Cat is constructed, got %v", targets)
	}
}

func TestDTAIgnoresSubtypes(t *testing.T) {
	th := buildDiamondHierarchy()
	r := &dtaResolver{th: th}
	targets := r.ResolveVirtualCall(vcall("a", "Dog", 0))
	if len(targets) != 1 || targets[0].Name != "Dog::speak" {
		t.Fatalf("want exactly Dog::speak, got %v", targets)
	}
	targets = r.ResolveVirtualCall(vcall("a", "Animal", 0))
	if len(targets) != 1 || targets[0].Name != "Animal::speak" {
		t.Fatalf("DTA must not widen to subtypes even though Dog overrides, got %v", targets)
	}
}

func TestVTAResolvesFromObservedFlow(t *testing.T) {
	th := buildDiamondHierarchy()
	r := &vtaResolver{th: th}
	if got := r.ResolveVirtualCall(vcall("a", "Animal", 0)); got != nil {
		t.Fatalf("want nil before any flow observed, got %v", got)
	}

	r.OtherInst(&ir.Instruction{Op: ir.OpAlloc, AllocType: "Dog", AllocVar: "d"})
	r.OtherInst(&ir.Instruction{Op: ir.OpStore, StoreVar: "a", StoreValue: "d"})
	targets := r.ResolveVirtualCall(vcall("a", "Animal", 0))
	if len(targets) != 1 || targets[0].Name != "Dog::speak" {
		t.Fatalf("want Dog::speak, got %v", targets)
	}

	r.OtherInst(&ir.Instruction{Op: ir.OpStore, StoreVar: "a", StoreValue: "type:Animal"})
	targets = r.ResolveVirtualCall(vcall("a", "Animal", 0))
	if len(targets) != 2 {
		t.Fatalf("want 2 targets once a literal Animal flow is added, got %v", targets)
	}
}

func TestOTFResolvesVirtualAndFunctionPointerCalls(t *testing.T) {
	th := buildDiamondHierarchy()
	pt := pointsto.New()
	fp := &ir.Function{Name: "handler"}
	irdb := &fakeIRDB{byName: map[string]*ir.Function{"handler": fp}}
	r := &otfResolver{th: th, pt: pt, irdb: irdb}

	r.OtherInst(&ir.Instruction{Op: ir.OpAlloc, AllocType: "Dog", AllocVar: "d"})
	r.OtherInst(&ir.Instruction{Op: ir.OpStore, StoreVar: "recv", StoreValue: "d"})
	targets := r.ResolveVirtualCall(vcall("recv", "Animal", 0))
	if len(targets) != 1 || targets[0].Name != "Dog::speak" {
		t.Fatalf("want Dog::speak, got %v", targets)
	}

	r.OtherInst(&ir.Instruction{Op: ir.OpStore, StoreVar: "fnvar", StoreValue: "&handler"})
	fpTargets := r.ResolveFunctionPointer(&ir.Instruction{Op: ir.OpCall, CalleeOperand: "fnvar"})
	if len(fpTargets) != 1 || fpTargets[0] != fp {
		t.Fatalf("want handler, got %v", fpTargets)
	}
}

// fakeIRDB is a minimal ir.IRDB stub for resolver tests that need Function
// lookups without a full JSONL-backed DB.
type fakeIRDB struct {
	byName map[string]*ir.Function
}

func (f *fakeIRDB) AllFunctions() []*ir.Function {
	out := make([]*ir.Function, 0, len(f.byName))
	for _, fn := range f.byName {
		out = append(out, fn)
	}
	return out
}
func (f *fakeIRDB) FunctionDefinition(name string) *ir.Function { return f.byName[name] }
func (f *fakeIRDB) Function(name string) *ir.Function           { return f.byName[name] }
func (f *fakeIRDB) WPAModule() *ir.Module                       { return nil }
func (f *fakeIRDB) NumberOfModules() int                        { return 1 }
