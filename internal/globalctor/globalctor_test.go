package globalctor

import (
	"testing"

	"icfg/internal/ir"
)

func TestBuildCallsEveryEntryInOrder(t *testing.T) {
	a := &ir.Function{Name: "a"}
	b := &ir.Function{Name: "b"}
	ctor := Build([]*ir.Function{a, b})

	if ctor.Name != FunctionName {
		t.Fatalf("want %q, got %q", FunctionName, ctor.Name)
	}
	if ctor.IsDeclaration {
		t.Fatal("a synthesized ctor with calls is not a declaration")
	}
	if len(ctor.Insts) != 2 {
		t.Fatalf("want 2 call instructions, got %d", len(ctor.Insts))
	}
	if ctor.Insts[0].CalleeName != "a" || ctor.Insts[1].CalleeName != "b" {
		t.Fatalf("want calls to a then b, got %q then %q", ctor.Insts[0].CalleeName, ctor.Insts[1].CalleeName)
	}
	if got := ctor.Insts[0].Succs; len(got) != 1 || got[0] != 1 {
		t.Fatalf("want the first call to fall through to the second, got %v", got)
	}
}

func TestBuildNoEntriesIsStillScannable(t *testing.T) {
	ctor := Build(nil)
	if ctor.IsDeclaration {
		t.Fatal("want a scannable function even with zero entries")
	}
	if len(ctor.Insts) != 1 || ctor.Insts[0].Op != ir.OpReturn {
		t.Fatalf("want a single explicit return, got %+v", ctor.Insts)
	}
}
