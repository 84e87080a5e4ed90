package icfg

import (
	"strings"
	"testing"

	"icfg/internal/callgraph"
	"icfg/internal/ir"
)

func twoFuncDB(t *testing.T) *ir.DB {
	t.Helper()
	helper := &ir.Function{Name: "helper"}
	helper.Insts = []*ir.Instruction{{Fn: helper, Op: ir.OpReturn}}

	main := &ir.Function{Name: "main"}
	main.Insts = []*ir.Instruction{
		{Fn: main, Idx: 0, Op: ir.OpCall, CalleeName: "helper", Succs: []int{1}, Text: "call helper"},
		{Fn: main, Idx: 1, Op: ir.OpReturn},
	}
	return ir.NewDB([]*ir.Module{{Path: "t", Functions: []*ir.Function{main, helper}}})
}

func TestBuildAndBasicQueries(t *testing.T) {
	db := twoFuncDB(t)
	res, err := Build(db, callgraph.Config{EntryPoints: []string{"main"}, Algorithm: callgraph.NoResolve}, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Stats.Vertices != 2 || res.Stats.Edges != 1 {
		t.Fatalf("want 2 vertices / 1 edge, got %+v", res.Stats)
	}

	main := res.ICFG.Function("main")
	helper := res.ICFG.Function("helper")
	if main == nil || helper == nil {
		t.Fatal("expected both functions to be found")
	}

	callSite := main.Insts[0]
	callees := res.ICFG.GetCalleesOfCallAt(callSite)
	if len(callees) != 1 || callees[0] != helper {
		t.Fatalf("want [helper], got %v", callees)
	}

	callers := res.ICFG.GetCallersOf(helper)
	if len(callers) != 1 || callers[0] != callSite {
		t.Fatalf("want [callSite], got %v", callers)
	}

	sites := res.ICFG.GetCallsFromWithin(main)
	if len(sites) != 1 || sites[0] != callSite {
		t.Fatalf("want [callSite], got %v", sites)
	}

	retSites := res.ICFG.GetReturnSitesOfCallAt(callSite)
	if len(retSites) != 1 || retSites[0] != main.Insts[1] {
		t.Fatalf("want [main.Insts[1]], got %v", retSites)
	}

	if res.ICFG.IsIndirectFunctionCall(callSite) {
		t.Fatal("a statically resolved call is not indirect")
	}
}

func TestAllNonCallStartNodes(t *testing.T) {
	db := twoFuncDB(t)
	res, err := Build(db, callgraph.Config{EntryPoints: []string{"main"}, Algorithm: callgraph.NoResolve}, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	nodes := res.ICFG.AllNonCallStartNodes()
	for _, n := range nodes {
		if n.IsCallLike() {
			t.Fatalf("call instruction %v should never be a non-call start node", n)
		}
		if n.Idx == 0 {
			t.Fatalf("entry instruction %v should never be a non-call start node", n)
		}
	}
}

func TestDOTAndJSONRender(t *testing.T) {
	db := twoFuncDB(t)
	res, err := Build(db, callgraph.Config{EntryPoints: []string{"main"}, Algorithm: callgraph.NoResolve}, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	dot := res.ICFG.DOT()
	if !strings.HasPrefix(dot, "digraph CallGraph {") {
		t.Fatalf("want a CallGraph digraph, got %q", dot)
	}
	if !strings.Contains(dot, `"main"`) || !strings.Contains(dot, `"helper"`) {
		t.Fatalf("want both function names quoted as labels, got %q", dot)
	}
	if !strings.Contains(dot, `"call helper"`) {
		t.Fatalf("want the call site's stable text as an edge label, got %q", dot)
	}

	data, err := res.ICFG.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	js := string(data)
	if !strings.Contains(js, `"callgraph"`) {
		t.Fatalf("want the top-level callgraph key, got %q", js)
	}
	if !strings.Contains(js, `"main":["helper"]`) {
		t.Fatalf("want main to list helper as a callee, got %q", js)
	}
	if !strings.Contains(js, `"helper":[]`) {
		t.Fatalf("want helper to have an empty callee list, got %q", js)
	}
}
