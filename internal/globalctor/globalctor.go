// Package globalctor implements the globals-constructor builder
// collaborator spec.md §6 describes. In a real whole-program-analysis
// front end this would stitch together every module-level static
// initializer and then call each user entry point (the C++-runtime
// global ctor/dtor model phasar synthesizes); our IR has no static
// initializers to model, so the synthesized function's body is just the
// sequence of calls to each entry, in order.
package globalctor

import "icfg/internal/ir"

// FunctionName is the name given to the synthetic function Build returns.
const FunctionName = "__global_ctors_dtors_model__"

// Build returns a synthetic function that calls every entry in entries,
// in order, suitable as the Builder's IncludeGlobals worklist seed.
func Build(entries []*ir.Function) *ir.Function {
	ctor := ir.NewSyntheticFunction(FunctionName)
	for _, e := range entries {
		ctor.AppendCall(e)
	}
	if len(entries) == 0 {
		// An entry with no instructions is indistinguishable from a
		// declaration; give it an explicit return so it is scanned (and
		// immediately finishes) like any other defined function.
		ctor.Insts = append(ctor.Insts, &ir.Instruction{Fn: ctor, Op: ir.OpReturn, Text: "return"})
		ctor.IsDeclaration = false
	}
	return ctor
}
