package callgraph

import "icfg/internal/ir"

// noResolveResolver never resolves an indirect call site; every indirect
// site is recorded with an empty target set.
type noResolveResolver struct{}

func (r *noResolveResolver) PreCall(*ir.Instruction)                               {}
func (r *noResolveResolver) ResolveVirtualCall(*ir.Instruction) []*ir.Function      { return nil }
func (r *noResolveResolver) ResolveFunctionPointer(*ir.Instruction) []*ir.Function  { return nil }
func (r *noResolveResolver) HandlePossibleTargets(*ir.Instruction, []*ir.Function) {}
func (r *noResolveResolver) PostCall(*ir.Instruction)                               {}
func (r *noResolveResolver) OtherInst(*ir.Instruction)                              {}
func (r *noResolveResolver) String() string                                        { return "NORESOLVE" }
