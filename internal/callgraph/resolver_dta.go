package callgraph

import (
	"icfg/internal/ir"
	"icfg/internal/typehierarchy"
)

// dtaResolver implements declared-type analysis: a virtual call resolves
// to the single implementation bound by the receiver's declared static
// type, with no subtype widening. This is CHA with the subtype
// enumeration step removed.
type dtaResolver struct {
	th *typehierarchy.TypeHierarchy
}

func (r *dtaResolver) PreCall(*ir.Instruction) {}

func (r *dtaResolver) ResolveVirtualCall(n *ir.Instruction) []*ir.Function {
	fn := r.th.ResolveVTableSlotUpward(n.ReceiverType, n.VTableIndex)
	if fn == nil {
		return nil
	}
	return []*ir.Function{fn}
}

func (r *dtaResolver) ResolveFunctionPointer(*ir.Instruction) []*ir.Function { return nil }
func (r *dtaResolver) HandlePossibleTargets(*ir.Instruction, []*ir.Function) {}
func (r *dtaResolver) PostCall(*ir.Instruction)                              {}
func (r *dtaResolver) OtherInst(*ir.Instruction)                             {}
func (r *dtaResolver) String() string                                       { return "DTA" }
