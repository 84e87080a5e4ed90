package callgraph

import (
	"icfg/internal/ir"
	"icfg/internal/typehierarchy"
)

// chaResolver implements class-hierarchy analysis: a virtual call site
// resolves to every subtype of the receiver's static type that binds (or
// inherits) the dispatched vtable slot. Function-pointer sites are left
// unresolved — CHA only ever reasons about typed, vtable-indexed calls.
type chaResolver struct {
	th *typehierarchy.TypeHierarchy
}

func (r *chaResolver) PreCall(*ir.Instruction) {}

func (r *chaResolver) resolveBySlot(receiverType string, slot int) []*ir.Function {
	var targets []*ir.Function
	seen := make(map[*ir.Function]bool)
	for _, sub := range r.th.Subtypes(receiverType) {
		fn := r.th.ResolveVTableSlotUpward(sub, slot)
		if fn != nil && !seen[fn] {
			seen[fn] = true
			targets = append(targets, fn)
		}
	}
	return targets
}

func (r *chaResolver) ResolveVirtualCall(n *ir.Instruction) []*ir.Function {
	return r.resolveBySlot(n.ReceiverType, n.VTableIndex)
}

func (r *chaResolver) ResolveFunctionPointer(*ir.Instruction) []*ir.Function { return nil }

func (r *chaResolver) HandlePossibleTargets(*ir.Instruction, []*ir.Function) {}
func (r *chaResolver) PostCall(*ir.Instruction)                              {}
func (r *chaResolver) OtherInst(*ir.Instruction)                             {}
func (r *chaResolver) String() string                                       { return "CHA" }
