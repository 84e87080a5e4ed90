package callgraph

import (
	"icfg/internal/ir"
	"icfg/internal/typehierarchy"
)

// vtaResolver implements variable-type analysis: a virtual call resolves
// using the set of concrete types observed flowing into the receiver
// variable anywhere in the program (flow-insensitive — a store seen in
// any reached function contributes, regardless of order). A store whose
// value names an allocation variable contributes only if that
// allocation was observed before the store.
type vtaResolver struct {
	th         *typehierarchy.TypeHierarchy
	allocTypes map[string]string          // alloc var -> concrete type
	flowsInto  map[string]map[string]bool // variable -> concrete types assigned to it
}

func (r *vtaResolver) PreCall(*ir.Instruction) {}

func (r *vtaResolver) ResolveVirtualCall(n *ir.Instruction) []*ir.Function {
	types := r.flowsInto[n.Receiver]
	if len(types) == 0 {
		return nil
	}
	var targets []*ir.Function
	seen := make(map[*ir.Function]bool)
	for t := range types {
		fn := r.th.ResolveVTableSlotUpward(t, n.VTableIndex)
		if fn != nil && !seen[fn] {
			seen[fn] = true
			targets = append(targets, fn)
		}
	}
	return targets
}

func (r *vtaResolver) ResolveFunctionPointer(*ir.Instruction) []*ir.Function { return nil }
func (r *vtaResolver) HandlePossibleTargets(*ir.Instruction, []*ir.Function) {}
func (r *vtaResolver) PostCall(*ir.Instruction)                             {}

func (r *vtaResolver) OtherInst(n *ir.Instruction) {
	switch n.Op {
	case ir.OpAlloc:
		if n.AllocVar != "" && n.AllocType != "" {
			if r.allocTypes == nil {
				r.allocTypes = make(map[string]string)
			}
			r.allocTypes[n.AllocVar] = n.AllocType
		}
	case ir.OpStore:
		t := r.concreteTypeOf(n.StoreValue)
		if t == "" {
			return
		}
		if r.flowsInto == nil {
			r.flowsInto = make(map[string]map[string]bool)
		}
		if r.flowsInto[n.StoreVar] == nil {
			r.flowsInto[n.StoreVar] = make(map[string]bool)
		}
		r.flowsInto[n.StoreVar][t] = true
	}
}

// concreteTypeOf resolves a store's right-hand side to a concrete type:
// either an explicit "type:<T>" literal, or the type bound to a
// previously seen allocation variable.
func (r *vtaResolver) concreteTypeOf(value string) string {
	const typePrefix = "type:"
	if len(value) > len(typePrefix) && value[:len(typePrefix)] == typePrefix {
		return value[len(typePrefix):]
	}
	return r.allocTypes[value]
}

func (r *vtaResolver) String() string { return "VTA" }
