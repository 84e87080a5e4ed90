package callgraph

import "icfg/internal/ir"

// rtaResolver implements rapid-type analysis: CHA's subtype set narrowed
// to the types whose constructor has actually been observed reachable
// (the classic RTA refinement). constructed is populated by OtherInst as
// the builder walks OpAlloc instructions in newly visited functions.
type rtaResolver struct {
	chaResolver
	constructed map[string]bool
}

func (r *rtaResolver) ResolveVirtualCall(n *ir.Instruction) []*ir.Function {
	var targets []*ir.Function
	seen := make(map[*ir.Function]bool)
	for _, sub := range r.th.Subtypes(n.ReceiverType) {
		if !r.constructed[sub] {
			continue
		}
		fn := r.th.ResolveVTableSlotUpward(sub, n.VTableIndex)
		if fn != nil && !seen[fn] {
			seen[fn] = true
			targets = append(targets, fn)
		}
	}
	return targets
}

func (r *rtaResolver) OtherInst(n *ir.Instruction) {
	if n.Op == ir.OpAlloc && n.AllocType != "" {
		r.constructed[n.AllocType] = true
	}
}

func (r *rtaResolver) String() string { return "RTA" }
