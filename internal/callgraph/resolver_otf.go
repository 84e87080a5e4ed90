package callgraph

import (
	"strings"

	"icfg/internal/ir"
	"icfg/internal/pointsto"
	"icfg/internal/typehierarchy"
)

// otfResolver implements on-the-fly call-graph construction: both virtual
// and function-pointer call sites are resolved from a points-to view that
// grows as the builder walks newly reached functions. OtherInst is the
// sole place new facts enter pt; the builder contract (spec.md §4.2,
// Design Notes) guarantees every instruction in a function is announced
// via OtherInst/PreCall before that function's call sites are re-queried.
type otfResolver struct {
	th         *typehierarchy.TypeHierarchy
	pt         *pointsto.Info
	irdb       ir.IRDB
	allocTypes map[string]string // alloc var -> concrete type
}

const typeLocPrefix = "type:"

func (r *otfResolver) PreCall(*ir.Instruction) {}

func (r *otfResolver) ResolveVirtualCall(n *ir.Instruction) []*ir.Function {
	var targets []*ir.Function
	seen := make(map[*ir.Function]bool)
	for _, loc := range r.pt.PointsTo(n.Receiver) {
		if !strings.HasPrefix(loc, typeLocPrefix) {
			continue
		}
		fn := r.th.ResolveVTableSlotUpward(loc[len(typeLocPrefix):], n.VTableIndex)
		if fn != nil && !seen[fn] {
			seen[fn] = true
			targets = append(targets, fn)
		}
	}
	return targets
}

func (r *otfResolver) ResolveFunctionPointer(n *ir.Instruction) []*ir.Function {
	var targets []*ir.Function
	seen := make(map[*ir.Function]bool)
	for _, loc := range r.pt.PointsTo(n.CalleeOperand) {
		if !strings.HasPrefix(loc, "&") {
			continue
		}
		fn := r.irdb.Function(loc[1:])
		if fn != nil && !seen[fn] {
			seen[fn] = true
			targets = append(targets, fn)
		}
	}
	return targets
}

func (r *otfResolver) HandlePossibleTargets(*ir.Instruction, []*ir.Function) {}
func (r *otfResolver) PostCall(*ir.Instruction)                             {}

func (r *otfResolver) OtherInst(n *ir.Instruction) {
	switch n.Op {
	case ir.OpAlloc:
		if n.AllocVar == "" || n.AllocType == "" {
			return
		}
		if r.allocTypes == nil {
			r.allocTypes = make(map[string]string)
		}
		r.allocTypes[n.AllocVar] = n.AllocType
		r.pt.AddEdge(n.AllocVar, typeLocPrefix+n.AllocType)
	case ir.OpStore:
		if loc := r.storeLocation(n.StoreValue); loc != "" {
			r.pt.AddEdge(n.StoreVar, loc)
		}
	}
}

// storeLocation resolves a store's right-hand side to a points-to
// location: a function value ("&f"), an explicit type literal
// ("type:T"), or the type bound to a previously observed allocation
// variable.
func (r *otfResolver) storeLocation(value string) string {
	switch {
	case strings.HasPrefix(value, "&"):
		return value
	case strings.HasPrefix(value, typeLocPrefix):
		return value
	}
	if t, ok := r.allocTypes[value]; ok {
		return typeLocPrefix + t
	}
	return ""
}

func (r *otfResolver) String() string { return "OTF" }
