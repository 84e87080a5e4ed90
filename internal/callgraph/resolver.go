package callgraph

import (
	"icfg/internal/ir"
	"icfg/internal/pointsto"
	"icfg/internal/typehierarchy"
)

// Resolver is the strategy that maps an indirect call site to its
// candidate callee set (spec.md §4.2). A Resolver is stateful and scoped
// to a single construction: created by NewResolver, driven by the
// Builder's hook sequence, discarded when construction completes.
//
// Hooks for a given call site are strictly sequenced:
//
//	PreCall -> (ResolveVirtualCall | ResolveFunctionPointer), only for
//	indirect sites -> HandlePossibleTargets -> PostCall
//
// OtherInst is announced for every non-call instruction, in program order
// within a function. No reordering of this sequence is permitted.
type Resolver interface {
	PreCall(n *ir.Instruction)
	ResolveVirtualCall(n *ir.Instruction) []*ir.Function
	ResolveFunctionPointer(n *ir.Instruction) []*ir.Function
	HandlePossibleTargets(n *ir.Instruction, targets []*ir.Function)
	PostCall(n *ir.Instruction)
	OtherInst(n *ir.Instruction)
	String() string
}

// IsVirtualFunctionCall implements the virtual-call test (spec.md §4.2): a
// call site is virtual iff it is call-like, a receiver operand can be
// identified, the receiver's static type is known to the hierarchy, that
// type has a vtable, and a non-negative vtable index was extracted.
func IsVirtualFunctionCall(n *ir.Instruction, th *typehierarchy.TypeHierarchy) bool {
	if n == nil || !n.IsCallLike() {
		return false
	}
	if n.Receiver == "" || n.ReceiverType == "" {
		return false
	}
	if th == nil || !th.HasType(n.ReceiverType) {
		return false
	}
	if !th.HasVFTable(n.ReceiverType) {
		return false
	}
	return n.VTableIndex >= 0
}

// NewResolver constructs the resolver variant cfg.Algorithm names. th may
// be nil only for NoResolve; pt may be nil unless Algorithm == OTF.
func NewResolver(cfg Config, irdb ir.IRDB, th *typehierarchy.TypeHierarchy, pt *pointsto.Info) (Resolver, error) {
	switch cfg.Algorithm {
	case NoResolve:
		return &noResolveResolver{}, nil
	case CHA:
		return &chaResolver{th: th}, nil
	case RTA:
		return &rtaResolver{chaResolver: chaResolver{th: th}, constructed: make(map[string]bool)}, nil
	case DTA:
		return &dtaResolver{th: th}, nil
	case VTA:
		return &vtaResolver{th: th, flowsInto: make(map[string]map[string]bool)}, nil
	case OTF:
		return &otfResolver{th: th, pt: pt, irdb: irdb}, nil
	default:
		return nil, ErrInvalidAnalysisType
	}
}
