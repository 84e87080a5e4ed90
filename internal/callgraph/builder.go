package callgraph

import (
	"fmt"

	"icfg/internal/ir"
	"icfg/internal/pointsto"
	"icfg/internal/typehierarchy"
)

// Stats summarizes a finished construction, the Go analogue of phasar's
// REG_COUNTER("CG Vertices"/"CG Edges") calls.
type Stats struct {
	Vertices int
	Edges    int
}

// Builder owns the worklist, the visited-function set, the per-indirect
// call-site target counter, and drives the fixed-point iteration
// described in spec.md §4.3. A Builder is single-use: call Build once.
type Builder struct {
	irdb ir.IRDB
	th   *typehierarchy.TypeHierarchy
	pt   *pointsto.Info
	res  Resolver
	cfg  Config

	graph    *CallGraph
	visited  map[*ir.Function]bool
	worklist []*ir.Function
	indirect map[*ir.Instruction]int

	warnings []string
}

// NewBuilder validates cfg and returns a Builder ready to run. TH and PT
// may be nil: a nil TH is replaced by an empty TypeHierarchy for every
// algorithm but NoResolve, and a nil PT by a fresh pointsto.Info when
// cfg.Algorithm == OTF.
func NewBuilder(irdb ir.IRDB, th *typehierarchy.TypeHierarchy, pt *pointsto.Info, cfg Config) (*Builder, error) {
	if cfg.Algorithm < NoResolve || cfg.Algorithm > OTF {
		return nil, ErrInvalidAnalysisType
	}
	if cfg.Soundness < Soundy || cfg.Soundness > Unsound {
		return nil, ErrInvalidSoundness
	}
	if cfg.IncludeGlobals && irdb.NumberOfModules() != 1 {
		return nil, ErrIncludeGlobalsMultiModule
	}
	if cfg.IncludeGlobals && cfg.GlobalCtorBuilder == nil {
		return nil, fmt.Errorf("callgraph: IncludeGlobals requires a GlobalCtorBuilder")
	}
	if th == nil && cfg.Algorithm != NoResolve {
		th = typehierarchy.New()
	}
	if pt == nil && cfg.Algorithm == OTF {
		pt = pointsto.New()
	}
	res, err := NewResolver(cfg, irdb, th, pt)
	if err != nil {
		return nil, err
	}
	return &Builder{
		irdb:     irdb,
		th:       th,
		pt:       pt,
		res:      res,
		cfg:      cfg,
		graph:    NewCallGraph(),
		visited:  make(map[*ir.Function]bool),
		indirect: make(map[*ir.Instruction]int),
	}, nil
}

// Warnings returns the diagnostics accumulated during construction: one
// line per unresolved entry point, plus one line per indirect call site
// whose resolver produced an empty target set at fixpoint (spec.md §7).
func (b *Builder) Warnings() []string { return b.warnings }

func (b *Builder) warn(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

// initEntryPoints resolves cfg.EntryPoints to Function handles. Unknown
// names are warned and skipped; "__ALL__" expands to every named,
// non-declaration function in the IRDB.
func (b *Builder) initEntryPoints() []*ir.Function {
	if len(b.cfg.EntryPoints) == 1 && b.cfg.EntryPoints[0] == AllEntryPoints {
		var entries []*ir.Function
		for _, f := range b.irdb.AllFunctions() {
			if !f.IsDeclaration && f.Name != "" {
				entries = append(entries, f)
			}
		}
		return entries
	}
	entries := make([]*ir.Function, 0, len(b.cfg.EntryPoints))
	for _, name := range b.cfg.EntryPoints {
		f := b.irdb.FunctionDefinition(name)
		if f == nil {
			b.warn("could not retrieve function for entry point %q", name)
			continue
		}
		entries = append(entries, f)
	}
	return entries
}

// Build runs the fixed-point construction to completion and returns the
// finished CallGraph.
func (b *Builder) Build() (*CallGraph, error) {
	entries := b.initEntryPoints()

	if b.cfg.IncludeGlobals {
		ctor := b.cfg.GlobalCtorBuilder(entries)
		b.worklist = append(b.worklist, ctor)
	} else {
		b.worklist = append(b.worklist, entries...)
	}

	fixpoint := false
	for !fixpoint {
		fixpoint = true
		for len(b.worklist) > 0 {
			n := len(b.worklist) - 1
			f := b.worklist[n]
			b.worklist = b.worklist[:n]
			if !b.processFunction(f) {
				fixpoint = false
			}
		}
		// Re-scanning every recorded indirect site on every outer pass,
		// rather than only the newly discovered ones, is deliberate: the
		// points-to view may mutate underneath us while we iterate, so a
		// delta-based scan would need its own soundness argument we don't
		// have (spec.md Design Notes, Open Question).
		for n := range b.indirect {
			if b.constructDynamicCall(n) {
				fixpoint = false
			}
		}
	}

	for n, count := range b.indirect {
		if count == 0 {
			b.warn("no callees found for call site %s", n)
		}
	}

	return b.graph, nil
}

// processFunction scans f's instructions once, adding static-callee edges
// and enqueueing their targets, recording indirect sites for later
// resolution. Returns false iff it discovered a new indirect call site
// (i.e. this function is not yet fixpoint-safe).
func (b *Builder) processFunction(f *ir.Function) bool {
	if f.IsDeclaration || b.visited[f] {
		return true
	}
	b.visited[f] = true

	caller := b.graph.GetOrAddVertex(f)
	fixpoint := true

	for _, inst := range f.Insts {
		if !inst.IsCallLike() {
			b.res.OtherInst(inst)
			continue
		}

		b.res.PreCall(inst)

		var targets []*ir.Function
		switch {
		case inst.CalleeName != "" && b.irdb.Function(inst.CalleeName) != nil:
			targets = []*ir.Function{b.irdb.Function(inst.CalleeName)}
		case inst.CalleeOperand != "" && b.irdb.Function(inst.CalleeOperand) != nil:
			// Still try to resolve the called value statically, as if
			// stripping pointer casts down to a named function.
			targets = []*ir.Function{b.irdb.Function(inst.CalleeOperand)}
		case inst.InlineAsm:
			continue
		default:
			if _, ok := b.indirect[inst]; !ok {
				b.indirect[inst] = 0
			}
			fixpoint = false
			continue
		}

		b.res.HandlePossibleTargets(inst, targets)
		for _, t := range targets {
			callee := b.graph.GetOrAddVertex(t)
			if b.graph.AddEdge(caller, callee, inst) {
				b.worklist = append(b.worklist, t)
			}
		}
		b.res.PostCall(inst)
	}

	return fixpoint
}

// constructDynamicCall re-resolves the indirect call site n. Returns true
// iff the resolver returned a strictly larger target set than last time,
// in which case the new targets (minus those already connected from this
// call site) are added as edges and enqueued.
func (b *Builder) constructDynamicCall(n *ir.Instruction) bool {
	caller, ok := b.graph.VertexOf(n.Fn)
	if !ok {
		// An indirect site is only ever recorded after its owning function
		// was processed, so its vertex must already exist; its absence
		// means the graph has been corrupted and continuing is unsafe.
		panic(fmt.Sprintf("callgraph: no vertex for caller of indirect call site %s", n))
	}

	b.res.PreCall(n)

	var targets []*ir.Function
	if IsVirtualFunctionCall(n, b.th) {
		targets = b.res.ResolveVirtualCall(n)
	} else {
		targets = b.res.ResolveFunctionPointer(n)
	}

	prevCount := b.indirect[n]
	if len(targets) <= prevCount {
		return false
	}
	b.indirect[n] = len(targets)

	already := make(map[*ir.Function]bool)
	for _, e := range b.graph.OutEdges(caller) {
		if e.Site == n {
			already[b.graph.Function(e.Callee)] = true
		}
	}
	var fresh []*ir.Function
	for _, t := range targets {
		if !already[t] {
			fresh = append(fresh, t)
		}
	}

	b.res.HandlePossibleTargets(n, fresh)
	for _, t := range fresh {
		callee := b.graph.GetOrAddVertex(t)
		if b.graph.AddEdge(caller, callee, n) {
			b.worklist = append(b.worklist, t)
		}
	}
	b.res.PostCall(n)

	return true
}
