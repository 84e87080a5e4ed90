package callgraph

import "icfg/internal/ir"

// Vertex is an opaque index into a CallGraph's vertex array. Indices,
// rather than owning references, are used so that mutation during
// construction never invalidates a handle held elsewhere (Design Notes).
type Vertex int

// Edge is a call-graph edge: caller calls callee at Site.
type Edge struct {
	Caller Vertex
	Callee Vertex
	Site   *ir.Instruction
}

type edgeKey struct {
	caller, callee Vertex
	site           *ir.Instruction
}

// CallGraph is a directed multigraph with function-annotated vertices and
// call-site-annotated edges (spec.md §3). Vertices are a flat slice plus a
// function-to-vertex index; edges are kept in per-vertex out/in lists
// that refer to vertices by index. There are no owning references, so
// construction-time mutation cannot invalidate a Vertex.
type CallGraph struct {
	funcs []*ir.Function
	index map[*ir.Function]Vertex

	out map[Vertex][]Edge
	in  map[Vertex][]Edge
	dup map[edgeKey]bool
}

// NewCallGraph returns an empty CallGraph.
func NewCallGraph() *CallGraph {
	return &CallGraph{
		index: make(map[*ir.Function]Vertex),
		out:   make(map[Vertex][]Edge),
		in:    make(map[Vertex][]Edge),
		dup:   make(map[edgeKey]bool),
	}
}

// GetOrAddVertex returns f's vertex, creating it on first call. Idempotent;
// vertices are never removed.
func (g *CallGraph) GetOrAddVertex(f *ir.Function) Vertex {
	if v, ok := g.index[f]; ok {
		return v
	}
	v := Vertex(len(g.funcs))
	g.funcs = append(g.funcs, f)
	g.index[f] = v
	return v
}

// VertexOf looks up f's vertex without creating one.
func (g *CallGraph) VertexOf(f *ir.Function) (Vertex, bool) {
	v, ok := g.index[f]
	return v, ok
}

// Function returns the function carried by vertex v.
func (g *CallGraph) Function(v Vertex) *ir.Function {
	return g.funcs[v]
}

// AddEdge appends an edge from caller to callee at site. A second call
// with an identical (caller, callee, site) triple is a no-op; returns
// whether an edge was actually added.
func (g *CallGraph) AddEdge(caller, callee Vertex, site *ir.Instruction) bool {
	k := edgeKey{caller, callee, site}
	if g.dup[k] {
		return false
	}
	g.dup[k] = true
	e := Edge{Caller: caller, Callee: callee, Site: site}
	g.out[caller] = append(g.out[caller], e)
	g.in[callee] = append(g.in[callee], e)
	return true
}

// OutEdges iterates v's out-edges. Iteration order is stable within a
// single construction, unspecified across constructions.
func (g *CallGraph) OutEdges(v Vertex) []Edge { return g.out[v] }

// InEdges iterates v's in-edges.
func (g *CallGraph) InEdges(v Vertex) []Edge { return g.in[v] }

// Vertices iterates every vertex in the graph.
func (g *CallGraph) Vertices() []Vertex {
	vs := make([]Vertex, len(g.funcs))
	for i := range g.funcs {
		vs[i] = Vertex(i)
	}
	return vs
}

// NumVertices and NumEdges are used for the construction-time stats
// reported by the CLI (the analogue of phasar's REG_COUNTER calls).
func (g *CallGraph) NumVertices() int { return len(g.funcs) }

func (g *CallGraph) NumEdges() int {
	n := 0
	for _, es := range g.out {
		n += len(es)
	}
	return n
}
