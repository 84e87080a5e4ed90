package icfg

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zboralski/lattice"
	"github.com/zboralski/lattice/render"
)

// JSONCallGraphKey is the adjacency map's top-level key (spec.md §6); the
// analogue of phasar's PhasarConfig::JsonCallGraphID().
const JSONCallGraphKey = "callgraph"

// DOT renders the finished call graph exactly as spec.md §6 describes: one
// vertex per reachable function (label = function name, escaped) and one
// edge per call-graph edge (label = the call instruction's stable string
// form, escaped), with opaque integer vertex identifiers.
func (i *ICFG) DOT() string {
	var b strings.Builder
	b.WriteString("digraph CallGraph {\n")
	for _, v := range i.graph.Vertices() {
		fmt.Fprintf(&b, "%d[label=%q];\n", v, i.graph.Function(v).Name)
		for _, e := range i.graph.OutEdges(v) {
			fmt.Fprintf(&b, "%d->%d[label=%q];\n", v, e.Callee, e.Site.String())
		}
	}
	b.WriteString("}\n")
	return b.String()
}

// JSON renders the finished call graph as the adjacency map spec.md §6
// describes. Callers with no outgoing edges appear with an empty array;
// a caller may list the same callee name more than once if it has
// multiple call sites targeting it.
func (i *ICFG) JSON() ([]byte, error) {
	adjacency := make(map[string][]string)
	for _, v := range i.graph.Vertices() {
		name := i.graph.Function(v).Name
		callees := adjacency[name]
		for _, e := range i.graph.OutEdges(v) {
			callees = append(callees, i.graph.Function(e.Callee).Name)
		}
		if callees == nil {
			callees = []string{}
		}
		adjacency[name] = callees
	}
	return json.Marshal(map[string]map[string][]string{JSONCallGraphKey: adjacency})
}

// OverviewDOT renders a deduplicated, unlabeled overview of the call
// graph via github.com/zboralski/lattice — the same call shape as the
// teacher's internal/callgraph.BuildCallGraph + render.DOT, useful when
// the fully labeled multigraph from DOT() is too dense to read by eye.
func (i *ICFG) OverviewDOT(title string) string {
	g := &lattice.Graph{}
	seen := make(map[string]bool)
	for _, v := range i.graph.Vertices() {
		name := i.graph.Function(v).Name
		if !seen[name] {
			seen[name] = true
			g.Nodes = append(g.Nodes, name)
		}
		for _, e := range i.graph.OutEdges(v) {
			g.Edges = append(g.Edges, lattice.Edge{
				Caller: name,
				Callee: i.graph.Function(e.Callee).Name,
			})
		}
	}
	g.Dedup()
	return render.DOT(g, title)
}
