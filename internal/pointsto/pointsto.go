// Package pointsto provides the PointsToInfo consumed interface spec.md
// §6 describes: pointsTo(v) lookups over a set that, in OTF mode, grows as
// the builder reaches new stores. Grounded in the allocation-site /
// points-to-set style used by Go SSA pointer-analysis call graphs (each
// variable maps to a set of abstract locations: allocation sites or
// function values).
package pointsto

// Info is a flow-insensitive, whole-program points-to map: each variable
// name maps to the set of abstract locations (allocation-site ids, or
// "&<function>" function values) it may hold.
type Info struct {
	sets map[string]map[string]bool
}

// New returns an empty points-to map.
func New() *Info {
	return &Info{sets: make(map[string]map[string]bool)}
}

// PointsTo returns the current location set for v, nil if v has never been
// stored to.
func (p *Info) PointsTo(v string) []string {
	locs := p.sets[v]
	if len(locs) == 0 {
		return nil
	}
	out := make([]string, 0, len(locs))
	for l := range locs {
		out = append(out, l)
	}
	return out
}

// AddEdge records that v may point to loc. Returns true iff this is a new
// fact; an empty loc is never recorded.
func (p *Info) AddEdge(v, loc string) bool {
	if loc == "" {
		return false
	}
	set := p.sets[v]
	if set == nil {
		set = make(map[string]bool)
		p.sets[v] = set
	}
	if set[loc] {
		return false
	}
	set[loc] = true
	return true
}
