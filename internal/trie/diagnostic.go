package trie

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Anomaly records one structural problem the diagnostic walker found.
// Unlike Search (which returns the first error and aborts), Walk collects
// every anomaly it encounters so a single fsck run reports everything
// wrong with a corrupt file.
type Anomaly struct {
	Offset uint64
	Err    error
}

// Report summarizes a full traversal of every node reachable from root,
// per SPEC_FULL.md §4.8.
type Report struct {
	Nodes     int
	Values    int
	MaxDepth  int
	Anomalies []Anomaly
	Cyclic    bool
}

type offsetNode int64

func (n offsetNode) ID() int64 { return int64(n) }

// Walk traverses every node reachable from root (not just one query
// path), recording counts and any bounds/overflow errors, and separately
// builds a directed graph of the same edges to assert via topological
// sort that the visited structure is acyclic (spec.md §9's cyclic/
// back-reference design note, applied the way cmd/distri's build-order
// code uses gonum/graph/topo to validate its own dependency DAG).
func Walk(buf []byte, layout Layout, rootOff uint64) (*Report, error) {
	rep := &Report{}
	g := simple.NewDirectedGraph()

	var visit func(off uint64, depth int) error
	seen := make(map[uint64]bool)

	visit = func(off uint64, depth int) error {
		if depth > rep.MaxDepth {
			rep.MaxDepth = depth
		}
		if depth > maxDescentDepth {
			rep.Anomalies = append(rep.Anomalies, Anomaly{Offset: off, Err: newErr(KindBounds, "depth exceeded %d at offset %d", maxDescentDepth, off)})
			return nil
		}
		if seen[off] {
			return nil // already visited via another path; not itself a cycle
		}
		seen[off] = true

		n := offsetNode(off)
		if g.Node(n.ID()) == nil {
			g.AddNode(n)
		}

		entry, err := Assemble(buf, layout, off)
		if err != nil {
			rep.Anomalies = append(rep.Anomalies, Anomaly{Offset: off, Err: err})
			return nil
		}
		rep.Nodes++
		rep.Values += len(entry.Values)

		if _, err := entry.Prefix(buf); err != nil {
			rep.Anomalies = append(rep.Anomalies, Anomaly{Offset: off, Err: err})
		}
		for _, v := range entry.Values {
			if _, err := trieString(buf, v.KeyOff); err != nil {
				rep.Anomalies = append(rep.Anomalies, Anomaly{Offset: off, Err: err})
			}
			if _, err := trieString(buf, v.ValueOff); err != nil {
				rep.Anomalies = append(rep.Anomalies, Anomaly{Offset: off, Err: err})
			}
		}

		for _, c := range entry.Children {
			m := offsetNode(c.ChildOff)
			if g.Node(m.ID()) == nil {
				g.AddNode(m)
			}
			g.SetEdge(g.NewEdge(n, m))
			if err := visit(c.ChildOff, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(rootOff, 0); err != nil {
		return nil, err
	}

	if _, err := topo.Sort(g); err != nil {
		if _, ok := err.(topo.Unorderable); ok {
			rep.Cyclic = true
		} else {
			return nil, err
		}
	}

	return rep, nil
}

var _ graph.Node = offsetNode(0)
