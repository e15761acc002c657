package trie

import "sort"

// Entry is one assembled trie node together with its sorted child-edge
// table and its value table, per spec.md §4.4.
type Entry struct {
	Node     Node
	Children []ChildEntry
	Values   []ValueEntry
}

// Assemble decodes the node record at off, then its ChildrenCount child
// records and ValuesCount value records, contiguously following the node
// as spec.md §3 requires, and returns them sorted ascending by edge label.
func Assemble(buf []byte, layout Layout, off uint64) (*Entry, error) {
	node, err := decodeNode(buf, layout, off)
	if err != nil {
		return nil, err
	}

	idx := off + layout.NodeSize

	children := make([]ChildEntry, 0, node.ChildrenCount)
	for i := uint8(0); i < node.ChildrenCount; i++ {
		c, err := decodeChild(buf, layout, idx)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
		idx += layout.ChildEntrySize
	}
	sort.Slice(children, func(i, j int) bool { return children[i].C < children[j].C })

	values := make([]ValueEntry, 0, node.ValuesCount)
	for i := uint64(0); i < node.ValuesCount; i++ {
		v, err := decodeValue(buf, layout, idx)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		idx += layout.ValueEntrySize
	}

	return &Entry{Node: node, Children: children, Values: values}, nil
}

// LookupChild binary-searches this entry's sorted children for the edge
// labeled c and, if found, assembles the destination node.
func (e *Entry) LookupChild(buf []byte, layout Layout, c byte) (*Entry, error) {
	n := len(e.Children)
	i := sort.Search(n, func(i int) bool { return e.Children[i].C >= c })
	if i >= n || e.Children[i].C != c {
		return nil, nil // no such edge: not an error, caller terminates the walk
	}
	return Assemble(buf, layout, e.Children[i].ChildOff)
}

// Prefix reads this entry's prefix string from the pool, or "" if the node
// carries no prefix (PrefixOff == 0).
func (e *Entry) Prefix(buf []byte) (string, error) {
	if e.Node.PrefixOff == 0 {
		return "", nil
	}
	return trieString(buf, e.Node.PrefixOff)
}
