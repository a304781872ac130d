package view

// Line is one navigable row of a flattened tree.
type Line struct {
	Node  *Node
	Depth int
	// Collapsed is set on sections whose children were skipped.
	Collapsed bool
}

// Flatten lists the nodes of the tree in display order. Children of nodes for
// which collapsed reports true are skipped. Row nodes are kept; their cells
// follow at the next depth.
func Flatten(root *Node, collapsed func(*Node) bool) []Line {
	var out []Line
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		closed := collapsed != nil && n.Widget == Section && collapsed(n)
		out = append(out, Line{Node: n, Depth: depth, Collapsed: closed})
		if closed {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(root, 0)
	return out
}
