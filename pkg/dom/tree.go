package dom

// expand returns the nodes to insert for child: a fragment contributes
// its children, anything else contributes itself.
func expand(child *Node) []*Node {
	if child == nil {
		return nil
	}
	if child.Kind == KindFragment {
		kids := child.children
		for _, k := range kids {
			k.parent = nil
		}
		child.children = nil
		return kids
	}
	child.detach()
	return []*Node{child}
}

// detach removes n from its current parent without touching n's subtree.
func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	if i := p.IndexOf(n); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
}

// IndexOf returns the position of child among n's children, or -1.
func (n *Node) IndexOf(child *Node) int {
	if n == nil {
		return -1
	}
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// AppendChild appends child (or a fragment's children) to n.
func (n *Node) AppendChild(child *Node) *Node {
	return n.insertAt(len(n.children), child)
}

// InsertBefore inserts child before ref. A nil or foreign ref appends.
func (n *Node) InsertBefore(child, ref *Node) *Node {
	i := n.IndexOf(ref)
	if ref == nil || i < 0 {
		i = len(n.children)
	}
	return n.insertAt(i, child)
}

func (n *Node) insertAt(i int, child *Node) *Node {
	if n == nil || child == nil || child == n {
		return child
	}
	// Detaching child from n itself may shift the insertion point.
	if child.parent == n && n.IndexOf(child) < i {
		i--
	}
	nodes := expand(child)
	if len(nodes) == 0 {
		return child
	}
	for _, c := range nodes {
		c.parent = n
	}
	tail := append([]*Node(nil), n.children[i:]...)
	n.children = append(append(n.children[:i], nodes...), tail...)
	return child
}

// RemoveChild detaches child from n. It is a no-op if child is not a child of n.
func (n *Node) RemoveChild(child *Node) *Node {
	if n == nil || child == nil || child.parent != n {
		return child
	}
	child.detach()
	return child
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n == nil {
		return
	}
	n.detach()
}

// ReplaceWith replaces n in its parent with the given nodes, expanding
// fragments. A detached n is left untouched.
func (n *Node) ReplaceWith(nodes ...*Node) {
	p := n.Parent()
	if p == nil {
		return
	}
	for _, r := range nodes {
		if r == n {
			continue
		}
		p.InsertBefore(r, n)
	}
	for _, r := range nodes {
		if r == n {
			return
		}
	}
	n.detach()
}

// Clear removes every child of n.
func (n *Node) Clear() {
	if n == nil {
		return
	}
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}
