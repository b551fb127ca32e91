package registry

import "fmt"

// Adopt records child as a child of parent. A child that already has a
// parent is moved; adopting the same edge twice keeps a single entry.
func (r *Registry[T]) Adopt(parent, child string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if parent == child {
		return fmt.Errorf("registry: %q cannot adopt itself", parent)
	}
	p, ok := r.entries[parent]
	if !ok {
		return fmt.Errorf("parent %q: %w", parent, ErrUnknown)
	}
	c, ok := r.entries[child]
	if !ok {
		return fmt.Errorf("child %q: %w", child, ErrUnknown)
	}
	if r.isAncestor(child, parent) {
		return fmt.Errorf("registry: adopting %q under %q would create a cycle", child, parent)
	}

	if c.parent == parent {
		return nil
	}
	if old, ok := r.entries[c.parent]; ok {
		old.children = removeID(old.children, child)
	}
	c.parent = parent
	p.children = append(p.children, child)
	return nil
}

// isAncestor reports whether a is an ancestor of (or equal to) b.
func (r *Registry[T]) isAncestor(a, b string) bool {
	for cur := b; cur != ""; {
		if cur == a {
			return true
		}
		e, ok := r.entries[cur]
		if !ok {
			return false
		}
		cur = e.parent
	}
	return false
}

// Parent returns the parent of id, or "" for roots and unknown ids.
func (r *Registry[T]) Parent(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[id]; ok {
		return e.parent
	}
	return ""
}

// Children returns the direct children of id in adoption order.
func (r *Registry[T]) Children(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok || len(e.children) == 0 {
		return nil
	}
	out := make([]string, len(e.children))
	copy(out, e.children)
	return out
}

// Walk visits every registered descendant of id depth-first, parents
// before children. Returning false from fn skips that descendant's
// subtree. The arena may be modified by fn; each level is snapshotted
// before it is visited.
func (r *Registry[T]) Walk(id string, fn func(id string, v T) bool) {
	for _, child := range r.Children(id) {
		v, ok := r.Lookup(child)
		if !ok {
			continue
		}
		if !fn(child, v) {
			continue
		}
		r.Walk(child, fn)
	}
}

// Descendants returns the ids of every registered descendant of id in
// depth-first order.
func (r *Registry[T]) Descendants(id string) []string {
	var out []string
	r.Walk(id, func(d string, _ T) bool {
		out = append(out, d)
		return true
	})
	return out
}

// Roots returns the registered ids that have no parent, sorted.
func (r *Registry[T]) Roots() []string {
	var out []string
	for _, id := range r.IDs() {
		if r.Parent(id) == "" {
			out = append(out, id)
		}
	}
	return out
}
