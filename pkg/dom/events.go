package dom

// Listener is a native event callback.
type Listener func(ev *Event)

// Event is a native event travelling through the document.
type Event struct {
	Type          string         // "click", "input", etc.
	Target        *Node          // Node the event was dispatched on
	CurrentTarget *Node          // Node whose listeners are running
	Data          map[string]any // Event-specific payload (value, key, ...)

	stopped          bool
	defaultPrevented bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string, data map[string]any) *Event {
	return &Event{Type: typ, Data: data}
}

// StopPropagation prevents the event from reaching further ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// PreventDefault marks the event's default action as cancelled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Value returns Data["value"] as a string, a convenience for input events.
func (e *Event) Value() string {
	if e == nil || e.Data == nil {
		return ""
	}
	if s, ok := e.Data["value"].(string); ok {
		return s
	}
	return ""
}

// Binding records one listener attached to one node.
type Binding struct {
	Type     string
	Listener Listener

	node *Node
}

// Node returns the node the binding is attached to, or nil once removed.
func (b *Binding) Node() *Node {
	if b == nil {
		return nil
	}
	return b.node
}

// AddEventListener attaches fn for events of the given type.
func (n *Node) AddEventListener(typ string, fn Listener) *Binding {
	if n == nil || fn == nil {
		return nil
	}
	b := &Binding{Type: typ, Listener: fn, node: n}
	n.listeners = append(n.listeners, b)
	return b
}

// RemoveEventListener detaches a binding previously returned by
// AddEventListener. Unknown or already removed bindings are ignored.
func (n *Node) RemoveEventListener(b *Binding) {
	if n == nil || b == nil || b.node != n {
		return
	}
	for i, l := range n.listeners {
		if l == b {
			n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
			break
		}
	}
	b.node = nil
}

// ListenerCount returns the number of listeners attached to n.
func (n *Node) ListenerCount() int {
	if n == nil {
		return 0
	}
	return len(n.listeners)
}

// Listeners returns the event types of n's listeners in attach order.
func (n *Node) Listeners() []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.listeners))
	for _, b := range n.listeners {
		out = append(out, b.Type)
	}
	return out
}

// IsInteractive returns true if this node has event listeners and needs a HID.
func (n *Node) IsInteractive() bool {
	return n != nil && n.Kind == KindElement && len(n.listeners) > 0
}

// Dispatch fires ev at n and bubbles it through n's ancestors. The
// propagation path is fixed before the first listener runs, so listeners
// that re-render part of the tree do not change who receives the event.
// It returns false if a listener called PreventDefault.
func (n *Node) Dispatch(ev *Event) bool {
	if n == nil || ev == nil {
		return true
	}
	ev.Target = n

	var path []*Node
	for cur := n; cur != nil; cur = cur.parent {
		path = append(path, cur)
	}

	for _, cur := range path {
		ev.CurrentTarget = cur
		bindings := append([]*Binding(nil), cur.listeners...)
		for _, b := range bindings {
			if b.Type != ev.Type || b.node != cur {
				continue
			}
			b.Listener(ev)
		}
		if ev.stopped {
			break
		}
	}
	ev.CurrentTarget = nil
	return !ev.defaultPrevented
}

// CountListeners returns the total number of listeners in the subtree.
func CountListeners(root *Node) int {
	count := 0
	root.Walk(func(c *Node) bool {
		count += len(c.listeners)
		return true
	})
	return count
}
