package dom

import (
	"fmt"
	"sync"
)

// HIDGenerator generates unique hydration IDs for interactive elements.
type HIDGenerator struct {
	counter uint32
	mu      sync.Mutex
}

// NewHIDGenerator creates a new HIDGenerator.
func NewHIDGenerator() *HIDGenerator {
	return &HIDGenerator{}
}

// Next returns the next hydration ID (e.g., "h1", "h2", ...).
func (g *HIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("h%d", g.counter)
}

// Current returns the current counter value without incrementing.
func (g *HIDGenerator) Current() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counter
}

// HID returns the hydration ID assigned to n, if any.
func (n *Node) HID() string {
	if n == nil {
		return ""
	}
	return n.hid
}

// AssignHIDs walks the tree and assigns HIDs to interactive elements that
// do not have one yet. Existing HIDs are kept so addresses stay stable for
// nodes that survive between serializations.
func AssignHIDs(root *Node, gen *HIDGenerator) {
	root.Walk(func(n *Node) bool {
		if n.IsInteractive() && n.hid == "" {
			n.hid = gen.Next()
		}
		return true
	})
}

// FindByHID finds a node by its HID in the tree.
func FindByHID(root *Node, hid string) *Node {
	if hid == "" {
		return nil
	}
	var found *Node
	root.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.hid == hid {
			found = n
			return false
		}
		return true
	})
	return found
}

// CountInteractive returns the number of interactive elements in the tree.
func CountInteractive(root *Node) int {
	count := 0
	root.Walk(func(n *Node) bool {
		if n.IsInteractive() {
			count++
		}
		return true
	})
	return count
}
