package dom

import "strings"

// Kind is the node type discriminator.
type Kind uint8

const (
	KindDocument Kind = iota // Document root
	KindElement              // <div>, <button>, etc.
	KindText                 // Plain text node
	KindComment              // <!-- comment -->
	KindFragment             // Detached grouping without wrapper
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "Document"
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// OwnerAttr is the attribute that carries a component identifier on the
// top-level elements of its render output.
const OwnerAttr = "data-wid"

// HIDAttr is the attribute that carries the hydration ID of an interactive
// element in serialized output.
const HIDAttr = "data-hid"

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value string
}

// Node is a node of the live document.
type Node struct {
	Kind Kind   // Node type
	Tag  string // Element tag name (e.g., "div"), lower case
	Text string // For KindText and KindComment

	attrs     []Attr
	parent    *Node
	children  []*Node
	owner     string
	hid       string
	listeners []*Binding
}

// NewElement creates a detached element node.
func NewElement(tag string, attrs ...Attr) *Node {
	n := &Node{Kind: KindElement, Tag: strings.ToLower(tag)}
	for _, a := range attrs {
		n.SetAttribute(a.Key, a.Value)
	}
	return n
}

// NewText creates a detached text node.
func NewText(text string) *Node {
	return &Node{Kind: KindText, Text: text}
}

// NewComment creates a detached comment node.
func NewComment(text string) *Node {
	return &Node{Kind: KindComment, Text: text}
}

// NewFragment creates an empty fragment holding the given children.
func NewFragment(children ...*Node) *Node {
	f := &Node{Kind: KindFragment}
	for _, c := range children {
		f.AppendChild(c)
	}
	return f
}

// Parent returns the parent node, or nil if detached.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// ChildNodes returns a copy of the node's children.
func (n *Node) ChildNodes() []*Node {
	if n == nil || len(n.children) == 0 {
		return nil
	}
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	if n == nil {
		return 0
	}
	return len(n.children)
}

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node {
	if n == nil || len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// LastChild returns the last child or nil.
func (n *Node) LastChild() *Node {
	if n == nil || len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// IsConnected reports whether the node is attached to a document.
func (n *Node) IsConnected() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.Kind == KindDocument {
			return true
		}
	}
	return false
}

// Root returns the topmost ancestor of n (n itself when detached).
func (n *Node) Root() *Node {
	cur := n
	for cur != nil && cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of the subtree.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindText:
		return n.Text
	case KindComment:
		return ""
	}
	var b strings.Builder
	n.Walk(func(c *Node) bool {
		if c.Kind == KindText {
			b.WriteString(c.Text)
		}
		return true
	})
	return b.String()
}

// Walk visits n and its descendants in document order. Returning false
// from fn skips the visited node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.ChildNodes() {
		c.Walk(fn)
	}
}

// =============================================================================
// Attributes
// =============================================================================

// GetAttribute returns the attribute value and whether it exists.
func (n *Node) GetAttribute(key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the attribute exists.
func (n *Node) HasAttribute(key string) bool {
	_, ok := n.GetAttribute(key)
	return ok
}

// SetAttribute sets or replaces an attribute, keeping source order.
func (n *Node) SetAttribute(key, value string) {
	if n == nil || n.Kind != KindElement {
		return
	}
	key = strings.ToLower(key)
	for i := range n.attrs {
		if n.attrs[i].Key == key {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, Attr{Key: key, Value: value})
}

// RemoveAttribute deletes an attribute if present.
func (n *Node) RemoveAttribute(key string) {
	if n == nil {
		return
	}
	for i := range n.attrs {
		if n.attrs[i].Key == key {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}

// Attrs returns a copy of the attributes in source order.
func (n *Node) Attrs() []Attr {
	if n == nil || len(n.attrs) == 0 {
		return nil
	}
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// =============================================================================
// Ownership
// =============================================================================

// SetOwner tags the node with a component identifier. Elements also carry
// the identifier in the data-wid attribute.
func (n *Node) SetOwner(id string) {
	if n == nil {
		return
	}
	n.owner = id
	if n.Kind == KindElement {
		if id == "" {
			n.RemoveAttribute(OwnerAttr)
		} else {
			n.SetAttribute(OwnerAttr, id)
		}
	}
}

// Owner returns the component identifier the node is tagged with.
func (n *Node) Owner() string {
	if n == nil {
		return ""
	}
	return n.owner
}

// FindOwned returns every node under root (root included) tagged with id,
// in document order.
func FindOwned(root *Node, id string) []*Node {
	if root == nil || id == "" {
		return nil
	}
	var out []*Node
	root.Walk(func(c *Node) bool {
		if c.owner == id {
			out = append(out, c)
		}
		return true
	})
	return out
}

// NearestOwner returns the closest identifier tagged on n or an ancestor.
func NearestOwner(n *Node) string {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.owner != "" {
			return cur.owner
		}
	}
	return ""
}
