package dom

import (
	"bytes"
	"sync"
)

// Document is the live document: a root node with <html>, <head> and <body>.
type Document struct {
	root *Node
	head *Node
	body *Node

	hids *HIDGenerator
	mu   sync.Mutex
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	root := &Node{Kind: KindDocument}
	htmlEl := NewElement("html")
	head := NewElement("head")
	body := NewElement("body")
	htmlEl.AppendChild(head)
	htmlEl.AppendChild(body)
	root.AppendChild(htmlEl)

	return &Document{
		root: root,
		head: head,
		body: body,
		hids: NewHIDGenerator(),
	}
}

// Root returns the document node.
func (d *Document) Root() *Node { return d.root }

// Head returns the <head> element.
func (d *Document) Head() *Node { return d.head }

// Body returns the <body> element.
func (d *Document) Body() *Node { return d.body }

// FindOwned returns every connected node tagged with id.
func (d *Document) FindOwned(id string) []*Node {
	return FindOwned(d.root, id)
}

// Hydrate assigns HIDs to every interactive element that lacks one.
func (d *Document) Hydrate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	AssignHIDs(d.root, d.hids)
}

// FindByHID returns the connected node with the given hydration ID.
func (d *Document) FindByHID(hid string) *Node {
	return FindByHID(d.root, hid)
}

// HTML hydrates and serializes the whole document.
func (d *Document) HTML() string {
	d.Hydrate()
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>")
	_ = Render(&buf, d.root, RenderOptions{})
	return buf.String()
}

// BodyHTML hydrates and serializes the children of <body>.
func (d *Document) BodyHTML() string {
	d.Hydrate()
	return d.body.InnerHTML()
}
