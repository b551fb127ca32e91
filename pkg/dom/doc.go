// Package dom provides the live document that weave components render into.
//
// The document is an in-memory tree of Nodes. It mirrors the parts of the
// browser DOM the engine relies on: element/text/comment/fragment nodes,
// ordered attributes, native event listeners with bubbling, and a parent
// pointer so a node can tell whether it is attached to the document.
//
// # Core Types
//
// Node is the single tree type; Kind discriminates its role. Document owns
// the root node and exposes the <head> and <body> elements. Binding is the
// handle returned by AddEventListener and is the only way to detach a
// listener again, since Go funcs are not comparable.
//
// # Parsing and Serialization
//
// ParseFragment turns markup into a detached fragment using the
// golang.org/x/net/html tokenizer in <body> context. OuterHTML and
// InnerHTML serialize a subtree back to HTML.
//
// # Ownership and Hydration
//
// SetOwner tags a node with the identifier of the component that rendered
// it; elements also get a data-wid attribute so the tag survives
// serialization. AssignHIDs gives every node with listeners a stable
// data-hid, which lets external tools address interactive nodes.
package dom
