package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses markup in <body> context and returns a detached
// fragment holding the resulting top-level nodes.
func ParseFragment(markup string) (*Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	parsed, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}

	frag := NewFragment()
	for _, h := range parsed {
		if n := fromHTML(h); n != nil {
			frag.AppendChild(n)
		}
	}
	return frag, nil
}

// fromHTML converts an x/net/html node into a detached Node.
func fromHTML(h *html.Node) *Node {
	switch h.Type {
	case html.TextNode:
		return NewText(h.Data)
	case html.CommentNode:
		return NewComment(h.Data)
	case html.ElementNode:
		el := &Node{Kind: KindElement, Tag: h.Data}
		for _, a := range h.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + key
			}
			el.attrs = append(el.attrs, Attr{Key: key, Value: a.Val})
		}
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTML(c); child != nil {
				el.AppendChild(child)
			}
		}
		return el
	default:
		return nil
	}
}
