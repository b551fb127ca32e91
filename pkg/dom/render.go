package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// voidElements are elements that cannot have children and have no closing tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// rawTextElements hold text that must not be entity-escaped.
var rawTextElements = map[string]bool{
	"script": true,
	"style":  true,
}

// RenderOptions configures serialization.
type RenderOptions struct {
	// OmitOwner drops data-wid attributes from the output.
	OmitOwner bool
}

// Render serializes the subtree rooted at n to w.
func Render(w io.Writer, n *Node, opts RenderOptions) error {
	return renderNode(w, n, opts, false)
}

// OuterHTML serializes n including its own tag.
func (n *Node) OuterHTML() string {
	var buf bytes.Buffer
	_ = Render(&buf, n, RenderOptions{})
	return buf.String()
}

// InnerHTML serializes n's children.
func (n *Node) InnerHTML() string {
	var buf bytes.Buffer
	if n == nil {
		return ""
	}
	for _, c := range n.children {
		_ = renderNode(&buf, c, RenderOptions{}, rawTextElements[n.Tag])
	}
	return buf.String()
}

func renderNode(w io.Writer, n *Node, opts RenderOptions, rawText bool) error {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case KindText:
		text := n.Text
		if !rawText {
			text = escapeHTML(text)
		}
		_, err := io.WriteString(w, text)
		return err
	case KindComment:
		_, err := fmt.Fprintf(w, "<!--%s-->", n.Text)
		return err
	case KindDocument, KindFragment:
		for _, c := range n.children {
			if err := renderNode(w, c, opts, false); err != nil {
				return err
			}
		}
		return nil
	case KindElement:
		return renderElement(w, n, opts)
	default:
		return fmt.Errorf("dom: unknown node kind: %d", n.Kind)
	}
}

// renderElement renders an element with its attributes and children.
func renderElement(w io.Writer, n *Node, opts RenderOptions) error {
	if _, err := io.WriteString(w, "<"+n.Tag); err != nil {
		return err
	}

	for _, a := range n.attrs {
		if opts.OmitOwner && a.Key == OwnerAttr {
			continue
		}
		if err := renderAttr(w, a.Key, a.Value); err != nil {
			return err
		}
	}
	if n.hid != "" && !n.HasAttribute(HIDAttr) {
		if err := renderAttr(w, HIDAttr, n.hid); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	if voidElements[n.Tag] {
		return nil
	}

	raw := rawTextElements[n.Tag]
	for _, c := range n.children {
		if err := renderNode(w, c, opts, raw); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "</%s>", n.Tag)
	return err
}

func renderAttr(w io.Writer, key, value string) error {
	if value == "" {
		_, err := io.WriteString(w, " "+key)
		return err
	}
	_, err := fmt.Fprintf(w, ` %s="%s"`, key, escapeAttr(value))
	return err
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeAttr escapes text for safe inclusion in HTML attribute values.
// In addition to the standard HTML entities, it also escapes
// whitespace characters that could break attribute parsing.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}
