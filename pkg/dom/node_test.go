package dom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindDocument, "Document"},
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindComment, "Comment"},
		{KindFragment, "Fragment"},
		{Kind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func tags(nodes []*Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind == KindText {
			out = append(out, "#"+n.Text)
			continue
		}
		out = append(out, n.Tag)
	}
	return out
}

func TestAttributes(t *testing.T) {
	el := NewElement("DIV", Attr{Key: "Class", Value: "card"})

	if el.Tag != "div" {
		t.Errorf("Tag = %q, want lower-cased div", el.Tag)
	}
	if v, ok := el.GetAttribute("class"); !ok || v != "card" {
		t.Errorf("GetAttribute(class) = %q, %v", v, ok)
	}

	el.SetAttribute("id", "main")
	el.SetAttribute("class", "card active")
	want := []Attr{{Key: "class", Value: "card active"}, {Key: "id", Value: "main"}}
	if diff := cmp.Diff(want, el.Attrs()); diff != "" {
		t.Errorf("Attrs() mismatch (-want +got):\n%s", diff)
	}

	el.RemoveAttribute("class")
	if el.HasAttribute("class") {
		t.Error("class should be removed")
	}

	text := NewText("x")
	text.SetAttribute("id", "nope")
	if text.HasAttribute("id") {
		t.Error("text nodes must not carry attributes")
	}
}

func TestTreeOperations(t *testing.T) {
	t.Run("append and insert before", func(t *testing.T) {
		ul := NewElement("ul")
		a := ul.AppendChild(NewElement("a"))
		c := ul.AppendChild(NewElement("c"))
		ul.InsertBefore(NewElement("b"), c)

		if diff := cmp.Diff([]string{"a", "b", "c"}, tags(ul.ChildNodes())); diff != "" {
			t.Errorf("children mismatch (-want +got):\n%s", diff)
		}
		if a.Parent() != ul {
			t.Error("parent pointer not set")
		}
	})

	t.Run("fragment children are moved", func(t *testing.T) {
		frag := NewFragment(NewText("x"), NewElement("p"))
		host := NewElement("div")
		host.AppendChild(frag)

		if frag.ChildCount() != 0 {
			t.Error("fragment should be emptied after insertion")
		}
		if diff := cmp.Diff([]string{"#x", "p"}, tags(host.ChildNodes())); diff != "" {
			t.Errorf("children mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("re-append moves node", func(t *testing.T) {
		p1 := NewElement("div")
		p2 := NewElement("div")
		child := p1.AppendChild(NewElement("span"))
		p2.AppendChild(child)

		if p1.ChildCount() != 0 || child.Parent() != p2 {
			t.Error("node should move to its new parent")
		}
	})

	t.Run("move within same parent", func(t *testing.T) {
		p := NewElement("div")
		a := p.AppendChild(NewElement("a"))
		p.AppendChild(NewElement("b"))
		p.AppendChild(a)
		if diff := cmp.Diff([]string{"b", "a"}, tags(p.ChildNodes())); diff != "" {
			t.Errorf("children mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("replace with fragment", func(t *testing.T) {
		p := NewElement("div")
		p.AppendChild(NewElement("a"))
		old := p.AppendChild(NewElement("old"))
		p.AppendChild(NewElement("z"))

		old.ReplaceWith(NewFragment(NewElement("n1"), NewElement("n2")))

		if diff := cmp.Diff([]string{"a", "n1", "n2", "z"}, tags(p.ChildNodes())); diff != "" {
			t.Errorf("children mismatch (-want +got):\n%s", diff)
		}
		if old.Parent() != nil {
			t.Error("replaced node should be detached")
		}
	})

	t.Run("remove and clear", func(t *testing.T) {
		p := NewElement("div")
		a := p.AppendChild(NewElement("a"))
		p.AppendChild(NewElement("b"))

		a.Remove()
		if p.ChildCount() != 1 || a.Parent() != nil {
			t.Error("Remove should detach the node")
		}

		p.Clear()
		if p.ChildCount() != 0 {
			t.Error("Clear should remove all children")
		}
	})
}

func TestIsConnected(t *testing.T) {
	doc := NewDocument()
	el := NewElement("p")

	if el.IsConnected() {
		t.Error("detached node reported connected")
	}

	doc.Body().AppendChild(el)
	if !el.IsConnected() {
		t.Error("node in body should be connected")
	}

	el.Remove()
	if el.IsConnected() {
		t.Error("removed node reported connected")
	}
}

func TestOwnership(t *testing.T) {
	doc := NewDocument()
	el := NewElement("section")
	txt := NewText("tail")
	el.SetOwner("w1")
	txt.SetOwner("w1")
	inner := el.AppendChild(NewElement("span"))

	doc.Body().AppendChild(el)
	doc.Body().AppendChild(txt)

	if v, _ := el.GetAttribute(OwnerAttr); v != "w1" {
		t.Errorf("owner attribute = %q, want w1", v)
	}
	if got := doc.FindOwned("w1"); len(got) != 2 || got[0] != el || got[1] != txt {
		t.Errorf("FindOwned = %v", got)
	}
	if NearestOwner(inner) != "w1" {
		t.Error("NearestOwner should find the tagged ancestor")
	}
	if FindOwned(doc.Root(), "") != nil {
		t.Error("empty id must match nothing")
	}
}

func TestTextContent(t *testing.T) {
	frag, err := ParseFragment("<p>Hello <b>world</b><!-- c --></p>")
	if err != nil {
		t.Fatal(err)
	}
	if got := frag.TextContent(); got != "Hello world" {
		t.Errorf("TextContent() = %q", got)
	}
}
