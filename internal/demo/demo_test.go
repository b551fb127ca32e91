package demo

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/weave-ui/weave/pkg/component"
	"github.com/weave-ui/weave/pkg/dom"
)

func newInbox(t *testing.T, messages []Message) *Inbox {
	t.Helper()
	app := component.NewApp(component.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(app.Close)
	in, err := New(app, messages)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	app.Ready()
	return in
}

// byClass returns the elements under root whose class list contains class.
func byClass(root *dom.Node, class string) []*dom.Node {
	var out []*dom.Node
	root.Walk(func(n *dom.Node) bool {
		if v, ok := n.GetAttribute("class"); ok {
			for _, c := range strings.Fields(v) {
				if c == class {
					out = append(out, n)
					break
				}
			}
		}
		return true
	})
	return out
}

func TestInboxRenders(t *testing.T) {
	in := newInbox(t, Messages)
	body := in.App.Document().Body()

	if got := len(byClass(body, "message")); got != 3 {
		t.Errorf("messages = %d, want 3", got)
	}
	if got := len(byClass(body, "unread")); got != 2 {
		t.Errorf("unread rows = %d, want 2", got)
	}
	if got := byClass(body, "count")[0].TextContent(); got != "2 unread" {
		t.Errorf("count = %q", got)
	}
	overlay := byClass(body, "overlay")
	if len(overlay) != 1 || !overlay[0].HasAttribute("hidden") {
		t.Errorf("overlay should start hidden")
	}
	if in.Root.ListenerCount() != 0 || in.List.ListenerCount() != 3 {
		t.Errorf("listeners root=%d list=%d", in.Root.ListenerCount(), in.List.ListenerCount())
	}
}

func TestOpenMessage(t *testing.T) {
	in := newInbox(t, Messages)
	body := in.App.Document().Body()

	var opened []any
	in.App.Bus().On(OpenEvent, func(p any) { opened = append(opened, p) })

	byClass(body, "message")[1].Dispatch(dom.NewEvent("click", nil))

	if len(opened) != 1 || opened[0] != "Your build finished" {
		t.Errorf("opened = %v", opened)
	}
	if got := byClass(body, "count")[0].TextContent(); got != "1 unread" {
		t.Errorf("count = %q", got)
	}
	overlay := byClass(body, "overlay")
	if len(overlay) != 1 || overlay[0].HasAttribute("hidden") {
		t.Fatalf("overlay should be open: %s", in.App.Document().BodyHTML())
	}
	if got := overlay[0].TextContent(); !strings.Contains(got, "Your build finished") {
		t.Errorf("overlay text = %q", got)
	}
	if got := len(byClass(body, "message")); got != 3 {
		t.Errorf("messages after open = %d, want 3", got)
	}
	if n := dom.CountListeners(body); n != 4 {
		t.Errorf("listeners after open = %d, want 4", n)
	}

	// Close the overlay.
	var button *dom.Node
	overlay[0].Walk(func(n *dom.Node) bool {
		if n.Tag == "button" {
			button = n
		}
		return button == nil
	})
	button.Dispatch(dom.NewEvent("click", nil))
	overlay = byClass(body, "overlay")
	if len(overlay) != 1 || !overlay[0].HasAttribute("hidden") {
		t.Errorf("overlay should be hidden again: %s", in.App.Document().BodyHTML())
	}
	if n := dom.CountListeners(body); n != 3 {
		t.Errorf("listeners after close = %d, want 3", n)
	}
}

func TestSubjectsAreEscaped(t *testing.T) {
	in := newInbox(t, []Message{{ID: 7, Subject: `<b>"hi" & bye</b>`}})
	body := in.App.Document().Body()

	rows := byClass(body, "message")
	if len(rows) != 1 {
		t.Fatalf("rows = %d: %s", len(rows), in.App.Document().BodyHTML())
	}
	if got := rows[0].TextContent(); got != `<b>"hi" & bye</b>` {
		t.Errorf("text = %q", got)
	}
}

func TestEmptyInbox(t *testing.T) {
	in := newInbox(t, nil)
	body := in.App.Document().Body()
	if got := len(byClass(body, "message")); got != 0 {
		t.Errorf("messages = %d", got)
	}
	if got := byClass(body, "count")[0].TextContent(); got != "0 unread" {
		t.Errorf("count = %q", got)
	}
}
