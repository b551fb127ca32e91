package component

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/weave-ui/weave/pkg/dom"
)

// sequence returns an id generator yielding w1, w2, ...
func sequence() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("w%d", n)
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(t *testing.T, opts ...Option) *App {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger()), WithIDGenerator(sequence())}, opts...)
	app := NewApp(opts...)
	t.Cleanup(app.Close)
	return app
}

// recorder collects the lifecycle events of one component.
type recorder struct {
	events []string
}

func record(c *Component) *recorder {
	r := &recorder{}
	for _, name := range []string{EventUpdate, EventBeforeRender, EventRender, EventMount, EventRemount, EventUnmount} {
		name := name
		c.On(name, func(any) { r.events = append(r.events, name) })
	}
	return r
}

func (r *recorder) count(name string) int {
	n := 0
	for _, e := range r.events {
		if e == name {
			n++
		}
	}
	return n
}

func (r *recorder) reset() { r.events = nil }

// findTag returns the first element with tag under root.
func findTag(root *dom.Node, tag string) *dom.Node {
	var found *dom.Node
	root.Walk(func(n *dom.Node) bool {
		if found != nil {
			return false
		}
		if n.Kind == dom.KindElement && n.Tag == tag {
			found = n
			return false
		}
		return true
	})
	return found
}

// allNodes returns every node under root.
func allNodes(root *dom.Node) []*dom.Node {
	var out []*dom.Node
	root.Walk(func(n *dom.Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

func mount(app *App, root *Component) {
	app.RenderToBody(root)
	app.Ready()
}
