package component

import (
	"strings"
	"time"

	"github.com/weave-ui/weave/internal/errors"
	"github.com/weave-ui/weave/pkg/dom"
	"github.com/weave-ui/weave/pkg/telemetry"
	"github.com/weave-ui/weave/pkg/template"
)

const (
	eventAttrPrefix = "on"
	placeholderMark = "%{"
)

// Build runs the render pipeline and returns a detached fragment: it emits
// BEFORERENDER, renders the template, parses it, tags every top-level node
// with the component's identifier, resolves placeholders and emits RENDER.
//
// A panic in the renderer, or in a nested renderer, is recovered; the
// component then renders as an empty placeholder node.
func (c *Component) Build() *dom.Node {
	if err := c.revive(); err != nil {
		c.app.logger.Error("build of released component", "id", c.id, "error", err)
		return dom.NewFragment()
	}
	_, span := c.app.tracer.Start(c.app.ctx, telemetry.SpanBuild, c.id)
	start := time.Now()

	c.emit(EventBeforeRender, nil)
	frag, err := c.buildFragment()
	c.nodes = frag.ChildNodes()
	c.emit(EventRender, frag)

	c.app.metrics.ObserveBuild(time.Since(start))
	telemetry.End(span, err)
	return frag
}

func (c *Component) buildFragment() (frag *dom.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = c.app.recovered(c.id, "render", "W301", r)
			frag = dom.NewFragment()
			c.anchor(frag)
		}
	}()

	markup := strings.TrimSpace(c.Render(c.props.Snapshot()))
	frag, err = dom.ParseFragment(markup)
	if err != nil {
		c.app.logger.Warn("unparseable render output", "id", c.id, "error", err)
		frag = dom.NewFragment(dom.NewText(markup))
	}
	for _, n := range frag.ChildNodes() {
		n.SetOwner(c.id)
	}
	c.resolveChildren(frag)
	c.anchor(frag)
	return frag, err
}

// anchor tags top-level nodes produced by resolution and guarantees at
// least one node carries the component's identifier, so the component can
// always be located for reconciliation.
func (c *Component) anchor(frag *dom.Node) {
	own := false
	for _, n := range frag.ChildNodes() {
		switch n.Owner() {
		case "":
			n.SetOwner(c.id)
			own = true
		case c.id:
			own = true
		}
	}
	if !own {
		n := dom.NewText("")
		n.SetOwner(c.id)
		frag.InsertBefore(n, frag.FirstChild())
	}
}

// resolveChildren resolves n's children from the last to the first, so
// replacing a child never shifts the ones still to be visited.
func (c *Component) resolveChildren(n *dom.Node) {
	kids := n.ChildNodes()
	for i := len(kids) - 1; i >= 0; i-- {
		k := kids[i]
		switch k.Kind {
		case dom.KindElement:
			c.resolveAttributes(k)
			c.resolveChildren(k)
		case dom.KindText:
			if n.Kind == dom.KindElement && (n.Tag == "script" || n.Tag == "style") {
				continue
			}
			c.resolveText(k)
		}
	}
}

// resolveText replaces t with the nodes of its assets, unless resolution
// would reproduce t's own text.
func (c *Component) resolveText(t *dom.Node) {
	if !strings.Contains(t.Text, placeholderMark) {
		return
	}
	assets := c.resolver.ResolveAll(t.Text)
	if template.Unchanged(t.Text, assets) {
		return
	}
	t.ReplaceWith(c.materialize(t.Text, assets)...)
}

// materialize turns assets into detached nodes. Markup and supplied nodes
// are resolved against c's properties; nested components are built and
// adopted by c.
func (c *Component) materialize(expr string, assets []template.Asset) []*dom.Node {
	var out []*dom.Node
	for _, a := range assets {
		switch a.Kind {
		case template.KindText:
			out = append(out, dom.NewText(a.Text))

		case template.KindMarkup:
			frag, err := dom.ParseFragment(a.Text)
			if err != nil {
				c.app.logger.Warn("unparseable renderer output", "id", c.id, "error", err)
				out = append(out, dom.NewText(a.Text))
				continue
			}
			c.resolveChildren(frag)
			out = append(out, frag.ChildNodes()...)

		case template.KindNode:
			n := a.Value.(*dom.Node)
			frag := dom.NewFragment(n)
			c.resolveChildren(frag)
			out = append(out, frag.ChildNodes()...)

		case template.KindComponent:
			out = append(out, c.buildNested(expr, a.Value.(template.Component))...)

		case template.KindFunc:
			c.resolver.Warn("W205", expr, a)
		}
	}
	return out
}

// buildNested builds a component found among c's assets and records the
// parent/child edge.
func (c *Component) buildNested(expr string, tc template.Component) []*dom.Node {
	child, ok := tc.(*Component)
	if !ok || child.app != c.app {
		return tc.Build().ChildNodes()
	}
	if child == c || c.hasAncestor(child) {
		c.app.logger.Warn("component renders its own ancestor", "id", c.id, "child", child.id, "expr", expr)
		return nil
	}
	for _, m := range c.mounted {
		if m.c == child {
			err := errors.New("W104").WithDetailf("component %s in %s", child.id, c.id)
			c.app.logger.Warn("duplicate component asset", "id", c.id, "child", child.id, "error", err)
			return nil
		}
	}

	wasLive := child.IsInDOM()
	frag := child.Build()
	if err := c.app.registry.Adopt(c.id, child.id); err != nil {
		c.app.logger.Warn("cannot adopt nested component", "id", c.id, "child", child.id, "error", err)
	}
	c.mounted = append(c.mounted, mountedChild{c: child, wasLive: wasLive})
	return frag.ChildNodes()
}

// hasAncestor reports whether other is c's parent, grandparent and so on.
func (c *Component) hasAncestor(other *Component) bool {
	for id := c.app.registry.Parent(c.id); id != ""; id = c.app.registry.Parent(id) {
		if id == other.id {
			return true
		}
	}
	return false
}

// resolveAttributes resolves n's attributes from the last to the first.
// on<type> attributes are always removed; when they resolve to a function
// it is bound as a native listener. Other attributes are overwritten only
// when the first asset is a string different from the source value.
func (c *Component) resolveAttributes(n *dom.Node) {
	attrs := n.Attrs()
	for i := len(attrs) - 1; i >= 0; i-- {
		key, value := attrs[i].Key, attrs[i].Value

		if len(key) > len(eventAttrPrefix) && strings.HasPrefix(key, eventAttrPrefix) {
			n.RemoveAttribute(key)
			first, _ := template.First(c.resolver.Resolve(value))
			fn, ok := template.Listener(first)
			if !ok {
				c.resolver.Warn("W204", value, first)
				continue
			}
			c.bind(n, key[len(eventAttrPrefix):], fn)
			continue
		}

		if !strings.Contains(value, placeholderMark) {
			continue
		}
		// An attribute resolving to nothing keeps its source value.
		first, ok := template.First(c.resolver.Resolve(value))
		if ok && first.IsString() && first.Text != value {
			n.SetAttribute(key, first.Text)
		}
	}
}

// bind attaches fn to n and records the binding so the next build or
// unmount can detach it. Panics in fn are recovered and logged.
func (c *Component) bind(n *dom.Node, typ string, fn dom.Listener) {
	app, id := c.app, c.id
	b := n.AddEventListener(typ, func(ev *dom.Event) {
		defer func() {
			if r := recover(); r != nil {
				_ = app.recovered(id, "listener", "W302", r)
			}
		}()
		fn(ev)
	})
	c.bindings = append(c.bindings, b)
	c.app.metrics.ListenersBound(1)
}
