package component

import (
	"github.com/weave-ui/weave/pkg/dom"
	"github.com/weave-ui/weave/pkg/telemetry"
)

// Lifecycle event names.
const (
	EventInit         = "INIT"
	EventUpdate       = "UPDATE"
	EventBeforeRender = "BEFORERENDER"
	EventRender       = "RENDER"
	EventMount        = "MOUNT"
	EventRemount      = "REMOUNT"
	EventUnmount      = "UNMOUNT"
)

// registerEvents installs the engine's own handlers. They are subscribed
// first, so they run before any handler added through On.
func (c *Component) registerEvents() {
	c.events.On(EventUpdate, func(any) {
		c.reconcile()
	})
	c.events.On(EventBeforeRender, func(any) {
		c.detachListeners()
		c.unmountDescendants()
	})
	c.events.On(EventUnmount, func(any) {
		if !c.live {
			return
		}
		c.detachListeners()
		c.unmountDescendants()
		c.release()
	})
}

// detachListeners removes every native listener attached by the latest
// build.
func (c *Component) detachListeners() {
	for _, b := range c.bindings {
		if n := b.Node(); n != nil {
			n.RemoveEventListener(b)
		}
	}
	c.app.metrics.ListenersBound(-len(c.bindings))
	c.bindings = nil
}

// unmountDescendants emits UNMOUNT on every nested component. Each child
// tears down its own subtree before releasing itself.
func (c *Component) unmountDescendants() {
	for _, id := range c.app.registry.Children(c.id) {
		if child, ok := c.app.registry.Lookup(id); ok {
			child.emit(EventUnmount, nil)
		}
	}
	c.mounted = nil
}

func (c *Component) release() {
	c.live = false
	c.app.registry.Release(c.id)
	c.app.metrics.ComponentReleased()
}

// revive re-registers a released component so it can be built again. The
// previous identifier is kept unless another component holds it now.
func (c *Component) revive() error {
	if c.live {
		return nil
	}
	if c.app.registry.IsLive(c.id) {
		c.id = c.app.registry.Generate()
	}
	if err := c.app.registry.Register(c.id, c); err != nil {
		return errReleased(c.id, err)
	}
	c.live = true
	c.app.metrics.ComponentRegistered()
	return nil
}

// Unmount emits UNMOUNT, removes the component's nodes from the document
// and forgets the cached nodes.
func (c *Component) Unmount() {
	nodes := c.topLevel()
	c.emit(EventUnmount, nil)
	for _, n := range nodes {
		n.Remove()
	}
	for _, n := range c.nodes {
		n.Remove()
	}
	c.nodes = nil
}

// topLevel returns the document nodes that make up c's output: the nodes
// tagged with c's identifier, plus top-level nodes of nested components
// that do not sit inside them.
func (c *Component) topLevel() []*dom.Node {
	own := c.app.doc.FindOwned(c.id)
	out := own
	for _, id := range c.app.registry.Children(c.id) {
		child, ok := c.app.registry.Lookup(id)
		if !ok {
			continue
		}
		for _, n := range child.topLevel() {
			if !inside(own, n) {
				out = append(out, n)
			}
		}
	}
	return out
}

func inside(roots []*dom.Node, n *dom.Node) bool {
	for _, r := range roots {
		if r != n && r.Contains(n) {
			return true
		}
	}
	return false
}

// reconcile swaps the component's nodes in the document for a fresh
// build. Components that are not in the document are left alone.
func (c *Component) reconcile() {
	own := c.app.doc.FindOwned(c.id)
	if len(own) == 0 {
		return
	}
	_, span := c.app.tracer.Start(c.app.ctx, telemetry.SpanReconcile, c.id)

	anchor := own[0]
	for _, n := range own[1:] {
		n.Remove()
	}
	stale := c.topLevel()

	frag := c.Build()
	// Top-level nodes of nested components stayed in place during the
	// build so the components could tell they were live.
	for _, n := range stale {
		if n != anchor {
			n.Remove()
		}
	}
	anchor.ReplaceWith(frag)
	c.app.metrics.Reconciled()

	c.settle()
	if c.IsInDOM() {
		c.emit(EventRemount, nil)
	}
	telemetry.End(span, nil)
}

// settle emits REMOUNT on nested components that were in the document
// before the rebuild and MOUNT on new ones, parents first.
func (c *Component) settle() {
	for _, m := range c.mounted {
		if !m.c.IsInDOM() {
			continue
		}
		if m.wasLive {
			m.c.emit(EventRemount, nil)
		} else {
			m.c.emit(EventMount, nil)
		}
		m.c.settle()
	}
}
