package component

import (
	"fmt"

	"github.com/weave-ui/weave/internal/errors"
	"github.com/weave-ui/weave/pkg/dom"
	"github.com/weave-ui/weave/pkg/event"
	"github.com/weave-ui/weave/pkg/props"
	"github.com/weave-ui/weave/pkg/template"
)

// Renderer turns properties into a template string. Render must be a pure
// function of its input and must not touch the document.
type Renderer interface {
	Render(props map[string]any) string
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(props map[string]any) string

// Render calls f(props).
func (f RenderFunc) Render(props map[string]any) string { return f(props) }

// Component is one live view instance.
type Component struct {
	app      *App
	id       string
	renderer Renderer
	props    *props.Props
	resolver *template.Resolver
	events   *event.Channel

	// bindings are the native listeners attached by the latest build.
	bindings []*dom.Binding
	// nodes are the top-level nodes of the latest build.
	nodes []*dom.Node
	// mounted are the nested components built by the latest build, with
	// whether each was in the document beforehand.
	mounted []mountedChild
	live    bool
}

type mountedChild struct {
	c       *Component
	wasLive bool
}

// New creates a component with the given properties, registers it with
// app and emits INIT. A nil renderer renders the "value" property as text.
// Initial properties holding a reserved key fail with a W101 usage error.
func New(app *App, renderer Renderer, initial map[string]any) (*Component, error) {
	p, err := props.New(initial)
	if err != nil {
		return nil, err
	}
	c := &Component{
		app:      app,
		renderer: renderer,
		props:    p,
		events:   event.New(),
	}
	c.resolver = template.New(p,
		template.WithLogger(app.logger),
		template.WithWarningHook(app.metrics.TemplateWarning),
	)

	c.id = app.registry.Generate()
	if err := app.registry.Register(c.id, c); err != nil {
		app.registry.Release(c.id)
		return nil, err
	}
	c.live = true
	app.metrics.ComponentRegistered()

	c.registerEvents()
	c.emit(EventInit, nil)
	return c, nil
}

// MustNew is like New but panics on error.
func MustNew(app *App, renderer Renderer, initial map[string]any) *Component {
	c, err := New(app, renderer, initial)
	if err != nil {
		panic(err)
	}
	return c
}

// ID returns the component's identifier.
func (c *Component) ID() string { return c.id }

// App returns the application the component belongs to.
func (c *Component) App() *App { return c.app }

// IsLive reports whether the component is currently registered.
func (c *Component) IsLive() bool { return c.live }

// On subscribes h to one or more comma-separated lifecycle or custom
// event names on this component.
func (c *Component) On(names string, h event.Handler) {
	c.events.On(names, h)
}

// Emit emits name on this component's channel.
func (c *Component) Emit(name string, payload any) {
	c.emit(name, payload)
}

func (c *Component) emit(name string, payload any) {
	c.events.Emit(name, payload)
	c.app.notify(c.id, name)
}

// Get returns the property stored under key.
func (c *Component) Get(key string) (any, error) {
	return c.props.Get(key)
}

// Props returns a shallow copy of the current properties.
func (c *Component) Props() map[string]any {
	return c.props.Snapshot()
}

// SetProps merges p into the properties and emits UPDATE. It is a no-op
// when p is empty or already structurally contained in the current
// properties.
func (c *Component) SetProps(p map[string]any) error {
	return c.setProps(p, true)
}

// SetPropsWithoutRerender merges p like SetProps but never emits UPDATE.
// It primes values that a later Build will consume.
func (c *Component) SetPropsWithoutRerender(p map[string]any) error {
	return c.setProps(p, false)
}

func (c *Component) setProps(p map[string]any, rerender bool) error {
	if len(p) == 0 || c.props.Contains(p) {
		return nil
	}
	if err := c.props.Merge(p); err != nil {
		return err
	}
	if rerender {
		c.emit(EventUpdate, nil)
	}
	return nil
}

// DeleteProp removes a property without re-rendering.
func (c *Component) DeleteProp(key string) error {
	return c.props.Delete(key)
}

// Refresh emits UPDATE unconditionally.
func (c *Component) Refresh() {
	c.emit(EventUpdate, nil)
}

// Render returns the component's template for props.
func (c *Component) Render(props map[string]any) string {
	if c.renderer != nil {
		return c.renderer.Render(props)
	}
	v, ok := props["value"]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// Nodes returns the top-level nodes of the latest build.
func (c *Component) Nodes() []*dom.Node {
	out := make([]*dom.Node, len(c.nodes))
	copy(out, c.nodes)
	return out
}

// Element returns the first node tagged with the component's identifier
// in the document, or nil.
func (c *Component) Element() *dom.Node {
	if nodes := c.app.doc.FindOwned(c.id); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

// IsInDOM reports whether a node tagged with the component's identifier is
// attached to the document.
func (c *Component) IsInDOM() bool {
	return len(c.app.doc.FindOwned(c.id)) > 0
}

// ListenerCount returns the number of native listeners the component has
// attached.
func (c *Component) ListenerCount() int {
	return len(c.bindings)
}

// ListDescendants calls fn for every live component nested under c,
// parents before children.
func (c *Component) ListDescendants(fn func(*Component)) {
	c.app.registry.Walk(c.id, func(_ string, d *Component) bool {
		fn(d)
		return true
	})
}

// String returns the component's identifier.
func (c *Component) String() string {
	return c.id
}

// errReleased is returned when a released component cannot be revived.
func errReleased(id string, err error) error {
	return errors.New("W102").WithDetailf("component %s", id).Wrap(err)
}
