package component

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/weave-ui/weave/internal/errors"
	"github.com/weave-ui/weave/pkg/dom"
	"github.com/weave-ui/weave/pkg/event"
	"github.com/weave-ui/weave/pkg/registry"
	"github.com/weave-ui/weave/pkg/telemetry"
)

// ReadyEvent is emitted once on the App bus by Ready.
const ReadyEvent = "ready"

// DefaultQueueSize is the capacity of the dispatch queue.
const DefaultQueueSize = 256

// Lifecycle describes one lifecycle event of one component.
type Lifecycle struct {
	ID    string    `msgpack:"id" json:"id"`
	Event string    `msgpack:"event" json:"event"`
	At    time.Time `msgpack:"at" json:"at"`
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics records engine metrics into m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(a *App) {
		a.metrics = m
	}
}

// WithTracer records build and reconcile spans with t.
func WithTracer(t *telemetry.Tracer) Option {
	return func(a *App) {
		a.tracer = t
	}
}

// WithIDGenerator replaces the identifier generator.
func WithIDGenerator(g registry.Generator) Option {
	return func(a *App) {
		a.regOpts = append(a.regOpts, registry.WithGenerator(g))
	}
}

// WithDocument renders into doc instead of a fresh document.
func WithDocument(doc *dom.Document) Option {
	return func(a *App) {
		if doc != nil {
			a.doc = doc
		}
	}
}

// WithQueueSize sets the dispatch queue capacity.
func WithQueueSize(n int) Option {
	return func(a *App) {
		if n > 0 {
			a.queueSize = n
		}
	}
}

// App is the application root: it owns the live document, the registry of
// live components and the shared event bus.
type App struct {
	doc      *dom.Document
	registry *registry.Registry[*Component]
	bus      *event.Channel
	logger   *slog.Logger
	metrics  *telemetry.Metrics
	tracer   *telemetry.Tracer
	ctx      context.Context

	regOpts   []registry.Option
	queueSize int
	queue     chan func()
	done      chan struct{}
	closeOnce sync.Once

	readyOnce     sync.Once
	ready         bool
	awaitingReady bool
	root          *Component

	observers []observer
	nextObs   int
	obsMu     sync.Mutex
}

type observer struct {
	id int
	fn func(Lifecycle)
}

// NewApp creates an application root.
func NewApp(opts ...Option) *App {
	a := &App{
		doc:       dom.NewDocument(),
		bus:       event.New(),
		logger:    slog.Default(),
		ctx:       context.Background(),
		queueSize: DefaultQueueSize,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("component", "weave")
	a.registry = registry.New[*Component](a.regOpts...)
	a.queue = make(chan func(), a.queueSize)
	return a
}

// Document returns the live document.
func (a *App) Document() *dom.Document { return a.doc }

// Bus returns the shared event channel for cross-component signals.
func (a *App) Bus() *event.Channel { return a.bus }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Metrics returns the metrics, which may be nil.
func (a *App) Metrics() *telemetry.Metrics { return a.metrics }

// Registry returns the registry of live components.
func (a *App) Registry() *registry.Registry[*Component] { return a.registry }

// Lookup returns the live component registered under id.
func (a *App) Lookup(id string) (*Component, bool) {
	return a.registry.Lookup(id)
}

// ComponentOf returns the live component owning n or its closest tagged
// ancestor.
func (a *App) ComponentOf(n *dom.Node) (*Component, bool) {
	id := dom.NearestOwner(n)
	if id == "" {
		return nil, false
	}
	return a.registry.Lookup(id)
}

// RenderToBody mounts root into the document body once the App is ready:
// the body is cleared, root is built and inserted, then MOUNT is emitted on
// root and on each of its descendants. If Ready has already been called
// the mount happens immediately. A later call replaces the previous root,
// which is unmounted.
func (a *App) RenderToBody(root *Component) {
	if prev := a.root; prev != nil && prev != root && prev.IsLive() {
		prev.Unmount()
	}
	a.root = root
	if a.ready {
		a.mountRoot()
		return
	}
	if !a.awaitingReady {
		a.awaitingReady = true
		a.bus.On(ReadyEvent, func(any) { a.mountRoot() })
	}
}

func (a *App) mountRoot() {
	root := a.root
	if root == nil {
		return
	}
	body := a.doc.Body()
	body.Clear()
	body.AppendChild(root.Build())
	root.emit(EventMount, nil)
	root.ListDescendants(func(d *Component) {
		d.emit(EventMount, nil)
	})
}

// Ready signals that the host is ready. Only the first call has effect.
func (a *App) Ready() {
	a.readyOnce.Do(func() {
		a.ready = true
		a.bus.Emit(ReadyEvent, nil)
	})
}

// IsReady reports whether Ready has been called.
func (a *App) IsReady() bool { return a.ready }

// Dispatch queues fn to run on the App's execution context. It is safe to
// call from any goroutine. When the queue is full fn is dropped.
func (a *App) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	select {
	case <-a.done:
		a.logger.Warn("dispatch after close, discarding callback")
	case a.queue <- fn:
	default:
		a.logger.Warn("dispatch queue full, discarding callback")
	}
}

// Run executes dispatched callbacks until ctx is done or the App is
// closed.
func (a *App) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-a.done:
			return nil
		case fn := <-a.queue:
			a.run(fn)
		}
	}
}

// Flush runs every queued callback without blocking and returns how many
// ran. It must not be used while Run is active.
func (a *App) Flush() int {
	n := 0
	for {
		select {
		case fn := <-a.queue:
			a.run(fn)
			n++
		default:
			return n
		}
	}
}

func (a *App) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("dispatched callback panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}

// Observe registers fn to receive every lifecycle event of every
// component, in registration order. The returned function removes the
// observer.
func (a *App) Observe(fn func(Lifecycle)) (cancel func()) {
	a.obsMu.Lock()
	defer a.obsMu.Unlock()
	id := a.nextObs
	a.nextObs++
	a.observers = append(a.observers, observer{id: id, fn: fn})
	return func() {
		a.obsMu.Lock()
		defer a.obsMu.Unlock()
		for i, o := range a.observers {
			if o.id == id {
				a.observers = append(a.observers[:i:i], a.observers[i+1:]...)
				return
			}
		}
	}
}

func (a *App) notify(id, name string) {
	a.obsMu.Lock()
	if len(a.observers) == 0 {
		a.obsMu.Unlock()
		return
	}
	obs := a.observers
	a.obsMu.Unlock()

	ev := Lifecycle{ID: id, Event: name, At: time.Now()}
	for _, o := range obs {
		o.fn(ev)
	}
}

// recovered logs and counts a panic caught while rendering or handling an
// event, and returns it as an error.
func (a *App) recovered(id, source, code string, r any) error {
	err := errors.New(code).WithDetailf("%v", r)
	a.logger.Error("recovered panic",
		"code", code,
		"id", id,
		"panic", r,
		"stack", string(debug.Stack()),
	)
	a.metrics.RenderFailed(source)
	return err
}

// Close unmounts every root component, releases all identifiers and
// stops Run.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		for _, id := range a.registry.Roots() {
			if c, ok := a.registry.Lookup(id); ok {
				c.Unmount()
			}
		}
		a.registry.Close()
		a.bus.Reset()
		close(a.done)
	})
}
