package devtools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/weave-ui/weave/pkg/component"
	"github.com/weave-ui/weave/pkg/dom"
)

// ErrNotRunning is returned when the App loop did not pick up a request
// before the request ended.
var ErrNotRunning = errors.New("devtools: app loop did not respond")

// Option configures an Inspector.
type Option func(*Inspector)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(i *Inspector) {
		if l != nil {
			i.logger = l
		}
	}
}

// WithCheckOrigin sets the origin check for /stream upgrades.
// Default: same host only.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(i *Inspector) {
		i.upgrader.CheckOrigin = fn
	}
}

// WithStreamBuffer sets how many lifecycle events may queue per stream
// client before events are dropped.
func WithStreamBuffer(n int) Option {
	return func(i *Inspector) {
		if n > 0 {
			i.streamBuffer = n
		}
	}
}

// Inspector serves a read-mostly view of one App.
type Inspector struct {
	app          *component.App
	logger       *slog.Logger
	upgrader     websocket.Upgrader
	streamBuffer int
	writeTimeout time.Duration
	router       chi.Router
}

// New creates an inspector for app.
func New(app *component.App, opts ...Option) *Inspector {
	i := &Inspector{
		app:    app,
		logger: slog.Default(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		streamBuffer: 64,
		writeTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.logger = i.logger.With("component", "devtools")

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/dom", i.handleDOM)
	r.Get("/components", i.handleComponents)
	r.Post("/dispatch", i.handleDispatch)
	r.Get("/stream", i.handleStream)
	r.Handle("/metrics", app.Metrics().Handler())
	i.router = r
	return i
}

// Handler returns the inspector's HTTP handler.
func (i *Inspector) Handler() http.Handler { return i.router }

// ListenAndServe serves the inspector on addr until ctx is done.
func (i *Inspector) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           i.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		i.logger.Info("inspector listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// onLoop runs fn on the App loop and waits for it to finish.
func (i *Inspector) onLoop(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	i.app.Dispatch(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ErrNotRunning
	}
}

func (i *Inspector) handleDOM(w http.ResponseWriter, r *http.Request) {
	var html string
	if err := i.onLoop(r.Context(), func() { html = i.app.Document().HTML() }); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}

// ComponentInfo describes one live component.
type ComponentInfo struct {
	ID        string         `json:"id" msgpack:"id"`
	Parent    string         `json:"parent,omitempty" msgpack:"parent,omitempty"`
	Children  []string       `json:"children,omitempty" msgpack:"children,omitempty"`
	InDOM     bool           `json:"inDom" msgpack:"inDom"`
	Listeners int            `json:"listeners" msgpack:"listeners"`
	Props     map[string]any `json:"props" msgpack:"props"`
}

// Components lists the live components of app sorted by id. It must run
// on the App loop.
func Components(app *component.App) []ComponentInfo {
	reg := app.Registry()
	ids := reg.IDs()
	sort.Strings(ids)
	out := make([]ComponentInfo, 0, len(ids))
	for _, id := range ids {
		c, ok := reg.Lookup(id)
		if !ok {
			continue
		}
		out = append(out, ComponentInfo{
			ID:        id,
			Parent:    reg.Parent(id),
			Children:  reg.Children(id),
			InDOM:     c.IsInDOM(),
			Listeners: c.ListenerCount(),
			Props:     printable(c.Props()),
		})
	}
	return out
}

// printable replaces values that cannot be encoded with their type name.
func printable(p map[string]any) map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		if _, err := json.Marshal(v); err != nil {
			out[k] = fmt.Sprintf("%T", v)
			continue
		}
		out[k] = v
	}
	return out
}

func (i *Inspector) handleComponents(w http.ResponseWriter, r *http.Request) {
	var infos []ComponentInfo
	if err := i.onLoop(r.Context(), func() { infos = Components(i.app) }); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

// DispatchRequest is the body of POST /dispatch.
type DispatchRequest struct {
	HID  string         `json:"hid"`
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// DispatchResult is the response of POST /dispatch.
type DispatchResult struct {
	HID              string `json:"hid"`
	Owner            string `json:"owner,omitempty"`
	DefaultPrevented bool   `json:"defaultPrevented"`
}

func (i *Inspector) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var req DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.HID == "" || req.Type == "" {
		http.Error(w, "hid and type are required", http.StatusBadRequest)
		return
	}

	var (
		res   DispatchResult
		found bool
	)
	err := i.onLoop(r.Context(), func() {
		doc := i.app.Document()
		doc.Hydrate()
		n := doc.FindByHID(req.HID)
		if n == nil {
			return
		}
		found = true
		res.HID = req.HID
		res.Owner = dom.NearestOwner(n)
		res.DefaultPrevented = !n.Dispatch(dom.NewEvent(req.Type, req.Data))
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if !found {
		http.Error(w, "no node with hid "+req.HID, http.StatusNotFound)
		return
	}
	i.logger.Debug("dispatched event", "hid", req.HID, "type", req.Type, "owner", res.Owner)
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
