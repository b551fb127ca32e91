// Package registry issues collision-free component identifiers and maps
// each live identifier to its instance.
//
// A Registry is owned by an application root rather than living in a
// package-level variable: it is created at application start, entries are
// removed on explicit Release, and Close destroys it at shutdown. Besides
// the id → instance mapping it keeps an explicit arena of parent/child
// edges recorded at mount time, so descendants are found by walking edges
// instead of re-deriving structure from rendered markup.
package registry

import (
	stderrors "errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/weave-ui/weave/internal/errors"
)

var (
	// ErrDuplicate is returned when registering an id that already has a
	// live instance.
	ErrDuplicate = stderrors.New("registry: identifier already registered")

	// ErrClosed is returned by operations on a closed registry.
	ErrClosed = stderrors.New("registry: closed")

	// ErrUnknown is returned when an operation names an id that is not live.
	ErrUnknown = stderrors.New("registry: unknown identifier")
)

// Generator produces candidate identifiers. It does not need to guarantee
// uniqueness; the registry retries until a candidate is not live.
type Generator func() string

// DefaultGenerator returns a short random identifier such as "w3f9a0c1b2e".
func DefaultGenerator() string {
	return "w" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// Option configures a Registry.
type Option func(*options)

type options struct {
	generate Generator
}

// WithGenerator replaces the identifier generator.
func WithGenerator(g Generator) Option {
	return func(o *options) {
		if g != nil {
			o.generate = g
		}
	}
}

// entry is one live identifier.
type entry[T any] struct {
	value      T
	registered bool

	parent   string
	children []string
}

// Registry maps live identifiers to instances of T.
type Registry[T any] struct {
	mu       sync.RWMutex
	entries  map[string]*entry[T]
	generate Generator
	closed   bool
}

// New creates an empty registry.
func New[T any](opts ...Option) *Registry[T] {
	o := options{generate: DefaultGenerator}
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry[T]{
		entries:  make(map[string]*entry[T]),
		generate: o.generate,
	}
}

// Generate returns a new identifier distinct from every live identifier
// and marks it live. Candidates that collide are discarded and the
// generator is asked again.
func (r *Registry[T]) Generate() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		id := r.generate()
		if id == "" {
			continue
		}
		if _, taken := r.entries[id]; taken {
			continue
		}
		r.entries[id] = &entry[T]{}
		return id
	}
}

// Register records the instance for id. The id is marked live if it was
// not produced by Generate.
func (r *Registry[T]) Register(id string, v T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	e, ok := r.entries[id]
	if ok && e.registered {
		return errors.New("W103").WithDetailf("identifier %q", id).Wrap(ErrDuplicate)
	}
	if !ok {
		e = &entry[T]{}
		r.entries[id] = e
	}
	e.value = v
	e.registered = true
	return nil
}

// Release removes the liveness marker, the instance mapping and every
// arena edge touching id. Children of id stay registered but lose their
// parent; cascading teardown is the caller's job.
func (r *Registry[T]) Release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.release(id)
}

func (r *Registry[T]) release(id string) {
	e, ok := r.entries[id]
	if !ok {
		return
	}
	if p, ok := r.entries[e.parent]; ok {
		p.children = removeID(p.children, id)
	}
	for _, c := range e.children {
		if ce, ok := r.entries[c]; ok && ce.parent == id {
			ce.parent = ""
		}
	}
	delete(r.entries, id)
}

// Lookup returns the instance registered for id.
func (r *Registry[T]) Lookup(id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok || !e.registered {
		var zero T
		return zero, false
	}
	return e.value, true
}

// IsLive reports whether id is currently reserved or registered.
func (r *Registry[T]) IsLive(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[id]
	return ok
}

// Len returns the number of registered instances.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, e := range r.entries {
		if e.registered {
			n++
		}
	}
	return n
}

// IDs returns the registered identifiers in sorted order.
func (r *Registry[T]) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.entries))
	for id, e := range r.entries {
		if e.registered {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Close releases every identifier. Register fails afterwards.
func (r *Registry[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make(map[string]*entry[T])
	r.closed = true
}

func removeID(ids []string, id string) []string {
	for i, c := range ids {
		if c == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
