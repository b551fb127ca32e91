// Package props implements the guarded property bag every component owns.
//
// Keys beginning with ReservedPrefix belong to the engine: reading,
// writing or deleting one through a Props fails with a usage error
// (code W101, wrapping ErrReservedKey) and leaves the bag untouched.
// Mutations go through explicit methods; there is no implicit
// interception.
package props

import (
	stderrors "errors"
	"sort"
	"strings"

	"github.com/weave-ui/weave/internal/errors"
)

// ReservedPrefix marks keys that application code may not touch.
const ReservedPrefix = "__"

// ErrReservedKey is wrapped by every usage error caused by a reserved key.
var ErrReservedKey = stderrors.New("props: reserved key")

// IsReserved reports whether key begins with ReservedPrefix.
func IsReserved(key string) bool {
	return strings.HasPrefix(key, ReservedPrefix)
}

func reservedError(op, key string) error {
	return errors.New("W101").
		WithDetailf("%s %q", op, key).
		Wrap(ErrReservedKey)
}

// Props is a guarded key/value bag.
type Props struct {
	values map[string]any
}

// New creates a Props holding a shallow copy of initial.
func New(initial map[string]any) (*Props, error) {
	if err := check("construct with", initial); err != nil {
		return nil, err
	}
	p := &Props{values: make(map[string]any, len(initial))}
	for k, v := range initial {
		p.values[k] = v
	}
	return p, nil
}

func check(op string, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if IsReserved(k) {
			return reservedError(op, k)
		}
	}
	return nil
}

// Get returns the value stored under key. A missing key yields nil and no
// error; use Has to tell missing keys from nil values.
func (p *Props) Get(key string) (any, error) {
	if IsReserved(key) {
		return nil, reservedError("read", key)
	}
	return p.values[key], nil
}

// Has reports whether key is present. Reserved keys are never present.
func (p *Props) Has(key string) bool {
	if IsReserved(key) {
		return false
	}
	_, ok := p.values[key]
	return ok
}

// Set stores value under key.
func (p *Props) Set(key string, value any) error {
	if IsReserved(key) {
		return reservedError("write", key)
	}
	if p.values == nil {
		p.values = make(map[string]any)
	}
	p.values[key] = value
	return nil
}

// Delete removes key.
func (p *Props) Delete(key string) error {
	if IsReserved(key) {
		return reservedError("delete", key)
	}
	delete(p.values, key)
	return nil
}

// Merge overwrites the keys of m (shallow). Either every key is written
// or, when m holds a reserved key, none is.
func (p *Props) Merge(m map[string]any) error {
	if err := check("write", m); err != nil {
		return err
	}
	if p.values == nil {
		p.values = make(map[string]any, len(m))
	}
	for k, v := range m {
		p.values[k] = v
	}
	return nil
}

// Contains reports whether every key of m is present with a value that
// structurally contains m's value (see Contained).
func (p *Props) Contains(m map[string]any) bool {
	for k, v := range m {
		cur, ok := p.values[k]
		if !ok || !Contained(cur, v) {
			return false
		}
	}
	return true
}

// Snapshot returns a shallow copy of the current values.
func (p *Props) Snapshot() map[string]any {
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// Keys returns the property names in sorted order.
func (p *Props) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of properties.
func (p *Props) Len() int {
	return len(p.values)
}
