package template

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/weave-ui/weave/pkg/dom"
)

// Kind identifies what an Asset carries.
type Kind uint8

const (
	// KindText is literal text, inserted as a text node.
	KindText Kind = iota
	// KindMarkup is HTML returned by a call-form renderer.
	KindMarkup
	// KindFunc is a function value, typically an event handler.
	KindFunc
	// KindNode is a *dom.Node supplied by a property.
	KindNode
	// KindComponent is a nested component instance.
	KindComponent
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindMarkup:
		return "markup"
	case KindFunc:
		return "func"
	case KindNode:
		return "node"
	case KindComponent:
		return "component"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Asset is one resolved piece of a template.
type Asset struct {
	Kind Kind
	// Text holds the content of text and markup assets.
	Text string
	// Value holds the func, *dom.Node or Component of other kinds.
	Value any
}

// IsString reports whether the asset is text or markup.
func (a Asset) IsString() bool {
	return a.Kind == KindText || a.Kind == KindMarkup
}

// Component is a nested component instance appearing among property values.
type Component interface {
	ID() string
	Build() *dom.Node
}

// RenderFunc renders markup from a single argument object.
type RenderFunc func(args map[string]any) string

// assetsOf classifies a property value. Slices are flattened in order; nil
// contributes nothing.
func assetsOf(v any, yield func(Asset) bool) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return yield(Asset{Kind: KindText, Text: x})
	case *dom.Node:
		if x == nil {
			return true
		}
		return yield(Asset{Kind: KindNode, Value: x})
	case Component:
		return yield(Asset{Kind: KindComponent, Value: x})
	case []byte:
		return yield(Asset{Kind: KindText, Text: string(x)})
	case fmt.Stringer:
		return yield(Asset{Kind: KindText, Text: x.String()})
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func:
		if rv.IsNil() {
			return true
		}
		return yield(Asset{Kind: KindFunc, Value: v})
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !assetsOf(rv.Index(i).Interface(), yield) {
				return false
			}
		}
		return true
	case reflect.Pointer, reflect.Map, reflect.Interface:
		if rv.IsNil() {
			return true
		}
	}
	return yield(Asset{Kind: KindText, Text: fmt.Sprint(v)})
}

// callable adapts the renderer shapes accepted as call targets.
func callable(v any) (func(map[string]any) any, bool) {
	switch fn := v.(type) {
	case RenderFunc:
		if fn == nil {
			return nil, false
		}
		return func(args map[string]any) any { return markup(fn(args)) }, true
	case func(map[string]any) string:
		if fn == nil {
			return nil, false
		}
		return func(args map[string]any) any { return markup(fn(args)) }, true
	case func(map[string]any) any:
		if fn == nil {
			return nil, false
		}
		return func(args map[string]any) any {
			out := fn(args)
			if s, ok := out.(string); ok {
				return markup(s)
			}
			return out
		}, true
	}
	return nil, false
}

// markup marks a renderer's string result so it is parsed rather than
// inserted as text.
type markup string

// Listener converts an event-attribute asset into a dom.Listener. It
// accepts dom.Listener, func(*dom.Event) and func().
func Listener(a Asset) (dom.Listener, bool) {
	if a.Kind != KindFunc {
		return nil, false
	}
	switch fn := a.Value.(type) {
	case dom.Listener:
		return fn, fn != nil
	case func(*dom.Event):
		return fn, fn != nil
	case func():
		if fn == nil {
			return nil, false
		}
		return func(*dom.Event) { fn() }, true
	}
	return nil, false
}

// First returns the first asset of seq.
func First(seq iter.Seq[Asset]) (Asset, bool) {
	for a := range seq {
		return a, true
	}
	return Asset{}, false
}

// Unchanged reports whether assets amount to text itself, i.e. resolving
// text would replace nothing.
func Unchanged(text string, assets []Asset) bool {
	switch len(assets) {
	case 0:
		return text == ""
	case 1:
		return assets[0].Kind == KindText && assets[0].Text == text
	default:
		return false
	}
}
