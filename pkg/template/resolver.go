package template

import (
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"regexp"
	"strings"

	"github.com/weave-ui/weave/internal/errors"
)

const (
	openDelim  = "%{"
	closeDelim = "}%"
	spread     = "..."
)

var (
	identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	callPattern  = regexp.MustCompile(`(?s)^([A-Za-z_$][A-Za-z0-9_$]*)\s*\((.*)\)$`)
)

// Source is the read side of a property bag. *props.Props implements it.
type Source interface {
	Get(key string) (any, error)
	Has(key string) bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for warnings.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithWarningHook registers fn to be called with the error code of every
// placeholder that could not be resolved.
func WithWarningHook(fn func(code string)) Option {
	return func(r *Resolver) {
		r.onWarn = fn
	}
}

// Resolver resolves templates against one property bag.
type Resolver struct {
	src    Source
	logger *slog.Logger
	onWarn func(code string)
}

// New returns a Resolver reading properties from src.
func New(src Source, opts ...Option) *Resolver {
	r := &Resolver{
		src:    src,
		logger: slog.Default().With("component", "template"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the assets of text in order. The sequence is lazy:
// properties are read and renderers called as it is consumed.
func (r *Resolver) Resolve(text string) iter.Seq[Asset] {
	return func(yield func(Asset) bool) {
		var pending strings.Builder
		flush := func() bool {
			if pending.Len() == 0 {
				return true
			}
			s := pending.String()
			pending.Reset()
			return yield(Asset{Kind: KindText, Text: s})
		}
		emit := func(a Asset) bool {
			if a.Kind == KindText {
				pending.WriteString(a.Text)
				return true
			}
			return flush() && yield(a)
		}

		rest := text
		for {
			start := strings.Index(rest, openDelim)
			if start < 0 {
				break
			}
			end := strings.Index(rest[start+len(openDelim):], closeDelim)
			if end < 0 {
				break
			}
			end += start + len(openDelim)

			pending.WriteString(rest[:start])
			raw := rest[start : end+len(closeDelim)]
			expr := strings.TrimSpace(rest[start+len(openDelim) : end])
			rest = rest[end+len(closeDelim):]

			if !r.expand(raw, expr, emit) {
				return
			}
		}
		pending.WriteString(rest)
		flush()
	}
}

// ResolveAll collects Resolve(text) into a slice.
func (r *Resolver) ResolveAll(text string) []Asset {
	var out []Asset
	for a := range r.Resolve(text) {
		out = append(out, a)
	}
	return out
}

// expand emits the assets of one placeholder, or raw itself when the
// expression cannot be resolved. It returns false when the consumer stopped.
func (r *Resolver) expand(raw, expr string, emit func(Asset) bool) bool {
	if identPattern.MatchString(expr) {
		v, err := r.lookup(expr)
		if err != nil {
			r.warn(err, expr)
			return emit(Asset{Kind: KindText, Text: raw})
		}
		return assetsOf(v, emit)
	}

	m := callPattern.FindStringSubmatch(expr)
	if m == nil {
		r.warn(errors.New("W202").WithDetail("unrecognised expression"), expr)
		return emit(Asset{Kind: KindText, Text: raw})
	}
	name, args := m[1], strings.TrimSpace(m[2])

	calls, err := parseArgs(args)
	if err != nil {
		r.warn(err, expr)
		return emit(Asset{Kind: KindText, Text: raw})
	}
	v, err := r.lookup(name)
	if err != nil {
		r.warn(err, expr)
		return emit(Asset{Kind: KindText, Text: raw})
	}
	fn, ok := callable(v)
	if !ok {
		r.warn(errors.New("W203").WithDetailf("%s is %T", name, v), expr)
		return emit(Asset{Kind: KindText, Text: raw})
	}

	for _, a := range calls {
		out := fn(a)
		if s, ok := out.(markup); ok {
			if s == "" {
				continue
			}
			if !emit(Asset{Kind: KindMarkup, Text: string(s)}) {
				return false
			}
			continue
		}
		if !assetsOf(out, emit) {
			return false
		}
	}
	return true
}

// lookup reads a property that must exist.
func (r *Resolver) lookup(name string) (any, error) {
	v, err := r.src.Get(name)
	if err != nil {
		return nil, err
	}
	if v == nil && !r.src.Has(name) {
		return nil, errors.New("W201").WithDetailf("no property %q", name)
	}
	return v, nil
}

// parseArgs decodes the argument list of a call-form placeholder into one
// argument object per call.
func parseArgs(args string) ([]map[string]any, error) {
	if args == "" {
		return []map[string]any{{}}, nil
	}
	if body, ok := strings.CutSuffix(args, spread); ok {
		var list []map[string]any
		if err := json.Unmarshal([]byte(strings.TrimSpace(body)), &list); err != nil {
			return nil, errors.New("W202").WithDetail("spread arguments must be a JSON array of objects").Wrap(err)
		}
		for i, a := range list {
			if a == nil {
				list[i] = map[string]any{}
			}
		}
		return list, nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(args), &obj); err != nil {
		return nil, errors.New("W202").WithDetail("arguments must be a JSON object").Wrap(err)
	}
	if obj == nil {
		obj = map[string]any{}
	}
	return []map[string]any{obj}, nil
}

func (r *Resolver) warn(err error, expr string) {
	code := "W202"
	var e *errors.Error
	if errors.As(err, &e) && e.Code != "" {
		code = e.Code
	}
	r.logger.Warn("unresolved placeholder", "code", code, "expr", expr, "error", err)
	if r.onWarn != nil {
		r.onWarn(code)
	}
}

// Warn reports an asset that resolved but cannot be used where it appeared,
// such as a function in text or a string in an event attribute.
func (r *Resolver) Warn(code, expr string, a Asset) {
	r.logger.Warn("unusable placeholder value", "code", code, "expr", expr, "kind", a.Kind.String())
	if r.onWarn != nil {
		r.onWarn(code)
	}
}

// Plain renders the assets of text as a string, writing non-string assets
// as <kind>. It is meant for diagnostics.
func (r *Resolver) Plain(text string) string {
	var b strings.Builder
	for a := range r.Resolve(text) {
		if a.IsString() {
			b.WriteString(a.Text)
		} else {
			fmt.Fprintf(&b, "<%s>", a.Kind)
		}
	}
	return b.String()
}
