package template

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/weave-ui/weave/pkg/dom"
	"github.com/weave-ui/weave/pkg/props"
)

type fakeComponent struct{ id string }

func (c *fakeComponent) ID() string       { return c.id }
func (c *fakeComponent) Build() *dom.Node { return dom.NewFragment() }

func newResolver(t *testing.T, values map[string]any) (*Resolver, *bytes.Buffer, *[]string) {
	t.Helper()
	p, err := props.New(values)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	var codes []string
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	r := New(p, WithLogger(logger), WithWarningHook(func(code string) {
		codes = append(codes, code)
	}))
	return r, &buf, &codes
}

func item(args map[string]any) string {
	return fmt.Sprintf("<li>%v</li>", args["a"])
}

func TestResolveText(t *testing.T) {
	r, _, codes := newResolver(t, map[string]any{
		"name":  "Ada",
		"count": 3,
		"empty": nil,
	})

	tests := []struct {
		name string
		in   string
		want []Asset
	}{
		{"no placeholders", "plain text", []Asset{{Kind: KindText, Text: "plain text"}}},
		{"empty", "", nil},
		{"reference", "%{ name }%", []Asset{{Kind: KindText, Text: "Ada"}}},
		{"surrounding text coalesces", "Hello, %{name}%!", []Asset{{Kind: KindText, Text: "Hello, Ada!"}}},
		{"number", "n=%{ count }%", []Asset{{Kind: KindText, Text: "n=3"}}},
		{"nil value renders nothing", "[%{ empty }%]", []Asset{{Kind: KindText, Text: "[]"}}},
		{"unterminated", "a %{ name", []Asset{{Kind: KindText, Text: "a %{ name"}}},
		{"two references", "%{name}%/%{count}%", []Asset{{Kind: KindText, Text: "Ada/3"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.ResolveAll(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
	if len(*codes) != 0 {
		t.Errorf("unexpected warnings: %v", *codes)
	}
}

func TestUnchanged(t *testing.T) {
	r, _, _ := newResolver(t, map[string]any{"name": "Ada"})

	if text := "no placeholders here"; !Unchanged(text, r.ResolveAll(text)) {
		t.Error("text without placeholders should be unchanged")
	}
	if !Unchanged("", r.ResolveAll("")) {
		t.Error("empty text should be unchanged")
	}
	if text := "hi %{ name }%"; Unchanged(text, r.ResolveAll(text)) {
		t.Error("resolved placeholder should count as a change")
	}
}

func TestCallForm(t *testing.T) {
	calls := 0
	r, _, codes := newResolver(t, map[string]any{
		"Item": RenderFunc(item),
		"Plain": func(args map[string]any) string {
			calls++
			return fmt.Sprintf("<b>%d</b>", len(args))
		},
		"Node": func(map[string]any) any {
			return dom.NewElement("hr")
		},
	})

	got := r.ResolveAll(`%{ Item({"a": 1}) }%`)
	want := []Asset{{Kind: KindMarkup, Text: "<li>1</li>"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("call mismatch (-want +got):\n%s", diff)
	}

	got = r.ResolveAll(`%{ Plain() }%`)
	want = []Asset{{Kind: KindMarkup, Text: "<b>0</b>"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("empty-args call mismatch (-want +got):\n%s", diff)
	}
	if calls != 1 {
		t.Errorf("Plain called %d times, want 1", calls)
	}

	got = r.ResolveAll(`%{ Node({}) }%`)
	if len(got) != 1 || got[0].Kind != KindNode {
		t.Fatalf("Node call = %+v, want one node asset", got)
	}
	if n := got[0].Value.(*dom.Node); n.Tag != "hr" {
		t.Errorf("node tag = %q", n.Tag)
	}
	if len(*codes) != 0 {
		t.Errorf("unexpected warnings: %v", *codes)
	}
}

func TestSpreadCallPreservesOrder(t *testing.T) {
	r, _, _ := newResolver(t, map[string]any{"Item": RenderFunc(item)})

	got := r.ResolveAll(`<ul>%{ Item([{"a":1},{"a":2}]...) }%</ul>`)
	want := []Asset{
		{Kind: KindText, Text: "<ul>"},
		{Kind: KindMarkup, Text: "<li>1</li>"},
		{Kind: KindMarkup, Text: "<li>2</li>"},
		{Kind: KindText, Text: "</ul>"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("spread mismatch (-want +got):\n%s", diff)
	}

	if got := r.ResolveAll(`%{ Item([]...) }%`); len(got) != 0 {
		t.Errorf("empty spread = %+v, want nothing", got)
	}
}

func TestResolveIsLazy(t *testing.T) {
	calls := 0
	r, _, _ := newResolver(t, map[string]any{
		"Item": RenderFunc(func(args map[string]any) string {
			calls++
			return item(args)
		}),
	})

	a, ok := First(r.Resolve(`%{ Item([{"a":1},{"a":2},{"a":3}]...) }%`))
	if !ok || a.Text != "<li>1</li>" {
		t.Fatalf("First = %+v, %v", a, ok)
	}
	if calls != 1 {
		t.Errorf("renderer called %d times, want 1", calls)
	}
}

func TestMalformedFallsBackToLiteral(t *testing.T) {
	r, logs, codes := newResolver(t, map[string]any{
		"Item":  RenderFunc(item),
		"title": "x",
	})

	tests := []struct {
		name string
		in   string
		code string
	}{
		{"bad json", `%{ Item({a:1}) }%`, "W202"},
		{"spread of non-objects", `%{ Item([1,2]...) }%`, "W202"},
		{"array without spread", `%{ Item([{"a":1}]) }%`, "W202"},
		{"unknown property", `%{ missing }%`, "W201"},
		{"unknown call target", `%{ Missing({}) }%`, "W201"},
		{"not callable", `%{ title({}) }%`, "W203"},
		{"reserved key", `%{ __secret }%`, "W101"},
		{"unrecognised expression", `%{ 1 + 2 }%`, "W202"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			*codes = nil
			in := "before " + tt.in + " after"
			got := r.ResolveAll(in)
			want := []Asset{{Kind: KindText, Text: in}}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("fallback mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{tt.code}, *codes); diff != "" {
				t.Errorf("warning codes mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if !strings.Contains(logs.String(), "unresolved placeholder") {
		t.Errorf("warning not logged: %s", logs.String())
	}
}

func TestMalformedDoesNotAbortLaterPlaceholders(t *testing.T) {
	r, _, _ := newResolver(t, map[string]any{"name": "Ada"})

	got := r.ResolveAll(`%{ bad( }% and %{ name }%`)
	want := []Asset{{Kind: KindText, Text: `%{ bad( }% and Ada`}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestValueKinds(t *testing.T) {
	child := &fakeComponent{id: "w1"}
	other := &fakeComponent{id: "w2"}
	clicked := false

	r, _, _ := newResolver(t, map[string]any{
		"child":    child,
		"children": []*fakeComponent{child, other},
		"onClick":  func() { clicked = true },
		"node":     dom.NewElement("span"),
	})

	got := r.ResolveAll("%{ child }%")
	if len(got) != 1 || got[0].Kind != KindComponent || got[0].Value != child {
		t.Errorf("component = %+v", got)
	}

	got = r.ResolveAll("%{ children }%")
	if len(got) != 2 || got[0].Value != child || got[1].Value != other {
		t.Errorf("component list = %+v", got)
	}

	got = r.ResolveAll("%{ node }%")
	if len(got) != 1 || got[0].Kind != KindNode {
		t.Errorf("node = %+v", got)
	}

	a, ok := First(r.Resolve("%{ onClick }%"))
	if !ok || a.Kind != KindFunc {
		t.Fatalf("func = %+v", a)
	}
	fn, ok := Listener(a)
	if !ok {
		t.Fatal("func() should convert to a listener")
	}
	fn(dom.NewEvent("click", nil))
	if !clicked {
		t.Error("listener did not call the handler")
	}
}

func TestListener(t *testing.T) {
	var got string
	tests := []struct {
		name string
		a    Asset
		ok   bool
	}{
		{"dom.Listener", Asset{Kind: KindFunc, Value: dom.Listener(func(ev *dom.Event) { got = ev.Type })}, true},
		{"event func", Asset{Kind: KindFunc, Value: func(ev *dom.Event) { got = ev.Type }}, true},
		{"no-arg func", Asset{Kind: KindFunc, Value: func() { got = "called" }}, true},
		{"wrong signature", Asset{Kind: KindFunc, Value: func(int) {}}, false},
		{"text", Asset{Kind: KindText, Text: "alert(1)"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = ""
			fn, ok := Listener(tt.a)
			if ok != tt.ok {
				t.Fatalf("Listener ok = %v, want %v", ok, tt.ok)
			}
			if ok {
				fn(dom.NewEvent("input", nil))
				if got == "" {
					t.Error("listener not invoked")
				}
			}
		})
	}
}

func TestPlain(t *testing.T) {
	r, _, _ := newResolver(t, map[string]any{"f": func() {}, "name": "Ada"})
	if got, want := r.Plain("%{ name }% %{ f }%"), "Ada <func>"; got != want {
		t.Errorf("Plain = %q, want %q", got, want)
	}
}
