package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "usage error",
			code:    "W101",
			wantMsg: "Reserved property key",
			wantCat: CategoryUsage,
		},
		{
			name:    "template error",
			code:    "W202",
			wantMsg: "Malformed placeholder arguments",
			wantCat: CategoryTemplate,
		},
		{
			name:    "transport error",
			code:    "W401",
			wantMsg: "Request failed after retries",
			wantCat: CategoryTransport,
		},
		{
			name:    "unknown error code",
			code:    "W999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	err := New("W101").WithDetail(`key "__id"`)
	want := `W101: Reserved property key: key "__id"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	plain := Newf(CategoryRender, "boom %d", 1)
	if plain.Error() != "boom 1" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "boom 1")
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	err := New("W101").Wrap(sentinel)

	if !stderrors.Is(err, sentinel) {
		t.Error("errors.Is should find the wrapped sentinel")
	}

	outer := fmt.Errorf("setting props: %w", err)
	if !HasCode(outer, "W101") {
		t.Error("HasCode should see through fmt wrapping")
	}
	if HasCode(outer, "W102") {
		t.Error("HasCode matched the wrong code")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "W401") != nil {
		t.Error("FromError(nil) should be nil")
	}

	coded := New("W402")
	if got := FromError(fmt.Errorf("ctx: %w", coded), "W401"); got != coded {
		t.Error("FromError should return the existing coded error")
	}

	plain := stderrors.New("dial tcp: refused")
	got := FromError(plain, "W401")
	if got.Code != "W401" || got.Wrapped != plain {
		t.Errorf("FromError = %+v, want W401 wrapping the original", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("W101").WithDetail("key __id is reserved")
	out := err.Format()

	for _, want := range []string{"ERROR W101: Reserved property key", "key __id is reserved", "Hint:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}

	if got := err.FormatCompact(); got != "W101: Reserved property key (key __id is reserved)" {
		t.Errorf("FormatCompact() = %q", got)
	}

	if got := err.FormatJSON(); !strings.HasPrefix(got, `{"code":"W101","category":"usage"`) {
		t.Errorf("FormatJSON() = %q", got)
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("Fprint plain = %q", buf.String())
	}

	buf.Reset()
	Fprint(&buf, fmt.Errorf("wrapped: %w", New("W501")))
	if !strings.Contains(buf.String(), "W501") {
		t.Errorf("Fprint coded = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six seven", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six seven" {
		t.Errorf("wrapText lost words: %v", lines)
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText of empty string should be nil")
	}
}

func TestRegistryCodesHaveMessages(t *testing.T) {
	for _, code := range Codes() {
		tmpl, ok := Lookup(code)
		if !ok || tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("code %s has incomplete template %+v", code, tmpl)
		}
	}
}
