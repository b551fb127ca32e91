package dom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFragment(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   []string
	}{
		{"single element", `<div class="a">hi</div>`, []string{"div"}},
		{"surrounding whitespace", "\n  <p>x</p>\n", []string{"#\n  ", "p", "#\n"}},
		{"plain text", "just text", []string{"#just text"}},
		{"siblings", "<a></a><b></b>", []string{"a", "b"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frag, err := ParseFragment(tt.markup)
			if err != nil {
				t.Fatalf("ParseFragment: %v", err)
			}
			if frag.Kind != KindFragment {
				t.Fatalf("Kind = %v, want Fragment", frag.Kind)
			}
			got := tags(frag.ChildNodes())
			if len(got) == 0 {
				got = nil
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("top-level nodes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFragmentKeepsPlaceholders(t *testing.T) {
	frag, err := ParseFragment(`<button onclick="%{ save }%">%{ label }%</button>`)
	if err != nil {
		t.Fatal(err)
	}
	btn := frag.FirstChild()
	if v, _ := btn.GetAttribute("onclick"); v != "%{ save }%" {
		t.Errorf("onclick = %q", v)
	}
	if btn.FirstChild().Text != "%{ label }%" {
		t.Errorf("text = %q", btn.FirstChild().Text)
	}
}

func TestParseRoundTrip(t *testing.T) {
	markup := `<ul class="list"><li>a &amp; b</li><li><input type="text" disabled></li></ul>`
	frag, err := ParseFragment(markup)
	if err != nil {
		t.Fatal(err)
	}
	if got := frag.InnerHTML(); got != markup {
		t.Errorf("round trip:\n got %s\nwant %s", got, markup)
	}
}
