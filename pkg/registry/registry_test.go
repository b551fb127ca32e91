package registry

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/weave-ui/weave/internal/errors"
)

// sequence returns a generator that yields ids in order, repeating the last.
func sequence(ids ...string) Generator {
	i := 0
	return func() string {
		id := ids[i]
		if i < len(ids)-1 {
			i++
		}
		return id
	}
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	calls := 0
	gen := sequence("a", "a", "", "b")
	r := New[string](WithGenerator(func() string {
		calls++
		return gen()
	}))

	first := r.Generate()
	second := r.Generate()

	if first != "a" || second != "b" {
		t.Errorf("Generate() = %q, %q; want a, b", first, second)
	}
	if calls != 4 {
		t.Errorf("generator called %d times, want 4", calls)
	}
}

func TestGenerateReusesReleasedID(t *testing.T) {
	r := New[string](WithGenerator(sequence("only")))
	id := r.Generate()
	r.Release(id)

	if got := r.Generate(); got != "only" {
		t.Errorf("released id should be reusable, got %q", got)
	}
}

func TestDefaultGenerator(t *testing.T) {
	id := DefaultGenerator()
	if !strings.HasPrefix(id, "w") || len(id) != 11 {
		t.Errorf("DefaultGenerator() = %q", id)
	}

	r := New[int]()
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		id := r.Generate()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestRegisterLookupRelease(t *testing.T) {
	r := New[string]()
	id := r.Generate()

	if _, ok := r.Lookup(id); ok {
		t.Error("generated but unregistered id should not resolve")
	}
	if !r.IsLive(id) {
		t.Error("generated id should be live")
	}

	if err := r.Register(id, "instance"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if v, ok := r.Lookup(id); !ok || v != "instance" {
		t.Errorf("Lookup = %q, %v", v, ok)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}

	err := r.Register(id, "other")
	if !stderrors.Is(err, ErrDuplicate) || !errors.HasCode(err, "W103") {
		t.Errorf("duplicate Register error = %v", err)
	}

	r.Release(id)
	if r.IsLive(id) || r.Len() != 0 {
		t.Error("Release should drop liveness and mapping")
	}
	r.Release(id) // releasing twice is harmless
}

func TestRegisterWithoutGenerate(t *testing.T) {
	r := New[int]()
	if err := r.Register("manual", 1); err != nil {
		t.Fatal(err)
	}
	if !r.IsLive("manual") {
		t.Error("registered id should be live")
	}
}

func TestClose(t *testing.T) {
	r := New[int]()
	for i := 0; i < 3; i++ {
		if err := r.Register(r.Generate(), i); err != nil {
			t.Fatal(err)
		}
	}
	r.Close()

	if r.Len() != 0 {
		t.Errorf("Len after Close = %d", r.Len())
	}
	if err := r.Register("x", 1); !stderrors.Is(err, ErrClosed) {
		t.Errorf("Register after Close = %v, want ErrClosed", err)
	}
}

func TestIDsSorted(t *testing.T) {
	r := New[int]()
	for _, id := range []string{"c", "a", "b"} {
		_ = r.Register(id, 0)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, r.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
}
