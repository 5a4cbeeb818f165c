package ids

import (
	"testing"
	"time"
)

func TestNewIsUniqueAndOrdered(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	gen := NewGenerator(func() time.Time { return fixed })

	prev := ""
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := gen.New()
		if !Valid(id) {
			t.Fatalf("invalid id %q", id)
		}
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
		if prev != "" && id <= prev {
			t.Fatalf("ids not monotonic: %q after %q", id, prev)
		}
		prev = id
	}
}

func TestValidRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "1", "not-an-id", "p1"} {
		if Valid(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
	if !Valid(New()) {
		t.Fatal("package-level New produced invalid id")
	}
}
