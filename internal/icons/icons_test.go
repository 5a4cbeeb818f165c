package icons

import "testing"

func TestResolve(t *testing.T) {
	if got := Resolve("Truck"); got.Name != "Truck" {
		t.Fatalf("Resolve(Truck) = %+v", got)
	}
	for _, name := range []string{"", "truck", "Rocket"} {
		if got := Resolve(name); got != Fallback {
			t.Fatalf("Resolve(%q) = %+v, want fallback", name, got)
		}
		if Known(name) {
			t.Fatalf("Known(%q) = true", name)
		}
	}
}

func TestNamesSortedAndComplete(t *testing.T) {
	names := Names()
	if len(names) != 10 {
		t.Fatalf("expected 10 icons, got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
	for _, n := range names {
		if Resolve(n).Name != n {
			t.Fatalf("descriptor name mismatch for %s", n)
		}
	}
}
