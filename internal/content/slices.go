package content

type keyed interface {
	key() string
}

func clone[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func findByID[T keyed](items []T, id string) (T, bool) {
	for _, it := range items {
		if it.key() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// replaceByID returns a new slice with every element sharing v's id
// replaced by v.
func replaceByID[T keyed](items []T, v T) ([]T, bool) {
	found := false
	out := make([]T, len(items))
	for i, it := range items {
		if it.key() == v.key() {
			it = v
			found = true
		}
		out[i] = it
	}
	return out, found
}

func removeByID[T keyed](items []T, id string) ([]T, bool) {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.key() != id {
			out = append(out, it)
		}
	}
	return out, len(out) != len(items)
}

func prepend[T any](items []T, v T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, v)
	return append(out, items...)
}
