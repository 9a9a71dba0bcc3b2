// Package dedupe removes repeated values from sequences while keeping the
// order in which values were first seen.
package dedupe

// Ordered returns the distinct elements of in, in order of first occurrence.
// The input slice is not modified.
func Ordered[T comparable](in []T) []T {
	return OrderedBy(in, func(v T) T { return v })
}

// OrderedBy is like Ordered but compares elements by the key returned from key.
func OrderedBy[T any, K comparable](in []T, key func(T) K) []T {
	if in == nil {
		return nil
	}
	seen := make(map[K]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		k := key(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}
