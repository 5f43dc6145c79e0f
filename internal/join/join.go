// Package join merges sequences that are already sorted by an integer key.
package join

// Combine merges a and b, both sorted ascending by key, into one sequence
// sorted by the same key. Elements with equal keys are merged with combine;
// all other elements pass through unchanged.
//
// If either input is empty the other one is returned as is, without copying.
func Combine[T any](a, b []T, key func(T) int, combine func(T, T) T) []T {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}

	result := make([]T, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ka := key(a[i])
		kb := key(b[j])
		switch {
		case ka < kb:
			result = append(result, a[i])
			i++
		case ka > kb:
			result = append(result, b[j])
			j++
		default:
			result = append(result, combine(a[i], b[j]))
			i++
			j++
		}
	}
	result = append(result, a[i:]...)
	result = append(result, b[j:]...)
	return result
}
