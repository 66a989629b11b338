// Package sets provides order-preserving set operations on slices.
package sets

// Dedupe removes duplicates from a slice. Order of first occurrence is
// preserved.
//
// Example:
//
//	Dedupe([]int64{3, 1, 3, 2, 1})
//	// Returns: []int64{3, 1, 2}
func Dedupe[T comparable](values []T) []T {
	if len(values) == 0 {
		return values
	}

	seen := make(map[T]struct{}, len(values))
	result := make([]T, 0, len(values))

	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}

	return result
}

// Difference returns the distinct elements of a that are not in b, in the
// order they first appear in a. The result is never nil.
//
// Example:
//
//	Difference([]int64{1, 2, 3, 2}, []int64{2})
//	// Returns: []int64{1, 3}
func Difference[T comparable](a, b []T) []T {
	exclude := make(map[T]struct{}, len(b))
	for _, v := range b {
		exclude[v] = struct{}{}
	}

	result := make([]T, 0, len(a))
	for _, v := range Dedupe(a) {
		if _, ok := exclude[v]; !ok {
			result = append(result, v)
		}
	}

	return result
}

// Duplicates returns the values that appear more than once, each reported
// once, in the order of their second occurrence.
func Duplicates[T comparable](values []T) []T {
	seen := make(map[T]int, len(values))
	var result []T

	for _, v := range values {
		seen[v]++
		if seen[v] == 2 {
			result = append(result, v)
		}
	}

	return result
}
