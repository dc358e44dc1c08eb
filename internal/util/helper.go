// Package util holds small generic helpers.
package util

// CloneSlice copies src into a new slice of length size. A size of 0 uses len(src);
// a size larger than len(src) leaves the tail zeroed.
func CloneSlice[T any](src []T, size int) []T {
	if size == 0 {
		size = len(src)
	}
	clone := make([]T, size)
	copy(clone, src)

	return clone
}
