//go:build !amd64

package simd

// FindKeyIndex searches for key among the first n entries of keys, which
// must be sorted ascending. Returns -1 if absent.
func FindKeyIndex(keys *[16]byte, n int, key byte) int {
	return findKeyIndexScalar(keys, n, key)
}

// FindInsertPosition returns the index key should be inserted at to keep
// the first n entries of keys sorted ascending. Returns n if key belongs
// at the end.
func FindInsertPosition(keys *[16]byte, n int, key byte) int {
	return findInsertPositionScalar(keys, n, key)
}
