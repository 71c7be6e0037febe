package simd

// findKeyIndexScalar is the scalar fallback for finding a key's index in a
// sorted array. Used on every architecture.
func findKeyIndexScalar(keys *[16]byte, n int, key byte) int {
	for i := 0; i < n; i++ {
		if keys[i] == key {
			return i
		}
	}
	return -1
}

// findInsertPositionScalar is the scalar fallback for finding the position
// a key should be inserted at to keep a sorted array sorted. Used on every
// architecture.
func findInsertPositionScalar(keys *[16]byte, n int, key byte) int {
	for i := 0; i < n; i++ {
		if key < keys[i] {
			return i
		}
	}
	return n
}
