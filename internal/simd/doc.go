// Package simd provides the key-search seams Node16 calls into: finding a
// byte's index in a sorted array, and finding where a byte would insert.
//
// The teacher's version of this package backs these with AVX2 assembly on
// amd64 and a scalar fallback everywhere else. A linear scan over at most
// 16 bytes is already fast enough that the vectorized path isn't worth
// carrying here (see DESIGN.md); the build-tag split is kept so a future
// vectorized build can drop in without callers changing.
package simd
