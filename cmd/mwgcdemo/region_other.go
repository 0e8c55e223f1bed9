//go:build !unix

package main

// newBackingRegion falls back to a plain heap-allocated slice on
// non-unix platforms, where the mmap demonstration doesn't apply.
func newBackingRegion(size int) (region []byte, release func()) {
	return make([]byte, size), func() {}
}
