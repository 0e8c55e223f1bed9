//go:build unix

package main

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// newBackingRegion obtains the heap's backing memory via an anonymous
// mmap, standing in for the "typically statically allocated" region
// spec.md leaves to an external collaborator. release must be called
// once the region is no longer needed.
func newBackingRegion(size int) (region []byte, release func()) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		fmt.Fprintln(os.Stderr, "mwgcdemo: mmap:", err)
		os.Exit(1)
	}
	return data, func() { _ = unix.Munmap(data) }
}
