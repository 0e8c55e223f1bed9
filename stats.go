package mwgc

import (
	"fmt"

	"github.com/inhies/go-bytesize"
)

// HeapStats reports a snapshot of a Heap's utilization.
type HeapStats struct {
	// TotalBytes is the usable pool size: the backing region minus the
	// color map and any rounding padding.
	TotalBytes uintptr
	// FreeBytes is how much of TotalBytes is currently unallocated.
	FreeBytes uintptr
	// Start and End are the pool's address bounds, useful for tests and
	// debugging.
	Start uintptr
	End   uintptr
}

// String renders the stats with human-readable byte sizes, the same job
// github.com/inhies/go-bytesize does for tinygo's own build-size report.
func (s HeapStats) String() string {
	total := bytesize.New(float64(s.TotalBytes))
	free := bytesize.New(float64(s.FreeBytes))
	return fmt.Sprintf("total=%s free=%s", total, free)
}
