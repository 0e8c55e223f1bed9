// Command mwgcdemo exercises a mwgc.Heap end to end: it allocates a small
// graph of linked sample objects, runs a collection keeping only part of
// the graph reachable, and prints the before/after span dump.
//
// It exists to give the library's third-party dependencies (a config
// loader, a stats formatter, a colorized terminal dump) a real caller,
// the same way tinygo's own command-line frontend is the thing that
// actually exercises its config/build-size/color-output packages.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mattn/go-colorable"

	"github.com/robey/mwgc"
)

// sample is a small heap object with two outgoing references, enough to
// build the linked graphs spec.md's testable-property scenarios describe.
type sample struct {
	name string
	a, b *sample
}

func main() {
	heapSize := flag.Int("size", 4096, "backing region size, in bytes")
	configPath := flag.String("config", "", "optional YAML HeapConfig file")
	flag.Parse()

	cfg := mwgc.DefaultHeapConfig()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "mwgcdemo:", err)
			os.Exit(1)
		}
		cfg, err = mwgc.LoadHeapConfig(data)
		if err != nil {
			fmt.Fprintln(os.Stderr, "mwgcdemo:", err)
			os.Exit(1)
		}
	}

	region, release := newBackingRegion(*heapSize)
	defer release()

	heap := mwgc.NewWithConfig(region, cfg)

	out := colorable.NewColorableStdout()

	o1, _ := mwgc.AllocateObject[sample](heap)
	o2, _ := mwgc.AllocateObject[sample](heap)
	o3, _ := mwgc.AllocateObject[sample](heap)
	o1.name, o2.name, o3.name = "o1", "o2", "o3"
	o1.a = o2
	o2.a = o3
	// o3 is reachable from o1, o (unreferenced) sample below is not.
	unreachable, _ := mwgc.AllocateObject[sample](heap)
	unreachable.name = "orphan"

	fmt.Fprintln(out, "before GC:", heap.GetStats())
	fmt.Fprintln(out, colorize(heap.Dump()))

	mwgc.GC(heap, []*sample{o1})

	fmt.Fprintln(out, "after GC: ", heap.GetStats())
	fmt.Fprintln(out, colorize(heap.Dump()))
}

// colorize prints the whole dump string in blue between gray brackets,
// the same kind of terminal coloring tinygo's build frontend applies to
// its own status output. Individual "Color[n]"/"FREE[n]" tokens are not
// colored separately.
func colorize(dump string) string {
	const (
		green = "\x1b[32m"
		blue  = "\x1b[34m"
		gray  = "\x1b[90m"
		reset = "\x1b[0m"
	)
	return gray + "[" + reset + blue + dump + reset + gray + "]" + reset
}
