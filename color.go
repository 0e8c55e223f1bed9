package mwgc

import "fmt"

// Color is the 2-bit tag stored per block in a ColorMap.
type Color uint8

const (
	// Continue marks a block as the tail of an allocation that began at a
	// preceding block.
	Continue Color = 0b00
	// Blue is one of the two "clean", live colors.
	Blue Color = 0b01
	// Green is the other "clean", live color.
	Green Color = 0b10
	// Check marks a block as gray (needs scanning) during marking, or as
	// free/unowned outside of marking.
	Check Color = 0b11
)

func (c Color) String() string {
	switch c {
	case Continue:
		return "."
	case Blue:
		return "B"
	case Green:
		return "G"
	case Check:
		return "C"
	default:
		return "?"
	}
}

// opposite returns the other of {Blue, Green}; any other color is
// returned unchanged. Used to find the "condemned" color during marking.
func (c Color) opposite() Color {
	switch c {
	case Blue:
		return Green
	case Green:
		return Blue
	default:
		return c
	}
}

// BlockRange identifies a run of blocks, in block-index units, that share
// a single color: block start carries color, and every block in
// (start, end) is Continue.
type BlockRange struct {
	Start uintptr
	End   uintptr
	Color Color
}

func (r BlockRange) String() string {
	return fmt.Sprintf("%v[%d-%d]", r.Color, r.Start, r.End)
}
