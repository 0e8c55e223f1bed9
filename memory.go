package mwgc

import "unsafe"

// Memory is an owning handle over a contiguous byte region [start, end).
// It is the only type allowed to move bytes between the free list and a
// caller: ownership of the slice transfers whenever a Memory value is
// passed by value.
type Memory struct {
	data []byte
}

// NewMemory wraps an existing, caller-owned byte slice as a Memory span.
func NewMemory(data []byte) Memory {
	return Memory{data: data}
}

// memoryFromAddresses reconstructs a Memory span from a raw [start, end)
// address pair. The caller asserts that this range is backed by memory
// that is kept alive independently (the Heap's retained region slice);
// this function does not itself establish ownership or GC-root the
// memory, it only describes an address range that is known to be valid.
func memoryFromAddresses(start, end uintptr) Memory {
	if end < start {
		panic("mwgc: invalid memory range")
	}
	length := int(end - start)
	if length == 0 {
		return Memory{}
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(start)), length)
	return Memory{data: data}
}

// Len returns the length of the span in bytes.
func (m Memory) Len() uintptr {
	return uintptr(len(m.data))
}

// Start returns the address of the first byte of the span.
func (m Memory) Start() uintptr {
	if len(m.data) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&m.data[0]))
}

// End returns the address just past the last byte of the span.
func (m Memory) End() uintptr {
	return m.Start() + m.Len()
}

// Bytes exposes the raw backing slice. Callers that take this slice are
// responsible for not holding onto it past the point where the span is
// retired or swept.
func (m Memory) Bytes() []byte {
	return m.data
}

// Clear zeroes every byte of the span.
func (m Memory) Clear() {
	for i := range m.data {
		m.data[i] = 0
	}
}

// SplitAt consumes the span and returns two spans: the first n bytes, and
// the remainder.
func (m Memory) SplitAt(n uintptr) (Memory, Memory) {
	return Memory{data: m.data[:n]}, Memory{data: m.data[n:]}
}
