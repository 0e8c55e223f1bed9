package mwgc

import (
	"fmt"
	"unsafe"
)

// HeapSpan describes one contiguous, single-colored (or free) region
// yielded while walking a Heap in address order.
type HeapSpan struct {
	Start  uintptr
	End    uintptr
	isFree bool
	color  Color

	freeListSpan FreeListSpan
}

func (s HeapSpan) typeString() string {
	if s.isFree {
		return "FREE"
	}
	switch s.color {
	case Continue:
		return "Continue"
	case Blue:
		return "Blue"
	case Green:
		return "Green"
	case Check:
		return "Check"
	}
	return s.color.String()
}

func (s HeapSpan) String() string {
	return fmt.Sprintf("%s[%d]", s.typeString(), s.End-s.Start)
}

// heapIterator co-traverses the color map and the free list in ascending
// address order, yielding every span - free or allocated - exactly once.
// This is what lets Sweep insert freed spans into the free list as it
// walks, in a single O(heap) pass (spec.md §4.5, "Heap iterator").
type heapIterator struct {
	h        *Heap
	freeSpan FreeListSpan
	current  uintptr
}

func (h *Heap) iter() *heapIterator {
	spanIter := h.freeList.spans()
	// There is always at least one span: spanIter always yields one, even
	// for an empty free list (a span whose Node() is nil).
	span, _ := spanIter.Next()
	return &heapIterator{h: h, freeSpan: span, current: h.start}
}

func (it *heapIterator) Next() (HeapSpan, bool) {
	if it.current >= it.h.end {
		return HeapSpan{}, false
	}

	if node := it.freeSpan.Node(); node != nil {
		nodeStart := freeBlockAddr(node)
		if nodeStart < it.current {
			// Sweep inserted a new free node behind us while we weren't
			// looking; skip forward to catch up.
			if next, ok := it.freeSpan.next(); ok {
				it.freeSpan = next
			}
			return it.Next()
		}
		if nodeStart == it.current {
			span := HeapSpan{Start: nodeStart, End: freeBlockEnd(node), isFree: true, freeListSpan: it.freeSpan}
			if next, ok := it.freeSpan.next(); ok {
				it.freeSpan = next
			}
			it.current = span.End
			return span, true
		}
	}

	r := it.h.getRange(it.current)
	start := it.h.addressOf(r.Start)
	end := it.h.addressOf(r.End)
	span := HeapSpan{Start: start, End: end, color: r.Color, freeListSpan: it.freeSpan}
	it.current = end
	return span, true
}

func mwgcAssert(cond bool, msg string) {
	if !cond {
		panic("mwgc: " + msg)
	}
}

// MarkStart begins the first phase of garbage collection: it flips the
// current color (so everything already allocated becomes "condemned"
// unless reachable), then checks every root directly. Call MarkRound
// repeatedly afterwards until it returns true, then call Sweep.
//
// Use this instead of GC/Mark when you want to bound the latency of any
// single call by interleaving MarkRound with other work.
func MarkStart[T any](h *Heap, roots []*T) {
	mwgcAssert(h.phase == phaseQuiet, "mark_start called outside Quiet phase")
	h.checkStart, h.checkEnd, h.hasCheck = 0, 0, false
	h.currentColor = h.currentColor.opposite()
	for _, r := range roots {
		h.check(uintptr(unsafe.Pointer(r)))
	}
	h.phase = phaseMarking
}

// MarkRound performs one incremental step of the mark phase: it scans the
// current gray envelope for pointers, widening the envelope to cover any
// newly discovered gray objects, and returns true once there is nothing
// left to scan.
//
// If you mutate any heap object between calls to MarkRound, you must call
// MarkCheck on it afterwards - the allocator barrier (new allocations are
// automatically marked Check) does not cover existing objects.
func (h *Heap) MarkRound() bool {
	mwgcAssert(h.phase == phaseMarking, "mark_round called outside Marking phase")
	if !h.hasCheck {
		h.phase = phaseMarked
		return true
	}

	start, end := h.checkStart, h.checkEnd
	h.checkStart, h.checkEnd, h.hasCheck = 0, 0, false

	current := start
	for current <= end {
		r := h.getRange(current)
		startAddr := h.addressOf(r.Start)
		endAddr := h.addressOf(r.End)
		if r.Color == Check {
			for p := startAddr; p < endAddr; p += unsafe.Sizeof(p) {
				word := *(*uintptr)(unsafe.Pointer(p))
				h.check(word)
			}
			h.colorMap.Set(h.blockOf(current), h.currentColor)
		}
		current = endAddr
	}

	if !h.hasCheck {
		h.phase = phaseMarked
		return true
	}
	return false
}

// Mark runs the entire mark phase: MarkStart followed by MarkRound until
// it reports done.
func Mark[T any](h *Heap, roots []*T) {
	MarkStart(h, roots)
	for !h.MarkRound() {
	}
}

// MarkCheck notifies the collector that obj was modified during the mark
// phase and must be (re)scanned. It is a no-op if obj is not a heap
// block. This is the write barrier the mutator must invoke after
// modifying any field of a live object while a mark is in progress
// (spec.md §5).
func MarkCheck[T any](h *Heap, obj *T) {
	p := uintptr(unsafe.Pointer(obj))
	if h.isBlock(p) {
		block := h.blockOf(p)
		h.colorMap.Set(block, Check)
		h.addToCheckSpan(p)
	}
}

// CheckRoot conservatively treats p as an additional root discovered
// outside of MarkStart's roots slice - for example an inner pointer, or a
// word pulled off a raw stack frame that doesn't fit a homogeneous
// []*T root slice. Valid only during the Marking phase; a no-op if p
// doesn't point into the pool.
func (h *Heap) CheckRoot(p unsafe.Pointer) {
	mwgcAssert(h.phase == phaseMarking, "check_root called outside Marking phase")
	h.check(uintptr(p))
}

// check resolves p to its containing allocation (if any) and, if that
// allocation still carries the condemned color, repaints it Check and
// widens the gray envelope.
func (h *Heap) check(p uintptr) {
	if !h.isBlock(p) {
		return
	}
	block := h.blockOf(p)
	if h.colorMap.Get(block) == h.currentColor.opposite() {
		h.colorMap.Set(block, Check)
		h.addToCheckSpan(p)
	}
}

func (h *Heap) addToCheckSpan(p uintptr) {
	if !h.hasCheck || h.checkStart > p {
		h.checkStart = p
	}
	if !h.hasCheck || h.checkEnd < p {
		h.checkEnd = p
	}
	h.hasCheck = true
}

// GetMarkRange reports the address envelope that will be scanned on the
// next MarkRound, for debugging and tests.
func (h *Heap) GetMarkRange() (uintptr, uintptr) {
	return h.checkStart, h.checkEnd
}

// Sweep walks the heap, moving every span still carrying the condemned
// color into the free list, and returns the collector to the Quiet
// phase. This is the second and final phase of garbage collection.
func (h *Heap) Sweep() {
	mwgcAssert(h.phase == phaseMarked, "sweep called outside Marked phase")
	condemned := h.currentColor.opposite()
	it := h.iter()
	for {
		span, ok := it.Next()
		if !ok {
			break
		}
		if !span.isFree && span.color == condemned {
			m := memoryFromAddresses(span.Start, span.End)
			h.colorMap.FreeRange(h.blockRangeOf(m, Check))
			span.freeListSpan.Insert(m)
		}
	}
	h.phase = phaseQuiet
}

// GC performs an entire garbage collection cycle: Mark followed by
// Sweep. Any object not directly or indirectly reachable from roots is
// freed.
func GC[T any](h *Heap, roots []*T) {
	Mark(h, roots)
	h.Sweep()
}
