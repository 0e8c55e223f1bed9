package mwgc

import "unsafe"

// freeBlockHeader is stored in-place at the start of every free region: a
// singly-linked chain of these, kept in ascending address order, is how
// the free list is represented. Its size sets the minimum possible
// allocation and the minimum sane block size for a Heap.
type freeBlockHeader struct {
	next *freeBlockHeader
	size uintptr
}

// freeBlockHeaderSize is the number of bytes a freeBlockHeader occupies in
// the pool; BLOCK_SIZE_BYTES must be at least this large (spec.md §3).
const freeBlockHeaderSize = unsafe.Sizeof(freeBlockHeader{})

func freeBlockAddr(h *freeBlockHeader) uintptr {
	return uintptr(unsafe.Pointer(h))
}

func freeBlockEnd(h *freeBlockHeader) uintptr {
	return freeBlockAddr(h) + h.size
}

// newFreeBlockHeaderAt writes a free-block header into the bytes starting
// at addr, which must belong to memory at least freeBlockHeaderSize long
// that the caller has already arranged to own.
func newFreeBlockHeaderAt(addr uintptr, size uintptr, next *freeBlockHeader) *freeBlockHeader {
	h := (*freeBlockHeader)(unsafe.Pointer(addr))
	h.size = size
	h.next = next
	return h
}

// checkMergeNext absorbs node.next into node if the two are adjacent in
// memory, preserving free-list invariant I2 (no two adjacent free nodes).
func checkMergeNext(node *freeBlockHeader) {
	next := node.next
	if next != nil && freeBlockEnd(node) == freeBlockAddr(next) {
		node.size += next.size
		node.next = next.next
	}
}

// FreeList is the address-sorted, singly-linked chain of free regions
// backing a Heap's allocate/retire operations.
type FreeList struct {
	head *freeBlockHeader
}

// newFreeList initializes a free list consisting of a single node
// covering all of m.
func newFreeList(m Memory) FreeList {
	return FreeList{head: newFreeBlockHeaderAt(m.Start(), m.Len(), nil)}
}

// Allocate performs a first-fit scan of the list for a node at least
// amount bytes long. amount is assumed to already be a multiple of the
// block size and at least freeBlockHeaderSize. Returns false if no node is
// large enough.
func (f *FreeList) Allocate(amount uintptr) (Memory, bool) {
	cursor := &f.head
	for *cursor != nil {
		node := *cursor
		if node.size >= amount {
			start := freeBlockAddr(node)
			if node.size-amount < freeBlockHeaderSize {
				// not enough room left over for a header: hand out the
				// whole node.
				*cursor = node.next
			} else {
				*cursor = newFreeBlockHeaderAt(start+amount, node.size-amount, node.next)
			}
			return memoryFromAddresses(start, start+amount), true
		}
		cursor = &node.next
	}
	return Memory{}, false
}

// Retire inserts m into the free list at its address-sorted position,
// coalescing with an adjacent node on either side if possible.
func (f *FreeList) Retire(m Memory) {
	start := m.Start()
	cursor := &f.head

	for {
		node := *cursor
		if node == nil {
			*cursor = newFreeBlockHeaderAt(start, m.Len(), nil)
			return
		}
		switch {
		case freeBlockAddr(node) > start:
			// Before the current node.
			newNode := newFreeBlockHeaderAt(start, m.Len(), node)
			*cursor = newNode
			checkMergeNext(newNode)
			return
		case freeBlockEnd(node) == start:
			// Merge into the current node.
			node.size += m.Len()
			checkMergeNext(node)
			return
		case node.next == nil:
			// Append after the current node.
			node.next = newFreeBlockHeaderAt(start, m.Len(), nil)
			return
		default:
			cursor = &node.next
		}
	}
}

// Bytes returns the sum of every free node's size.
func (f *FreeList) Bytes() uintptr {
	var total uintptr
	for node := f.head; node != nil; node = node.next {
		total += node.size
	}
	return total
}

func (f *FreeList) String() string {
	s := "FreeList("
	first := true
	for node := f.head; node != nil; node = node.next {
		if !first {
			s += " -> "
		}
		first = false
		s += itoa(node.size) + "@" + itoa(freeBlockAddr(node))
	}
	return s + ")"
}

func itoa(n uintptr) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// FreeListSpan is a positional cursor pair (insertPoint, ptr) over two
// adjacent slots in the free list: insertPoint is the slot that held the
// previously-yielded node (or the list head, initially), and ptr is the
// slot holding the node this span currently points to. Heap.sweep uses
// these to insert freshly-freed spans at the correct position in O(1).
type FreeListSpan struct {
	insertPoint **freeBlockHeader
	ptr         **freeBlockHeader
}

// Node returns the free-block header this span currently points to, or
// nil if the span points at the end of the list.
func (s FreeListSpan) Node() *freeBlockHeader {
	return *s.ptr
}

// next advances the span by one position. It returns false once the span
// already pointed past the end of the list.
func (s FreeListSpan) next() (FreeListSpan, bool) {
	node := *s.ptr
	if node == nil {
		return FreeListSpan{}, false
	}
	return FreeListSpan{insertPoint: s.ptr, ptr: &node.next}, true
}

func (s FreeListSpan) tryInsertAfter(m Memory) bool {
	node := *s.insertPoint
	if node == nil {
		*s.insertPoint = newFreeBlockHeaderAt(m.Start(), m.Len(), nil)
		return true
	}
	if freeBlockEnd(node) == m.Start() {
		node.size += m.Len()
		checkMergeNext(node)
		return true
	}
	return false
}

func (s FreeListSpan) tryInsertBefore(m Memory) bool {
	node := *s.ptr
	if node == nil || freeBlockAddr(node) > m.Start() {
		newNode := newFreeBlockHeaderAt(m.Start(), m.Len(), node)
		*s.ptr = newNode
		checkMergeNext(newNode)
		return true
	}
	return false
}

// Insert places m into the free list at this span's known-correct
// position. The caller guarantees that m's address range genuinely
// belongs between insertPoint and ptr; if that guarantee is violated this
// is a programmer error and panics rather than silently corrupting the
// list.
func (s FreeListSpan) Insert(m Memory) {
	if s.tryInsertAfter(m) {
		return
	}
	if s.tryInsertBefore(m) {
		return
	}
	panic("mwgc: free-list span could not accept insertion at its claimed position")
}

// FreeListSpanIter walks successive FreeListSpans across a free list.
type FreeListSpanIter struct {
	next *FreeListSpan
}

// spans returns an iterator that yields a FreeListSpan for every position
// in the list, including one final span pointing past the last node.
func (f *FreeList) spans() *FreeListSpanIter {
	s := FreeListSpan{insertPoint: &f.head, ptr: &f.head}
	return &FreeListSpanIter{next: &s}
}

// Next returns the next span, or false once the final (past-the-end) span
// has already been returned.
func (it *FreeListSpanIter) Next() (FreeListSpan, bool) {
	if it.next == nil {
		return FreeListSpan{}, false
	}
	cur := *it.next
	nxt, ok := cur.next()
	if ok {
		it.next = &nxt
	} else {
		it.next = nil
	}
	return cur, true
}
