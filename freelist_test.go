package mwgc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertChain(t *testing.T, f *FreeList, want []uintptr) {
	t.Helper()
	var got []uintptr
	for node := f.head; node != nil; node = node.next {
		got = append(got, node.size)
	}
	assert.Equal(t, want, got, f.String())
}

func TestFreeListAllocate(t *testing.T) {
	data := make([]byte, 256)
	f := newFreeList(NewMemory(data))
	origin := f.head

	m, ok := f.Allocate(120)
	require.True(t, ok)
	assert.Equal(t, freeBlockAddr(origin), m.Start())
	assert.Equal(t, uintptr(120), m.Len())
}

func TestFreeListAllocateMultiple(t *testing.T) {
	data := make([]byte, 256)
	f := newFreeList(NewMemory(data))

	m1, ok := f.Allocate(64)
	require.True(t, ok)
	m2, ok := f.Allocate(32)
	require.True(t, ok)
	m3, ok := f.Allocate(32)
	require.True(t, ok)

	assert.Equal(t, m1.Start()+64, m2.Start())
	assert.Equal(t, m1.Start()+96, m3.Start())
	assert.Equal(t, m1.Start()+128, freeBlockAddr(f.head))
}

func TestFreeListAllocateToExhaustion(t *testing.T) {
	data := make([]byte, 256)
	f := newFreeList(NewMemory(data))

	_, ok1 := f.Allocate(128)
	_, ok2 := f.Allocate(128)
	_, ok3 := f.Allocate(16)

	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.False(t, ok3)
	assert.Nil(t, f.head)
}

func TestFreeListRetireFirst(t *testing.T) {
	data := make([]byte, 256)
	f := newFreeList(NewMemory(data))
	origin := freeBlockAddr(f.head)

	m, ok := f.Allocate(64)
	require.True(t, ok)
	f.Retire(m)

	assertChain(t, &f, []uintptr{256})
	assert.Equal(t, origin, freeBlockAddr(f.head))
}

func TestFreeListRetireLast(t *testing.T) {
	data := make([]byte, 256)
	pool, tail := NewMemory(data).SplitAt(128)
	_, last64 := tail.SplitAt(64)

	f := newFreeList(pool)
	origin := freeBlockAddr(f.head)

	f.Retire(last64)
	assertChain(t, &f, []uintptr{128, 64})
	assert.Equal(t, origin, freeBlockAddr(f.head))
}

func TestFreeListRetireMiddle(t *testing.T) {
	data := make([]byte, 256)
	pool, tail := NewMemory(data).SplitAt(128)
	middle64, last64 := tail.SplitAt(64)

	f := newFreeList(pool)
	origin := freeBlockAddr(f.head)

	f.Retire(last64)
	assertChain(t, &f, []uintptr{128, 64})

	f.Retire(middle64)
	assertChain(t, &f, []uintptr{256})
	assert.Equal(t, origin, freeBlockAddr(f.head))
}

func TestFreeListBytes(t *testing.T) {
	data := make([]byte, 256)
	f := newFreeList(NewMemory(data))
	assert.Equal(t, uintptr(256), f.Bytes())

	_, ok := f.Allocate(64)
	require.True(t, ok)
	assert.Equal(t, uintptr(192), f.Bytes())
}
