package voxel

import (
	"sync"
	"testing"
)

// countingAllocator tracks outstanding allocations so tests can detect
// storage that was replaced without being recycled.
type countingAllocator struct {
	mu          sync.Mutex
	outstanding int
	allocs      int
	recycles    int
}

func (a *countingAllocator) Allocate(size int) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.outstanding += size
	a.allocs++
	return make([]byte, size)
}

func (a *countingAllocator) Recycle(buf []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.outstanding -= len(buf)
	a.recycles++
}

func (a *countingAllocator) Outstanding() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.outstanding
}

// newTestBuffer creates a heap-backed buffer of the given size.
func newTestBuffer(t testing.TB, size Vector3i, opts ...Option) *Buffer {
	t.Helper()
	opts = append([]Option{WithAllocator(HeapAllocator{})}, opts...)
	b := NewWithSize(size, opts...)
	if b.Size() != size {
		t.Fatalf("Size() = %v, want %v", b.Size(), size)
	}
	return b
}

// mustGet reads a voxel and fails the test on error.
func mustGet(t testing.TB, b *Buffer, pos Vector3i, ch ChannelID) uint64 {
	t.Helper()
	v, err := b.Get(pos, ch)
	if err != nil {
		t.Fatalf("Get(%v, %v) = %v", pos, ch, err)
	}
	return v
}

// mustSet writes a voxel and fails the test on error.
func mustSet(t testing.TB, b *Buffer, v uint64, pos Vector3i, ch ChannelID) {
	t.Helper()
	if err := b.Set(v, pos, ch); err != nil {
		t.Fatalf("Set(%d, %v, %v) = %v", v, pos, ch, err)
	}
}

// mustCompression returns the compression state of a channel.
func mustCompression(t testing.TB, b *Buffer, ch ChannelID) Compression {
	t.Helper()
	c, err := b.Compression(ch)
	if err != nil {
		t.Fatalf("Compression(%v) = %v", ch, err)
	}
	return c
}

// mustUniform returns IsUniform for a channel.
func mustUniform(t testing.TB, b *Buffer, ch ChannelID) bool {
	t.Helper()
	u, err := b.IsUniform(ch)
	if err != nil {
		t.Fatalf("IsUniform(%v) = %v", ch, err)
	}
	return u
}

// forEachVoxel calls fn for every position inside size.
func forEachVoxel(size Vector3i, fn func(p Vector3i)) {
	for z := range size.Z {
		for x := range size.X {
			for y := range size.Y {
				fn(Vector3i{X: x, Y: y, Z: z})
			}
		}
	}
}

var allDepths = []Depth{Depth1Bit, Depth8Bit, Depth16Bit, Depth24Bit, Depth32Bit, Depth64Bit}
