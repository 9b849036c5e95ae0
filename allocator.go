package voxel

import (
	"sync"

	"github.com/gogpu/voxel/internal/pool"
)

// Allocator provides the byte storage backing dense channels.
//
// Implementations must be safe for concurrent use: many blocks are created
// and destroyed in parallel by loading and generation workers.
type Allocator interface {
	// Allocate returns a slice of exactly size bytes that is not aliased
	// by any other live allocation. Contents are unspecified.
	Allocate(size int) []byte

	// Recycle hands back a slice previously returned by Allocate.
	// len(buf) must equal the size it was allocated with.
	Recycle(buf []byte)
}

// HeapAllocator allocates with make and leaves recycling to the garbage collector.
type HeapAllocator struct{}

// Allocate returns a fresh zeroed slice.
func (HeapAllocator) Allocate(size int) []byte {
	return make([]byte, size)
}

// Recycle does nothing.
func (HeapAllocator) Recycle([]byte) {}

// PoolStats is a snapshot of pooled allocator activity.
type PoolStats = pool.Stats

// PooledAllocator reuses byte slices grouped by size.
type PooledAllocator struct {
	p *pool.BytePool
}

// NewPooledAllocator creates a pooled allocator retaining at most
// maxPerBucket slices of each size. A maxPerBucket of 0 means unlimited.
func NewPooledAllocator(maxPerBucket int) *PooledAllocator {
	return &PooledAllocator{p: pool.New(maxPerBucket)}
}

// Allocate returns a slice of size bytes, reusing a recycled one if possible.
func (a *PooledAllocator) Allocate(size int) []byte {
	return a.p.Get(size)
}

// Recycle returns buf to the pool.
func (a *PooledAllocator) Recycle(buf []byte) {
	a.p.Put(buf)
}

// Stats returns allocation counters.
func (a *PooledAllocator) Stats() PoolStats {
	return a.p.Stats()
}

var (
	defaultAllocOnce sync.Once
	defaultAlloc     *PooledAllocator
)

// DefaultAllocator returns the process-wide pooled allocator used by
// buffers created without WithAllocator.
func DefaultAllocator() *PooledAllocator {
	defaultAllocOnce.Do(func() {
		defaultAlloc = NewPooledAllocator(64)
	})
	return defaultAlloc
}
