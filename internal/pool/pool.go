// Package pool provides a thread-safe byte slice pool keyed by size.
package pool

import (
	"sync"
	"sync/atomic"
)

// BytePool is a thread-safe pool for reusing byte slices.
//
// BytePool groups slices by their exact length, so a slice is only handed
// back to callers asking for the same size. Voxel blocks of one volume
// share a handful of channel sizes, which makes exact-size buckets hit
// almost every time once the pipeline is warm.
//
// Reused slices are not cleared. Callers initialize every byte they read.
//
// Thread safety: All methods are safe for concurrent use.
type BytePool struct {
	mu      sync.Mutex
	buckets map[int][][]byte
	maxSize int // max slices per bucket

	hits     atomic.Uint64
	misses   atomic.Uint64
	recycled atomic.Uint64
	dropped  atomic.Uint64
}

// Stats is a snapshot of pool counters.
type Stats struct {
	// Hits counts Get calls served from a bucket.
	Hits uint64

	// Misses counts Get calls that had to allocate.
	Misses uint64

	// Recycled counts slices accepted by Put.
	Recycled uint64

	// Dropped counts slices discarded by Put because their bucket was full.
	Dropped uint64

	// Retained is the number of slices currently held.
	Retained int

	// RetainedBytes is the total size of slices currently held.
	RetainedBytes int
}

// New creates a pool retaining at most maxPerBucket slices per size.
// A maxPerBucket of 0 means unlimited (use with caution).
func New(maxPerBucket int) *BytePool {
	return &BytePool{
		buckets: make(map[int][][]byte),
		maxSize: maxPerBucket,
	}
}

// Get returns a slice of exactly size bytes.
// It returns nil for a non-positive size.
func (p *BytePool) Get(size int) []byte {
	if size <= 0 {
		return nil
	}

	p.mu.Lock()
	bucket := p.buckets[size]
	if n := len(bucket); n > 0 {
		buf := bucket[n-1]
		bucket[n-1] = nil
		p.buckets[size] = bucket[:n-1]
		p.mu.Unlock()

		p.hits.Add(1)
		return buf
	}
	p.mu.Unlock()

	p.misses.Add(1)
	return make([]byte, size)
}

// Put returns a slice to the pool.
// Slices with zero length, or arriving at a full bucket, are discarded.
func (p *BytePool) Put(buf []byte) {
	size := len(buf)
	if size == 0 {
		return
	}
	// Drop any extra capacity so the bucket key matches what Get hands out.
	buf = buf[:size:size]

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[size]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		p.dropped.Add(1)
		return
	}

	p.buckets[size] = append(bucket, buf)
	p.recycled.Add(1)
}

// Stats returns a snapshot of the pool counters.
func (p *BytePool) Stats() Stats {
	s := Stats{
		Hits:     p.hits.Load(),
		Misses:   p.misses.Load(),
		Recycled: p.recycled.Load(),
		Dropped:  p.dropped.Load(),
	}

	p.mu.Lock()
	for size, bucket := range p.buckets {
		s.Retained += len(bucket)
		s.RetainedBytes += size * len(bucket)
	}
	p.mu.Unlock()

	return s
}

// Reset discards every retained slice. Counters are kept.
func (p *BytePool) Reset() {
	p.mu.Lock()
	p.buckets = make(map[int][][]byte)
	p.mu.Unlock()
}
