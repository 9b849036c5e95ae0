package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/gogpu/voxel"
)

const (
	blockPrefix    = "b"
	instancePrefix = "i"
)

// MemoryStream keeps saved blocks in memory. Saved buffers are duplicated,
// so callers keep ownership of what they pass in. It is safe for concurrent
// use.
type MemoryStream struct {
	// mu orders reads of stored buffers against their release on
	// overwrite or eviction.
	mu    sync.RWMutex
	cache *cache.Cache
}

// NewMemoryStream creates an in-memory stream. Blocks expire after
// expiration; pass cache.NoExpiration (or zero) to keep them forever.
func NewMemoryStream(expiration time.Duration) *MemoryStream {
	if expiration == 0 {
		expiration = cache.NoExpiration
	}
	cleanup := 2 * expiration
	if expiration < 0 {
		cleanup = 0
	}

	s := &MemoryStream{cache: cache.New(expiration, cleanup)}
	s.cache.OnEvicted(s.evicted)
	return s
}

func cacheKey(prefix string, k BlockKey) string {
	return fmt.Sprintf("%s:%d,%d,%d:%d", prefix, k.Position.X, k.Position.Y, k.Position.Z, k.LOD)
}

func (s *MemoryStream) evicted(_ string, v any) {
	if buf, ok := v.(*voxel.Buffer); ok {
		s.mu.Lock()
		buf.Release()
		s.mu.Unlock()
	}
}

// keyFor recovers the block key from a load query.
func keyFor(buf *voxel.Buffer, origin voxel.Vector3i, lod uint8) (BlockKey, error) {
	size := buf.Size()
	if size.IsEmpty() || size.X != size.Y || size.Y != size.Z {
		return BlockKey{}, fmt.Errorf("stream: block buffer must be a non-empty cube, got %v: %w", size, voxel.ErrSizeMismatch)
	}
	span := size.X << lod
	if origin.X%span != 0 || origin.Y%span != 0 || origin.Z%span != 0 {
		return BlockKey{}, fmt.Errorf("stream: origin %v is not aligned to %d", origin, span)
	}
	pos := voxel.Vec3(origin.X/span, origin.Y/span, origin.Z/span)
	return BlockKey{Position: pos, LOD: lod}, nil
}

// LoadBlock implements Stream.
func (s *MemoryStream) LoadBlock(ctx context.Context, buf *voxel.Buffer, origin voxel.Vector3i, lod uint8) (Result, error) {
	if err := ctx.Err(); err != nil {
		return ResultError, err
	}
	if buf == nil {
		return ResultError, voxel.ErrNilBuffer
	}
	key, err := keyFor(buf, origin, lod)
	if err != nil {
		return ResultError, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, found := s.cache.Get(cacheKey(blockPrefix, key))
	if !found {
		return ResultBlockNotFound, nil
	}
	saved := v.(*voxel.Buffer)
	if saved.Size() != buf.Size() {
		return ResultError, fmt.Errorf("stream: block %v saved with size %v, loading %v: %w",
			key, saved.Size(), buf.Size(), voxel.ErrSizeMismatch)
	}

	// Adopt the saved format before copying.
	for ch := range voxel.ChannelID(voxel.MaxChannels) {
		d, _ := saved.ChannelDepth(ch)
		if err := buf.SetChannelDepth(ch, d); err != nil {
			return ResultError, err
		}
	}
	if err := buf.CopyFrom(saved); err != nil {
		return ResultError, err
	}
	return ResultBlockFound, nil
}

// SaveBlock implements Stream.
func (s *MemoryStream) SaveBlock(ctx context.Context, key BlockKey, buf *voxel.Buffer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if buf == nil {
		return voxel.ErrNilBuffer
	}

	dup := buf.Duplicate()
	dup.Compress()

	k := cacheKey(blockPrefix, key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, found := s.cache.Get(k); found {
		old.(*voxel.Buffer).Release()
	}
	s.cache.SetDefault(k, dup)
	return nil
}

// DeleteBlock removes a saved block.
func (s *MemoryStream) DeleteBlock(key BlockKey) {
	// Delete runs the eviction callback, which takes mu.
	s.cache.Delete(cacheKey(blockPrefix, key))
}

// SaveInstances stores opaque instance data for a block.
func (s *MemoryStream) SaveInstances(key BlockKey, data []byte) {
	s.cache.SetDefault(cacheKey(instancePrefix, key), append([]byte(nil), data...))
}

// LoadInstances implements InstanceStream.
func (s *MemoryStream) LoadInstances(ctx context.Context, key BlockKey) (Result, []byte, error) {
	if err := ctx.Err(); err != nil {
		return ResultError, nil, err
	}
	v, found := s.cache.Get(cacheKey(instancePrefix, key))
	if !found {
		return ResultBlockNotFound, nil, nil
	}
	return ResultBlockFound, v.([]byte), nil
}

// Len returns the number of stored blocks and instance records.
func (s *MemoryStream) Len() int {
	return s.cache.ItemCount()
}
