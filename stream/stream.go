// Package stream loads voxel blocks from a backing store and falls back to
// a generator for blocks that were never saved.
//
// A Loader runs one LoadTask per block on a worker pool. Each task owns its
// buffer until the BlockDataOutput carrying it reaches the output callback.
package stream

import (
	"context"
	"fmt"

	"github.com/gogpu/voxel"
)

// BlockKey identifies a block by its position in block units and its LOD.
type BlockKey struct {
	Position voxel.Vector3i
	LOD      uint8
}

// String implements fmt.Stringer.
func (k BlockKey) String() string {
	return fmt.Sprintf("%v@lod%d", k.Position, k.LOD)
}

// OriginInVoxels returns the world position of the block's first voxel.
// Blocks at higher LODs cover 2^lod times more space per voxel.
func (k BlockKey) OriginInVoxels(blockSize int) voxel.Vector3i {
	return k.Position.Shl(uint(k.LOD)).Mul(blockSize)
}

// Result is the outcome of a stream query.
type Result int

const (
	// ResultError means the stream failed; the buffer content is undefined.
	ResultError Result = iota
	// ResultBlockNotFound means the stream has no data for the block.
	ResultBlockNotFound
	// ResultBlockFound means the buffer was filled from the stream.
	ResultBlockFound
)

// String implements fmt.Stringer.
func (r Result) String() string {
	switch r {
	case ResultError:
		return "error"
	case ResultBlockNotFound:
		return "not found"
	case ResultBlockFound:
		return "found"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Stream is a persistent store of voxel blocks.
//
// LoadBlock fills buf, which is already sized to the block, with the data
// saved at the given origin and LOD. Implementations must be safe for
// concurrent use since a Loader calls them from several workers.
type Stream interface {
	LoadBlock(ctx context.Context, buf *voxel.Buffer, originInVoxels voxel.Vector3i, lod uint8) (Result, error)
	SaveBlock(ctx context.Context, key BlockKey, buf *voxel.Buffer) error
}

// InstanceStream is implemented by streams that also store per-block
// instance data (foliage, props). The payload is opaque to this package.
type InstanceStream interface {
	LoadInstances(ctx context.Context, key BlockKey) (Result, []byte, error)
}

// Generator produces voxel data procedurally.
type Generator interface {
	GenerateBlock(ctx context.Context, buf *voxel.Buffer, originInVoxels voxel.Vector3i, lod uint8) error
}

// OutputType tells where the voxels of a BlockDataOutput came from.
type OutputType int

const (
	// OutputLoaded means the voxels were read from the stream.
	OutputLoaded OutputType = iota
	// OutputGenerated means the stream had no data and the generator ran.
	OutputGenerated
)

// String implements fmt.Stringer.
func (t OutputType) String() string {
	if t == OutputGenerated {
		return "generated"
	}
	return "loaded"
}

// BlockDataOutput is delivered to the Loader's output callback once per task.
type BlockDataOutput struct {
	Key BlockKey

	// Voxels is nil when the block was not found and nothing was generated,
	// or when the task was dropped.
	Voxels *voxel.Buffer

	// Instances is passed through from the InstanceStream unmodified.
	Instances []byte

	// Dropped is set when the task was cancelled before it ran.
	Dropped bool

	Type OutputType

	// Err is the load or generation error, if any.
	Err error
}
