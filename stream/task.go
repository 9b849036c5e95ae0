package stream

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/voxel"
)

var runningLoadTasks atomic.Int64

// RunningLoadTasks returns the number of load tasks submitted to a Loader
// whose output has not been delivered yet.
func RunningLoadTasks() int {
	return int(runningLoadTasks.Load())
}

// LoadTask loads a single block.
type LoadTask struct {
	Key BlockKey

	// BlockSize is the edge length of the cubic block in voxels.
	BlockSize int

	// GenerateCacheData runs the generator when the stream has no data for
	// the block. Without it a missing block yields a nil buffer, leaving the
	// caller to generate on demand.
	GenerateCacheData bool

	// RequestInstances loads instance data when the stream supports it.
	RequestInstances bool

	// Cancelled is polled right before the task runs. A task that reports
	// true is delivered with Dropped set and no voxels.
	Cancelled func() bool
}

func (t *LoadTask) cancelled(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	return t.Cancelled != nil && t.Cancelled()
}

// run loads the block using the loader's collaborators and returns the
// output to deliver.
func (t *LoadTask) run(ctx context.Context, l *Loader) BlockDataOutput {
	out := BlockDataOutput{Key: t.Key, Type: OutputLoaded}
	if t.cancelled(ctx) {
		out.Dropped = true
		return out
	}
	if t.BlockSize <= 0 {
		out.Err = fmt.Errorf("stream: block %v: invalid block size %d", t.Key, t.BlockSize)
		return out
	}

	log := voxel.Logger().With("block", t.Key.String())
	origin := t.Key.OriginInVoxels(t.BlockSize)

	buf := voxel.NewWithSize(voxel.Splat(t.BlockSize), l.bufferOptions...)
	out.Voxels = buf

	res, err := l.stream.LoadBlock(ctx, buf, origin, t.Key.LOD)
	if err != nil {
		res = ResultError
	}

	switch res {
	case ResultError:
		if err == nil {
			err = fmt.Errorf("stream: block %v: load failed", t.Key)
		}
		out.Err = fmt.Errorf("stream: load block %v: %w", t.Key, err)
		log.Warn("error loading voxel block", "err", err)

	case ResultBlockNotFound:
		switch {
		case !t.GenerateCacheData:
			buf.Release()
			out.Voxels = nil
		case l.generator != nil:
			if err := l.generator.GenerateBlock(ctx, buf, origin, t.Key.LOD); err != nil {
				out.Err = fmt.Errorf("stream: generate block %v: %w", t.Key, err)
				log.Warn("error generating voxel block", "err", err)
			}
			out.Type = OutputGenerated
		default:
			// No generator: the block keeps the buffer defaults.
			log.Debug("block not found and no generator set")
		}
	}

	if t.RequestInstances && l.instances != nil {
		ires, data, err := l.instances.LoadInstances(ctx, t.Key)
		switch {
		case err != nil || ires == ResultError:
			log.Warn("error loading instance block", "err", err)
		case ires == ResultBlockFound:
			out.Instances = data
		}
		// Not found leaves Instances nil so an instancer can generate them
		// after meshing.
	}

	return out
}
