// Package voxel provides channel-based storage for fixed-size blocks of voxels.
//
// # Overview
//
// A Buffer is a 3D grid shared by eight independent channels. Each channel
// has its own bit depth and is stored either uniformly, as a single default
// value with no allocation, or densely, as a packed byte slice. Channels are
// promoted to dense storage on the first write that differs from the
// default and return to uniform storage through Fill, Clear or Compress.
//
// # Quick Start
//
//	b := voxel.NewWithSize(voxel.Splat(16),
//		voxel.WithChannelDepth(voxel.ChannelSDF, voxel.Depth16Bit))
//	defer b.Release()
//
//	_ = b.FillF(1, voxel.ChannelSDF)
//	_ = b.SetF(-0.5, voxel.Vec3(3, 4, 5), voxel.ChannelSDF)
//	_ = b.Set(1, voxel.Vec3(3, 4, 5), voxel.ChannelType)
//
//	v, _ := b.GetF(voxel.Vec3(3, 4, 5), voxel.ChannelSDF)
//
// # Channels and Depths
//
// Channels are identified by ChannelID. ChannelType and ChannelSDF carry
// material type and signed distance by convention; the remaining channels
// are free for auxiliary data. Every channel defaults to Depth8Bit and a
// zero default, except ChannelSDF whose default DefaultSDFValue means
// "outside".
//
// Depths below 32 bits are read as normalized values in about [-1, 1] by
// the F accessors. Depth32Bit and Depth64Bit hold the bits of a float32 or
// float64. Raw values are always clamped to the depth's maximum.
//
// # Storage Layout
//
// Voxel (x, y, z) has index y + sizeY*(x + sizeX*z): rows along Y are
// contiguous. Multi-byte voxels are little-endian. Depth1Bit packs voxel i
// into bit i&7 of byte i>>3. ChannelRaw exposes the bytes for serializers.
//
// # Region Operations
//
// FillArea, CopyRegionFrom and DownscaleTo take half-open boxes which are
// sorted and clamped to the buffers involved. CopyFrom and DownscaleTo
// keep going when a channel fails and return all errors combined.
//
// # Memory
//
// Dense storage comes from an Allocator. By default buffers share the
// process-wide pool returned by DefaultAllocator; WithAllocator injects
// another one. Call Release when a buffer is no longer needed so its
// storage returns to the pool.
//
// # Thread Safety
//
// A Buffer is not safe for concurrent use. Allocators are.
//
// # Logging
//
// The package logs through log/slog and is silent by default. SetLogger
// enables Debug records for promotions and demotions and Warn records for
// discarded data.
package voxel
