package voxel

// Option configures a Buffer during creation.
// Use functional options to customize Buffer behavior.
//
// Example:
//
//	// Default pooled allocation
//	b := voxel.NewWithSize(voxel.Splat(16))
//
//	// Plain heap allocation and a float SDF channel
//	b := voxel.NewWithSize(voxel.Splat(16),
//	    voxel.WithAllocator(voxel.HeapAllocator{}),
//	    voxel.WithChannelDepth(voxel.ChannelSDF, voxel.Depth32Bit))
type Option func(*bufferOptions)

// bufferOptions holds optional configuration for Buffer creation.
type bufferOptions struct {
	alloc    Allocator
	depths   [MaxChannels]Depth
	defaults [MaxChannels]uint64
}

// defaultOptions returns the default buffer options.
func defaultOptions() bufferOptions {
	var o bufferOptions
	for i := range o.depths {
		o.depths[i] = Depth8Bit
	}
	o.defaults[ChannelSDF] = DefaultSDFValue
	return o
}

// WithAllocator sets the allocator backing dense channel storage.
// Buffers created without it use DefaultAllocator.
func WithAllocator(a Allocator) Option {
	return func(o *bufferOptions) {
		o.alloc = a
	}
}

// WithChannelDepth sets the initial depth of a channel.
// Invalid channels or depths are ignored.
func WithChannelDepth(ch ChannelID, d Depth) Option {
	return func(o *bufferOptions) {
		if ch.IsValid() && d.IsValid() {
			o.depths[ch] = d
		}
	}
}

// WithDefaultValue sets the initial raw default value of a channel.
// The value is clamped to the channel depth.
func WithDefaultValue(ch ChannelID, raw uint64) Option {
	return func(o *bufferOptions) {
		if ch.IsValid() {
			o.defaults[ch] = raw
		}
	}
}
