package voxel

import (
	"fmt"
	"log/slog"
)

// Buffer is a fixed-size 3D voxel grid with MaxChannels independent channels.
//
// Each channel is either uniform (no storage, every voxel reads the channel
// default value) or dense (one packed value per voxel). Writes that diverge
// from a uniform default promote the channel to dense; Fill, ClearChannel and
// Compress demote it back.
//
// Voxels are laid out so that rows along Y are contiguous:
// index = y + sizeY*(x + sizeX*z).
//
// Thread safety: Buffer has no internal locking. Concurrent reads of a
// buffer that is no longer mutated are safe; any write requires exclusive
// ownership.
type Buffer struct {
	size     Vector3i
	channels [MaxChannels]channel
	alloc    Allocator
}

// New creates an empty buffer. Call Create to give it a size.
func New(opts ...Option) *Buffer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	b := &Buffer{alloc: o.alloc}
	if b.alloc == nil {
		b.alloc = DefaultAllocator()
	}
	for i := range b.channels {
		c := &b.channels[i]
		c.depth = o.depths[i]
		c.defval = ClampRaw(o.defaults[i], c.depth)
	}
	return b
}

// NewWithSize creates a buffer and sizes it. All channels start uniform.
func NewWithSize(size Vector3i, opts ...Option) *Buffer {
	b := New(opts...)
	b.Create(size)
	return b
}

// Size returns the buffer extent.
func (b *Buffer) Size() Vector3i {
	return b.size
}

// Volume returns the number of voxels in the buffer.
func (b *Buffer) Volume() int {
	return b.size.Volume()
}

// Allocator returns the allocator backing dense channels.
func (b *Buffer) Allocator() Allocator {
	return b.alloc
}

// Create resizes the buffer. It does nothing if any component of size is
// not positive or if size equals the current size.
//
// Dense channels are reallocated at the new size and reset to their
// default value; uniform channels are untouched.
func (b *Buffer) Create(size Vector3i) {
	if size.IsEmpty() || size == b.size {
		return
	}

	var dense [MaxChannels]bool
	for i := range b.channels {
		c := &b.channels[i]
		if c.isDense() {
			dense[i] = true
			b.release(c)
		}
	}

	old := b.size
	b.size = size
	for i := range b.channels {
		if dense[i] {
			b.promote(&b.channels[i])
		}
	}

	Logger().Debug("voxel: buffer resized",
		slog.String("from", old.String()),
		slog.String("to", size.String()))
}

// Clear reverts every channel to uniform. Default values are kept.
func (b *Buffer) Clear() {
	for i := range b.channels {
		b.release(&b.channels[i])
	}
}

// Release returns all dense storage to the allocator and resets the size.
// The buffer can be reused after calling Create.
func (b *Buffer) Release() {
	b.Clear()
	b.size = Vector3i{}
}

// ClearChannel reverts a channel to uniform with the given raw value.
func (b *Buffer) ClearChannel(ch ChannelID, raw uint64) error {
	if err := validateChannel(ch); err != nil {
		return err
	}
	c := &b.channels[ch]
	b.demote(c, ClampRaw(raw, c.depth))
	return nil
}

// ClearChannelF is ClearChannel with a normalized value.
func (b *Buffer) ClearChannelF(ch ChannelID, v float64) error {
	if err := validateChannel(ch); err != nil {
		return err
	}
	return b.ClearChannel(ch, NormalizedToRaw(v, b.channels[ch].depth))
}

// SetDefaultValues sets the default value of every channel.
// Dense channels keep their storage; the new default applies once they
// become uniform again.
func (b *Buffer) SetDefaultValues(values [MaxChannels]uint64) {
	for i := range b.channels {
		c := &b.channels[i]
		c.defval = ClampRaw(values[i], c.depth)
	}
}

// DefaultValue returns the raw default value of a channel.
func (b *Buffer) DefaultValue(ch ChannelID) (uint64, error) {
	if err := validateChannel(ch); err != nil {
		return 0, err
	}
	return b.channels[ch].defval, nil
}

// Get returns the raw value of a voxel.
//
// Positions outside the buffer read the channel default value and are not
// an error.
func (b *Buffer) Get(pos Vector3i, ch ChannelID) (uint64, error) {
	if err := validateChannel(ch); err != nil {
		return 0, err
	}
	c := &b.channels[ch]
	if !c.isDense() || !b.size.Contains(pos) {
		return c.defval, nil
	}
	return c.codec().decode(c.data, b.index(pos)), nil
}

// GetF returns the normalized value of a voxel.
func (b *Buffer) GetF(pos Vector3i, ch ChannelID) (float64, error) {
	raw, err := b.Get(pos, ch)
	if err != nil {
		return 0, err
	}
	return RawToNormalized(raw, b.channels[ch].depth), nil
}

// Set writes a raw value to a voxel, clamped to the channel depth.
// It returns ErrOutOfBounds if pos is outside the buffer.
func (b *Buffer) Set(raw uint64, pos Vector3i, ch ChannelID) error {
	if err := validateChannel(ch); err != nil {
		return err
	}
	if !b.size.Contains(pos) {
		return fmt.Errorf("%w: %v in %v", ErrOutOfBounds, pos, b.size)
	}
	b.set(&b.channels[ch], raw, b.index(pos))
	return nil
}

// SetF writes a normalized value to a voxel.
func (b *Buffer) SetF(v float64, pos Vector3i, ch ChannelID) error {
	if err := validateChannel(ch); err != nil {
		return err
	}
	return b.Set(NormalizedToRaw(v, b.channels[ch].depth), pos, ch)
}

// TrySet is Set, except positions outside the buffer are silently ignored.
func (b *Buffer) TrySet(raw uint64, pos Vector3i, ch ChannelID) error {
	if err := validateChannel(ch); err != nil {
		return err
	}
	if !b.size.Contains(pos) {
		return nil
	}
	b.set(&b.channels[ch], raw, b.index(pos))
	return nil
}

// ChannelDepth returns the depth of a channel.
func (b *Buffer) ChannelDepth(ch ChannelID) (Depth, error) {
	if err := validateChannel(ch); err != nil {
		return 0, err
	}
	return b.channels[ch].depth, nil
}

// SetChannelDepth changes the depth of a channel.
//
// Dense data cannot be converted: it is discarded with a warning and the
// channel becomes uniform. The default value is clamped to the new range,
// not rescaled.
func (b *Buffer) SetChannelDepth(ch ChannelID, d Depth) error {
	if err := validateChannel(ch); err != nil {
		return err
	}
	if !d.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidDepth, d)
	}
	c := &b.channels[ch]
	if c.depth == d {
		return nil
	}
	if c.isDense() {
		Logger().Warn("voxel: changing depth of a channel with data, the channel is reset",
			slog.String("channel", ch.String()),
			slog.String("from", c.depth.String()),
			slog.String("to", d.String()))
		b.release(c)
	}
	c.depth = d
	c.defval = ClampRaw(c.defval, d)
	return nil
}

// ChannelRaw exposes the dense storage of a channel for serializers.
// It returns nil for a uniform channel. The buffer keeps ownership; the
// slice is invalidated by any call that changes the channel state.
//
// Multi-byte values are little-endian. Depth1Bit stores voxel i in bit i&7
// of byte i>>3.
func (b *Buffer) ChannelRaw(ch ChannelID) ([]byte, error) {
	if err := validateChannel(ch); err != nil {
		return nil, err
	}
	return b.channels[ch].data, nil
}

// SizeInBytes returns the dense storage size of a channel at its current
// depth, whether or not storage is allocated.
func (b *Buffer) SizeInBytes(ch ChannelID) (int, error) {
	if err := validateChannel(ch); err != nil {
		return 0, err
	}
	return BytesForVolume(b.Volume(), b.channels[ch].depth), nil
}

// index maps a position inside the buffer to a voxel index.
// Rows along Y are contiguous.
func (b *Buffer) index(p Vector3i) int {
	return p.Y + b.size.Y*(p.X+b.size.X*p.Z)
}

// set writes v at voxel i, promoting the channel when needed.
func (b *Buffer) set(c *channel, raw uint64, i int) {
	v := ClampRaw(raw, c.depth)
	if !c.isDense() {
		if v == c.defval {
			return
		}
		b.promote(c)
	}
	c.codec().encode(c.data, i, v)
}

// allocate gives c fresh storage sized for the buffer, contents unspecified.
func (b *Buffer) allocate(c *channel) {
	n := BytesForVolume(b.Volume(), c.depth)
	c.data = b.alloc.Allocate(n)
	if len(c.data) != n {
		panic(fmt.Sprintf("voxel: allocator returned %d bytes, want %d", len(c.data), n))
	}
}

// promote makes c dense with every voxel set to its default value.
func (b *Buffer) promote(c *channel) {
	if c.isDense() {
		return
	}
	b.allocate(c)
	c.codec().fill(c.data, 0, b.Volume(), c.defval)
}

// demote makes c uniform with the given default value.
func (b *Buffer) demote(c *channel, defval uint64) {
	b.release(c)
	c.defval = defval
}

// release frees the dense storage of c, if any.
func (b *Buffer) release(c *channel) {
	if c.data == nil {
		return
	}
	b.checkStorage(c)
	b.alloc.Recycle(c.data)
	c.data = nil
}

// checkStorage panics if the storage size of c does not match the buffer.
func (b *Buffer) checkStorage(c *channel) {
	if want := BytesForVolume(b.Volume(), c.depth); len(c.data) != want {
		panic(fmt.Sprintf("voxel: channel storage is %d bytes, want %d", len(c.data), want))
	}
}
