package voxel

import (
	"bytes"
	"fmt"

	"go.uber.org/multierr"
)

// CopyChannelFrom replaces a channel with the same channel of src.
//
// Both buffers must have the same size and the same channel depth.
// A uniform source leaves the destination uniform; a dense source is
// copied byte for byte.
func (b *Buffer) CopyChannelFrom(src *Buffer, ch ChannelID) error {
	if err := validateChannel(ch); err != nil {
		return err
	}
	if src == nil {
		return ErrNilBuffer
	}
	if src.size != b.size {
		return fmt.Errorf("%w: %v vs %v", ErrSizeMismatch, src.size, b.size)
	}

	c := &b.channels[ch]
	sc := &src.channels[ch]
	if sc.depth != c.depth {
		return fmt.Errorf("%w: channel %v is %v in source, %v in destination",
			ErrDepthMismatch, ch, sc.depth, c.depth)
	}

	if sc.isDense() {
		src.checkStorage(sc)
		if !c.isDense() {
			b.allocate(c)
		}
		copy(c.data, sc.data)
	} else {
		b.release(c)
	}
	c.defval = sc.defval
	return nil
}

// CopyFrom copies every channel from src. Channels that cannot be copied
// are skipped and their errors combined.
func (b *Buffer) CopyFrom(src *Buffer) error {
	if src == nil {
		return ErrNilBuffer
	}
	var err error
	for ch := range ChannelID(MaxChannels) {
		err = multierr.Append(err, b.CopyChannelFrom(src, ch))
	}
	return err
}

// CopyRegionFrom copies the box [srcMin, srcMax) of a channel of src into
// this buffer at dstMin. The buffers may have different sizes.
//
// The source box is sorted and clamped to src, dstMin is clamped to this
// buffer, and the copied area is clipped so it stays inside both buffers.
func (b *Buffer) CopyRegionFrom(src *Buffer, srcMin, srcMax, dstMin Vector3i, ch ChannelID) error {
	if err := validateChannel(ch); err != nil {
		return err
	}
	if src == nil {
		return ErrNilBuffer
	}

	c := &b.channels[ch]
	sc := &src.channels[ch]
	if sc.depth != c.depth {
		return fmt.Errorf("%w: channel %v is %v in source, %v in destination",
			ErrDepthMismatch, ch, sc.depth, c.depth)
	}

	if !c.isDense() && !sc.isDense() && c.defval == sc.defval {
		return nil
	}

	srcMin, srcMax = src.clampBox(srcMin, srcMax)
	dstMin = dstMin.Clamp(Vector3i{}, b.size)
	area := srcMax.Sub(srcMin).Min(b.size.Sub(dstMin))
	if area.IsEmpty() {
		return nil
	}

	if area == b.size && area == src.size {
		return b.CopyChannelFrom(src, ch)
	}

	if !sc.isDense() {
		return b.FillArea(sc.defval, dstMin, dstMin.Add(area), ch)
	}

	b.promote(c)
	codec := c.codec()
	for z := range area.Z {
		for x := range area.X {
			si := src.index(Vector3i{X: srcMin.X + x, Y: srcMin.Y, Z: srcMin.Z + z})
			di := b.index(Vector3i{X: dstMin.X + x, Y: dstMin.Y, Z: dstMin.Z + z})
			codec.copyRun(c.data, di, sc.data, si, area.Y)
		}
	}
	return nil
}

// Duplicate returns a deep copy of the buffer sharing its allocator.
func (b *Buffer) Duplicate() *Buffer {
	d := New(WithAllocator(b.alloc))
	d.Create(b.size)
	for i := range d.channels {
		d.channels[i].depth = b.channels[i].depth
	}
	if err := d.CopyFrom(b); err != nil {
		panic("voxel: duplicate failed: " + err.Error())
	}
	return d
}

// Equals reports whether two buffers hold identical storage.
//
// Channels are compared by representation: a uniform channel never equals a
// dense one, even if every dense voxel holds the uniform value. Call
// Compress on both buffers first to compare logical contents.
func (b *Buffer) Equals(other *Buffer) bool {
	if other == nil || other.size != b.size {
		return false
	}
	for i := range b.channels {
		c := &b.channels[i]
		oc := &other.channels[i]
		if c.isDense() != oc.isDense() || c.depth != oc.depth {
			return false
		}
		if !c.isDense() {
			if c.defval != oc.defval {
				return false
			}
			continue
		}
		if len(c.data) != len(oc.data) {
			panic(fmt.Sprintf("voxel: equal-sized channels hold %d and %d bytes", len(c.data), len(oc.data)))
		}
		if !bytes.Equal(c.data, oc.data) {
			return false
		}
	}
	return true
}
