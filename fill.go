package voxel

// Fill sets every voxel of a channel to a raw value.
//
// The channel ends up uniform: dense storage, if any, is returned to the
// allocator and the value becomes the new default.
func (b *Buffer) Fill(raw uint64, ch ChannelID) error {
	if err := validateChannel(ch); err != nil {
		return err
	}
	c := &b.channels[ch]
	b.demote(c, ClampRaw(raw, c.depth))
	return nil
}

// FillF is Fill with a normalized value.
func (b *Buffer) FillF(v float64, ch ChannelID) error {
	if err := validateChannel(ch); err != nil {
		return err
	}
	return b.Fill(NormalizedToRaw(v, b.channels[ch].depth), ch)
}

// FillArea sets every voxel in the box [min, max) of a channel to a raw value.
//
// The corners are sorted and clamped to the buffer. An empty box does
// nothing. A box covering the whole buffer behaves like Fill.
func (b *Buffer) FillArea(raw uint64, minPos, maxPos Vector3i, ch ChannelID) error {
	if err := validateChannel(ch); err != nil {
		return err
	}

	minPos, maxPos = b.clampBox(minPos, maxPos)
	area := maxPos.Sub(minPos)
	if area.IsEmpty() {
		return nil
	}

	c := &b.channels[ch]
	v := ClampRaw(raw, c.depth)

	if !c.isDense() && c.defval == v {
		return nil
	}
	if area == b.size {
		b.demote(c, v)
		return nil
	}

	b.promote(c)
	b.fillBox(c, v, minPos, area)
	return nil
}

// fillBox writes v into a box already clamped to the buffer.
// c must be dense. Each (x, z) pair is one contiguous run along Y.
func (b *Buffer) fillBox(c *channel, v uint64, minPos, area Vector3i) {
	codec := c.codec()
	for z := minPos.Z; z < minPos.Z+area.Z; z++ {
		for x := minPos.X; x < minPos.X+area.X; x++ {
			start := b.index(Vector3i{X: x, Y: minPos.Y, Z: z})
			codec.fill(c.data, start, area.Y, v)
		}
	}
}

// clampBox sorts the corners of a box and clamps them to [0, size].
func (b *Buffer) clampBox(minPos, maxPos Vector3i) (Vector3i, Vector3i) {
	minPos, maxPos = SortMinMax(minPos, maxPos)
	return minPos.Clamp(Vector3i{}, b.size), maxPos.Clamp(Vector3i{}, b.size)
}
