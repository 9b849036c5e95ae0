package voxel

import "log/slog"

// IsUniform reports whether every voxel of a channel holds the same value.
// Uniform channels answer immediately; dense channels are scanned.
func (b *Buffer) IsUniform(ch ChannelID) (bool, error) {
	if err := validateChannel(ch); err != nil {
		return true, err
	}
	return b.isUniform(&b.channels[ch]), nil
}

func (b *Buffer) isUniform(c *channel) bool {
	if !c.isDense() {
		return true
	}
	b.checkStorage(c)
	return c.codec().uniform(c.data, b.Volume())
}

// Compress reverts every dense channel whose voxels all hold the same value
// to uniform, using that value as the new default.
func (b *Buffer) Compress() {
	for i := range b.channels {
		c := &b.channels[i]
		if !c.isDense() || !b.isUniform(c) {
			continue
		}
		v := c.codec().decode(c.data, 0)
		b.demote(c, v)
		Logger().Debug("voxel: channel compressed",
			slog.String("channel", ChannelID(i).String()),
			slog.Uint64("value", v))
	}
}

// Decompress forces a uniform channel to dense storage filled with its
// default value.
func (b *Buffer) Decompress(ch ChannelID) error {
	if err := validateChannel(ch); err != nil {
		return err
	}
	if b.size.IsEmpty() {
		return nil
	}
	b.promote(&b.channels[ch])
	return nil
}

// Compression reports how a channel is currently stored.
func (b *Buffer) Compression(ch ChannelID) (Compression, error) {
	if err := validateChannel(ch); err != nil {
		return CompressionNone, err
	}
	if b.channels[ch].isDense() {
		return CompressionNone, nil
	}
	return CompressionUniform, nil
}
