package voxel

import (
	"fmt"

	"go.uber.org/multierr"
)

// DownscaleTo writes a half-resolution copy of the box [srcMin, srcMax)
// into dst starting at dstMin, for every channel.
//
// Sampling is nearest-neighbour: destination voxel p takes the source voxel
// at srcMin + (p - dstMin)*2. Channels whose depths differ are skipped and
// reported in the returned error.
func (b *Buffer) DownscaleTo(dst *Buffer, srcMin, srcMax, dstMin Vector3i) error {
	if dst == nil {
		return ErrNilBuffer
	}

	srcMin, srcMax = b.clampBox(srcMin, srcMax)
	dstMax := dstMin.Add(srcMax.Sub(srcMin).Shr(1))
	dstMin = dstMin.Clamp(Vector3i{}, dst.size)
	dstMax = dstMax.Clamp(Vector3i{}, dst.size)
	area := dstMax.Sub(dstMin)

	var err error
	for i := range b.channels {
		sc := &b.channels[i]
		dc := &dst.channels[i]

		if !sc.isDense() && !dc.isDense() && sc.defval == dc.defval {
			continue
		}
		if sc.depth != dc.depth {
			err = multierr.Append(err, fmt.Errorf("%w: channel %v is %v in source, %v in destination",
				ErrDepthMismatch, ChannelID(i), sc.depth, dc.depth))
			continue
		}
		if area.IsEmpty() {
			continue
		}

		if !sc.isDense() {
			err = multierr.Append(err, dst.FillArea(sc.defval, dstMin, dstMax, ChannelID(i)))
			continue
		}

		codec := sc.codec()
		for z := dstMin.Z; z < dstMax.Z; z++ {
			for x := dstMin.X; x < dstMax.X; x++ {
				for y := dstMin.Y; y < dstMax.Y; y++ {
					p := Vector3i{X: x, Y: y, Z: z}
					sp := srcMin.Add(p.Sub(dstMin).Shl(1))
					v := codec.decode(sc.data, b.index(sp))
					dst.set(dc, v, dst.index(p))
				}
			}
		}
	}
	return err
}
