package voxel

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// DebugSDFTopDown renders a top-down height map of the SDF channel.
//
// Each pixel (x, z) scans its column from the top and stops at the first
// voxel with a negative signed distance. The grey level is that voxel's
// height relative to the buffer height; columns with no solid voxel are black.
func (b *Buffer) DebugSDFTopDown() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, b.size.X, b.size.Z))
	if b.size.IsEmpty() {
		return img
	}

	c := &b.channels[ChannelSDF]
	for z := range b.size.Z {
		for x := range b.size.X {
			h := -1
			for y := b.size.Y - 1; y >= 0; y-- {
				raw := c.get(b.index(Vector3i{X: x, Y: y, Z: z}))
				if RawToNormalized(raw, c.depth) < 0 {
					h = y
					break
				}
			}
			var g uint8
			if h >= 0 {
				g = uint8(255 * (h + 1) / b.size.Y)
			}
			img.SetGray(x, z, color.Gray{Y: g})
		}
	}
	return img
}

// DebugSDFTopDownScaled is DebugSDFTopDown enlarged by an integer factor
// with nearest-neighbour sampling, so small blocks stay legible.
func (b *Buffer) DebugSDFTopDownScaled(scale int) *image.Gray {
	src := b.DebugSDFTopDown()
	if scale <= 1 {
		return src
	}
	bounds := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx()*scale, bounds.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	return dst
}

// WriteDebugPNG encodes the scaled top-down SDF image as PNG.
func (b *Buffer) WriteDebugPNG(w io.Writer, scale int) error {
	return png.Encode(w, b.DebugSDFTopDownScaled(scale))
}
