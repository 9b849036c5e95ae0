// Package generator produces terrain blocks procedurally.
//
// Terrain is a height field: the signed distance of a voxel is its height
// above the terrain surface divided by a falloff distance, clamped to
// [-1, 1]. Voxels below the surface get a solid material type.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/gogpu/voxel"
)

// Material types written to voxel.ChannelType.
const (
	TypeAir   uint64 = 0
	TypeSolid uint64 = 1
)

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the noise seed. Only heightmap terrain uses it.
func WithSeed(seed uint32) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithAmplitude sets the height variation of heightmap terrain in voxels.
func WithAmplitude(a float64) Option {
	return func(g *Generator) {
		g.amplitude = a
	}
}

// WithFrequency sets the horizontal frequency of heightmap terrain in
// features per voxel.
func WithFrequency(f float64) Option {
	return func(g *Generator) {
		if f > 0 {
			g.frequency = f
		}
	}
}

// WithOctaves sets the number of noise octaves of heightmap terrain.
func WithOctaves(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.octaves = n
		}
	}
}

// WithFalloff sets the distance in voxels over which the signed distance
// goes from 0 at the surface to 1.
func WithFalloff(d float64) Option {
	return func(g *Generator) {
		if d > 0 {
			g.falloff = d
		}
	}
}

// Generator is a height field terrain generator. It is safe for
// concurrent use; GenerateBlock only writes to the buffer it is given.
type Generator struct {
	base      float64
	amplitude float64
	frequency float64
	octaves   int
	falloff   float64
	seed      uint32
}

func newGenerator(base float64, opts []Option) *Generator {
	g := &Generator{
		base:      base,
		frequency: 1.0 / 64,
		octaves:   4,
		falloff:   4,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewFlat returns a generator for a flat ground at the given height.
func NewFlat(height float64, opts ...Option) *Generator {
	g := newGenerator(height, opts)
	g.amplitude = 0
	return g
}

// NewHeightmap returns a generator for noise terrain around base height.
// The default amplitude is 16 voxels.
func NewHeightmap(base float64, opts ...Option) *Generator {
	return newGenerator(base, append([]Option{WithAmplitude(16)}, opts...))
}

// HeightAt returns the terrain height at a world column.
func (g *Generator) HeightAt(x, z float64) float64 {
	if g.amplitude == 0 {
		return g.base
	}
	n := fbm2(g.seed, x*g.frequency, z*g.frequency, g.octaves)
	return g.base + (n*2-1)*g.amplitude
}

// heightRange bounds HeightAt over all columns.
func (g *Generator) heightRange() (lo, hi float64) {
	return g.base - math.Abs(g.amplitude), g.base + math.Abs(g.amplitude)
}

// GenerateBlock writes terrain into buf. Voxel (x, y, z) of the buffer
// covers world position origin + (x, y, z) << lod.
func (g *Generator) GenerateBlock(ctx context.Context, buf *voxel.Buffer, origin voxel.Vector3i, lod uint8) error {
	if buf == nil {
		return voxel.ErrNilBuffer
	}
	size := buf.Size()
	if size.IsEmpty() {
		return nil
	}
	stride := 1 << lod

	bottom := float64(origin.Y)
	top := float64(origin.Y + (size.Y-1)*stride)
	lo, hi := g.heightRange()

	// Blocks far from the surface are uniform.
	switch {
	case bottom-hi >= g.falloff:
		return g.fillUniform(buf, 1, TypeAir)
	case lo-top >= g.falloff:
		return g.fillUniform(buf, -1, TypeSolid)
	}

	if err := buf.Fill(TypeAir, voxel.ChannelType); err != nil {
		return err
	}
	if err := buf.FillF(1, voxel.ChannelSDF); err != nil {
		return err
	}

	for z := range size.Z {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("generator: block at %v: %w", origin, err)
		}
		for x := range size.X {
			wx := float64(origin.X + x*stride)
			wz := float64(origin.Z + z*stride)
			h := g.HeightAt(wx, wz)

			// Solid voxels are those whose world y is below h.
			solid := int(math.Ceil((h - bottom) / float64(stride)))
			solid = min(max(solid, 0), size.Y)
			if solid > 0 {
				err := buf.FillArea(TypeSolid, voxel.Vec3(x, 0, z), voxel.Vec3(x+1, solid, z+1), voxel.ChannelType)
				if err != nil {
					return err
				}
			}

			for y := range size.Y {
				wy := bottom + float64(y*stride)
				d := (wy - h) / g.falloff
				if d >= 1 {
					break
				}
				if err := buf.SetF(max(d, -1), voxel.Vec3(x, y, z), voxel.ChannelSDF); err != nil {
					return err
				}
			}
		}
	}

	buf.Compress()

	voxel.Logger().Debug("generated block",
		slog.String("origin", origin.String()),
		slog.Int("lod", int(lod)))
	return nil
}

func (g *Generator) fillUniform(buf *voxel.Buffer, sdf float64, typ uint64) error {
	if err := buf.FillF(sdf, voxel.ChannelSDF); err != nil {
		return err
	}
	return buf.Fill(typ, voxel.ChannelType)
}
