package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/voxel"
	"github.com/gogpu/voxel/stream"
)

// downscaleLevel builds the blocks of the next LOD. Each parent block is
// assembled from its eight children, each shrunk into one octant.
func downscaleLevel(ctx context.Context, children map[stream.BlockKey]*voxel.Buffer, size int, lod uint8) (map[stream.BlockKey]*voxel.Buffer, error) {
	parents := make(map[stream.BlockKey]*voxel.Buffer)
	for key := range children {
		pk := stream.BlockKey{Position: key.Position.Shr(1), LOD: lod}
		if _, ok := parents[pk]; !ok {
			parents[pk] = voxel.NewWithSize(voxel.Splat(size), voxel.WithAllocator(voxel.DefaultAllocator()))
		}
	}

	half := size / 2
	g, ctx := errgroup.WithContext(ctx)
	for pk, dst := range parents {
		g.Go(func() error {
			for o := range 8 {
				octant := voxel.Vec3(o&1, (o>>1)&1, (o>>2)&1)
				ck := stream.BlockKey{Position: pk.Position.Shl(1).Add(octant), LOD: lod - 1}
				src, ok := children[ck]
				if !ok {
					continue
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				err := src.DownscaleTo(dst, voxel.Vec3(0, 0, 0), src.Size(), octant.Mul(half))
				if err != nil {
					return fmt.Errorf("downscale %v into %v: %w", ck, pk, err)
				}
			}
			dst.Compress()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		releaseAll(parents)
		return nil, err
	}
	return parents, nil
}

func lodAction(c *cli.Context) error {
	cfg, err := terrainFromContext(c)
	if err != nil {
		return err
	}
	if cfg.size%2 != 0 {
		return fmt.Errorf("--%s must be even to build LODs, got %d", flagSize, cfg.size)
	}
	lods := c.Int(flagLODs)
	if lods <= 0 || lods > 6 {
		return fmt.Errorf("--%s must be in [1, 6], got %d", flagLODs, lods)
	}

	// Two columns of n³ blocks, one above and one below y = 0, so the top
	// level ends with two blocks stacked around the base height.
	n := 1 << lods
	level, err := loadBlocks(c.Context, cfg, boxKeys(voxel.Vec3(0, -n, 0), voxel.Vec3(n, 2*n, n), 0))
	if err != nil {
		return err
	}

	var top map[stream.BlockKey]*voxel.Buffer
	for lod := range uint8(lods + 1) {
		var stats blockStats
		for _, b := range level {
			stats.add(b)
		}
		if err := stats.print(c.App.Writer, fmt.Sprintf("LOD %d", lod)); err != nil {
			releaseAll(level)
			return err
		}
		if int(lod) == lods {
			top = level
			break
		}

		next, err := downscaleLevel(c.Context, level, cfg.size, lod+1)
		releaseAll(level)
		if err != nil {
			return err
		}
		level = next
	}
	defer releaseAll(top)

	if dir := c.String(flagPNGDir); dir != "" {
		return writePNGs(c.Context, dir, c.Int(flagScale), top)
	}
	return nil
}
