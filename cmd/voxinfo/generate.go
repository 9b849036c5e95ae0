package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/voxel"
	"github.com/gogpu/voxel/generator"
	"github.com/gogpu/voxel/stream"
)

type terrainConfig struct {
	size    int
	workers int
	gen     *generator.Generator
}

func terrainFromContext(c *cli.Context) (terrainConfig, error) {
	cfg := terrainConfig{
		size:    c.Int(flagSize),
		workers: c.Int(flagWorkers),
	}
	if cfg.size <= 0 || cfg.size > 256 {
		return cfg, fmt.Errorf("--%s must be in [1, 256], got %d", flagSize, cfg.size)
	}

	base := c.Float64(flagBase)
	if c.Bool(flagFlat) {
		cfg.gen = generator.NewFlat(base)
	} else {
		cfg.gen = generator.NewHeightmap(base,
			generator.WithSeed(uint32(c.Uint(flagSeed))),
			generator.WithAmplitude(c.Float64(flagAmplitude)))
	}
	return cfg, nil
}

// loadBlocks generates every key through a stream loader backed by an empty
// memory stream, so each block goes through the generator fallback.
func loadBlocks(ctx context.Context, cfg terrainConfig, keys []stream.BlockKey) (map[stream.BlockKey]*voxel.Buffer, error) {
	blocks := make(map[stream.BlockKey]*voxel.Buffer, len(keys))

	l, err := stream.NewLoader(stream.NewMemoryStream(0),
		stream.WithWorkers(cfg.workers),
		stream.WithGenerator(cfg.gen),
		stream.WithBufferOptions(voxel.WithAllocator(voxel.DefaultAllocator())),
		stream.WithOutput(func(o stream.BlockDataOutput) {
			if o.Voxels != nil {
				blocks[o.Key] = o.Voxels
			}
		}))
	if err != nil {
		return nil, err
	}
	defer l.Close()

	tasks := make([]*stream.LoadTask, len(keys))
	for i, k := range keys {
		tasks[i] = &stream.LoadTask{Key: k, BlockSize: cfg.size, GenerateCacheData: true}
	}
	if err := l.Submit(ctx, tasks); err != nil {
		releaseAll(blocks)
		return nil, err
	}
	return blocks, nil
}

func releaseAll(blocks map[stream.BlockKey]*voxel.Buffer) {
	for _, b := range blocks {
		b.Release()
	}
}

// boxKeys returns the keys of a box of blocks starting at minPos.
func boxKeys(minPos, dims voxel.Vector3i, lod uint8) []stream.BlockKey {
	keys := make([]stream.BlockKey, 0, max(dims.Volume(), 0))
	for z := range dims.Z {
		for y := range dims.Y {
			for x := range dims.X {
				keys = append(keys, stream.BlockKey{Position: minPos.Add(voxel.Vec3(x, y, z)), LOD: lod})
			}
		}
	}
	return keys
}

// writePNGs writes one debug image per block, a few at a time.
func writePNGs(ctx context.Context, dir string, scale int, blocks map[stream.BlockKey]*voxel.Buffer) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for key, b := range blocks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			name := fmt.Sprintf("block_%d_%d_%d_lod%d.png", key.Position.X, key.Position.Y, key.Position.Z, key.LOD)
			f, err := os.Create(filepath.Join(dir, name))
			if err != nil {
				return err
			}
			if err := b.WriteDebugPNG(f, scale); err != nil {
				_ = f.Close()
				return fmt.Errorf("%s: %w", name, err)
			}
			return f.Close()
		})
	}
	return g.Wait()
}

func generateAction(c *cli.Context) error {
	cfg, err := terrainFromContext(c)
	if err != nil {
		return err
	}
	r := c.Int(flagRadius)
	if r <= 0 {
		return fmt.Errorf("--%s must be positive, got %d", flagRadius, r)
	}

	blocks, err := loadBlocks(c.Context, cfg, boxKeys(voxel.Splat(-r), voxel.Splat(2*r), 0))
	if err != nil {
		return err
	}
	defer releaseAll(blocks)

	var stats blockStats
	for _, b := range blocks {
		stats.add(b)
	}
	if err := stats.print(c.App.Writer, "LOD 0"); err != nil {
		return err
	}

	if dir := c.String(flagPNGDir); dir != "" {
		return writePNGs(c.Context, dir, c.Int(flagScale), blocks)
	}
	return nil
}
