// Command voxinfo generates terrain blocks and reports how they are stored.
package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/gogpu/voxel"
)

const (
	flagSize      = "size"
	flagRadius    = "radius"
	flagSeed      = "seed"
	flagAmplitude = "amplitude"
	flagBase      = "base"
	flagFlat      = "flat"
	flagWorkers   = "workers"
	flagPNGDir    = "png-dir"
	flagScale     = "scale"
	flagLODs      = "lods"
	flagVerbose   = "verbose"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "voxinfo",
		Usage: "generate voxel terrain blocks and inspect their storage",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagVerbose,
				Aliases: []string{"v"},
				Usage:   "log buffer promotions and demotions",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagVerbose) {
				voxel.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
					&slog.HandlerOptions{Level: slog.LevelDebug})))
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "generate a cube of blocks and print per-channel statistics",
				Flags:  append(terrainFlags(), generateFlags()...),
				Action: generateAction,
			},
			{
				Name:   "lod",
				Usage:  "build a LOD chain by downscaling 2x2x2 groups of blocks",
				Flags:  append(terrainFlags(), lodFlags()...),
				Action: lodAction,
			},
		},
	}
}

func terrainFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  flagSize,
			Usage: "block edge length in voxels",
			Value: 16,
		},
		&cli.UintFlag{
			Name:  flagSeed,
			Usage: "terrain noise seed",
			Value: 1,
		},
		&cli.Float64Flag{
			Name:  flagAmplitude,
			Usage: "terrain height variation in voxels",
			Value: 12,
		},
		&cli.Float64Flag{
			Name:  flagBase,
			Usage: "terrain base height",
			Value: 0,
		},
		&cli.BoolFlag{
			Name:  flagFlat,
			Usage: "generate flat ground at the base height",
		},
		&cli.IntFlag{
			Name:  flagWorkers,
			Usage: "number of worker goroutines, 0 for one per CPU",
		},
	}
}

func generateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  flagRadius,
			Usage: "blocks from the origin along each axis",
			Value: 1,
		},
		&cli.StringFlag{
			Name:  flagPNGDir,
			Usage: "write a top-down SDF image per block into this directory",
		},
		&cli.IntFlag{
			Name:  flagScale,
			Usage: "debug image scale factor",
			Value: 4,
		},
	}
}

func lodFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  flagLODs,
			Usage: "number of LOD levels above LOD 0",
			Value: 2,
		},
		&cli.StringFlag{
			Name:  flagPNGDir,
			Usage: "write a top-down SDF image per LOD into this directory",
		},
		&cli.IntFlag{
			Name:  flagScale,
			Usage: "debug image scale factor",
			Value: 4,
		},
	}
}
