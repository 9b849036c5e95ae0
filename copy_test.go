package voxel

import (
	"errors"
	"testing"

	"go.uber.org/multierr"
)

// pattern returns a position-dependent value that fits in 8 bits.
func pattern(p Vector3i) uint64 {
	return uint64(1 + p.X + 7*p.Y + 31*p.Z) & 0xff
}

func fillPattern3D(t testing.TB, b *Buffer, ch ChannelID) {
	t.Helper()
	d, _ := b.ChannelDepth(ch)
	forEachVoxel(b.Size(), func(p Vector3i) {
		mustSet(t, b, ClampRaw(pattern(p), d), p, ch)
	})
}

func TestCopyChannelFrom(t *testing.T) {
	src := newTestBuffer(t, Splat(6), WithChannelDepth(ChannelData2, Depth24Bit))
	dst := newTestBuffer(t, Splat(6), WithChannelDepth(ChannelData2, Depth24Bit))
	fillPattern3D(t, src, ChannelData2)
	fillPattern3D(t, dst, ChannelType)

	if err := dst.CopyChannelFrom(src, ChannelData2); err != nil {
		t.Fatal(err)
	}
	if err := dst.CopyChannelFrom(src, ChannelType); err != nil {
		t.Fatal(err)
	}

	if c := mustCompression(t, dst, ChannelType); c != CompressionUniform {
		t.Errorf("copying a uniform channel should free destination storage, got %v", c)
	}
	if !dst.Equals(src) {
		t.Error("buffers differ after copying every changed channel")
	}
}

func TestCopyChannelFrom_Errors(t *testing.T) {
	a := newTestBuffer(t, Splat(4))
	b := newTestBuffer(t, Splat(5))
	c := newTestBuffer(t, Splat(4), WithChannelDepth(ChannelType, Depth16Bit))

	if err := a.CopyChannelFrom(b, ChannelType); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("size mismatch: err = %v", err)
	}
	if err := a.CopyChannelFrom(c, ChannelType); !errors.Is(err, ErrDepthMismatch) {
		t.Errorf("depth mismatch: err = %v", err)
	}
	if err := a.CopyChannelFrom(nil, ChannelType); !errors.Is(err, ErrNilBuffer) {
		t.Errorf("nil source: err = %v", err)
	}
}

func TestCopyFrom_AggregatesErrors(t *testing.T) {
	src := newTestBuffer(t, Splat(4),
		WithChannelDepth(ChannelType, Depth16Bit),
		WithChannelDepth(ChannelData7, Depth1Bit))
	dst := newTestBuffer(t, Splat(4))
	fillPattern3D(t, src, ChannelData3)

	err := dst.CopyFrom(src)
	if got := len(multierr.Errors(err)); got != 2 {
		t.Fatalf("got %d errors (%v), want 2", got, err)
	}
	if !errors.Is(err, ErrDepthMismatch) {
		t.Errorf("err = %v, want ErrDepthMismatch", err)
	}

	forEachVoxel(dst.Size(), func(p Vector3i) {
		if got := mustGet(t, dst, p, ChannelData3); got != pattern(p) {
			t.Fatalf("voxel %v = %d, want %d", p, got, pattern(p))
		}
	})
}

func TestCopyFrom_Equals(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, b *Buffer)
	}{
		{"all uniform", func(t *testing.T, b *Buffer) {
			for ch := range ChannelID(MaxChannels) {
				_ = b.Fill(uint64(ch)*3, ch)
			}
		}},
		{"all dense", func(t *testing.T, b *Buffer) {
			for ch := range ChannelID(MaxChannels) {
				fillPattern3D(t, b, ch)
				_ = b.Decompress(ch)
			}
		}},
		{"mixed", func(t *testing.T, b *Buffer) {
			fillPattern3D(t, b, ChannelSDF)
			_ = b.Fill(4, ChannelData4)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newTestBuffer(t, Vec3(3, 4, 5))
			dst := newTestBuffer(t, Vec3(3, 4, 5))
			tt.setup(t, src)
			fillPattern3D(t, dst, ChannelData4)

			if err := dst.CopyFrom(src); err != nil {
				t.Fatal(err)
			}
			if !dst.Equals(src) {
				t.Error("Equals = false after CopyFrom")
			}
		})
	}
}

func TestDuplicate(t *testing.T) {
	alloc := &countingAllocator{}
	b := NewWithSize(Vec3(4, 5, 6), WithAllocator(alloc),
		WithChannelDepth(ChannelSDF, Depth32Bit),
		WithChannelDepth(ChannelData6, Depth1Bit))
	fillPattern3D(t, b, ChannelData6)
	if err := b.SetF(-2.5, Vec3(1, 1, 1), ChannelSDF); err != nil {
		t.Fatal(err)
	}
	_ = b.Fill(17, ChannelType)

	d := b.Duplicate()

	if !d.Equals(b) {
		t.Fatal("Duplicate() does not equal the original")
	}
	if d.Allocator() != Allocator(alloc) {
		t.Error("Duplicate() should share the allocator")
	}

	mustSet(t, d, 0, Vec3(0, 0, 0), ChannelData6)
	mustSet(t, d, 0, Vec3(0, 1, 0), ChannelData6)
	if d.Equals(b) {
		t.Error("Duplicate() shares storage with the original")
	}
}

func TestEquals_RepresentationSensitive(t *testing.T) {
	a := newTestBuffer(t, Splat(4))
	b := newTestBuffer(t, Splat(4))

	if err := a.Decompress(ChannelType); err != nil {
		t.Fatal(err)
	}
	if a.Equals(b) {
		t.Error("dense and uniform channels should compare unequal")
	}

	a.Compress()
	if !a.Equals(b) {
		t.Error("buffers should be equal after compression")
	}

	if a.Equals(nil) {
		t.Error("Equals(nil) = true")
	}
	if a.Equals(newTestBuffer(t, Splat(5))) {
		t.Error("buffers of different sizes compared equal")
	}
	if a.Equals(newTestBuffer(t, Splat(4), WithChannelDepth(ChannelData2, Depth16Bit))) {
		t.Error("buffers with different depths compared equal")
	}
}

func TestCopyRegionFrom_UniformSource(t *testing.T) {
	src := newTestBuffer(t, Splat(8), WithDefaultValue(ChannelData2, 5))
	dst := newTestBuffer(t, Splat(8), WithDefaultValue(ChannelData2, 7))

	if err := dst.CopyRegionFrom(src, Vec3(0, 0, 0), Splat(4), Splat(2), ChannelData2); err != nil {
		t.Fatal(err)
	}

	forEachVoxel(dst.Size(), func(p Vector3i) {
		want := uint64(7)
		if p.X >= 2 && p.X < 6 && p.Y >= 2 && p.Y < 6 && p.Z >= 2 && p.Z < 6 {
			want = 5
		}
		if got := mustGet(t, dst, p, ChannelData2); got != want {
			t.Fatalf("voxel %v = %d, want %d", p, got, want)
		}
	})
}

func TestCopyRegionFrom_UniformSourceIntoDense(t *testing.T) {
	src := newTestBuffer(t, Splat(4))
	dst := newTestBuffer(t, Splat(4))
	fillPattern3D(t, dst, ChannelType)

	// The source default equals the destination default, but the
	// destination holds other values in the box.
	if err := dst.CopyRegionFrom(src, Vec3(0, 0, 0), Splat(2), Vec3(0, 0, 0), ChannelType); err != nil {
		t.Fatal(err)
	}

	forEachVoxel(dst.Size(), func(p Vector3i) {
		want := pattern(p)
		if p.X < 2 && p.Y < 2 && p.Z < 2 {
			want = 0
		}
		if got := mustGet(t, dst, p, ChannelType); got != want {
			t.Fatalf("voxel %v = %d, want %d", p, got, want)
		}
	})
}

func TestCopyRegionFrom_DenseSource(t *testing.T) {
	for _, d := range allDepths {
		t.Run(d.String(), func(t *testing.T) {
			src := newTestBuffer(t, Vec3(6, 7, 8), WithChannelDepth(ChannelData3, d))
			dst := newTestBuffer(t, Splat(10), WithChannelDepth(ChannelData3, d),
				WithDefaultValue(ChannelData3, 1))
			fillPattern3D(t, src, ChannelData3)

			srcMin, srcMax, dstMin := Vec3(1, 1, 1), Vec3(5, 6, 7), Vec3(3, 2, 1)
			if err := dst.CopyRegionFrom(src, srcMax, srcMin, dstMin, ChannelData3); err != nil {
				t.Fatal(err)
			}

			area := srcMax.Sub(srcMin)
			forEachVoxel(dst.Size(), func(p Vector3i) {
				want := ClampRaw(1, d)
				rel := p.Sub(dstMin)
				if area.Contains(rel) {
					want = ClampRaw(pattern(srcMin.Add(rel)), d)
				}
				if got := mustGet(t, dst, p, ChannelData3); got != want {
					t.Fatalf("voxel %v = %d, want %d", p, got, want)
				}
			})
		})
	}
}

func TestCopyRegionFrom_ClipsToDestination(t *testing.T) {
	src := newTestBuffer(t, Splat(8))
	dst := newTestBuffer(t, Splat(4))
	fillPattern3D(t, src, ChannelType)

	if err := dst.CopyRegionFrom(src, Vec3(0, 0, 0), Splat(8), Vec3(2, 1, 3), ChannelType); err != nil {
		t.Fatal(err)
	}

	forEachVoxel(dst.Size(), func(p Vector3i) {
		want := uint64(0)
		if p.X >= 2 && p.Y >= 1 && p.Z >= 3 {
			want = pattern(p.Sub(Vec3(2, 1, 3)))
		}
		if got := mustGet(t, dst, p, ChannelType); got != want {
			t.Fatalf("voxel %v = %d, want %d", p, got, want)
		}
	})
}

func TestCopyRegionFrom_WholeExtent(t *testing.T) {
	src := newTestBuffer(t, Splat(4))
	dst := newTestBuffer(t, Splat(4))
	fillPattern3D(t, src, ChannelData2)

	if err := dst.CopyRegionFrom(src, Vec3(-3, -3, -3), Splat(9), Vec3(0, 0, 0), ChannelData2); err != nil {
		t.Fatal(err)
	}
	if !dst.Equals(src) {
		t.Error("whole-extent region copy should match a channel copy")
	}
}

func TestCopyRegionFrom_BothUniformEqual(t *testing.T) {
	alloc := &countingAllocator{}
	src := NewWithSize(Splat(4), WithAllocator(alloc))
	dst := NewWithSize(Splat(4), WithAllocator(alloc))

	if err := dst.CopyRegionFrom(src, Vec3(0, 0, 0), Splat(2), Vec3(1, 1, 1), ChannelSDF); err != nil {
		t.Fatal(err)
	}
	if alloc.allocs != 0 {
		t.Error("copy between equal uniform channels should not allocate")
	}
}

func TestCopyRegionFrom_DepthMismatch(t *testing.T) {
	src := newTestBuffer(t, Splat(4), WithChannelDepth(ChannelType, Depth64Bit))
	dst := newTestBuffer(t, Splat(4))

	err := dst.CopyRegionFrom(src, Vec3(0, 0, 0), Splat(2), Vec3(0, 0, 0), ChannelType)
	if !errors.Is(err, ErrDepthMismatch) {
		t.Errorf("err = %v, want ErrDepthMismatch", err)
	}
}
