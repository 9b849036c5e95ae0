package voxel

import "testing"

func TestFill_UniformChannel(t *testing.T) {
	alloc := &countingAllocator{}
	b := NewWithSize(Splat(8), WithAllocator(alloc))

	if err := b.Fill(12, ChannelType); err != nil {
		t.Fatal(err)
	}
	if alloc.allocs != 0 {
		t.Errorf("Fill on a uniform channel allocated %d times", alloc.allocs)
	}
	if v := mustGet(t, b, Vec3(3, 3, 3), ChannelType); v != 12 {
		t.Errorf("voxel = %d, want 12", v)
	}
}

func TestFill_DenseChannelRecyclesStorage(t *testing.T) {
	for _, d := range allDepths {
		t.Run(d.String(), func(t *testing.T) {
			alloc := &countingAllocator{}
			b := NewWithSize(Splat(8), WithAllocator(alloc), WithChannelDepth(ChannelData2, d))

			for i := range 3 {
				mustSet(t, b, 1, Vec3(i, i, i), ChannelData2)
				if err := b.Fill(ClampRaw(0x55, d), ChannelData2); err != nil {
					t.Fatal(err)
				}
				if alloc.Outstanding() != 0 {
					t.Fatalf("round %d: outstanding = %d after Fill, want 0", i, alloc.Outstanding())
				}
			}

			if !mustUniform(t, b, ChannelData2) {
				t.Error("IsUniform = false after Fill")
			}
			if raw, _ := b.ChannelRaw(ChannelData2); raw != nil {
				t.Error("Fill should leave no dense storage")
			}
			if v := mustGet(t, b, Vec3(7, 0, 7), ChannelData2); v != ClampRaw(0x55, d) {
				t.Errorf("voxel = %#x, want %#x", v, ClampRaw(0x55, d))
			}
		})
	}
}

func TestFillF(t *testing.T) {
	b := newTestBuffer(t, Splat(4), WithChannelDepth(ChannelSDF, Depth32Bit))

	if err := b.FillF(-0.5, ChannelSDF); err != nil {
		t.Fatal(err)
	}
	if f, _ := b.GetF(Vec3(1, 2, 3), ChannelSDF); f != -0.5 {
		t.Errorf("GetF = %v, want -0.5", f)
	}
}

func TestFillArea_SubBox(t *testing.T) {
	for _, d := range allDepths {
		t.Run(d.String(), func(t *testing.T) {
			size := Vec3(7, 9, 5)
			b := newTestBuffer(t, size, WithChannelDepth(ChannelData5, d))
			minPos, maxPos := Vec3(1, 2, 0), Vec3(5, 8, 3)
			v := ClampRaw(0xDEADBEEFCAFE, d)

			if err := b.FillArea(v, minPos, maxPos, ChannelData5); err != nil {
				t.Fatal(err)
			}

			forEachVoxel(size, func(p Vector3i) {
				want := uint64(0)
				if p.X >= 1 && p.X < 5 && p.Y >= 2 && p.Y < 8 && p.Z < 3 {
					want = v
				}
				if got := mustGet(t, b, p, ChannelData5); got != want {
					t.Fatalf("voxel %v = %#x, want %#x", p, got, want)
				}
			})
		})
	}
}

func TestFillArea_OverwritesDenseChannel(t *testing.T) {
	b := newTestBuffer(t, Splat(4), WithChannelDepth(ChannelData2, Depth16Bit))
	forEachVoxel(b.Size(), func(p Vector3i) {
		mustSet(t, b, uint64(p.X+p.Y+p.Z+1), p, ChannelData2)
	})

	if err := b.FillArea(0, Vec3(0, 0, 0), Vec3(2, 4, 4), ChannelData2); err != nil {
		t.Fatal(err)
	}

	forEachVoxel(b.Size(), func(p Vector3i) {
		want := uint64(p.X + p.Y + p.Z + 1)
		if p.X < 2 {
			want = 0
		}
		if got := mustGet(t, b, p, ChannelData2); got != want {
			t.Fatalf("voxel %v = %d, want %d", p, got, want)
		}
	})
}

func TestFillArea_SortsAndClamps(t *testing.T) {
	b := newTestBuffer(t, Splat(4))

	if err := b.FillArea(9, Vec3(10, 3, -5), Vec3(2, -1, 1), ChannelType); err != nil {
		t.Fatal(err)
	}

	forEachVoxel(b.Size(), func(p Vector3i) {
		want := uint64(0)
		if p.X >= 2 && p.Y < 3 && p.Z < 1 {
			want = 9
		}
		if got := mustGet(t, b, p, ChannelType); got != want {
			t.Fatalf("voxel %v = %d, want %d", p, got, want)
		}
	})
}

func TestFillArea_NoOps(t *testing.T) {
	alloc := &countingAllocator{}
	b := NewWithSize(Splat(4), WithAllocator(alloc))

	tests := []struct {
		name     string
		v        uint64
		min, max Vector3i
	}{
		{"empty box", 5, Vec3(1, 1, 1), Vec3(1, 3, 3)},
		{"outside buffer", 5, Vec3(6, 6, 6), Vec3(9, 9, 9)},
		{"same as default", 0, Vec3(0, 0, 0), Vec3(2, 2, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := b.FillArea(tt.v, tt.min, tt.max, ChannelType); err != nil {
				t.Fatal(err)
			}
			if c := mustCompression(t, b, ChannelType); c != CompressionUniform {
				t.Errorf("Compression = %v, want uniform", c)
			}
		})
	}
	if alloc.allocs != 0 {
		t.Errorf("no-op fills allocated %d times", alloc.allocs)
	}
}

func TestFillArea_WholeExtentEqualsFill(t *testing.T) {
	for _, d := range allDepths {
		t.Run(d.String(), func(t *testing.T) {
			a := newTestBuffer(t, Vec3(5, 6, 7), WithChannelDepth(ChannelData3, d))
			b := newTestBuffer(t, Vec3(5, 6, 7), WithChannelDepth(ChannelData3, d))
			mustSet(t, a, 1, Vec3(1, 1, 1), ChannelData3)
			mustSet(t, b, 1, Vec3(2, 2, 2), ChannelData3)

			if err := a.FillArea(3, Vec3(0, 0, 0), a.Size(), ChannelData3); err != nil {
				t.Fatal(err)
			}
			if err := b.Fill(3, ChannelData3); err != nil {
				t.Fatal(err)
			}

			if !a.Equals(b) {
				t.Error("FillArea over the whole extent differs from Fill")
			}
		})
	}
}
