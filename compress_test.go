package voxel

import "testing"

func TestCompress_DecodesFullValue(t *testing.T) {
	tests := []struct {
		depth Depth
		value uint64
	}{
		{Depth1Bit, 1},
		{Depth8Bit, 0xAB},
		{Depth16Bit, 0x1234},
		{Depth24Bit, 0xABCDEF},
		{Depth32Bit, 0xDEADBEEF},
		{Depth64Bit, 0x0123456789ABCDEF},
	}

	for _, tt := range tests {
		t.Run(tt.depth.String(), func(t *testing.T) {
			b := newTestBuffer(t, Vec3(3, 3, 3), WithChannelDepth(ChannelData2, tt.depth))
			if err := b.Fill(tt.value, ChannelData2); err != nil {
				t.Fatal(err)
			}
			if err := b.Decompress(ChannelData2); err != nil {
				t.Fatal(err)
			}
			if c := mustCompression(t, b, ChannelData2); c != CompressionNone {
				t.Fatalf("Compression = %v after Decompress, want none", c)
			}

			b.Compress()

			if c := mustCompression(t, b, ChannelData2); c != CompressionUniform {
				t.Fatalf("Compression = %v after Compress, want uniform", c)
			}
			if v, _ := b.DefaultValue(ChannelData2); v != tt.value {
				t.Errorf("DefaultValue = %#x, want %#x", v, tt.value)
			}
		})
	}
}

func TestCompress_KeepsVaryingChannels(t *testing.T) {
	b := newTestBuffer(t, Splat(4))
	mustSet(t, b, 1, Vec3(1, 2, 3), ChannelType)
	mustSet(t, b, 1, Vec3(1, 2, 3), ChannelData2)
	mustSet(t, b, 0, Vec3(1, 2, 3), ChannelData2)

	b.Compress()

	if c := mustCompression(t, b, ChannelType); c != CompressionNone {
		t.Errorf("varying channel was compressed")
	}
	if c := mustCompression(t, b, ChannelData2); c != CompressionUniform {
		t.Errorf("uniform dense channel was not compressed")
	}
	if v := mustGet(t, b, Vec3(1, 2, 3), ChannelType); v != 1 {
		t.Errorf("voxel = %d, want 1", v)
	}
}

func TestDecompress(t *testing.T) {
	b := newTestBuffer(t, Splat(4), WithChannelDepth(ChannelSDF, Depth24Bit))

	if err := b.Decompress(ChannelSDF); err != nil {
		t.Fatal(err)
	}
	if !mustUniform(t, b, ChannelSDF) {
		t.Error("freshly decompressed channel should scan as uniform")
	}
	forEachVoxel(b.Size(), func(p Vector3i) {
		if v := mustGet(t, b, p, ChannelSDF); v != DefaultSDFValue {
			t.Fatalf("voxel %v = %d, want %d", p, v, DefaultSDFValue)
		}
	})

	if err := New().Decompress(ChannelSDF); err != nil {
		t.Errorf("Decompress on an unsized buffer = %v", err)
	}
}

func TestIsUniform_OneBitOddVolume(t *testing.T) {
	b := newTestBuffer(t, Splat(3), WithChannelDepth(ChannelType, Depth1Bit))

	forEachVoxel(b.Size(), func(p Vector3i) {
		mustSet(t, b, 1, p, ChannelType)
	})
	if !mustUniform(t, b, ChannelType) {
		t.Error("all-ones 27-voxel channel should be uniform")
	}

	mustSet(t, b, 0, Vec3(2, 2, 2), ChannelType)
	if mustUniform(t, b, ChannelType) {
		t.Error("channel with a cleared last voxel should not be uniform")
	}
}

func TestCompressionString(t *testing.T) {
	if CompressionNone.String() != "none" || CompressionUniform.String() != "uniform" {
		t.Error("unexpected Compression names")
	}
	if ChannelSDF.String() != "Sdf" || ChannelID(12).String() != "Channel(12)" {
		t.Error("unexpected channel names")
	}
}
