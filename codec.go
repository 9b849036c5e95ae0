package voxel

import (
	"encoding/binary"
	"math"
)

// ClampRaw limits a raw value to the range representable at depth d.
func ClampRaw(raw uint64, d Depth) uint64 {
	return min(raw, d.MaxValue())
}

// RawToNormalized converts a raw voxel value to a real value.
//
// Depths below 32 bits map [0, max] symmetrically onto roughly [-1, 1];
// Depth1Bit maps 0 to -1 and 1 to +1. Depth32Bit and Depth64Bit reinterpret
// the raw bits as float32 and float64 respectively.
func RawToNormalized(raw uint64, d Depth) float64 {
	switch d {
	case Depth1Bit:
		if raw != 0 {
			return 1
		}
		return -1
	case Depth8Bit, Depth16Bit, Depth24Bit:
		h := float64(d.MaxValue() >> 1)
		return (float64(raw) - h) / h
	case Depth32Bit:
		return float64(math.Float32frombits(uint32(raw)))
	case Depth64Bit:
		return math.Float64frombits(raw)
	default:
		panic("voxel: unknown depth " + d.String())
	}
}

// NormalizedToRaw is the inverse of RawToNormalized.
// Results for depths below 32 bits are rounded and clamped to [0, max].
func NormalizedToRaw(v float64, d Depth) uint64 {
	switch d {
	case Depth1Bit:
		if v > 0 {
			return 1
		}
		return 0
	case Depth8Bit, Depth16Bit, Depth24Bit:
		h := float64(d.MaxValue() >> 1)
		r := math.Round(h*v + h)
		if r <= 0 || math.IsNaN(r) {
			return 0
		}
		return ClampRaw(uint64(min(r, float64(d.MaxValue()))), d)
	case Depth32Bit:
		return ClampRaw(uint64(math.Float32bits(float32(v))), d)
	case Depth64Bit:
		return ClampRaw(math.Float64bits(v), d)
	default:
		panic("voxel: unknown depth " + d.String())
	}
}

// BytesForVolume returns the storage size of volume voxels at depth d.
// Depth1Bit rounds up to whole bytes.
func BytesForVolume(volume int, d Depth) int {
	if bpv := d.BytesPerVoxel(); bpv > 0 {
		return volume * bpv
	}
	return (volume + 7) >> 3
}

// depthCodec reads and writes voxels of one depth inside a byte slice.
// Indices are voxel indices, not byte offsets.
type depthCodec interface {
	decode(data []byte, i int) uint64
	encode(data []byte, i int, v uint64)
	// fill writes v to count voxels starting at voxel start.
	fill(data []byte, start, count int, v uint64)
	// copyRun copies count voxels from src[srcStart:] to dst[dstStart:].
	copyRun(dst []byte, dstStart int, src []byte, srcStart, count int)
	// uniform reports whether the first volume voxels in data are equal.
	uniform(data []byte, volume int) bool
}

// laneCodec handles byte-aligned depths. Multi-byte lanes are little-endian.
type laneCodec struct {
	width int
}

// bitCodec handles Depth1Bit. Voxel i is bit i&7 of byte i>>3.
type bitCodec struct{}

var depthCodecs = [depthCount]depthCodec{
	Depth1Bit:  bitCodec{},
	Depth8Bit:  laneCodec{width: 1},
	Depth16Bit: laneCodec{width: 2},
	Depth24Bit: laneCodec{width: 3},
	Depth32Bit: laneCodec{width: 4},
	Depth64Bit: laneCodec{width: 8},
}

// codecFor returns the codec for d. It panics on unknown depths.
func codecFor(d Depth) depthCodec {
	if !d.IsValid() {
		panic("voxel: unknown depth " + d.String())
	}
	return depthCodecs[d]
}

func (c laneCodec) decode(data []byte, i int) uint64 {
	p := data[i*c.width:]
	switch c.width {
	case 1:
		return uint64(p[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(p))
	case 3:
		return uint64(p[0]) | uint64(p[1])<<8 | uint64(p[2])<<16
	case 4:
		return uint64(binary.LittleEndian.Uint32(p))
	default:
		return binary.LittleEndian.Uint64(p)
	}
}

func (c laneCodec) encode(data []byte, i int, v uint64) {
	p := data[i*c.width:]
	switch c.width {
	case 1:
		p[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(p, uint16(v))
	case 3:
		p[0] = byte(v)
		p[1] = byte(v >> 8)
		p[2] = byte(v >> 16)
	case 4:
		binary.LittleEndian.PutUint32(p, uint32(v))
	default:
		binary.LittleEndian.PutUint64(p, v)
	}
}

func (c laneCodec) fill(data []byte, start, count int, v uint64) {
	if count <= 0 {
		return
	}
	run := data[start*c.width : (start+count)*c.width]
	c.encode(run, 0, v)
	fillPattern(run, c.width)
}

func (c laneCodec) copyRun(dst []byte, dstStart int, src []byte, srcStart, count int) {
	copy(dst[dstStart*c.width:(dstStart+count)*c.width], src[srcStart*c.width:(srcStart+count)*c.width])
}

func (c laneCodec) uniform(data []byte, volume int) bool {
	n := volume * c.width
	for i := c.width; i < n; i++ {
		if data[i] != data[i-c.width] {
			return false
		}
	}
	return true
}

func (bitCodec) decode(data []byte, i int) uint64 {
	return uint64(data[i>>3]>>(i&7)) & 1
}

func (bitCodec) encode(data []byte, i int, v uint64) {
	m := byte(1) << (i & 7)
	if v != 0 {
		data[i>>3] |= m
	} else {
		data[i>>3] &^= m
	}
}

func (c bitCodec) fill(data []byte, start, count int, v uint64) {
	i, end := start, start+count
	// Leading bits up to a byte boundary.
	for ; i < end && i&7 != 0; i++ {
		c.encode(data, i, v)
	}
	if full := (end - i) >> 3; full > 0 {
		b := byte(0)
		if v != 0 {
			b = 0xff
		}
		run := data[i>>3 : (i>>3)+full]
		for j := range run {
			run[j] = b
		}
		i += full << 3
	}
	for ; i < end; i++ {
		c.encode(data, i, v)
	}
}

func (c bitCodec) copyRun(dst []byte, dstStart int, src []byte, srcStart, count int) {
	for i := range count {
		c.encode(dst, dstStart+i, c.decode(src, srcStart+i))
	}
}

// uniform compares whole bytes first; padding bits in the last byte are
// not part of the volume and are checked voxel by voxel.
func (c bitCodec) uniform(data []byte, volume int) bool {
	full := volume >> 3
	for i := 1; i < full; i++ {
		if data[i] != data[0] {
			return false
		}
	}
	if full > 0 && data[0] != 0 && data[0] != 0xff {
		return false
	}
	v0 := c.decode(data, 0)
	for i := full << 3; i < volume; i++ {
		if c.decode(data, i) != v0 {
			return false
		}
	}
	return true
}

// fillPattern replicates the first width bytes of dst across all of dst.
func fillPattern(dst []byte, width int) {
	for n := width; n < len(dst); n *= 2 {
		copy(dst[n:], dst[:n])
	}
}
