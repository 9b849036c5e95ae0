package voxel

import "fmt"

// Depth is the bit width used to encode one voxel value within a channel.
type Depth uint8

const (
	// Depth1Bit packs eight voxels per byte. Values are 0 or 1.
	Depth1Bit Depth = iota

	// Depth8Bit stores one byte per voxel.
	Depth8Bit

	// Depth16Bit stores two bytes per voxel.
	Depth16Bit

	// Depth24Bit stores three bytes per voxel, least significant byte first.
	Depth24Bit

	// Depth32Bit stores four bytes per voxel.
	// Normalized accessors reinterpret the raw value as a float32.
	Depth32Bit

	// Depth64Bit stores eight bytes per voxel.
	// Normalized accessors reinterpret the raw value as a float64.
	Depth64Bit

	// depthCount is the number of depths (for internal use).
	depthCount
)

// DepthInfo contains metadata about a depth.
type DepthInfo struct {
	// Bits is the number of bits per voxel.
	Bits int

	// BytesPerVoxel is the number of bytes per voxel, or 0 for packed depths.
	BytesPerVoxel int

	// MaxValue is the largest raw value the depth can hold.
	MaxValue uint64

	// IsFloat indicates that normalized values are stored as IEEE-754 bits.
	IsFloat bool
}

var depthInfoTable = [depthCount]DepthInfo{
	Depth1Bit:  {Bits: 1, BytesPerVoxel: 0, MaxValue: 1},
	Depth8Bit:  {Bits: 8, BytesPerVoxel: 1, MaxValue: 0xff},
	Depth16Bit: {Bits: 16, BytesPerVoxel: 2, MaxValue: 0xffff},
	Depth24Bit: {Bits: 24, BytesPerVoxel: 3, MaxValue: 0xffffff},
	Depth32Bit: {Bits: 32, BytesPerVoxel: 4, MaxValue: 0xffffffff, IsFloat: true},
	Depth64Bit: {Bits: 64, BytesPerVoxel: 8, MaxValue: 0xffffffffffffffff, IsFloat: true},
}

// IsValid reports whether d is one of the known depths.
func (d Depth) IsValid() bool {
	return d < depthCount
}

// Info returns the DepthInfo for d.
// It panics if d is not a known depth.
func (d Depth) Info() DepthInfo {
	if !d.IsValid() {
		panic(fmt.Sprintf("voxel: unknown depth %d", d))
	}
	return depthInfoTable[d]
}

// Bits returns the number of bits per voxel.
func (d Depth) Bits() int {
	return d.Info().Bits
}

// BytesPerVoxel returns the storage size of one voxel in bytes.
// Returns 0 for Depth1Bit, which is bit-packed.
func (d Depth) BytesPerVoxel() int {
	return d.Info().BytesPerVoxel
}

// MaxValue returns the largest raw value representable at this depth.
func (d Depth) MaxValue() uint64 {
	return d.Info().MaxValue
}

// IsFloat reports whether normalized values are bit-cast floats.
func (d Depth) IsFloat() bool {
	return d.Info().IsFloat
}

// IsByteAligned reports whether a voxel occupies a whole number of bytes.
func (d Depth) IsByteAligned() bool {
	return d.BytesPerVoxel() > 0
}

// String returns a human-readable name for the depth.
func (d Depth) String() string {
	switch d {
	case Depth1Bit:
		return "1bit"
	case Depth8Bit:
		return "8bit"
	case Depth16Bit:
		return "16bit"
	case Depth24Bit:
		return "24bit"
	case Depth32Bit:
		return "32bit"
	case Depth64Bit:
		return "64bit"
	default:
		return fmt.Sprintf("Depth(%d)", d)
	}
}

// ParseDepth converts a bit count (1, 8, 16, 24, 32 or 64) to a Depth.
func ParseDepth(bits int) (Depth, error) {
	for d := range depthCount {
		if depthInfoTable[d].Bits == bits {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %d bits", ErrInvalidDepth, bits)
}
