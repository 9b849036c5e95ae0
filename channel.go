package voxel

import "fmt"

// ChannelID identifies one of the fixed channel slots of a Buffer.
type ChannelID int

const (
	// ChannelType holds material or block type identifiers.
	ChannelType ChannelID = iota

	// ChannelSDF holds signed distance values.
	ChannelSDF

	// ChannelData2 through ChannelData7 are generic data lanes.
	ChannelData2
	ChannelData3
	ChannelData4
	ChannelData5
	ChannelData6
	ChannelData7

	// MaxChannels is the number of channel slots in a Buffer.
	MaxChannels = 8
)

// DefaultSDFValue is the raw default of ChannelSDF, meaning "outside".
const DefaultSDFValue = 255

var channelNames = [MaxChannels]string{
	"Type", "Sdf", "Data2", "Data3", "Data4", "Data5", "Data6", "Data7",
}

// IsValid reports whether ch is in [0, MaxChannels).
func (ch ChannelID) IsValid() bool {
	return ch >= 0 && ch < MaxChannels
}

// String returns the role name of the channel.
func (ch ChannelID) String() string {
	if !ch.IsValid() {
		return fmt.Sprintf("Channel(%d)", int(ch))
	}
	return channelNames[ch]
}

// Compression describes how a channel is stored.
type Compression uint8

const (
	// CompressionNone means the channel has dense per-voxel storage.
	CompressionNone Compression = iota

	// CompressionUniform means every voxel reads the channel default value
	// and no storage is allocated.
	CompressionUniform
)

// String returns a human-readable name for the compression state.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionUniform:
		return "uniform"
	default:
		return fmt.Sprintf("Compression(%d)", c)
	}
}

// channel is one voxel data plane.
//
// A channel is uniform when data is nil and dense otherwise; there is no
// other state. All transitions go through Buffer.promote, Buffer.demote and
// Buffer.allocate so the allocator always sees matching sizes.
type channel struct {
	depth  Depth
	defval uint64
	data   []byte
}

func (c *channel) isDense() bool {
	return c.data != nil
}

func (c *channel) codec() depthCodec {
	return codecFor(c.depth)
}

// get returns the raw value of voxel i without bounds checks.
func (c *channel) get(i int) uint64 {
	if c.data == nil {
		return c.defval
	}
	return c.codec().decode(c.data, i)
}

func validateChannel(ch ChannelID) error {
	if !ch.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, int(ch))
	}
	return nil
}
