package main

import (
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/voxel"
)

// channelStats aggregates the storage state of one channel over blocks.
type channelStats struct {
	uniform    int
	dense      int
	denseBytes int
	// fullBytes is what the channel would take if every block were dense.
	fullBytes int
}

type blockStats struct {
	blocks   int
	channels [voxel.MaxChannels]channelStats
}

func (s *blockStats) add(b *voxel.Buffer) {
	s.blocks++
	for ch := range voxel.ChannelID(voxel.MaxChannels) {
		cs := &s.channels[ch]
		full, _ := b.SizeInBytes(ch)
		cs.fullBytes += full

		if c, _ := b.Compression(ch); c == voxel.CompressionUniform {
			cs.uniform++
			continue
		}
		raw, _ := b.ChannelRaw(ch)
		cs.dense++
		cs.denseBytes += len(raw)
	}
}

func (s *blockStats) totals() (dense, full int) {
	for _, cs := range s.channels {
		dense += cs.denseBytes
		full += cs.fullBytes
	}
	return dense, full
}

// print writes a per-channel table. Byte counts use English digit grouping.
func (s *blockStats) print(w io.Writer, title string) error {
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)

	p.Fprintf(tw, "%s: %d blocks\t\n", title, s.blocks)
	p.Fprintf(tw, "channel\tuniform\tdense\tbytes\tof\t\n")
	for ch := range voxel.ChannelID(voxel.MaxChannels) {
		cs := s.channels[ch]
		if cs.dense == 0 && cs.uniform == s.blocks && ch > voxel.ChannelSDF {
			continue
		}
		p.Fprintf(tw, "%v\t%d\t%d\t%d\t%d\t\n", ch, cs.uniform, cs.dense, cs.denseBytes, cs.fullBytes)
	}
	dense, full := s.totals()
	p.Fprintf(tw, "total\t\t\t%d\t%d\t\n", dense, full)
	return tw.Flush()
}
