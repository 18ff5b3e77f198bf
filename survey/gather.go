package survey

import "github.com/njwilson23/radar-tools/metadata"

// Gather is one assembled radar line: the dense array plus everything
// needed to interpret it. It is built fresh on a cache miss or decoded
// whole from a cache entry, and is not mutated by this package; trace
// processing belongs to the analysis layer.
type Gather struct {
	// Arr holds the samples: Rows = samples, Cols = traces in location
	// order, short traces zero-padded.
	Arr *Array

	// StorePath is the survey container the line came from.
	StorePath string

	// Line is the extracted line number.
	Line int

	// Channels is the channel spec the selection used.
	Channels ChannelSpec

	// SampleCounts holds each trace's unpadded length, column-aligned
	// with Arr.
	SampleCounts []int

	// Records carries the per-trace metadata that parsed cleanly, keyed
	// by FID.
	Records *metadata.RecordList

	// Retain is this line's retention view. On a fresh extraction it
	// writes through to the survey, so marking a location bad here drops
	// it from the next filtered rewrite; a cache-decoded gather carries a
	// detached snapshot instead.
	Retain *LineRetention
}

// NumTraces returns the number of assembled traces.
func (g *Gather) NumTraces() int {
	if g.Arr == nil {
		return 0
	}
	return g.Arr.Cols
}

// NumSamples returns the padded sample count.
func (g *Gather) NumSamples() int {
	if g.Arr == nil {
		return 0
	}
	return g.Arr.Rows
}
