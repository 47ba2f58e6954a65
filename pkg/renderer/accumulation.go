package renderer

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-progressive-integrator/pkg/core"
)

// AccumulationCell holds the running radiance sum of one pixel
type AccumulationCell struct {
	Sum   core.Vec3 // Linear, unclamped radiance sum
	Count int       // Samples merged since the last reset
}

// AddSample adds a new radiance sample to the cell
func (c *AccumulationCell) AddSample(sample core.Vec3) {
	c.Sum = c.Sum.Add(sample)
	c.Count++
}

// Mean returns the current average radiance for this cell
func (c *AccumulationCell) Mean() core.Vec3 {
	if c.Count == 0 {
		return core.Vec3{}
	}
	return c.Sum.Multiply(1.0 / float64(c.Count))
}

// AccumulationBuffer is the per-pixel running mean of a progressive session.
// Memory is one cell per pixel regardless of how many frames are merged.
//
// Writers touching disjoint pixels need no synchronization; a given pixel
// must have at most one writer at a time.
type AccumulationBuffer struct {
	width, height int
	cells         []AccumulationCell
}

// NewAccumulationBuffer creates an empty buffer
func NewAccumulationBuffer(width, height int) *AccumulationBuffer {
	return &AccumulationBuffer{
		width:  width,
		height: height,
		cells:  make([]AccumulationCell, width*height),
	}
}

// Width returns the buffer width in pixels
func (b *AccumulationBuffer) Width() int { return b.width }

// Height returns the buffer height in pixels
func (b *AccumulationBuffer) Height() int { return b.height }

// Merge adds one radiance sample to pixel (x, y). Non-finite or negative
// components are replaced by zero before merging; the sample still counts.
// Returns false if the sample had to be sanitised.
func (b *AccumulationBuffer) Merge(x, y int, sample core.Vec3) bool {
	clean, ok := sanitize(sample)
	b.cells[y*b.width+x].AddSample(clean)
	return ok
}

// MergeFrame merges every sample of a completed frame and returns how many
// were sanitised
func (b *AccumulationBuffer) MergeFrame(frame *SampleBuffer) (int, error) {
	if frame.width != b.width || frame.height != b.height {
		return 0, errors.Errorf("frame is %dx%d, accumulation is %dx%d",
			frame.width, frame.height, b.width, b.height)
	}

	sanitized := 0
	for i, sample := range frame.radiance {
		clean, ok := sanitize(sample)
		if !ok {
			sanitized++
		}
		b.cells[i].AddSample(clean)
	}
	return sanitized, nil
}

// Cell returns a copy of the cell for pixel (x, y)
func (b *AccumulationBuffer) Cell(x, y int) AccumulationCell {
	return b.cells[y*b.width+x]
}

// Mean returns the displayed radiance of pixel (x, y): sum / count
func (b *AccumulationBuffer) Mean(x, y int) core.Vec3 {
	return b.cells[y*b.width+x].Mean()
}

// Count returns the number of samples merged into pixel (x, y)
func (b *AccumulationBuffer) Count(x, y int) int {
	return b.cells[y*b.width+x].Count
}

// Reset clears every cell
func (b *AccumulationBuffer) Reset() {
	clear(b.cells)
}

// Resize reallocates the buffer for new dimensions, discarding all samples
func (b *AccumulationBuffer) Resize(width, height int) {
	b.width = width
	b.height = height
	b.cells = make([]AccumulationCell, width*height)
}

// Clone returns an independent copy of the buffer
func (b *AccumulationBuffer) Clone() *AccumulationBuffer {
	return &AccumulationBuffer{
		width:  b.width,
		height: b.height,
		cells:  append([]AccumulationCell(nil), b.cells...),
	}
}

// Stats summarizes sample counts across the buffer
func (b *AccumulationBuffer) Stats() RenderStats {
	stats := RenderStats{TotalPixels: len(b.cells)}
	if len(b.cells) == 0 {
		return stats
	}

	stats.MinSamples = math.MaxInt
	for i := range b.cells {
		count := b.cells[i].Count
		stats.TotalSamples += count
		stats.MinSamples = min(stats.MinSamples, count)
		stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, count)
	}
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	return stats
}

// SampleBuffer holds one frame's worth of per-pixel samples before they are
// merged. A cancelled frame is dropped without touching the accumulation.
type SampleBuffer struct {
	width, height int
	radiance      []core.Vec3
}

// NewSampleBuffer creates a zeroed sample buffer
func NewSampleBuffer(width, height int) *SampleBuffer {
	return &SampleBuffer{
		width:    width,
		height:   height,
		radiance: make([]core.Vec3, width*height),
	}
}

// Set stores the sample for pixel (x, y)
func (s *SampleBuffer) Set(x, y int, sample core.Vec3) {
	s.radiance[y*s.width+x] = sample
}

// Get returns the sample for pixel (x, y)
func (s *SampleBuffer) Get(x, y int) core.Vec3 {
	return s.radiance[y*s.width+x]
}

// sanitize replaces non-finite or negative components with zero
func sanitize(sample core.Vec3) (core.Vec3, bool) {
	if sample.IsFinite() && sample.IsNonNegative() {
		return sample, true
	}
	return core.NewVec3(cleanComponent(sample.X), cleanComponent(sample.Y), cleanComponent(sample.Z)), false
}

func cleanComponent(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
