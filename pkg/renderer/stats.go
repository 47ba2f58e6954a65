package renderer

import (
	"time"

	"github.com/df07/go-progressive-integrator/pkg/integrator"
)

// RenderStats contains statistics about the accumulated image
type RenderStats struct {
	TotalPixels    int     // Total number of pixels
	TotalSamples   int     // Samples merged across all pixels since the last reset
	AverageSamples float64 // Average samples per pixel
	MinSamples     int     // Fewest samples any pixel has
	MaxSamplesUsed int     // Most samples any pixel has
}

// FrameStats describes one rendered frame
type FrameStats struct {
	Frame        uint64        // Frame index within the session
	Elapsed      time.Duration // Wall time spent sampling
	Pixels       int           // Pixels sampled
	MeanBounces  float64       // Average path length
	Discarded    int           // Paths whose continuation was dropped for a degenerate sample
	Sanitized    int           // Samples with non-finite or negative components at merge
	FailedPixels int           // Pixels whose sampling panicked and contributed zero
	Luminance    float64       // Average displayed luminance after the merge
	Accumulated  RenderStats   // Buffer state after the merge
}

// tileStats is gathered per tile without locking and summed after the frame
type tileStats struct {
	pixels    int
	bounces   int
	discarded int
	failed    int
}

func (ts *tileStats) add(sample integrator.PathSample, failed bool) {
	ts.pixels++
	ts.bounces += sample.Bounces
	if sample.Discarded() {
		ts.discarded++
	}
	if failed {
		ts.failed++
	}
}

func sumTileStats(tiles []tileStats) (total tileStats) {
	for _, ts := range tiles {
		total.pixels += ts.pixels
		total.bounces += ts.bounces
		total.discarded += ts.discarded
		total.failed += ts.failed
	}
	return total
}
