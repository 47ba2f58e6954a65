// Package renderer drives progressive rendering: it dispatches one path
// sample per pixel per frame, merges frames into the accumulation buffer and
// tone maps the running mean for display.
package renderer

import (
	"context"
	"image"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-progressive-integrator/pkg/camera"
	"github.com/df07/go-progressive-integrator/pkg/core"
	"github.com/df07/go-progressive-integrator/pkg/integrator"
	"github.com/df07/go-progressive-integrator/pkg/material"
	"github.com/df07/go-progressive-integrator/pkg/params"
)

// ErrFrameAbandoned is returned when the camera, parameters or size changed
// while a frame was being rendered; its samples were discarded.
var ErrFrameAbandoned = errors.New("frame abandoned after session change")

// SessionConfig contains configuration for a progressive session
type SessionConfig struct {
	Width, Height int
	TileSize      int              // Size of each tile (64x64 recommended)
	NumWorkers    int              // Number of parallel workers (0 = use CPU count)
	Seed          uint64           // Session seed for per-pixel sampling
	Source        camera.RaySource // Primary ray source (nil = pinhole)
}

// DefaultSessionConfig returns sensible default values
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Width:      400,
		Height:     400,
		TileSize:   64,
		NumWorkers: 0,
		Seed:       0,
		Source:     camera.Pinhole{},
	}
}

// FrameResult contains the result of a single frame
type FrameResult struct {
	Frame *Frame
	Stats FrameStats
}

// Session owns the accumulation buffer of one progressive render. Camera,
// parameters and frame size may be changed between or during frames; any
// change resets the accumulation.
type Session struct {
	id        string
	scene     core.SceneQuery
	materials material.Table
	source    camera.RaySource
	seed      uint64
	tileSize  int
	workers   int
	logger    core.Logger

	mu         sync.Mutex
	camera     camera.Camera
	params     params.GlobalParams
	accum      *AccumulationBuffer
	frame      *Frame
	tiles      []*Tile
	frameIndex uint64
	generation uint64 // Bumped on every reset so in-flight frames can detect staleness
}

// NewSession validates p and creates a session with an empty accumulation
func NewSession(scene core.SceneQuery, materials material.Table, cam camera.Camera, p params.GlobalParams, config SessionConfig, logger core.Logger) (*Session, error) {
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "new session")
	}
	if config.Width <= 0 || config.Height <= 0 {
		return nil, errors.Errorf("new session: invalid frame size %dx%d", config.Width, config.Height)
	}
	if config.TileSize <= 0 {
		config.TileSize = DefaultSessionConfig().TileSize
	}
	if config.NumWorkers <= 0 {
		config.NumWorkers = runtime.NumCPU()
	}
	if config.Source == nil {
		config.Source = camera.Pinhole{}
	}

	id := uuid.NewString()
	s := &Session{
		id:        id,
		scene:     scene,
		materials: materials,
		source:    config.Source,
		seed:      config.Seed,
		tileSize:  config.TileSize,
		workers:   config.NumWorkers,
		logger:    sessionLogger(logger, id),
		camera:    cam,
		params:    p,
		accum:     NewAccumulationBuffer(config.Width, config.Height),
		frame:     NewFrame(config.Width, config.Height),
		tiles:     NewTileGrid(config.Width, config.Height, config.TileSize),
	}
	return s, nil
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// frameSnapshot is the immutable state a frame renders against
type frameSnapshot struct {
	camera        camera.Camera
	params        params.GlobalParams
	tiles         []*Tile
	width, height int
	frameIndex    uint64
	generation    uint64
}

// snapshot reserves the next frame index, so concurrent frames never share
// per-pixel seeds
func (s *Session) snapshot() frameSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := frameSnapshot{
		camera:     s.camera,
		params:     s.params,
		tiles:      s.tiles,
		width:      s.accum.Width(),
		height:     s.accum.Height(),
		frameIndex: s.frameIndex,
		generation: s.generation,
	}
	s.frameIndex++
	return snap
}

// RenderFrame samples every pixel once and merges the frame into the
// accumulation. If ctx is cancelled the frame is dropped and the
// accumulation is left untouched.
func (s *Session) RenderFrame(ctx context.Context) (FrameResult, error) {
	snap := s.snapshot()
	startTime := time.Now()

	pt := integrator.NewPathTracingIntegrator(s.scene, s.materials, snap.params)
	samples := NewSampleBuffer(snap.width, snap.height)
	perTile := make([]tileStats, len(snap.tiles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, tile := range snap.tiles {
		tile := tile
		g.Go(func() error {
			return s.renderTile(gctx, pt, snap, tile, samples, &perTile[tile.ID])
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Printf("Frame %d cancelled: %v\n", snap.frameIndex, err)
		return FrameResult{}, err
	}
	elapsed := time.Since(startTime)

	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.generation != s.generation {
		s.logger.Printf("Frame %d abandoned after session change\n", snap.frameIndex)
		return FrameResult{}, ErrFrameAbandoned
	}

	sanitized, err := s.accum.MergeFrame(samples)
	if err != nil {
		return FrameResult{}, errors.Wrapf(err, "merge frame %d", snap.frameIndex)
	}
	s.frame = ToneMapFrame(s.accum, snap.params.Gamma)

	total := sumTileStats(perTile)
	stats := FrameStats{
		Frame:        snap.frameIndex,
		Elapsed:      elapsed,
		Pixels:       total.pixels,
		Discarded:    total.discarded,
		Sanitized:    sanitized,
		FailedPixels: total.failed,
		Luminance:    CalculateAverageLuminance(s.frame.Pixels),
		Accumulated:  s.accum.Stats(),
	}
	if total.pixels > 0 {
		stats.MeanBounces = float64(total.bounces) / float64(total.pixels)
	}

	s.logger.Printf("Frame %d completed in %v (%.0f samples/pixel, %.2f mean bounces)\n",
		stats.Frame, elapsed, stats.Accumulated.AverageSamples, stats.MeanBounces)
	if stats.FailedPixels > 0 || stats.Sanitized > 0 {
		s.logger.Printf("Frame %d: %d failed pixels, %d sanitized samples\n",
			stats.Frame, stats.FailedPixels, stats.Sanitized)
	}

	return FrameResult{Frame: s.frame, Stats: stats}, nil
}

// renderTile samples every pixel in the tile into the frame's sample buffer
func (s *Session) renderTile(ctx context.Context, pt *integrator.PathTracingIntegrator, snap frameSnapshot, tile *Tile, samples *SampleBuffer, stats *tileStats) error {
	req := integrator.PixelRequest{
		Width:  snap.width,
		Height: snap.height,
		Frame:  snap.frameIndex,
		Seed:   s.seed,
		Camera: snap.camera,
		Source: s.source,
	}

	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			req.X, req.Y = x, y
			sample, failed := samplePixel(pt, req)
			samples.Set(x, y, sample.Radiance)
			stats.add(sample, failed)
		}
	}
	return nil
}

// samplePixel isolates a pixel from panics raised by external collaborators;
// a failed pixel contributes a zero sample for the frame
func samplePixel(pt *integrator.PathTracingIntegrator, req integrator.PixelRequest) (sample integrator.PathSample, failed bool) {
	defer func() {
		if r := recover(); r != nil {
			sample = integrator.PathSample{}
			failed = true
		}
	}()
	return pt.SamplePixel(req), false
}

// RenderProgressive renders up to frames frames (0 = until ctx is done) and
// streams each result. The caller should read from both channels; the error
// channel receives at most one value and both close when rendering stops.
func (s *Session) RenderProgressive(ctx context.Context, frames int) (<-chan FrameResult, <-chan error) {
	frameChan := make(chan FrameResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(frameChan)
		defer close(errChan)

		s.logger.Printf("Starting progressive rendering (%d frames)...\n", frames)

		for rendered := 0; frames <= 0 || rendered < frames; {
			result, err := s.RenderFrame(ctx)
			if errors.Is(err, ErrFrameAbandoned) {
				continue
			}
			if err != nil {
				errChan <- err
				return
			}
			rendered++

			select {
			case frameChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return frameChan, errChan
}

// Reset clears the accumulation; in-flight frames are discarded
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked("reset requested")
}

func (s *Session) resetLocked(reason string) {
	s.accum.Reset()
	s.generation++
	s.logger.Printf("Accumulation reset: %s\n", reason)
}

// SetCamera replaces the camera. Returns true if it differed from the
// current one, in which case the accumulation was reset.
func (s *Session) SetCamera(cam camera.Camera) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cam == s.camera {
		return false
	}
	s.camera = cam
	s.resetLocked("camera changed")
	return true
}

// SetParams validates and replaces the render parameters, resetting the
// accumulation if they changed
func (s *Session) SetParams(p params.GlobalParams) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, errors.Wrap(err, "set params")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p == s.params {
		return false, nil
	}
	s.params = p
	s.resetLocked("parameters changed")
	return true, nil
}

// Resize changes the frame size. The accumulation restarts at the new size
// and the last frame is rescaled as a preview.
func (s *Session) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.Errorf("resize: invalid frame size %dx%d", width, height)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if width == s.accum.Width() && height == s.accum.Height() {
		return nil
	}
	s.accum.Resize(width, height)
	s.frame = s.frame.Resize(width, height)
	s.tiles = NewTileGrid(width, height, s.tileSize)
	s.generation++
	s.logger.Printf("Resized to %dx%d\n", width, height)
	return nil
}

// Frame returns the most recent display frame
func (s *Session) Frame() *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Image returns the pixels of the most recent display frame
func (s *Session) Image() *image.RGBA {
	return s.Frame().Pixels
}

// Accumulation returns a copy of the accumulation buffer
func (s *Session) Accumulation() *AccumulationBuffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accum.Clone()
}

// Camera returns the current camera
func (s *Session) Camera() camera.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera
}

// Params returns the current render parameters
func (s *Session) Params() params.GlobalParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}
