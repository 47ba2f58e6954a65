package camera

import (
	"pgregory.net/rand"

	"github.com/df07/go-progressive-integrator/pkg/core"
)

// RaySource produces primary rays. The jitter seed differs per pixel and per
// frame so that accumulated frames cover the whole pixel footprint.
type RaySource interface {
	GeneratePrimaryRay(pixelX, pixelY, frameWidth, frameHeight int, cam Camera, jitterSeed uint64) core.Ray
}

// jitterStream separates the jitter draw from other users of the same seed
const jitterStream = 0x6a09e667f3bcc908

// Pinhole is a RaySource for an ideal pinhole camera with box-filtered jitter
type Pinhole struct{}

// GeneratePrimaryRay implements RaySource
func (Pinhole) GeneratePrimaryRay(pixelX, pixelY, frameWidth, frameHeight int, cam Camera, jitterSeed uint64) core.Ray {
	jitter := rand.New(jitterSeed, jitterStream)

	s := (float64(pixelX) + jitter.Float64()) / float64(frameWidth)
	t := (float64(pixelY) + jitter.Float64()) / float64(frameHeight)

	aspectRatio := float64(frameWidth) / float64(frameHeight)
	return cam.RayThrough(s, t, aspectRatio)
}

// Centered is a RaySource that always shoots through pixel centers. Useful
// for tests that need a fixed primary ray.
type Centered struct{}

// GeneratePrimaryRay implements RaySource
func (Centered) GeneratePrimaryRay(pixelX, pixelY, frameWidth, frameHeight int, cam Camera, _ uint64) core.Ray {
	s := (float64(pixelX) + 0.5) / float64(frameWidth)
	t := (float64(pixelY) + 0.5) / float64(frameHeight)
	return cam.RayThrough(s, t, float64(frameWidth)/float64(frameHeight))
}
