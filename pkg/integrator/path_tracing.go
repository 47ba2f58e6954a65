// Package integrator estimates per-pixel radiance with unidirectional path
// tracing.
package integrator

import (
	"math"

	"github.com/df07/go-progressive-integrator/pkg/camera"
	"github.com/df07/go-progressive-integrator/pkg/core"
	"github.com/df07/go-progressive-integrator/pkg/lights"
	"github.com/df07/go-progressive-integrator/pkg/material"
	"github.com/df07/go-progressive-integrator/pkg/params"
)

// pathStream separates path sampling from the camera jitter drawn from the
// same pixel seed
const pathStream = 0xbb67ae8584caa73b

// SurvivalFunc returns the Russian roulette continuation probability for a
// path with the given throughput. Values are clamped to (0, 1].
type SurvivalFunc func(throughput core.Vec3) float64

// MaxComponentSurvival is the default continuation probability: the largest
// throughput component, capped at one
func MaxComponentSurvival(throughput core.Vec3) float64 {
	return math.Min(throughput.MaxComponent(), 1.0)
}

// PixelRequest identifies one sample of one pixel in one frame
type PixelRequest struct {
	X, Y          int
	Width, Height int
	Frame         uint64 // Frame index since the session started
	Seed          uint64 // Session seed
	Camera        camera.Camera
	Source        camera.RaySource
}

// PathTracingIntegrator implements unidirectional path tracing with
// shadow-ray direct lighting
type PathTracingIntegrator struct {
	scene     core.SceneQuery
	materials material.Table
	lights    *lights.LightSampler
	params    params.GlobalParams

	// Survival picks the roulette continuation probability. Defaults to
	// MaxComponentSurvival.
	Survival SurvivalFunc
}

// NewPathTracingIntegrator creates an integrator for one frame. p is copied
// and must already be validated.
func NewPathTracingIntegrator(scene core.SceneQuery, materials material.Table, p params.GlobalParams) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		scene:     scene,
		materials: materials,
		lights:    lights.NewLightSampler(scene, p),
		params:    p,
		Survival:  MaxComponentSurvival,
	}
}

// SamplePixel traces one jittered primary ray through the pixel. The result
// depends only on the request, so re-rendering a frame reproduces it.
func (pt *PathTracingIntegrator) SamplePixel(px PixelRequest) PathSample {
	seed := core.PixelSeed(px.Seed, px.Frame, px.Y*px.Width+px.X)
	ray := px.Source.GeneratePrimaryRay(px.X, px.Y, px.Width, px.Height, px.Camera, seed)
	return pt.Trace(ray, core.NewSeededSampler(seed, pathStream))
}

// Trace follows a single path from ray and returns its radiance estimate
func (pt *PathTracingIntegrator) Trace(ray core.Ray, sampler core.Sampler) PathSample {
	throughput := core.MonoVec3(1)
	var radiance core.Vec3

	depthLimit := pt.params.DepthLimit()
	background := pt.params.BackgroundColor()

	for depth := 0; ; {
		hit, isHit := pt.scene.Intersect(ray.Origin, ray.Direction)
		if !isHit {
			radiance = radiance.Add(throughput.MultiplyVec(background))
			return finish(radiance, depth, TerminatedMiss)
		}
		if !hit.Valid() {
			radiance = radiance.Add(throughput.MultiplyVec(background))
			return finish(radiance, depth, TerminatedInvalidHit)
		}

		wo := ray.Direction.Negate().Normalize()
		normal := hit.Normal.Normalize()
		if normal.Dot(wo) < 0 {
			normal = normal.Negate()
		}
		mat := pt.materials.Lookup(hit.MaterialID)

		radiance = radiance.Add(throughput.MultiplyVec(mat.Emitted()))
		direct := pt.lights.Estimate(hit.Position, normal, wo, mat, sampler)
		radiance = radiance.Add(throughput.MultiplyVec(direct))

		scatter := mat.Sample(wo, normal, pt.params.Glossiness, sampler)
		weight, ok := scatter.Weight(normal)
		if !ok {
			// Zero pdf or a non-finite ratio: drop the continuation only
			return finish(radiance, depth, TerminatedDegenerate)
		}
		if weight.IsZero() {
			return finish(radiance, depth, TerminatedAbsorbed)
		}

		throughput = throughput.MultiplyVec(weight)
		depth++

		if depth >= depthLimit {
			return finish(radiance, depth, TerminatedDepth)
		}

		if pt.params.RussianRoulette && depth > pt.params.RouletteMinBounces {
			p := pt.Survival(throughput)
			if !(p > 0) || sampler.Get1D() >= p {
				return finish(radiance, depth, TerminatedRoulette)
			}
			throughput = throughput.Multiply(1.0 / math.Min(p, 1.0))
		}

		origin := hit.Position.Add(normal.Multiply(lights.RayEpsilon))
		ray = core.NewRay(origin, scatter.Direction)
	}
}

func finish(radiance core.Vec3, depth int, reason Termination) PathSample {
	if !radiance.IsFinite() || !radiance.IsNonNegative() {
		return PathSample{Bounces: depth, Termination: TerminatedDegenerate}
	}
	return PathSample{Radiance: radiance, Bounces: depth, Termination: reason}
}
