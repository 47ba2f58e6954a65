package integrator

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-progressive-integrator/pkg/camera"
	"github.com/df07/go-progressive-integrator/pkg/core"
	"github.com/df07/go-progressive-integrator/pkg/material"
	"github.com/df07/go-progressive-integrator/pkg/params"
)

// FurnaceScene is a diffuse floor at y=0 under an emissive ceiling at y=1.
// Both planes are infinite, so every bounce off one hits the other.
type FurnaceScene struct{}

func (FurnaceScene) Intersect(origin, direction core.Vec3) (core.Hit, bool) {
	switch {
	case direction.Y < 0:
		t := -origin.Y / direction.Y
		return core.Hit{
			Position: origin.Add(direction.Multiply(t)), Normal: core.NewVec3(0, 1, 0),
			MaterialID: 0, Distance: t,
		}, t > 0
	case direction.Y > 0:
		t := (1 - origin.Y) / direction.Y
		return core.Hit{
			Position: origin.Add(direction.Multiply(t)), Normal: core.NewVec3(0, -1, 0),
			MaterialID: 1, Distance: t,
		}, t > 0
	}
	return core.Hit{}, false
}

func (FurnaceScene) Occluded(origin, direction core.Vec3, maxDistance float64) bool {
	hit, ok := FurnaceScene{}.Intersect(origin, direction)
	return ok && hit.Distance < maxDistance
}

// furnace returns the materials and the analytic floor radiance a*E/(1-a*b)
func furnace(a, b, emission float64) (material.Table, float64) {
	floor := material.NewLambertian(core.MonoVec3(a))
	ceiling := &material.GlossyDiffuse{Albedo: core.MonoVec3(b), Emission: core.MonoVec3(emission)}
	return material.Table{floor, ceiling}, a * emission / (1 - a*b)
}

// noLightParams disables the analytic light so only emission contributes
func noLightParams() params.GlobalParams {
	p := params.Default()
	p.LightScale = 0
	return p
}

var downRay = core.NewRay(core.NewVec3(0, 0.5, 0), core.NewVec3(0.3, -1, 0.1).Normalize())

// TestPathTracingDepthTermination tests that ray depth is properly limited
func TestPathTracingDepthTermination(t *testing.T) {
	materials, _ := furnace(0.5, 0.5, 1)
	p := noLightParams()
	p.RussianRoulette = false
	p.MaxDepth = 4

	sample := NewPathTracingIntegrator(FurnaceScene{}, materials, p).Trace(downRay, core.NewSeededSampler(1))
	assert.Equal(t, TerminatedDepth, sample.Termination)
	assert.Equal(t, 4, sample.Bounces)

	// floor(0) → ceiling(+0.5) → floor → ceiling(+0.125)
	assert.InDelta(t, 0.625, sample.Radiance.X, 1e-12)
}

// Without roulette the estimate is a partial sum of non-negative terms, so a
// deeper cap never decreases it.
func TestPathTracingMonotonicInDepth(t *testing.T) {
	materials, expected := furnace(0.5, 0.5, 1)
	p := noLightParams()
	p.RussianRoulette = false

	prev := 0.0
	for depth := 1; depth <= 40; depth++ {
		p.MaxDepth = depth
		pt := NewPathTracingIntegrator(FurnaceScene{}, materials, p)

		var sum float64
		for i := 0; i < 16; i++ {
			sum += pt.Trace(downRay, core.NewSeededSampler(uint64(i))).Radiance.X
		}
		mean := sum / 16
		assert.GreaterOrEqual(t, mean, prev-1e-12, "depth %d", depth)
		prev = mean
	}
	assert.InDelta(t, expected, prev, 1e-6)
}

func TestPathTracingRussianRouletteUnbiased(t *testing.T) {
	materials, expected := furnace(0.5, 0.5, 1)
	const n = 40000

	mean := func(survival SurvivalFunc, seed uint64) float64 {
		pt := NewPathTracingIntegrator(FurnaceScene{}, materials, noLightParams())
		if survival != nil {
			pt.Survival = survival
		}
		sampler := core.NewSeededSampler(seed)
		var sum float64
		for i := 0; i < n; i++ {
			sum += pt.Trace(downRay, sampler).Radiance.X
		}
		return sum / n
	}

	defaultMean := mean(nil, 1)
	constantMean := mean(func(core.Vec3) float64 { return 0.5 }, 2)
	highMean := mean(func(core.Vec3) float64 { return 0.9 }, 3)

	assert.InDelta(t, expected, defaultMean, 0.02)
	assert.InDelta(t, expected, constantMean, 0.02)
	assert.InDelta(t, expected, highMean, 0.02)
}

func TestPathTracingRussianRouletteTerminates(t *testing.T) {
	materials, _ := furnace(0.9, 0.9, 1)
	p := noLightParams()
	p.RouletteMinBounces = 1
	pt := NewPathTracingIntegrator(FurnaceScene{}, materials, p)
	pt.Survival = func(core.Vec3) float64 { return 0.1 }

	sampler := core.NewSeededSampler(5)
	roulette := 0
	for i := 0; i < 200; i++ {
		sample := pt.Trace(downRay, sampler)
		if sample.Termination == TerminatedRoulette {
			roulette++
		}
		assert.Less(t, sample.Bounces, p.RouletteMaxDepth)
	}
	assert.Greater(t, roulette, 150)

	// A zero survival probability always terminates, even for NaN
	pt.Survival = func(core.Vec3) float64 { return math.NaN() }
	sample := pt.Trace(downRay, sampler)
	assert.Equal(t, TerminatedRoulette, sample.Termination)
	assert.Equal(t, p.RouletteMinBounces+1, sample.Bounces)
}

func TestPathTracingBackgroundOnMiss(t *testing.T) {
	p := noLightParams()
	p.Background = mgl64.Vec3{0.2, 0.4, 0.6}
	pt := NewPathTracingIntegrator(FurnaceScene{}, nil, p)

	// Horizontal ray never hits either plane
	sample := pt.Trace(core.NewRay(core.NewVec3(0, 0.5, 0), core.NewVec3(1, 0, 0)), core.NewSeededSampler(1))
	assert.Equal(t, TerminatedMiss, sample.Termination)
	assert.Equal(t, core.NewVec3(0.2, 0.4, 0.6), sample.Radiance)
	assert.Equal(t, 0, sample.Bounces)
}

// StubScene returns a fixed hit for every ray
type StubScene struct {
	hit core.Hit
}

func (s StubScene) Intersect(origin, direction core.Vec3) (core.Hit, bool) {
	return s.hit, true
}

func (s StubScene) Occluded(origin, direction core.Vec3, maxDistance float64) bool {
	return false
}

func TestPathTracingInvalidHitIsMiss(t *testing.T) {
	p := noLightParams()
	p.Background = mgl64.Vec3{1, 1, 1}

	invalid := []core.Hit{
		{Position: core.NewVec3(math.NaN(), 0, 0), Normal: core.NewVec3(0, 1, 0), Distance: 1},
		{Position: core.NewVec3(0, 0, 0), Normal: core.Vec3{}, Distance: 1},
		{Position: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0), Distance: math.Inf(1)},
		{Position: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0), Distance: -1},
	}
	for _, hit := range invalid {
		pt := NewPathTracingIntegrator(StubScene{hit: hit}, nil, p)
		sample := pt.Trace(downRay, core.NewSeededSampler(1))
		assert.Equal(t, TerminatedInvalidHit, sample.Termination, "hit %+v", hit)
		assert.Equal(t, core.MonoVec3(1), sample.Radiance)
	}
}

// ZeroPDFMaterial scatters with a nonzero BRDF but zero density
type ZeroPDFMaterial struct{}

func (ZeroPDFMaterial) Sample(wo, normal core.Vec3, glossiness float64, sampler core.Sampler) material.ScatterResult {
	return material.ScatterResult{Direction: normal, BRDF: core.MonoVec3(1), PDF: 0}
}

func (ZeroPDFMaterial) Evaluate(wo, wi, normal core.Vec3, glossiness float64) core.Vec3 {
	return core.MonoVec3(1 / math.Pi)
}

func (ZeroPDFMaterial) PDF(wo, wi, normal core.Vec3, glossiness float64) float64 {
	return 0
}

func (ZeroPDFMaterial) Emitted() core.Vec3 {
	return core.Vec3{}
}

func TestPathTracingZeroPDFContributesZero(t *testing.T) {
	scene := StubScene{hit: core.Hit{Position: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0), Distance: 1}}
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	// Without a light the only contribution would come from the bad bounce
	pt := NewPathTracingIntegrator(scene, material.Table{ZeroPDFMaterial{}}, noLightParams())
	sample := pt.Trace(ray, core.NewSeededSampler(1))
	assert.Equal(t, TerminatedDegenerate, sample.Termination)
	assert.True(t, sample.Discarded())
	assert.Equal(t, core.Vec3{}, sample.Radiance)

	// Direct light gathered before the bad bounce survives
	p := params.Default()
	p.LightPos = mgl64.Vec4{0, 2, 0, 1}
	p.LightScale = 4
	pt = NewPathTracingIntegrator(scene, material.Table{ZeroPDFMaterial{}}, p)
	sample = pt.Trace(ray, core.NewSeededSampler(1))
	require.True(t, sample.Radiance.IsFinite())
	assert.InDelta(t, 1/math.Pi, sample.Radiance.X, 1e-9)
}

// BelowHorizonMaterial scatters under the surface, where its lobe has no density
type BelowHorizonMaterial struct{ ZeroPDFMaterial }

func (BelowHorizonMaterial) Sample(wo, normal core.Vec3, glossiness float64, sampler core.Sampler) material.ScatterResult {
	return material.ScatterResult{Direction: normal.Negate(), PDF: 0}
}

func TestPathTracingBelowHorizonSampleIsAbsorbed(t *testing.T) {
	scene := StubScene{hit: core.Hit{Position: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0), Distance: 1}}
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	pt := NewPathTracingIntegrator(scene, material.Table{BelowHorizonMaterial{}}, noLightParams())
	sample := pt.Trace(ray, core.NewSeededSampler(1))
	assert.Equal(t, TerminatedAbsorbed, sample.Termination)
	assert.False(t, sample.Discarded())
}

func TestPathTracingUnknownMaterialFallsBackToDiffuse(t *testing.T) {
	scene := StubScene{hit: core.Hit{Position: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0), MaterialID: 42, Distance: 1}}
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	p := params.Default()
	p.LightPos = mgl64.Vec4{0, 2, 0, 1}
	p.LightScale = 4
	p.RussianRoulette = false
	p.MaxDepth = 1

	sample := NewPathTracingIntegrator(scene, nil, p).Trace(ray, core.NewSeededSampler(1))
	assert.InDelta(t, 0.8/math.Pi, sample.Radiance.X, 1e-9)
}

func TestPathTracingNormalFacesViewer(t *testing.T) {
	// Normal reported facing away from the ray; shading must flip it
	scene := StubScene{hit: core.Hit{Position: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, -1, 0), Distance: 1}}
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	p := params.Default()
	p.LightPos = mgl64.Vec4{0, 1, 0, 1}
	p.RussianRoulette = false
	p.MaxDepth = 1

	table := material.Table{material.NewLambertian(core.MonoVec3(1))}
	sample := NewPathTracingIntegrator(scene, table, p).Trace(ray, core.NewSeededSampler(1))
	assert.InDelta(t, 1/math.Pi, sample.Radiance.X, 1e-9)
}

func TestSamplePixelDeterministic(t *testing.T) {
	materials, _ := furnace(0.5, 0.5, 1)
	p := params.Default()
	p.LightPos = mgl64.Vec4{0, 0.9, -1, 1}
	p.RussianRoulette = false
	p.MaxDepth = 1
	pt := NewPathTracingIntegrator(FurnaceScene{}, materials, p)
	cam := camera.NewCamera(camera.Config{
		Center: core.NewVec3(0, 0.5, 0),
		LookAt: core.NewVec3(0, 0, -1),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   60,
	})

	req := PixelRequest{X: 3, Y: 7, Width: 16, Height: 16, Frame: 2, Seed: 99, Camera: cam, Source: camera.Pinhole{}}
	a := pt.SamplePixel(req)
	b := pt.SamplePixel(req)
	assert.Equal(t, a, b)

	differs := false
	for frame := uint64(3); frame < 10; frame++ {
		req.Frame = frame
		if pt.SamplePixel(req) != a {
			differs = true
		}
	}
	assert.True(t, differs, "different frames should draw different paths")
}

func TestTerminationString(t *testing.T) {
	assert.Equal(t, "roulette", TerminatedRoulette.String())
	assert.Equal(t, "degenerate", TerminatedDegenerate.String())
	assert.Equal(t, "unknown", Termination(99).String())
}
