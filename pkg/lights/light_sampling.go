package lights

import (
	"math"

	"github.com/df07/go-progressive-integrator/pkg/core"
	"github.com/df07/go-progressive-integrator/pkg/material"
	"github.com/df07/go-progressive-integrator/pkg/params"
)

// RayEpsilon offsets secondary ray origins along the normal to avoid
// self-intersection
const RayEpsilon = 1e-4

// LightSampler estimates direct illumination with shadow rays
type LightSampler struct {
	scene      core.SceneQuery
	light      Light
	shadowRays int
	glossiness float64
}

// NewLightSampler creates a sampler for the light described by p. p must be valid.
func NewLightSampler(scene core.SceneQuery, p params.GlobalParams) *LightSampler {
	return &LightSampler{
		scene:      scene,
		light:      NewLight(p),
		shadowRays: p.ShadowRays,
		glossiness: p.Glossiness,
	}
}

// Light returns the light being sampled
func (ls *LightSampler) Light() Light {
	return ls.light
}

// Estimate returns the reflected radiance toward wo due to direct light at
// point, averaged over the configured number of shadow rays. normal must
// face wo. The result is non-negative and zero when every shadow ray is
// occluded.
func (ls *LightSampler) Estimate(point, normal, wo core.Vec3, mat material.Material, sampler core.Sampler) core.Vec3 {
	var total core.Vec3
	origin := point.Add(normal.Multiply(RayEpsilon))

	for i := 0; i < ls.shadowRays; i++ {
		sample := ls.light.Sample(point, sampler.Get3D())
		if sample.Radiance.IsZero() {
			continue
		}

		cosine := sample.Direction.Dot(normal)
		if cosine <= 0 {
			continue
		}

		maxDistance := sample.Distance
		if !math.IsInf(maxDistance, 1) {
			maxDistance -= RayEpsilon
		}
		if ls.scene.Occluded(origin, sample.Direction, maxDistance) {
			continue
		}

		brdf := mat.Evaluate(wo, sample.Direction, normal, ls.glossiness)
		contribution := brdf.MultiplyVec(sample.Radiance).Multiply(cosine)
		if !contribution.IsFinite() || !contribution.IsNonNegative() {
			continue
		}
		total = total.Add(contribution)
	}

	return total.Multiply(1.0 / float64(ls.shadowRays))
}
