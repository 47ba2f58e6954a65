package material

import (
	"github.com/df07/go-progressive-integrator/pkg/core"
)

// Material describes the reflectance model at a surface point.
// All directions point away from the surface; normal faces wo.
type Material interface {
	// Sample draws an incident direction for a bounce
	Sample(wo, normal core.Vec3, glossiness float64, sampler core.Sampler) ScatterResult

	// Evaluate returns the BRDF value for a fixed pair of directions
	Evaluate(wo, wi, normal core.Vec3, glossiness float64) core.Vec3

	// PDF returns the solid-angle density with which Sample picks wi
	PDF(wo, wi, normal core.Vec3, glossiness float64) float64

	// Emitted returns the radiance the surface emits on its own
	Emitted() core.Vec3
}

// ScatterResult contains the result of material sampling
type ScatterResult struct {
	Direction core.Vec3 // Sampled incident direction (unit length)
	BRDF      core.Vec3 // BRDF value for (wo, Direction)
	PDF       float64   // Solid-angle density of Direction; <= 0 means the sample is unusable
}

// Weight returns BRDF * cosθ / PDF, the throughput factor of the sample.
// A direction at or below the horizon has zero weight and is valid. Otherwise
// ok is false when the ratio is not a usable non-negative finite number,
// which covers a zero or negative density.
func (s ScatterResult) Weight(normal core.Vec3) (weight core.Vec3, ok bool) {
	cosine := s.Direction.Dot(normal)
	if cosine <= 0 {
		// Below the horizon: absorbed, whatever the density
		return core.Vec3{}, true
	}
	if !(s.PDF > minPDF) {
		return core.Vec3{}, false
	}
	weight = s.BRDF.Multiply(cosine / s.PDF)
	if !weight.IsFinite() || !weight.IsNonNegative() {
		return core.Vec3{}, false
	}
	return weight, true
}

// minPDF guards the BRDF/PDF ratio against blowing up
const minPDF = 1e-12
