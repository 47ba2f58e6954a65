package material

import (
	"math"

	"github.com/df07/go-progressive-integrator/pkg/core"
)

// GlossyDiffuse mixes a Lambertian lobe with a normalized Phong lobe.
// The global glossiness g moves weight from the diffuse lobe to the
// specular one and sharpens the specular lobe as it approaches 1. Without a
// specular lobe the material stays fully diffuse at any g.
type GlossyDiffuse struct {
	Albedo   core.Vec3 // Diffuse reflectance
	Specular core.Vec3 // Specular reflectance (zero disables the glossy lobe)
	Emission core.Vec3 // Emitted radiance
}

// NewLambertian creates a purely diffuse material
func NewLambertian(albedo core.Vec3) *GlossyDiffuse {
	return &GlossyDiffuse{Albedo: albedo}
}

// NewGlossy creates a material with both diffuse and specular reflectance
func NewGlossy(albedo, specular core.Vec3) *GlossyDiffuse {
	return &GlossyDiffuse{Albedo: albedo, Specular: specular}
}

// NewEmissive creates a black surface that only emits
func NewEmissive(emission core.Vec3) *GlossyDiffuse {
	return &GlossyDiffuse{Emission: emission}
}

// PhongExponent maps glossiness in [0,1] to a Phong exponent in [2, 4096]
func PhongExponent(glossiness float64) float64 {
	return math.Exp2(1 + 11*glossiness)
}

// specularProbability is the chance of sampling the glossy lobe
func (m *GlossyDiffuse) specularProbability(glossiness float64) float64 {
	if m.Specular.IsZero() {
		return 0
	}
	if m.Albedo.IsZero() {
		return 1
	}
	return glossiness
}

// diffuseWeight is the share of the diffuse lobe; it only gives way to g
// when there is a glossy lobe to take it
func (m *GlossyDiffuse) diffuseWeight(glossiness float64) float64 {
	if m.Specular.IsZero() {
		return 1
	}
	return 1 - glossiness
}

// Sample implements Material
func (m *GlossyDiffuse) Sample(wo, normal core.Vec3, glossiness float64, sampler core.Sampler) ScatterResult {
	var wi core.Vec3
	if sampler.Get1D() < m.specularProbability(glossiness) {
		mirror := wo.Negate().Reflect(normal)
		wi = core.SamplePowerCosineLobe(mirror, PhongExponent(glossiness), sampler.Get2D())
	} else {
		wi = core.SampleCosineHemisphere(normal, sampler.Get2D())
	}
	wi = wi.Normalize()

	return ScatterResult{
		Direction: wi,
		BRDF:      m.Evaluate(wo, wi, normal, glossiness),
		PDF:       m.PDF(wo, wi, normal, glossiness),
	}
}

// Evaluate implements Material
func (m *GlossyDiffuse) Evaluate(wo, wi, normal core.Vec3, glossiness float64) core.Vec3 {
	if wi.Dot(normal) <= 0 || wo.Dot(normal) <= 0 {
		return core.Vec3{}
	}

	// BRDF: (1-g) * albedo / π + g * ks * (n+2)/(2π) * cos^n α
	diffuse := m.Albedo.Multiply(m.diffuseWeight(glossiness) / math.Pi)
	if m.Specular.IsZero() || glossiness == 0 {
		return diffuse
	}

	exponent := PhongExponent(glossiness)
	cosAlpha := wo.Negate().Reflect(normal).Dot(wi)
	if cosAlpha <= 0 {
		return diffuse
	}
	lobe := glossiness * (exponent + 2) / (2 * math.Pi) * math.Pow(cosAlpha, exponent)
	return diffuse.Add(m.Specular.Multiply(lobe))
}

// PDF implements Material
func (m *GlossyDiffuse) PDF(wo, wi, normal core.Vec3, glossiness float64) float64 {
	cosTheta := wi.Dot(normal)
	if cosTheta <= 0 {
		return 0
	}

	ps := m.specularProbability(glossiness)
	pdf := (1 - ps) * cosTheta / math.Pi
	if ps > 0 {
		cosAlpha := wo.Negate().Reflect(normal).Dot(wi)
		pdf += ps * core.PowerCosineLobePDF(cosAlpha, PhongExponent(glossiness))
	}
	return pdf
}

// Emitted implements Material
func (m *GlossyDiffuse) Emitted() core.Vec3 {
	return m.Emission
}
