// Package lights estimates direct illumination from the single analytic
// light described by the render parameters.
package lights

import (
	"math"

	"github.com/df07/go-progressive-integrator/pkg/core"
	"github.com/df07/go-progressive-integrator/pkg/params"
)

// LightSample contains information about a sampled direction toward the light
type LightSample struct {
	Direction core.Vec3 // Unit direction from the shading point to the light
	Distance  float64   // Distance to the sampled light point (+Inf for directional lights)
	Radiance  core.Vec3 // Incident radiance along Direction, before occlusion
}

// Light is the analytic light of a frame. It is not part of the scene
// geometry, so paths never hit it.
type Light struct {
	kind      params.LightType
	position  core.Vec3 // Center of point and spot lights
	direction core.Vec3 // Normalized travel direction of spot and directional lights
	emission  core.Vec3 // Intensity for point/spot, irradiance for directional
	radius    float64   // Spherical extent of point and spot lights

	cosAngularRadius float64 // Directional light cone
	cosTotalWidth    float64 // Outer edge of the spot cone
	cosFalloffStart  float64 // Inner cone with full intensity
}

// NewLight builds the light described by p. p must be valid.
func NewLight(p params.GlobalParams) Light {
	light := Light{
		kind:      p.LightType,
		position:  p.LightPosition(),
		direction: p.LightDirection(),
		emission:  core.MonoVec3(p.LightScale),
		radius:    p.LightRadius,
	}

	switch p.LightType {
	case params.LightTypeSpot:
		light.cosTotalWidth = math.Cos(degreesToRadians(p.SpotAngle))
		light.cosFalloffStart = math.Cos(degreesToRadians(p.SpotAngle - p.SpotFalloff))
	case params.LightTypeDirectional:
		light.cosAngularRadius = math.Cos(degreesToRadians(p.LightAngle))
	}
	return light
}

// Type returns the light kind
func (l Light) Type() params.LightType {
	return l.kind
}

// Sample picks a direction toward the light from point. The three sample
// values jitter the light's area or angular extent; lights without extent
// ignore them.
func (l Light) Sample(point core.Vec3, sample core.Vec3) LightSample {
	if l.kind == params.LightTypeDirectional {
		toLight := l.direction.Negate()
		if l.cosAngularRadius < 1 {
			toLight = core.SampleCone(toLight, l.cosAngularRadius, core.NewVec2(sample.X, sample.Y)).Normalize()
		}
		return LightSample{
			Direction: toLight,
			Distance:  math.Inf(1),
			Radiance:  l.emission,
		}
	}

	lightPoint := l.position
	if l.radius > 0 {
		lightPoint = lightPoint.Add(core.SamplePointInUnitSphere(sample).Multiply(l.radius))
	}

	toLightVec := lightPoint.Subtract(point)
	distance := toLightVec.Length()
	if distance == 0 {
		// Shading point coincides with the light
		return LightSample{Direction: core.NewVec3(0, 1, 0)}
	}
	toLight := toLightVec.Multiply(1 / distance)

	attenuation := 1.0 / (distance * distance)
	if l.kind == params.LightTypeSpot {
		attenuation *= l.falloff(l.direction.Dot(toLight.Negate()))
	}

	return LightSample{
		Direction: toLight,
		Distance:  distance,
		Radiance:  l.emission.Multiply(attenuation),
	}
}

// falloff calculates the spot light falloff from the cosine of the angle
// between the spot axis and the direction to the shading point
func (l Light) falloff(cosAngle float64) float64 {
	// Outside the total cone width
	if cosAngle < l.cosTotalWidth {
		return 0.0
	}

	// Inside the inner cone (full intensity)
	if cosAngle >= l.cosFalloffStart {
		return 1.0
	}

	// Quartic ramp across the falloff band
	delta := (cosAngle - l.cosTotalWidth) / (l.cosFalloffStart - l.cosTotalWidth)
	return delta * delta * delta * delta
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
