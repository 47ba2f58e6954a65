// Package params holds the process-wide render configuration shared
// read-only by every pixel of a frame.
package params

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/df07/go-progressive-integrator/pkg/core"
)

// LightType selects how LightPos and LightDir are interpreted
type LightType string

const (
	LightTypePoint       LightType = "point"
	LightTypeSpot        LightType = "spot"
	LightTypeDirectional LightType = "directional"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid render parameters")

// GlobalParams is the configuration record for one frame. Sessions keep an
// immutable snapshot and hand copies to their workers.
//
// The 4th component of LightPos and LightDir is reserved and ignored.
type GlobalParams struct {
	LightPos mgl64.Vec4 `yaml:"lightPos"`
	LightDir mgl64.Vec4 `yaml:"lightDir"`

	ShadowRays      int     `yaml:"shadowRays"`      // Shadow samples per shading point per bounce
	Gamma           float64 `yaml:"gamma"`           // Display gamma exponent
	LightScale      float64 `yaml:"lightScale"`      // Multiplier on light radiance
	Glossiness      float64 `yaml:"glossiness"`      // Specular lobe weight and sharpness in [0,1]
	RussianRoulette bool    `yaml:"russianRoulette"` // Probabilistic path termination

	LightType   LightType `yaml:"lightType"`
	LightRadius float64   `yaml:"lightRadius"` // Spherical extent of point/spot lights (0 = ideal point)
	LightAngle  float64   `yaml:"lightAngle"`  // Angular radius of a directional light in degrees
	SpotAngle   float64   `yaml:"spotAngle"`   // Total cone angle of a spot light in degrees
	SpotFalloff float64   `yaml:"spotFalloff"` // Width of the spot falloff band in degrees

	Background mgl64.Vec3 `yaml:"background"` // Radiance returned on a miss

	MaxDepth           int `yaml:"maxDepth"`           // Bounce cap when Russian roulette is off
	RouletteMinBounces int `yaml:"rouletteMinBounces"` // Warm-up depth before roulette applies
	RouletteMaxDepth   int `yaml:"rouletteMaxDepth"`   // Safety cap when Russian roulette is on
}

// Default returns sensible default values
func Default() GlobalParams {
	return GlobalParams{
		LightPos:           mgl64.Vec4{0, 10, 0, 1},
		LightDir:           mgl64.Vec4{0, -1, 0, 0},
		ShadowRays:         1,
		Gamma:              2.2,
		LightScale:         1.0,
		Glossiness:         0.0,
		RussianRoulette:    true,
		LightType:          LightTypePoint,
		SpotAngle:          30,
		SpotFalloff:        5,
		MaxDepth:           8,
		RouletteMinBounces: 3,
		RouletteMaxDepth:   256,
	}
}

// Validate checks the record before rendering starts. Per-pixel code assumes
// a validated record and does not re-check.
func (p GlobalParams) Validate() error {
	if p.ShadowRays < 1 {
		return errors.Wrapf(ErrInvalid, "shadowRays must be >= 1, got %d", p.ShadowRays)
	}
	if !(p.Gamma > 0) {
		return errors.Wrapf(ErrInvalid, "gamma must be > 0, got %v", p.Gamma)
	}
	if !(p.LightScale >= 0) || math.IsInf(p.LightScale, 1) {
		return errors.Wrapf(ErrInvalid, "lightScale must be finite and >= 0, got %v", p.LightScale)
	}
	if !p.LightPosition().IsFinite() {
		return errors.Wrapf(ErrInvalid, "lightPos must be finite, got %v", p.LightPos)
	}
	if !core.NewVec3(p.LightDir.X(), p.LightDir.Y(), p.LightDir.Z()).IsFinite() {
		return errors.Wrapf(ErrInvalid, "lightDir must be finite, got %v", p.LightDir)
	}
	if !(p.Glossiness >= 0 && p.Glossiness <= 1) {
		return errors.Wrapf(ErrInvalid, "glossiness must be in [0,1], got %v", p.Glossiness)
	}
	if !(p.LightRadius >= 0) {
		return errors.Wrapf(ErrInvalid, "lightRadius must be >= 0, got %v", p.LightRadius)
	}
	if !(p.LightAngle >= 0 && p.LightAngle < 90) {
		return errors.Wrapf(ErrInvalid, "lightAngle must be in [0,90), got %v", p.LightAngle)
	}
	if p.MaxDepth < 1 {
		return errors.Wrapf(ErrInvalid, "maxDepth must be >= 1, got %d", p.MaxDepth)
	}
	if p.RouletteMinBounces < 0 {
		return errors.Wrapf(ErrInvalid, "rouletteMinBounces must be >= 0, got %d", p.RouletteMinBounces)
	}
	if p.RouletteMaxDepth <= p.RouletteMinBounces {
		return errors.Wrapf(ErrInvalid, "rouletteMaxDepth (%d) must exceed rouletteMinBounces (%d)",
			p.RouletteMaxDepth, p.RouletteMinBounces)
	}
	if !p.BackgroundColor().IsFinite() || !p.BackgroundColor().IsNonNegative() {
		return errors.Wrapf(ErrInvalid, "background must be finite and non-negative, got %v", p.Background)
	}

	switch p.LightType {
	case LightTypePoint:
	case LightTypeSpot:
		if !(p.SpotAngle > 0 && p.SpotAngle <= 180) {
			return errors.Wrapf(ErrInvalid, "spotAngle must be in (0,180], got %v", p.SpotAngle)
		}
		if !(p.SpotFalloff >= 0 && p.SpotFalloff <= p.SpotAngle) {
			return errors.Wrapf(ErrInvalid, "spotFalloff must be in [0,spotAngle], got %v", p.SpotFalloff)
		}
		if p.LightDirection().IsZero() {
			return errors.Wrap(ErrInvalid, "spot light needs a non-zero lightDir")
		}
	case LightTypeDirectional:
		if p.LightDirection().IsZero() {
			return errors.Wrap(ErrInvalid, "directional light needs a non-zero lightDir")
		}
	default:
		return errors.Wrapf(ErrInvalid, "unknown lightType %q", p.LightType)
	}
	return nil
}

// LightPosition returns the xyz part of LightPos
func (p GlobalParams) LightPosition() core.Vec3 {
	return core.NewVec3(p.LightPos.X(), p.LightPos.Y(), p.LightPos.Z())
}

// LightDirection returns the normalized xyz part of LightDir (zero if degenerate)
func (p GlobalParams) LightDirection() core.Vec3 {
	return core.NewVec3(p.LightDir.X(), p.LightDir.Y(), p.LightDir.Z()).Normalize()
}

// BackgroundColor returns Background as a core vector
func (p GlobalParams) BackgroundColor() core.Vec3 {
	return core.NewVec3(p.Background.X(), p.Background.Y(), p.Background.Z())
}

// DepthLimit is the hard bounce limit for the selected estimator
func (p GlobalParams) DepthLimit() int {
	if p.RussianRoulette {
		return p.RouletteMaxDepth
	}
	return p.MaxDepth
}
