package material

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-progressive-integrator/pkg/core"
)

var (
	up     = core.NewVec3(0, 0, 1)
	viewer = core.NewVec3(0.3, 0, 1).Normalize()
)

func TestLambertian_PDFCalculation(t *testing.T) {
	lambertian := NewLambertian(core.NewVec3(0.8, 0.8, 0.8))
	sampler := core.NewSeededSampler(42)

	for i := 0; i < 100; i++ {
		scatter := lambertian.Sample(viewer, up, 0.5, sampler)

		cosTheta := scatter.Direction.Dot(up)
		expectedPDF := cosTheta / math.Pi
		if math.Abs(scatter.PDF-expectedPDF) > 1e-10 {
			t.Errorf("PDF mismatch: got %f, expected %f", scatter.PDF, expectedPDF)
		}
	}
}

func TestLambertian_BRDFIsAlbedoOverPi(t *testing.T) {
	albedo := core.NewVec3(0.5, 0.7, 0.9)
	lambertian := NewLambertian(albedo)

	wi := core.NewVec3(-0.2, 0.4, 1).Normalize()
	brdf := lambertian.Evaluate(viewer, wi, up, 0)

	expected := albedo.Multiply(1.0 / math.Pi)
	if brdf.Subtract(expected).Length() > 1e-10 {
		t.Errorf("BRDF mismatch: got %v, expected %v", brdf, expected)
	}

	// Without a glossy lobe there is nothing for glossiness to shift energy to
	assert.Equal(t, brdf, lambertian.Evaluate(viewer, wi, up, 0.5))
	assert.Equal(t, brdf, lambertian.Evaluate(viewer, wi, up, 1))

	// With one, glossiness moves energy out of the diffuse lobe
	glossy := NewGlossy(albedo, core.MonoVec3(0.5))
	offLobe := core.NewVec3(-0.9, 0, 0.2).Normalize()
	assert.InDelta(t, albedo.X/(2*math.Pi), glossy.Evaluate(viewer, offLobe, up, 0.5).X, 1e-3)
}

// A white furnace around a Lambertian surface reflects its albedo whatever
// the global glossiness
func TestLambertian_ReflectanceIndependentOfGlossiness(t *testing.T) {
	lambertian := NewLambertian(core.MonoVec3(0.8))
	const n = 20000

	for _, g := range []float64{0, 0.5, 1} {
		sampler := core.NewSeededSampler(11)
		var sum float64
		for i := 0; i < n; i++ {
			scatter := lambertian.Sample(viewer, up, g, sampler)
			weight, ok := scatter.Weight(up)
			require.True(t, ok)
			sum += weight.X
		}
		assert.InDelta(t, 0.8, sum/n, 1e-9, "glossiness %v", g)
	}
}

func TestGlossyDiffuse_BelowSurfaceIsBlack(t *testing.T) {
	m := NewGlossy(core.NewVec3(0.5, 0.5, 0.5), core.NewVec3(0.5, 0.5, 0.5))
	below := core.NewVec3(0, 0.3, -1).Normalize()

	assert.True(t, m.Evaluate(viewer, below, up, 0.5).IsZero())
	assert.Equal(t, 0.0, m.PDF(viewer, below, up, 0.5))
	assert.True(t, m.Evaluate(below, viewer, up, 0.5).IsZero())
}

func TestGlossyDiffuse_PDFMatchesSampling(t *testing.T) {
	m := NewGlossy(core.NewVec3(0.4, 0.4, 0.4), core.NewVec3(0.6, 0.6, 0.6))
	sampler := core.NewSeededSampler(7)

	for i := 0; i < 200; i++ {
		scatter := m.Sample(viewer, up, 0.4, sampler)
		assert.InDelta(t, 1.0, scatter.Direction.Length(), 1e-9)
		assert.InDelta(t, m.PDF(viewer, scatter.Direction, up, 0.4), scatter.PDF, 1e-12)
		if scatter.PDF > 0 {
			brdf := m.Evaluate(viewer, scatter.Direction, up, 0.4)
			assert.Equal(t, brdf, scatter.BRDF)
		}
	}
}

// The estimator mean of BRDF*cos/pdf is the directional albedo, which must
// not exceed one for a white surface at any glossiness.
func TestGlossyDiffuse_EnergyConservation(t *testing.T) {
	white := core.NewVec3(1, 1, 1)
	m := NewGlossy(white, white)
	sampler := core.NewSeededSampler(3)
	const n = 20000

	for _, g := range []float64{0, 0.25, 0.5, 0.9} {
		var sum float64
		for i := 0; i < n; i++ {
			scatter := m.Sample(up, up, g, sampler)
			weight, ok := scatter.Weight(up)
			require.True(t, ok)
			sum += weight.X
		}
		albedo := sum / n
		assert.LessOrEqual(t, albedo, 1.02, "glossiness %v", g)
		assert.Greater(t, albedo, 0.5, "glossiness %v", g)
	}
}

func TestGlossyDiffuse_SpecularPeaksAtMirror(t *testing.T) {
	m := NewGlossy(core.NewVec3(0.1, 0.1, 0.1), core.NewVec3(0.9, 0.9, 0.9))
	mirror := viewer.Negate().Reflect(up)
	off := core.NewVec3(-0.6, 0.5, 1).Normalize()

	atMirror := m.Evaluate(viewer, mirror, up, 0.7)
	offMirror := m.Evaluate(viewer, off, up, 0.7)
	assert.Greater(t, atMirror.X, 10*offMirror.X)
}

func TestScatterResult_Weight(t *testing.T) {
	direction := core.NewVec3(0, 0, 1)

	weight, ok := ScatterResult{Direction: direction, BRDF: core.MonoVec3(0.5), PDF: 0.25}.Weight(up)
	assert.True(t, ok)
	assert.Equal(t, core.MonoVec3(2), weight)

	_, ok = ScatterResult{Direction: direction, BRDF: core.MonoVec3(0.5), PDF: 0}.Weight(up)
	assert.False(t, ok, "zero pdf must be rejected")

	_, ok = ScatterResult{Direction: direction, BRDF: core.MonoVec3(0.5), PDF: -1}.Weight(up)
	assert.False(t, ok, "negative pdf must be rejected")

	_, ok = ScatterResult{Direction: direction, BRDF: core.MonoVec3(math.NaN()), PDF: 1}.Weight(up)
	assert.False(t, ok, "NaN brdf must be rejected")

	weight, ok = ScatterResult{Direction: direction.Negate(), BRDF: core.MonoVec3(0.5), PDF: 1}.Weight(up)
	assert.True(t, ok)
	assert.True(t, weight.IsZero())

	// A lobe sample below the horizon carries zero density; it is absorbed, not degenerate
	weight, ok = ScatterResult{Direction: direction.Negate(), BRDF: core.Vec3{}, PDF: 0}.Weight(up)
	assert.True(t, ok)
	assert.True(t, weight.IsZero())
}

func TestTable_Lookup(t *testing.T) {
	var table Table
	red := NewLambertian(core.NewVec3(1, 0, 0))
	id := table.Add(red)

	assert.Equal(t, 0, id)
	assert.Same(t, red, table.Lookup(id))
	assert.Equal(t, DefaultDiffuse, table.Lookup(5))
	assert.Equal(t, DefaultDiffuse, table.Lookup(-1))
}

func TestEmissive(t *testing.T) {
	light := NewEmissive(core.NewVec3(4, 4, 4))
	assert.Equal(t, core.NewVec3(4, 4, 4), light.Emitted())
	assert.True(t, light.Evaluate(viewer, up, up, 0).IsZero())
}
