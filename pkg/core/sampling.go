package core

import (
	"math"

	"pgregory.net/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a pgregory.net/rand generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler whose stream is fully determined by seeds
func NewSeededSampler(seeds ...uint64) *RandomSampler {
	return &RandomSampler{random: rand.New(seeds...)}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// PixelSeed derives the seed for one pixel in one frame of a session.
// Distinct (session, frame, pixel) triples give decorrelated streams, so
// repeated frames sample different sub-pixel positions and paths.
func PixelSeed(sessionSeed, frame uint64, pixelIndex int) uint64 {
	return rand.New(sessionSeed, frame, uint64(pixelIndex)).Uint64()
}

// OrthonormalBasis returns two unit vectors that, together with w, form a
// right-handed orthonormal frame. w must be normalized.
func OrthonormalBasis(w Vec3) (u, v Vec3) {
	// Find a vector perpendicular to w
	var nt Vec3
	if math.Abs(w.X) > 0.1 {
		nt = NewVec3(0, 1, 0)
	} else {
		nt = NewVec3(1, 0, 0)
	}
	u = nt.Cross(w).Normalize()
	v = w.Cross(u)
	return u, v
}

// SampleCosineHemisphere generates a cosine-weighted random direction in hemisphere around normal
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	a := 2.0 * math.Pi * sample.X
	z := sample.Y
	r := math.Sqrt(z)

	x := r * math.Cos(a)
	y := r * math.Sin(a)
	zCoord := math.Sqrt(1.0 - z)

	tangent, bitangent := OrthonormalBasis(normal)

	// Transform to world space
	return tangent.Multiply(x).Add(bitangent.Multiply(y)).Add(normal.Multiply(zCoord))
}

// SamplePowerCosineLobe samples a direction around axis with density
// (n+1)/(2π) * cos^n(α), the Phong specular lobe.
func SamplePowerCosineLobe(axis Vec3, exponent float64, sample Vec2) Vec3 {
	cosAlpha := math.Pow(sample.X, 1.0/(exponent+1.0))
	sinAlpha := math.Sqrt(math.Max(0, 1.0-cosAlpha*cosAlpha))
	phi := 2.0 * math.Pi * sample.Y

	u, v := OrthonormalBasis(axis)
	return u.Multiply(sinAlpha * math.Cos(phi)).
		Add(v.Multiply(sinAlpha * math.Sin(phi))).
		Add(axis.Multiply(cosAlpha))
}

// PowerCosineLobePDF is the solid-angle density of SamplePowerCosineLobe
func PowerCosineLobePDF(cosAlpha, exponent float64) float64 {
	if cosAlpha <= 0 {
		return 0
	}
	return (exponent + 1.0) / (2.0 * math.Pi) * math.Pow(cosAlpha, exponent)
}

// SampleCone samples a direction uniformly within a cone
func SampleCone(direction Vec3, cosTotalWidth float64, sample Vec2) Vec3 {
	u, v := OrthonormalBasis(direction)

	cosTheta := 1.0 - sample.X*(1.0-cosTotalWidth)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	phi := 2.0 * math.Pi * sample.Y

	x := sinTheta * math.Cos(phi)
	y := sinTheta * math.Sin(phi)
	z := cosTheta

	return u.Multiply(x).Add(v.Multiply(y)).Add(direction.Multiply(z))
}

// SamplePointInUnitSphere generates a random point inside a unit sphere using spherical coordinates
// This avoids rejection sampling by using the inverse CDF method
func SamplePointInUnitSphere(sample Vec3) Vec3 {
	// r = ∛(u₁) to account for volume scaling
	r := math.Cbrt(sample.X)
	phi := 2 * math.Pi * sample.Y
	cosTheta := 2*sample.Z - 1
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))

	x := r * sinTheta * math.Cos(phi)
	y := r * sinTheta * math.Sin(phi)
	z := r * cosTheta

	return NewVec3(x, y, z)
}
