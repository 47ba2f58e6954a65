package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Hit is the nearest surface intersection reported by a SceneQuery
type Hit struct {
	Position   Vec3    // World-space hit point
	Normal     Vec3    // Geometric normal (any orientation, need not face the ray)
	MaterialID int     // Index into the material table; out-of-range ids fall back to a default
	Distance   float64 // Ray parameter of the hit
}

// Valid reports whether the hit carries usable intersection data.
// Traversal engines occasionally report hits with a degenerate normal or a
// non-finite position; the integrator treats those as misses.
func (h Hit) Valid() bool {
	if !h.Position.IsFinite() || !h.Normal.IsFinite() {
		return false
	}
	if h.Normal.LengthSquared() < 1e-12 {
		return false
	}
	return isFinite(h.Distance) && h.Distance > 0
}

// SceneQuery is the capability handed out by a traversal engine. The core
// never sees the acceleration structure behind it.
type SceneQuery interface {
	// Intersect returns the nearest hit along the ray, if any
	Intersect(origin, direction Vec3) (Hit, bool)

	// Occluded reports whether anything lies along the ray closer than maxDistance.
	// Any hit is sufficient; implementations may stop at the first one.
	Occluded(origin, direction Vec3, maxDistance float64) bool
}
