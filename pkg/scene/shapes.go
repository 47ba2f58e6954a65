package scene

import (
	"math"

	"github.com/df07/go-progressive-integrator/pkg/core"
)

// Shape is a primitive the reference traversal can intersect
type Shape interface {
	// Hit returns the intersection with the smallest t in [tMin, tMax]
	Hit(ray core.Ray, tMin, tMax float64) (core.Hit, bool)
}

// Sphere represents a sphere shape
type Sphere struct {
	Center     core.Vec3
	Radius     float64
	MaterialID int
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, materialID int) *Sphere {
	return &Sphere{Center: center, Radius: radius, MaterialID: materialID}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (core.Hit, bool) {
	// Quadratic equation coefficients: at² + 2*halfB*t + c = 0
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return core.Hit{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return core.Hit{}, false
		}
	}

	point := ray.At(root)
	return core.Hit{
		Position:   point,
		Normal:     point.Subtract(s.Center).Multiply(1.0 / s.Radius),
		MaterialID: s.MaterialID,
		Distance:   root,
	}, true
}

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point      core.Vec3 // A point on the plane
	Normal     core.Vec3 // Unit normal
	MaterialID int
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3, materialID int) *Plane {
	return &Plane{Point: point, Normal: normal.Normalize(), MaterialID: materialID}
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (core.Hit, bool) {
	// Parallel rays never hit
	denominator := ray.Direction.Dot(p.Normal)
	if math.Abs(denominator) < 1e-8 {
		return core.Hit{}, false
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t < tMin || t > tMax {
		return core.Hit{}, false
	}

	return core.Hit{
		Position:   ray.At(t),
		Normal:     p.Normal,
		MaterialID: p.MaterialID,
		Distance:   t,
	}, true
}

// Quad represents a parallelogram defined by a corner and two edge vectors
type Quad struct {
	Corner     core.Vec3 // One corner of the quad
	U          core.Vec3 // First edge vector
	V          core.Vec3 // Second edge vector
	Normal     core.Vec3 // Unit normal along U × V
	MaterialID int

	d float64   // Plane equation constant: normal · x = d
	w core.Vec3 // Cached for barycentric coordinates
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3, materialID int) *Quad {
	cross := u.Cross(v)
	normal := cross.Normalize()

	return &Quad{
		Corner:     corner,
		U:          u,
		V:          v,
		Normal:     normal,
		MaterialID: materialID,
		d:          normal.Dot(corner),
		w:          normal.Multiply(1.0 / normal.Dot(cross)),
	}
}

// Hit tests if a ray intersects with the quad
func (q *Quad) Hit(ray core.Ray, tMin, tMax float64) (core.Hit, bool) {
	denominator := ray.Direction.Dot(q.Normal)
	if math.Abs(denominator) < 1e-8 {
		return core.Hit{}, false
	}

	t := (q.d - ray.Origin.Dot(q.Normal)) / denominator
	if t < tMin || t > tMax {
		return core.Hit{}, false
	}

	// Barycentric coordinates within the parallelogram
	hitPoint := ray.At(t)
	hitVector := hitPoint.Subtract(q.Corner)
	alpha := q.w.Dot(hitVector.Cross(q.V))
	beta := q.w.Dot(q.U.Cross(hitVector))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return core.Hit{}, false
	}

	return core.Hit{
		Position:   hitPoint,
		Normal:     q.Normal,
		MaterialID: q.MaterialID,
		Distance:   t,
	}, true
}

// NewGroundQuad creates a large horizontal quad centered at center with
// normal pointing up (0,1,0)
func NewGroundQuad(center core.Vec3, size float64, materialID int) *Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u × v = (size,0,0) × (0,0,size) = (0,-size²,0), so swap to face up
	return NewQuad(corner, core.NewVec3(0, 0, size), core.NewVec3(size, 0, 0), materialID)
}
