// Package camera models the viewpoint and the primary-ray source.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-progressive-integrator/pkg/core"
)

// Config describes a camera in look-at form
type Config struct {
	Center core.Vec3 // Eye position
	LookAt core.Vec3 // Point the camera is aimed at
	Up     core.Vec3 // World up hint
	VFov   float64   // Vertical field of view in degrees
}

// Camera is an eye position with an orthonormal basis. It is immutable for
// the duration of a frame.
type Camera struct {
	Eye     core.Vec3
	Right   core.Vec3
	Up      core.Vec3
	Forward core.Vec3
	VFov    float64 // degrees
}

// NewCamera builds the camera basis from a look-at configuration
func NewCamera(config Config) Camera {
	eye := toMgl(config.Center)
	view := mgl64.LookAtV(eye, toMgl(config.LookAt), toMgl(config.Up))

	// Rows of the view rotation are the camera axes in world space; the view
	// looks down -Z so forward is the negated third row.
	right := view.Row(0).Vec3()
	up := view.Row(1).Vec3()
	forward := view.Row(2).Vec3().Mul(-1)

	return Camera{
		Eye:     config.Center,
		Right:   fromMgl(right),
		Up:      fromMgl(up),
		Forward: fromMgl(forward),
		VFov:    config.VFov,
	}
}

// RayThrough returns the ray through normalized screen coordinates (s, t),
// where (0,0) is the top-left corner and (1,1) the bottom-right one.
func (c Camera) RayThrough(s, t, aspectRatio float64) core.Ray {
	halfHeight := math.Tan(c.VFov * math.Pi / 360.0)
	halfWidth := aspectRatio * halfHeight

	x := (2*s - 1) * halfWidth
	y := (1 - 2*t) * halfHeight

	direction := c.Forward.Add(c.Right.Multiply(x)).Add(c.Up.Multiply(y)).Normalize()
	return core.NewRay(c.Eye, direction)
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) core.Vec3 {
	return core.NewVec3(v.X(), v.Y(), v.Z())
}
