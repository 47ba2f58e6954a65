// Package scene is a reference traversal engine over small lists of
// primitives, plus the built-in preset scenes.
package scene

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/df07/go-progressive-integrator/pkg/camera"
	"github.com/df07/go-progressive-integrator/pkg/core"
	"github.com/df07/go-progressive-integrator/pkg/material"
	"github.com/df07/go-progressive-integrator/pkg/params"
)

// tMin rejects hits right at the ray origin
const tMin = 1e-6

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	Shapes       []Shape             // Objects in the scene
	Materials    material.Table      // Indexed by the shapes' material ids
	CameraConfig camera.Config       // Default viewpoint
	Params       params.GlobalParams // Default render parameters
	Width        int                 // Suggested frame width
	Height       int                 // Suggested frame height
}

// Intersect implements core.SceneQuery with a linear scan
func (s *Scene) Intersect(origin, direction core.Vec3) (core.Hit, bool) {
	ray := core.NewRay(origin, direction)
	closest := math.Inf(1)
	var nearest core.Hit
	hitAnything := false

	for _, shape := range s.Shapes {
		if hit, ok := shape.Hit(ray, tMin, closest); ok {
			hitAnything = true
			closest = hit.Distance
			nearest = hit
		}
	}
	return nearest, hitAnything
}

// Occluded implements core.SceneQuery; it stops at the first hit
func (s *Scene) Occluded(origin, direction core.Vec3, maxDistance float64) bool {
	ray := core.NewRay(origin, direction)
	for _, shape := range s.Shapes {
		if _, ok := shape.Hit(ray, tMin, maxDistance); ok {
			return true
		}
	}
	return false
}

// Camera builds the scene's default camera
func (s *Scene) Camera() camera.Camera {
	return camera.NewCamera(s.CameraConfig)
}

var builtin = map[string]func() *Scene{
	"default": NewDefaultScene,
	"cornell": NewCornellScene,
	"furnace": NewFurnaceScene,
}

// Names lists the built-in scenes
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load returns a fresh copy of the named built-in scene
func Load(name string) (*Scene, error) {
	build, ok := builtin[name]
	if !ok {
		return nil, errors.Errorf("unknown scene %q (available: %v)", name, Names())
	}
	return build(), nil
}
