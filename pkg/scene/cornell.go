package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-progressive-integrator/pkg/camera"
	"github.com/df07/go-progressive-integrator/pkg/core"
	"github.com/df07/go-progressive-integrator/pkg/material"
	"github.com/df07/go-progressive-integrator/pkg/params"
)

// NewCornellScene creates a classic Cornell box lit by a small spherical
// point light under an emissive ceiling panel
func NewCornellScene() *Scene {
	// Cornell box dimensions (standard 555x555x555 units)
	boxSize := 555.0

	p := params.Default()
	p.LightType = params.LightTypePoint
	p.LightPos = mgl64.Vec4{boxSize / 2, boxSize - 30, boxSize / 2, 1}
	p.LightRadius = 20
	p.LightScale = 2e5 // radiance falls off with distance², so scale for box units
	p.ShadowRays = 2
	p.Glossiness = 0.4
	p.Background = mgl64.Vec3{0, 0, 0}
	p.RouletteMinBounces = 4

	s := &Scene{
		Name: "cornell",
		CameraConfig: camera.Config{
			Center: core.NewVec3(278, 278, -800), // Position camera outside the box looking in
			LookAt: core.NewVec3(278, 278, 0),    // Look at the center of the box
			Up:     core.NewVec3(0, 1, 0),
			VFov:   40.0,
		},
		Params: p,
		Width:  400,
		Height: 400,
	}

	// Create materials
	white := s.Materials.Add(material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73)))
	red := s.Materials.Add(material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05)))
	green := s.Materials.Add(material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15)))
	panel := s.Materials.Add(material.NewEmissive(core.NewVec3(4, 4, 4)))
	metal := s.Materials.Add(material.NewGlossy(core.NewVec3(0.05, 0.05, 0.05), core.NewVec3(0.8, 0.8, 0.9)))
	plaster := s.Materials.Add(material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73)))

	// Walls; the integrator flips normals toward the viewer, so winding is free
	s.Shapes = []Shape{
		// Floor - XZ plane at y=0
		NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white),
		// Ceiling - XZ plane at y=boxSize
		NewQuad(core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white),
		// Back wall - XY plane at z=boxSize
		NewQuad(core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), white),
		// Left wall - YZ plane at x=0
		NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0), red),
		// Right wall - YZ plane at x=boxSize
		NewQuad(core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize), green),
	}

	// Emissive panel slightly below the ceiling
	lightSize := 130.0
	lightOffset := (boxSize - lightSize) / 2.0
	s.Shapes = append(s.Shapes, NewQuad(
		core.NewVec3(lightOffset, boxSize-1, lightOffset),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
		panel,
	))

	s.Shapes = append(s.Shapes,
		NewSphere(core.NewVec3(185, 82.5, 169), 82.5, metal),
		NewSphere(core.NewVec3(370, 90, 351), 90, plaster),
	)
	return s
}
