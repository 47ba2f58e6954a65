package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-progressive-integrator/pkg/camera"
	"github.com/df07/go-progressive-integrator/pkg/core"
	"github.com/df07/go-progressive-integrator/pkg/material"
	"github.com/df07/go-progressive-integrator/pkg/params"
)

// NewDefaultScene creates a default scene with spheres on a ground quad
// under a directional sun and a sky background
func NewDefaultScene() *Scene {
	p := params.Default()
	p.LightType = params.LightTypeDirectional
	p.LightDir = mgl64.Vec4{-0.4, -1, -0.3, 0}
	p.LightAngle = 2
	p.LightScale = 2.5
	p.Glossiness = 0.3
	p.Background = mgl64.Vec3{0.5, 0.7, 1.0} // blue sky

	s := &Scene{
		Name: "default",
		CameraConfig: camera.Config{
			Center: core.NewVec3(0, 0.75, 2), // Position camera higher and farther back
			LookAt: core.NewVec3(0, 0.5, -1), // Look at the sphere center
			Up:     core.NewVec3(0, 1, 0),
			VFov:   40.0,
		},
		Params: p,
		Width:  400,
		Height: 225,
	}

	// Create materials
	ground := s.Materials.Add(material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0).Multiply(0.6)))
	blue := s.Materials.Add(material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5)))
	silver := s.Materials.Add(material.NewGlossy(core.NewVec3(0.1, 0.1, 0.1), core.NewVec3(0.8, 0.8, 0.8)))
	gold := s.Materials.Add(material.NewGlossy(core.NewVec3(0.4, 0.3, 0.1), core.NewVec3(0.8, 0.6, 0.2)))

	s.Shapes = []Shape{
		NewSphere(core.NewVec3(0, 0.5, -1), 0.5, blue),
		NewSphere(core.NewVec3(-1, 0.5, -1), 0.5, silver),
		NewSphere(core.NewVec3(1, 0.5, -1), 0.5, gold),
		// Large but finite ground
		NewGroundQuad(core.NewVec3(0, 0, 0), 10000.0, ground),
	}
	return s
}

// NewFurnaceScene creates two infinite parallel planes: a diffuse floor at
// y=0 and an emissive diffuse ceiling at y=1. With floor albedo a, ceiling
// albedo b and emission E, the floor's outgoing radiance is aE/(1-ab).
func NewFurnaceScene() *Scene {
	p := params.Default()
	p.LightScale = 0 // emission only

	s := &Scene{
		Name: "furnace",
		CameraConfig: camera.Config{
			Center: core.NewVec3(0, 0.5, 0),
			LookAt: core.NewVec3(0, 0, 0),
			Up:     core.NewVec3(0, 0, -1),
			VFov:   30.0,
		},
		Params: p,
		Width:  64,
		Height: 64,
	}

	floor := s.Materials.Add(material.NewLambertian(core.MonoVec3(0.5)))
	ceiling := s.Materials.Add(&material.GlossyDiffuse{Albedo: core.MonoVec3(0.5), Emission: core.MonoVec3(1)})

	s.Shapes = []Shape{
		NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), floor),
		NewPlane(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0), ceiling),
	}
	return s
}
