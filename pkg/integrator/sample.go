package integrator

import "github.com/df07/go-progressive-integrator/pkg/core"

// Termination records why a path stopped
type Termination int

const (
	TerminatedMiss       Termination = iota // Escaped the scene
	TerminatedInvalidHit                    // Scene reported unusable hit data
	TerminatedAbsorbed                      // BSDF sample carried no energy
	TerminatedDegenerate                    // Zero pdf or non-finite weight; contribution dropped
	TerminatedRoulette                      // Killed by Russian roulette
	TerminatedDepth                         // Reached the bounce limit
)

func (t Termination) String() string {
	switch t {
	case TerminatedMiss:
		return "miss"
	case TerminatedInvalidHit:
		return "invalid-hit"
	case TerminatedAbsorbed:
		return "absorbed"
	case TerminatedDegenerate:
		return "degenerate"
	case TerminatedRoulette:
		return "roulette"
	case TerminatedDepth:
		return "depth"
	default:
		return "unknown"
	}
}

// PathSample is the radiance estimate of one path
type PathSample struct {
	Radiance    core.Vec3
	Bounces     int
	Termination Termination
}

// Discarded reports whether part of the path's contribution was dropped
// because of a numerical degeneracy
func (s PathSample) Discarded() bool {
	return s.Termination == TerminatedDegenerate
}
