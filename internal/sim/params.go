// Package sim advances strand control points with a spring-mass integrator.
package sim

import (
	"github.com/Faultbox/midgard-hair/pkg/math"
)

// Params configures a simulation tick. The integrator reads a copy.
//
// Stability is the caller's responsibility: symplectic Euler on a spring
// diverges once Stiffness*h*h grows past a few units (h is dt/Substeps).
// Nothing clamps that by default so bad tuning shows up instead of being
// masked.
type Params struct {
	Gravity       math.Vec3 `yaml:"gravity"`
	WindDirection math.Vec3 `yaml:"wind_direction"`
	WindStrength  float32   `yaml:"wind_strength"`
	Stiffness     float32   `yaml:"stiffness"`
	Damping       float32   `yaml:"damping"` // velocity multiplier per step, (0, 1]

	// Substeps splits dt into equal steps; values below 1 mean 1.
	Substeps int `yaml:"substeps"`

	// MaxSpeed, when positive, caps point speed after each step. Off by
	// default.
	MaxSpeed float32 `yaml:"max_speed"`

	// Workers bounds parallelism; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// DefaultParams returns gentle settings that are stable at 60 Hz.
func DefaultParams() Params {
	return Params{
		Gravity:       math.Vec3{Y: -9.81},
		WindDirection: math.Vec3{X: 1},
		WindStrength:  0,
		Stiffness:     400,
		Damping:       0.97,
		Substeps:      2,
	}
}
