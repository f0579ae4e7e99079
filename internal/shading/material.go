// Package shading evaluates the analytic hair fiber shading model: a
// tangent-wrapped diffuse term, two shifted Gaussian specular lobes (surface
// reflection and the internally transmitted secondary highlight),
// transmission for light from behind the fiber, and back-scatter.
package shading

import (
	"github.com/Faultbox/midgard-hair/pkg/math"
)

// Material holds the shading tunables. Setting a term's strength to zero
// removes that term entirely.
type Material struct {
	RootColor math.RGB `yaml:"root_color"`
	TipColor  math.RGB `yaml:"tip_color"`

	DiffuseStrength float32 `yaml:"diffuse_strength"`

	// Lobe shifts and widths are in radians.
	PrimaryShift    float32  `yaml:"primary_shift"`
	PrimaryWidth    float32  `yaml:"primary_width"`
	PrimaryStrength float32  `yaml:"primary_strength"`
	PrimaryTint     math.RGB `yaml:"primary_tint"`

	SecondaryShift    float32  `yaml:"secondary_shift"`
	SecondaryWidth    float32  `yaml:"secondary_width"`
	SecondaryStrength float32  `yaml:"secondary_strength"`
	SecondaryTint     math.RGB `yaml:"secondary_tint"` // multiplied by the base color

	TransmissionStrength float32  `yaml:"transmission_strength"`
	TransmissionColor    math.RGB `yaml:"transmission_color"` // multiplied by the base color

	// Back-scatter peaks when the light sits behind the viewer.
	BackscatterStrength  float32 `yaml:"backscatter_strength"`
	BackscatterSharpness float32 `yaml:"backscatter_sharpness"`

	AOStrength float32 `yaml:"ao_strength"`
}

// DefaultMaterial returns a brown hair look.
func DefaultMaterial() Material {
	return Material{
		RootColor:            math.RGB{R: 0.10, G: 0.065, B: 0.04},
		TipColor:             math.RGB{R: 0.32, G: 0.22, B: 0.14},
		DiffuseStrength:      0.8,
		PrimaryShift:         -0.09,
		PrimaryWidth:         0.12,
		PrimaryStrength:      0.35,
		PrimaryTint:          math.White,
		SecondaryShift:       0.12,
		SecondaryWidth:       0.25,
		SecondaryStrength:    0.5,
		SecondaryTint:        math.RGB{R: 1, G: 0.85, B: 0.7},
		TransmissionStrength: 0.4,
		TransmissionColor:    math.RGB{R: 1, G: 0.6, B: 0.35},
		BackscatterStrength:  0.1,
		BackscatterSharpness: 8,
		AOStrength:           0.7,
	}
}
