package shading

import (
	gomath "math"

	"github.com/Faultbox/midgard-hair/internal/strand"
	"github.com/Faultbox/midgard-hair/pkg/math"
)

// Light is a directional light.
type Light struct {
	Direction math.Vec3 `yaml:"direction"` // toward the light
	Color     math.RGB  `yaml:"color"`
}

// SunDirection converts longitude/latitude in degrees to a unit vector
// pointing toward the light. Longitude rotates around Y from +Z, latitude
// is the elevation above the horizon.
func SunDirection(longitude, latitude float32) math.Vec3 {
	lon := float64(longitude) * gomath.Pi / 180
	lat := float64(latitude) * gomath.Pi / 180
	return math.Vec3{
		X: float32(gomath.Cos(lat) * gomath.Sin(lon)),
		Y: float32(gomath.Sin(lat)),
		Z: float32(gomath.Cos(lat) * gomath.Cos(lon)),
	}
}

// ShadeSample shades sample i of a tessellated strand under l, as seen
// from eye.
func ShadeSample(s *strand.Samples, i int, eye math.Vec3, l Light, m *Material) math.RGB {
	view := eye.Sub(s.Positions[i]).Normalize()
	return Shade(s.Tangents[i], view, l.Direction, l.Color, m, s.T[i], s.AO[i])
}
