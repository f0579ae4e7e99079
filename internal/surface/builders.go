package surface

import (
	gomath "math"

	"github.com/Faultbox/midgard-hair/pkg/math"
)

// Quad builds a two-triangle rectangle in the XZ plane at height y with
// normals along +Y. The split runs corner to corner, so the two triangles
// have equal area.
func Quad(minX, minZ, maxX, maxZ, y float32) *Mesh {
	return &Mesh{
		Positions: []math.Vec3{
			{X: minX, Y: y, Z: minZ},
			{X: maxX, Y: y, Z: minZ},
			{X: maxX, Y: y, Z: maxZ},
			{X: minX, Y: y, Z: maxZ},
		},
		Normals: []math.Vec3{math.Up, math.Up, math.Up, math.Up},
		Indices: []uint32{0, 2, 1, 0, 3, 2},
	}
}

// Scalp builds a cap of a sphere centered at the origin: the upper part of
// the sphere down to the given elevation below the equator (radians,
// 0 = hemisphere). rings and segments set the tessellation.
func Scalp(radius float32, lowerElevation float64, rings, segments int) *Mesh {
	if rings < 1 {
		rings = 1
	}
	if segments < 3 {
		segments = 3
	}

	m := &Mesh{}
	m.Positions = append(m.Positions, math.Vec3{Y: radius})
	m.Normals = append(m.Normals, math.Up)

	// Polar angle from +Y down to the lower edge.
	maxPolar := gomath.Pi/2 + lowerElevation
	for r := 1; r <= rings; r++ {
		polar := maxPolar * float64(r) / float64(rings)
		for s := range segments {
			azimuth := 2 * gomath.Pi * float64(s) / float64(segments)
			n := math.Vec3{
				X: float32(gomath.Sin(polar) * gomath.Sin(azimuth)),
				Y: float32(gomath.Cos(polar)),
				Z: float32(gomath.Sin(polar) * gomath.Cos(azimuth)),
			}
			m.Positions = append(m.Positions, n.Scale(radius))
			m.Normals = append(m.Normals, n)
		}
	}

	ring := func(r, s int) uint32 {
		return uint32(1 + (r-1)*segments + s%segments)
	}
	// Cap fan around the pole.
	for s := range segments {
		m.Indices = append(m.Indices, 0, ring(1, s), ring(1, s+1))
	}
	for r := 1; r < rings; r++ {
		for s := range segments {
			a, b := ring(r, s), ring(r, s+1)
			c, d := ring(r+1, s), ring(r+1, s+1)
			m.Indices = append(m.Indices, a, c, b, b, c, d)
		}
	}
	return m
}
