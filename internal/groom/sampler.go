package groom

import (
	gomath "math"
	"math/rand/v2"
	"sort"

	"github.com/Faultbox/midgard-hair/internal/surface"
	"github.com/Faultbox/midgard-hair/pkg/math"
)

// Sampler draws points uniformly by area over a surface, so root density
// does not depend on how the surface is triangulated.
type Sampler struct {
	mesh *surface.Mesh
	cdf  []float64 // cumulative triangle area
}

// NewSampler builds the area distribution for m. It returns false when the
// mesh is malformed or has no area.
func NewSampler(m *surface.Mesh) (*Sampler, bool) {
	if !m.Valid() {
		return nil, false
	}
	n := m.TriangleCount()
	cdf := make([]float64, n)
	var total float64
	for i := range n {
		total += float64(m.Triangle(i).Area())
		cdf[i] = total
	}
	// Finite positions can still overflow float32 areas.
	if !(total > 0) || gomath.IsInf(total, 0) {
		return nil, false
	}
	return &Sampler{mesh: m, cdf: cdf}, true
}

// TotalArea returns the surface area.
func (s *Sampler) TotalArea() float64 {
	return s.cdf[len(s.cdf)-1]
}

// Pick returns the triangle whose area bucket contains x in [0, total).
// Zero-area triangles own empty buckets and are never picked.
func (s *Sampler) Pick(x float64) int {
	i := sort.Search(len(s.cdf), func(i int) bool { return s.cdf[i] > x })
	if i == len(s.cdf) {
		i = len(s.cdf) - 1
	}
	return i
}

// Sample draws a triangle by area and a uniform point inside it. It uses
// exactly three draws from r.
func (s *Sampler) Sample(r *rand.Rand) (pos, normal math.Vec3, tri int) {
	tri = s.Pick(r.Float64() * s.TotalArea())
	u, v := r.Float32(), r.Float32()
	// Fold the far half of the unit square back into the triangle.
	if u+v > 1 {
		u, v = 1-u, 1-v
	}
	pos, normal = s.mesh.Triangle(tri).Interpolate(u, v)
	return pos, normal, tri
}
