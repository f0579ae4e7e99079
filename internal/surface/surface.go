// Package surface holds the triangulated source surface hair is grown from.
// The generator borrows a Mesh read-only; nothing in the pipeline mutates it.
package surface

import (
	"github.com/Faultbox/midgard-hair/pkg/math"
)

// Mesh is a triangulated surface with one normal per vertex.
type Mesh struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	Indices   []uint32 // three per triangle
}

// Triangle is one resolved triangle of a Mesh.
type Triangle struct {
	P [3]math.Vec3
	N [3]math.Vec3
}

// TriangleCount returns the number of complete triangles.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 3
}

// Valid reports whether the mesh has finite vertices, matching normals, at
// least one triangle and in-range indices.
func (m *Mesh) Valid() bool {
	if m == nil || len(m.Positions) == 0 || len(m.Indices) < 3 {
		return false
	}
	if len(m.Normals) != len(m.Positions) {
		return false
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Positions) {
			return false
		}
	}
	for _, p := range m.Positions {
		if !p.IsFinite() {
			return false
		}
	}
	return true
}

// Triangle returns triangle i. The caller must check Valid first.
func (m *Mesh) Triangle(i int) Triangle {
	a, b, c := m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]
	return Triangle{
		P: [3]math.Vec3{m.Positions[a], m.Positions[b], m.Positions[c]},
		N: [3]math.Vec3{m.Normals[a], m.Normals[b], m.Normals[c]},
	}
}

// Area returns the triangle's area.
func (t Triangle) Area() float32 {
	return t.P[1].Sub(t.P[0]).Cross(t.P[2].Sub(t.P[0])).Length() * 0.5
}

// Interpolate returns the barycentric position and normal at weights
// (1-u-v, u, v). The normal is renormalized; a degenerate blend falls back
// to the face normal.
func (t Triangle) Interpolate(u, v float32) (math.Vec3, math.Vec3) {
	w := 1 - u - v
	pos := t.P[0].Scale(w).Add(t.P[1].Scale(u)).Add(t.P[2].Scale(v))
	n := t.N[0].Scale(w).Add(t.N[1].Scale(u)).Add(t.N[2].Scale(v))
	if nn, ok := n.TryNormalize(1e-6); ok {
		return pos, nn
	}
	return pos, t.FaceNormal()
}

// FaceNormal returns the geometric normal from the winding order, or +Y
// for a zero-area triangle.
func (t Triangle) FaceNormal() math.Vec3 {
	n, ok := t.P[1].Sub(t.P[0]).Cross(t.P[2].Sub(t.P[0])).TryNormalize(1e-12)
	if !ok {
		return math.Up
	}
	return n
}

// Areas returns per-triangle areas and their sum.
func (m *Mesh) Areas() ([]float32, float32) {
	n := m.TriangleCount()
	areas := make([]float32, n)
	var total float32
	for i := range n {
		areas[i] = m.Triangle(i).Area()
		total += areas[i]
	}
	return areas, total
}

// RecomputeNormals replaces Normals with area-weighted averages of the
// adjacent face normals. Vertices not referenced by any triangle get +Y.
func (m *Mesh) RecomputeNormals() {
	sums := make([]math.Vec3, len(m.Positions))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		if int(a) >= len(sums) || int(b) >= len(sums) || int(c) >= len(sums) {
			continue
		}
		p0, p1, p2 := m.Positions[a], m.Positions[b], m.Positions[c]
		// Unnormalized cross product is already weighted by twice the area.
		fn := p1.Sub(p0).Cross(p2.Sub(p0))
		sums[a] = sums[a].Add(fn)
		sums[b] = sums[b].Add(fn)
		sums[c] = sums[c].Add(fn)
	}

	m.Normals = make([]math.Vec3, len(m.Positions))
	for i, s := range sums {
		if n, ok := s.TryNormalize(1e-12); ok {
			m.Normals[i] = n
		} else {
			m.Normals[i] = math.Up
		}
	}
}
