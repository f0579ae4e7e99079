// Package tube builds camera-independent tube meshes from tessellated
// strands: one ring of vertices per sample, oriented with a parallel
// transport frame so the rings do not twist along the strand.
package tube

import (
	"github.com/Faultbox/midgard-hair/internal/strand"
	"github.com/Faultbox/midgard-hair/pkg/math"
)

// MinSegments is the smallest ring that still encloses a volume.
const MinSegments = 3

// Vertex represents a tube mesh vertex.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32 // U around the ring, V = t along the strand
	Color    [4]float32 // RGB from the strand, A = ambient occlusion
}

// StrandGroup is the index range of one strand.
type StrandGroup struct {
	Strand     int
	StartIndex int32
	IndexCount int32
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Mesh holds tube geometry ready for upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Groups   []StrandGroup
	Bounds   Bounds
}

// Build creates the tube mesh for strands with the given ring size.
// Strands with fewer than two samples are skipped, and segments below
// MinSegments is raised to it.
func Build(strands []*strand.Strand, segments int) *Mesh {
	segments = max(segments, MinSegments)

	total := 0
	for _, s := range strands {
		if n := s.Samples().Len(); n >= 2 {
			total += n
		}
	}

	m := &Mesh{
		Vertices: make([]Vertex, 0, total*segments),
		Indices:  make([]uint32, 0, total*segments*6),
	}
	for _, s := range strands {
		samples := s.Samples()
		if samples.Len() < 2 {
			continue
		}

		start := int32(len(m.Indices))
		buildStrand(m, samples, segments)
		m.Groups = append(m.Groups, StrandGroup{
			Strand:     s.Index,
			StartIndex: start,
			IndexCount: int32(len(m.Indices)) - start,
		})
	}

	if len(m.Vertices) > 0 {
		p := m.Vertices[0].Position
		m.Bounds = Bounds{Min: p, Max: p}
	}
	for i := range m.Vertices {
		updateBounds(&m.Bounds, m.Vertices[i].Position)
	}
	return m
}

func buildStrand(m *Mesh, s *strand.Samples, segments int) {
	base := uint32(len(m.Vertices))
	n := s.Len()

	normal, _ := s.Tangents[0].Orthonormal()
	for i := range n {
		tangent := s.Tangents[i]
		if i > 0 {
			// Carry the previous frame along the bend.
			normal = math.QuatBetween(s.Tangents[i-1], tangent).Rotate(normal)
			normal = normal.Sub(tangent.Scale(normal.Dot(tangent)))
			if unit, ok := normal.TryNormalize(1e-6); ok {
				normal = unit
			} else {
				normal, _ = tangent.Orthonormal()
			}
		}
		binormal := tangent.Cross(normal)

		c := s.Colors[i]
		color := [4]float32{c.R, c.G, c.B, s.AO[i]}
		for j := range segments {
			angle := math.Tau * float32(j) / float32(segments)
			dir := normal.Scale(math.Cos(angle)).Add(binormal.Scale(math.Sin(angle)))
			p := s.Positions[i].Add(dir.Scale(s.Radii[i]))
			m.Vertices = append(m.Vertices, Vertex{
				Position: [3]float32{p.X, p.Y, p.Z},
				Normal:   [3]float32{dir.X, dir.Y, dir.Z},
				TexCoord: [2]float32{float32(j) / float32(segments), s.T[i]},
				Color:    color,
			})
		}
	}

	seg := uint32(segments)
	for i := range uint32(n - 1) {
		ring := base + i*seg
		for j := range seg {
			a := ring + j
			b := ring + (j+1)%seg
			c := a + seg
			d := b + seg
			m.Indices = append(m.Indices, a, b, c, b, d, c)
		}
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	for k := range 3 {
		b.Min[k] = min(b.Min[k], p[k])
		b.Max[k] = max(b.Max[k], p[k])
	}
}
