// Package strand provides the hair fiber curve model and its spline
// tessellation.
package strand

import (
	"github.com/Faultbox/midgard-hair/pkg/math"
)

// ControlPoint is one sparse sample along a strand.
type ControlPoint struct {
	Position math.Vec3
	Radius   float32 // fiber thickness, >= 0
	Color    math.RGB
	AO       float32 // ambient occlusion, 1 = unoccluded
}

// Group is a coarse styling classifier assigned from the root.
type Group uint8

// Strand groups.
const (
	GroupBack Group = iota
	GroupFront
	GroupLeft
	GroupRight
)

// String returns the group name.
func (g Group) String() string {
	switch g {
	case GroupFront:
		return "front"
	case GroupLeft:
		return "left"
	case GroupRight:
		return "right"
	default:
		return "back"
	}
}

// Samples is the dense tessellation of a strand. All slices share a length.
type Samples struct {
	Positions []math.Vec3
	Tangents  []math.Vec3
	Radii     []float32
	Colors    []math.RGB
	AO        []float32
	T         []float32 // curve parameter in [0, 1]
}

// Len returns the number of samples.
func (s *Samples) Len() int {
	return len(s.Positions)
}

// Strand is an ordered, fixed-length run of control points. Index 0 is the
// root and stays where it was grown.
//
// Points may be edited in place, but every edit must be followed by
// Retessellate: the sample cache is never refreshed implicitly.
type Strand struct {
	Index  int
	Group  Group
	Points []ControlPoint

	segments int
	samples  Samples
}

// New returns a strand over points tessellated with segmentsPerControl
// samples per span.
func New(index int, group Group, points []ControlPoint, segmentsPerControl int) *Strand {
	s := &Strand{
		Index:    index,
		Group:    group,
		Points:   points,
		segments: segmentsPerControl,
	}
	s.Retessellate()
	return s
}

// Root returns the root control point position.
func (s *Strand) Root() math.Vec3 {
	if len(s.Points) == 0 {
		return math.Vec3{}
	}
	return s.Points[0].Position
}

// SegmentsPerControl returns the tessellation density.
func (s *Strand) SegmentsPerControl() int {
	return s.segments
}

// Samples returns the cached tessellation. Callers must not modify it.
func (s *Strand) Samples() *Samples {
	return &s.samples
}

// Retessellate rebuilds the sample cache from the current control points.
func (s *Strand) Retessellate() {
	s.samples = Tessellate(s.Points, s.segments)
}

// Length returns the polyline length through the control points.
func (s *Strand) Length() float32 {
	return Length(s.Points)
}

// Clone returns a deep copy, including the sample cache.
func (s *Strand) Clone() *Strand {
	c := *s
	c.Points = append([]ControlPoint(nil), s.Points...)
	c.samples = Samples{
		Positions: append([]math.Vec3(nil), s.samples.Positions...),
		Tangents:  append([]math.Vec3(nil), s.samples.Tangents...),
		Radii:     append([]float32(nil), s.samples.Radii...),
		Colors:    append([]math.RGB(nil), s.samples.Colors...),
		AO:        append([]float32(nil), s.samples.AO...),
		T:         append([]float32(nil), s.samples.T...),
	}
	return &c
}
