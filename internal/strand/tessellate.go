package strand

import (
	"github.com/Faultbox/midgard-hair/pkg/math"
)

// degenerateLength is the finite-difference length below which a tangent
// is considered undefined.
const degenerateLength = 1e-7

// Length returns the sum of distances between consecutive control points.
func Length(points []ControlPoint) float32 {
	var total float32
	for i := 1; i < len(points); i++ {
		total += points[i].Position.Distance(points[i-1].Position)
	}
	return total
}

// SampleCount returns how many samples Tessellate produces, or 0 when the
// curve cannot be tessellated.
func SampleCount(controlPoints, segmentsPerControl int) int {
	if controlPoints < 2 || segmentsPerControl < 1 {
		return 0
	}
	return (controlPoints-1)*segmentsPerControl + 1
}

// Tessellate evaluates a uniform Catmull-Rom spline through points at
// (n-1)*segmentsPerControl+1 evenly spaced parameters. Fewer than two
// points yield empty samples. The result depends only on its inputs.
func Tessellate(points []ControlPoint, segmentsPerControl int) Samples {
	count := SampleCount(len(points), segmentsPerControl)
	if count == 0 {
		return Samples{}
	}

	out := Samples{
		Positions: make([]math.Vec3, count),
		Tangents:  make([]math.Vec3, count),
		Radii:     make([]float32, count),
		Colors:    make([]math.RGB, count),
		AO:        make([]float32, count),
		T:         make([]float32, count),
	}

	last := len(points) - 1
	for i := range count {
		t := float32(i) / float32(count-1)
		seg, local := locate(i, segmentsPerControl, last)

		p1, p2 := points[seg], points[seg+1]
		p0 := points[max(seg-1, 0)]
		p3 := points[min(seg+2, last)]

		out.T[i] = t
		out.Positions[i] = catmullRom(p0.Position, p1.Position, p2.Position, p3.Position, local)
		out.Radii[i] = math.Lerp(p1.Radius, p2.Radius, local)
		out.Colors[i] = p1.Color.Lerp(p2.Color, local)
		out.AO[i] = math.Lerp(p1.AO, p2.AO, local)
	}

	fillTangents(out.Positions, out.Tangents)
	return out
}

// locate maps sample i to its span and the fraction within the span.
// Working in integers keeps the end samples exactly on the control points.
func locate(i, segmentsPerControl, last int) (int, float32) {
	seg := i / segmentsPerControl
	if seg >= last {
		return last - 1, 1
	}
	return seg, float32(i%segmentsPerControl) / float32(segmentsPerControl)
}

// catmullRom evaluates the uniform Catmull-Rom segment between p1 and p2.
func catmullRom(p0, p1, p2, p3 math.Vec3, t float32) math.Vec3 {
	t2 := t * t
	t3 := t2 * t
	// 0.5 * (2p1 + (-p0+p2)t + (2p0-5p1+4p2-p3)t^2 + (-p0+3p1-3p2+p3)t^3)
	c0 := p1.Scale(2)
	c1 := p2.Sub(p0).Scale(t)
	c2 := p0.Scale(2).Sub(p1.Scale(5)).Add(p2.Scale(4)).Sub(p3).Scale(t2)
	c3 := p1.Scale(3).Sub(p0).Sub(p2.Scale(3)).Add(p3).Scale(t3)
	return c0.Add(c1).Add(c2).Add(c3).Scale(0.5)
}

// fillTangents writes normalized finite-difference tangents: forward at the
// first sample, backward at the last, central elsewhere. Where a difference
// vanishes the previous valid direction is kept; leading degenerate samples
// take the first valid direction, and a fully collapsed curve gets +Y.
func fillTangents(pos, tan []math.Vec3) {
	n := len(pos)
	firstValid := -1
	var prev math.Vec3
	for i := range n {
		var d math.Vec3
		switch {
		case n == 1:
		case i == 0:
			d = pos[1].Sub(pos[0])
		case i == n-1:
			d = pos[i].Sub(pos[i-1])
		default:
			d = pos[i+1].Sub(pos[i-1])
		}

		if dir, ok := d.TryNormalize(degenerateLength); ok {
			tan[i] = dir
			prev = dir
			if firstValid < 0 {
				firstValid = i
			}
			continue
		}
		tan[i] = prev
	}

	fallback := math.Up
	if firstValid >= 0 {
		fallback = tan[firstValid]
	} else {
		firstValid = n
	}
	for i := 0; i < firstValid; i++ {
		tan[i] = fallback
	}
}
