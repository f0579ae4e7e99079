package tube

import (
	"testing"

	"github.com/Faultbox/midgard-hair/internal/strand"
	"github.com/Faultbox/midgard-hair/pkg/math"
)

func straightStrand(index int) *strand.Strand {
	points := make([]strand.ControlPoint, 3)
	for i := range points {
		points[i] = strand.ControlPoint{
			Position: math.Vec3{Y: -float32(i)},
			Radius:   0.1,
			Color:    math.RGB{R: 0.2, G: 0.3, B: 0.4},
			AO:       0.5,
		}
	}
	return strand.New(index, strand.GroupBack, points, 2)
}

func vec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

func TestBuildStraight(t *testing.T) {
	const segments = 6
	m := Build([]*strand.Strand{straightStrand(7)}, segments)

	samples := 5
	if got, want := len(m.Vertices), samples*segments; got != want {
		t.Fatalf("vertices = %d, want %d", got, want)
	}
	if got, want := len(m.Indices), (samples-1)*segments*6; got != want {
		t.Fatalf("indices = %d, want %d", got, want)
	}
	if len(m.Groups) != 1 || m.Groups[0].Strand != 7 || m.Groups[0].IndexCount != int32(len(m.Indices)) {
		t.Errorf("groups = %+v", m.Groups)
	}

	for i, v := range m.Vertices {
		p := vec(v.Position)
		axis := math.Vec3{Y: p.Y}
		if r := p.Distance(axis); math.Abs(r-0.1) > 1e-5 {
			t.Errorf("vertex %d is %v from the axis, want 0.1", i, r)
		}
		n := vec(v.Normal)
		if math.Abs(n.Length()-1) > 1e-5 || math.Abs(n.Y) > 1e-5 {
			t.Errorf("vertex %d normal %v is not a unit radial", i, n)
		}
		if v.Color != [4]float32{0.2, 0.3, 0.4, 0.5} {
			t.Errorf("vertex %d color = %v", i, v.Color)
		}
	}

	if m.Vertices[0].TexCoord[1] != 0 || m.Vertices[len(m.Vertices)-1].TexCoord[1] != 1 {
		t.Errorf("V does not run 0..1: %v .. %v", m.Vertices[0].TexCoord, m.Vertices[len(m.Vertices)-1].TexCoord)
	}

	if m.Bounds.Max[1] != 0 || math.Abs(m.Bounds.Min[1]+2) > 1e-5 {
		t.Errorf("bounds = %+v", m.Bounds)
	}
	if m.Bounds.Max[0] > 0.1+1e-5 || m.Bounds.Min[0] < -0.1-1e-5 {
		t.Errorf("bounds X = %v..%v", m.Bounds.Min[0], m.Bounds.Max[0])
	}
}

func TestBuildWindsOutward(t *testing.T) {
	m := Build([]*strand.Strand{straightStrand(0)}, 8)

	for tri := 0; tri < len(m.Indices); tri += 3 {
		a := vec(m.Vertices[m.Indices[tri]].Position)
		b := vec(m.Vertices[m.Indices[tri+1]].Position)
		c := vec(m.Vertices[m.Indices[tri+2]].Position)
		n := b.Sub(a).Cross(c.Sub(a))

		centroid := a.Add(b).Add(c).Scale(1.0 / 3)
		out := math.Vec3{X: centroid.X, Z: centroid.Z}
		if n.Dot(out) <= 0 {
			t.Fatalf("triangle %d faces inward", tri/3)
		}
	}
}

func TestBuildBentFrameDoesNotTwist(t *testing.T) {
	// Quarter circle from straight down to horizontal.
	points := make([]strand.ControlPoint, 6)
	for i := range points {
		a := float32(i) / 5 * math.Tau / 4
		points[i] = strand.ControlPoint{
			Position: math.Vec3{X: 1 - math.Cos(a), Y: -math.Sin(a)},
			Radius:   0.05,
		}
	}
	s := strand.New(0, strand.GroupFront, points, 4)

	const segments = 4
	m := Build([]*strand.Strand{s}, segments)
	samples := s.Samples()

	for i := range samples.Len() {
		n := vec(m.Vertices[i*segments].Normal)
		if d := n.Dot(samples.Tangents[i]); math.Abs(d) > 1e-4 {
			t.Errorf("ring %d normal not perpendicular to tangent (dot %v)", i, d)
		}
		if i == 0 {
			continue
		}
		prev := vec(m.Vertices[(i-1)*segments].Normal)
		if prev.Dot(n) < 0.9 {
			t.Errorf("ring %d twisted: %v -> %v", i, prev, n)
		}
	}
}

func TestBuildSkipsShortStrands(t *testing.T) {
	short := strand.New(1, strand.GroupBack, []strand.ControlPoint{{Radius: 1}}, 4)
	m := Build([]*strand.Strand{short, straightStrand(2)}, 1)

	if len(m.Groups) != 1 || m.Groups[0].Strand != 2 {
		t.Fatalf("groups = %+v", m.Groups)
	}
	if got, want := len(m.Vertices), 5*MinSegments; got != want {
		t.Errorf("vertices = %d, want %d", got, want)
	}
}

func TestBuildEmpty(t *testing.T) {
	m := Build(nil, 8)
	if len(m.Vertices) != 0 || len(m.Indices) != 0 || len(m.Groups) != 0 {
		t.Errorf("empty build = %+v", m)
	}
}
