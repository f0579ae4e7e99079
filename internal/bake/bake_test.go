package bake

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/Faultbox/midgard-hair/internal/strand"
	"github.com/Faultbox/midgard-hair/pkg/math"
)

func smallParams() Params {
	p := DefaultParams()
	p.Width = 64
	p.Height = 128
	return p
}

func TestInvalidSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 16},
		{"zero height", 16, 0},
		{"negative", -4, -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			p.Width, p.Height = tt.width, tt.height

			if _, err := BakeAlpha(context.Background(), p); !errors.Is(err, ErrInvalidSize) {
				t.Errorf("BakeAlpha error = %v, want ErrInvalidSize", err)
			}
			if _, err := BakeFlow(p); !errors.Is(err, ErrInvalidSize) {
				t.Errorf("BakeFlow error = %v, want ErrInvalidSize", err)
			}
			if _, err := BakeDepth(p); !errors.Is(err, ErrInvalidSize) {
				t.Errorf("BakeDepth error = %v, want ErrInvalidSize", err)
			}
			if _, err := Bake(context.Background(), p); !errors.Is(err, ErrInvalidSize) {
				t.Errorf("Bake error = %v, want ErrInvalidSize", err)
			}
		})
	}
}

func TestAlphaDeterministic(t *testing.T) {
	p := smallParams()

	p.Workers = 1
	a, err := BakeAlpha(context.Background(), p)
	if err != nil {
		t.Fatalf("BakeAlpha: %v", err)
	}
	p.Workers = 7
	b, err := BakeAlpha(context.Background(), p)
	if err != nil {
		t.Fatalf("BakeAlpha: %v", err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("alpha differs between worker counts")
	}

	p.Seed++
	c, err := BakeAlpha(context.Background(), p)
	if err != nil {
		t.Fatalf("BakeAlpha: %v", err)
	}
	if bytes.Equal(a.Pix, c.Pix) {
		t.Error("alpha identical for different seeds")
	}
}

func TestAlphaNoStrands(t *testing.T) {
	p := smallParams()
	p.StrandCount = 0

	img, err := BakeAlpha(context.Background(), p)
	if err != nil {
		t.Fatalf("BakeAlpha: %v", err)
	}
	for i, v := range img.Pix {
		if v != 0 {
			t.Fatalf("pixel %d = %d, want 0", i, v)
		}
	}
}

func TestAlphaAccumulates(t *testing.T) {
	p := smallParams()
	p.Dither = 0
	p.RootWidth = 0.2

	// Strand i is the same in both bakes, so adding strands may only add
	// coverage.
	p.StrandCount = 1
	one, err := BakeAlpha(context.Background(), p)
	if err != nil {
		t.Fatalf("BakeAlpha: %v", err)
	}
	p.StrandCount = 2
	two, err := BakeAlpha(context.Background(), p)
	if err != nil {
		t.Fatalf("BakeAlpha: %v", err)
	}

	grew := false
	for i := range one.Pix {
		if two.Pix[i] < one.Pix[i] {
			t.Fatalf("pixel %d dropped from %d to %d", i, one.Pix[i], two.Pix[i])
		}
		if two.Pix[i] > one.Pix[i] {
			grew = true
		}
	}
	if !grew {
		t.Error("second strand added no coverage")
	}
}

func TestAlphaSaturates(t *testing.T) {
	p := smallParams()
	p.StrandCount = 500
	p.RootWidth = 1
	p.Dither = 0

	img, err := BakeAlpha(context.Background(), p)
	if err != nil {
		t.Fatalf("BakeAlpha: %v", err)
	}
	// The top row is buried under hundreds of full-width strands.
	for x := range p.Width {
		if v := img.GrayAt(x, 0).Y; v != 255 {
			t.Fatalf("top row pixel %d = %d, want 255", x, v)
		}
	}
}

func TestAlphaTapers(t *testing.T) {
	p := smallParams()
	p.Dither = 0

	img, err := BakeAlpha(context.Background(), p)
	if err != nil {
		t.Fatalf("BakeAlpha: %v", err)
	}

	rowSum := func(y int) int {
		sum := 0
		for x := range p.Width {
			sum += int(img.GrayAt(x, y).Y)
		}
		return sum
	}
	top, bottom := rowSum(0), rowSum(p.Height-1)
	if top <= bottom {
		t.Errorf("root row coverage %d should exceed tip row %d", top, bottom)
	}
}

func TestAlphaDitherIsMultiplicative(t *testing.T) {
	p := smallParams()
	p.Dither = 0
	plain, err := BakeAlpha(context.Background(), p)
	if err != nil {
		t.Fatalf("BakeAlpha: %v", err)
	}

	p.Dither = 0.05
	dithered, err := BakeAlpha(context.Background(), p)
	if err != nil {
		t.Fatalf("BakeAlpha: %v", err)
	}

	for i, v := range plain.Pix {
		d := dithered.Pix[i]
		// Coverage just under half a step rounds to 0 plain and may round
		// up once scaled.
		if v == 0 && d > 1 {
			t.Fatalf("pixel %d: dither lit an empty pixel (%d)", i, d)
		}
		limit := int(float32(v)*0.05) + 2
		if diff := int(d) - int(v); diff > limit || diff < -limit {
			t.Fatalf("pixel %d moved from %d to %d, limit %d", i, v, d, limit)
		}
	}
}

func TestDitherRowScalesCoverage(t *testing.T) {
	coverage := []float32{0, 0, 0.25, 0.5, 1, 0, 0.75, 0}

	tests := []struct {
		name   string
		dither float32
	}{
		{"off", 0},
		{"default", 0.05},
		{"extreme", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			p.Dither = tt.dither
			for y := range 16 {
				row := make([]uint8, len(coverage))
				ditherRow(row, coverage, y, &p)
				for x, c := range coverage {
					if c == 0 && row[x] != 0 {
						t.Fatalf("row %d col %d: zero coverage packed to %d", y, x, row[x])
					}
					if tt.dither == 0 && row[x] != math.ToByte(c) {
						t.Fatalf("row %d col %d: got %d, want %d", y, x, row[x], math.ToByte(c))
					}
					if tt.dither == 0.05 {
						lo, hi := math.ToByte(c*0.95), math.ToByte(c*1.05)
						if row[x] < lo || row[x] > hi {
							t.Fatalf("row %d col %d: %d outside [%d, %d]", y, x, row[x], lo, hi)
						}
					}
				}
			}
		})
	}
}

func TestAlphaResolutionIndependent(t *testing.T) {
	mean := func(w, h int) float64 {
		p := DefaultParams()
		p.Width, p.Height = w, h
		p.Dither = 0
		p.StrandCount = 40
		img, err := BakeAlpha(context.Background(), p)
		if err != nil {
			t.Fatalf("BakeAlpha: %v", err)
		}
		sum := 0
		for _, v := range img.Pix {
			sum += int(v)
		}
		return float64(sum) / float64(len(img.Pix)) / 255
	}

	lo, hi := mean(128, 256), mean(256, 512)
	if lo == 0 || hi == 0 {
		t.Fatalf("empty bake: %v, %v", lo, hi)
	}
	if ratio := lo / hi; ratio < 0.85 || ratio > 1.15 {
		t.Errorf("mean coverage %v at low resolution vs %v at high", lo, hi)
	}
}

func TestAlphaCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := BakeAlpha(ctx, smallParams()); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestFlow(t *testing.T) {
	p := smallParams()

	img, err := BakeFlow(p)
	if err != nil {
		t.Fatalf("BakeFlow: %v", err)
	}

	bent := false
	for y := range p.Height {
		for x := range p.Width {
			c := img.NRGBAAt(x, y)
			if c.G < 128 {
				t.Fatalf("pixel (%d,%d) points up: %v", x, y, c)
			}
			if c.A != 255 || c.B != 0 {
				t.Fatalf("pixel (%d,%d) has unexpected B/A: %v", x, y, c)
			}
			if c != img.NRGBAAt(x, 0) {
				t.Fatalf("column %d varies down the card", x)
			}
			if c.R != 128 {
				bent = true
			}
		}
	}
	if !bent {
		t.Error("flow is not perturbed")
	}

	again, err := BakeFlow(p)
	if err != nil {
		t.Fatalf("BakeFlow: %v", err)
	}
	if !bytes.Equal(img.Pix, again.Pix) {
		t.Error("flow is not deterministic")
	}

	p.FlowBend = 0
	straight, err := BakeFlow(p)
	if err != nil {
		t.Fatalf("BakeFlow: %v", err)
	}
	if c := straight.NRGBAAt(5, 5); c.R != 128 || c.G != 255 {
		t.Errorf("unbent flow = %v, want straight down", c)
	}
}

func TestDepth(t *testing.T) {
	p := smallParams()

	img, err := BakeDepth(p)
	if err != nil {
		t.Fatalf("BakeDepth: %v", err)
	}

	mid := p.Width / 2
	for y := range p.Height {
		if img.GrayAt(mid, y).Y < img.GrayAt(0, y).Y {
			t.Fatalf("row %d: center darker than edge", y)
		}
	}
	for x := range p.Width {
		if img.GrayAt(x, 0).Y < img.GrayAt(x, p.Height-1).Y {
			t.Fatalf("column %d: root darker than tip", x)
		}
	}

	// Falloffs beyond the range clamp to black instead of wrapping.
	p.DepthRadial = 5
	p.DepthTip = 5
	img, err = BakeDepth(p)
	if err != nil {
		t.Fatalf("BakeDepth: %v", err)
	}
	if v := img.GrayAt(0, p.Height-1).Y; v != 0 {
		t.Errorf("clamped corner = %d, want 0", v)
	}
}

func TestBakeAll(t *testing.T) {
	p := smallParams()
	maps, err := Bake(context.Background(), p)
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	for name, b := range map[string]int{
		"alpha": maps.Alpha.Bounds().Dx(),
		"flow":  maps.Flow.Bounds().Dx(),
		"depth": maps.Depth.Bounds().Dx(),
	} {
		if b != p.Width {
			t.Errorf("%s width = %d, want %d", name, b, p.Width)
		}
	}
}

func TestBuildCard(t *testing.T) {
	c := BuildCard(math.Vec3{X: 1, Y: 2, Z: 3}, 2, 4)

	if len(c.Positions) != 4 || len(c.Normals) != 4 || len(c.UVs) != 4 || len(c.Indices) != 6 {
		t.Fatalf("unexpected card shape: %+v", c)
	}

	want := []math.Vec3{
		{X: 0, Y: 2, Z: 3},
		{X: 2, Y: 2, Z: 3},
		{X: 2, Y: -2, Z: 3},
		{X: 0, Y: -2, Z: 3},
	}
	for i, p := range want {
		if c.Positions[i] != p {
			t.Errorf("position %d = %v, want %v", i, c.Positions[i], p)
		}
	}

	// Both triangles wind counter-clockwise around +Z.
	for tri := range 2 {
		a := c.Positions[c.Indices[tri*3]]
		b := c.Positions[c.Indices[tri*3+1]]
		d := c.Positions[c.Indices[tri*3+2]]
		if n := b.Sub(a).Cross(d.Sub(a)); n.Z <= 0 {
			t.Errorf("triangle %d faces %v", tri, n)
		}
	}

	if c.UVs[0] != (math.Vec2{}) || c.UVs[2] != (math.Vec2{X: 1, Y: 1}) {
		t.Errorf("UVs = %v", c.UVs)
	}
}

func TestFitCard(t *testing.T) {
	if FitCard(nil, 0.1) != nil {
		t.Error("FitCard(nil) should be nil")
	}

	s := strand.New(0, strand.GroupBack, []strand.ControlPoint{
		{Position: math.Vec3{X: -1, Y: 2, Z: 0}},
		{Position: math.Vec3{X: 1, Y: -1, Z: 0.5}},
	}, 4)

	c := FitCard([]*strand.Strand{s}, 0)
	if c.Positions[0] != (math.Vec3{X: -1, Y: 2, Z: 0.5}) {
		t.Errorf("top-left = %v", c.Positions[0])
	}
	if c.Positions[2] != (math.Vec3{X: 1, Y: -1, Z: 0.5}) {
		t.Errorf("bottom-right = %v", c.Positions[2])
	}
}

func TestColorize(t *testing.T) {
	depth := image.NewGray(image.Rect(0, 0, 2, 4))
	for i := range depth.Pix {
		depth.Pix[i] = 255
	}
	depth.SetGray(1, 0, color.Gray{})

	root := math.RGB{R: 1}
	tip := math.RGB{B: 1}
	img := Colorize(depth, root, tip)

	if c := img.NRGBAAt(0, 0); c.R <= c.B || c.A != 255 {
		t.Errorf("root pixel = %v, want mostly red", c)
	}
	if c := img.NRGBAAt(0, 3); c.B <= c.R {
		t.Errorf("tip pixel = %v, want mostly blue", c)
	}
	if c := img.NRGBAAt(1, 0); c != (color.NRGBA{A: 255}) {
		t.Errorf("zero depth pixel = %v, want opaque black", c)
	}
}
