package bake

import (
	"context"
	"image"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/midgard-hair/internal/logger"
	"github.com/Faultbox/midgard-hair/internal/rng"
	"github.com/Faultbox/midgard-hair/pkg/math"
)

// ditherSalt separates the per-row dither streams from the per-strand
// streams of the same seed.
const ditherSalt = 0xD1B54A32D192ED03

// Maps holds the three baked card textures.
type Maps struct {
	Alpha *image.Gray
	Flow  *image.NRGBA
	Depth *image.Gray
}

// Bake renders all three maps.
func Bake(ctx context.Context, p Params) (*Maps, error) {
	alpha, err := BakeAlpha(ctx, p)
	if err != nil {
		return nil, err
	}
	flow, err := BakeFlow(p)
	if err != nil {
		return nil, err
	}
	depth, err := BakeDepth(p)
	if err != nil {
		return nil, err
	}
	return &Maps{Alpha: alpha, Flow: flow, Depth: depth}, nil
}

// cardStrand is the fixed part of one synthetic strand.
type cardStrand struct {
	origin float32 // horizontal root position, UV
	phase  float32
}

// BakeAlpha renders the silhouette of p.StrandCount synthetic strands hanging
// from the top edge. Coverage from overlapping strands is summed and
// clamped, then a small multiplicative dither is applied.
//
// Rows are independent and run in parallel; each row dithers from its own
// stream, so the result depends only on p. The only errors are an invalid
// size and ctx being cancelled.
func BakeAlpha(ctx context.Context, p Params) (*image.Gray, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	strands := make([]cardStrand, max(0, p.StrandCount))
	for i := range strands {
		r := rng.Stream(p.Seed, uint64(i))
		strands[i] = cardStrand{origin: r.Float32(), phase: r.Float32() * math.Tau}
	}

	img := image.NewGray(image.Rect(0, 0, p.Width, p.Height))

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := (p.Height + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < p.Height; start += chunk {
		end := min(start+chunk, p.Height)
		g.Go(func() error {
			coverage := make([]float32, p.Width)
			for y := start; y < end; y++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				clear(coverage)
				alphaRow(coverage, y, strands, &p)
				row := img.Pix[y*img.Stride : y*img.Stride+p.Width]
				ditherRow(row, coverage, y, &p)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Named("bake").Debug("baked alpha map",
		zap.Int("width", p.Width),
		zap.Int("height", p.Height),
		zap.Int("strands", len(strands)))
	return img, nil
}

// alphaRow accumulates the coverage of every strand crossing row y.
func alphaRow(coverage []float32, y int, strands []cardStrand, p *Params) {
	width := float32(p.Width)
	v := (float32(y) + 0.5) / float32(p.Height)
	taper := (1 - v) * (1 - v)

	// Half-width in pixels. Strands thinner than a pixel fade out instead
	// of dropping between samples.
	half := 0.5 * p.RootWidth * taper * width
	if half <= 0 {
		return
	}
	weight := float32(1)
	if half < 0.5 {
		weight = half / 0.5
		half = 0.5
	}

	for _, s := range strands {
		center := s.origin + p.WaveAmplitude*math.Sin(math.Tau*p.WaveFrequency*v+s.phase)
		cx := center * width

		lo := max(0, int(cx-half))
		hi := min(p.Width-1, int(cx+half))
		for x := lo; x <= hi; x++ {
			c := 1 - math.Abs(float32(x)+0.5-cx)/half
			if c <= 0 {
				continue
			}
			coverage[x] = math.Saturate(coverage[x] + c*weight)
		}
	}
}

// ditherRow applies the multiplicative dither and packs the row.
func ditherRow(dst []uint8, coverage []float32, y int, p *Params) {
	r := rng.Stream(p.Seed^ditherSalt, uint64(y))
	for x, c := range coverage {
		// Always draw so the stream layout does not depend on coverage.
		n := rng.Signed(r)
		dst[x] = math.ToByte(c * (1 + p.Dither*n))
	}
}

// BakeFlow renders the flow map: a mostly downward direction (toward the
// tips, +Y in image space) bent sideways by a sine of the horizontal
// position. The unit direction is packed into R (x) and G (y) as
// 0.5 + 0.5*d; B is 0 and A is opaque. No randomness is involved.
func BakeFlow(p Params) (*image.NRGBA, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))

	// The direction only depends on the column.
	column := make([][2]uint8, p.Width)
	for x := range column {
		u := (float32(x) + 0.5) / float32(p.Width)
		d := math.Vec2{X: p.FlowBend * math.Sin(math.Tau*p.FlowFrequency*u), Y: 1}.Normalize()
		column[x] = [2]uint8{math.ToByte(0.5 + 0.5*d.X), math.ToByte(0.5 + 0.5*d.Y)}
	}

	for y := range p.Height {
		row := img.Pix[y*img.Stride:]
		for x, c := range column {
			i := x * 4
			row[i] = c[0]
			row[i+1] = c[1]
			row[i+2] = 0
			row[i+3] = 255
		}
	}
	return img, nil
}

// BakeDepth renders the pseudo-depth map: bright along the vertical center
// line and at the roots, falling off quadratically toward the side edges and
// linearly toward the tips.
func BakeDepth(p Params) (*image.Gray, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	img := image.NewGray(image.Rect(0, 0, p.Width, p.Height))
	for y := range p.Height {
		v := (float32(y) + 0.5) / float32(p.Height)
		row := img.Pix[y*img.Stride:]
		for x := range p.Width {
			u := (float32(x) + 0.5) / float32(p.Width)
			d := 2*u - 1
			row[x] = math.ToByte(1 - p.DepthRadial*d*d - p.DepthTip*v)
		}
	}
	return img, nil
}
