package groom

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/midgard-hair/internal/logger"
	"github.com/Faultbox/midgard-hair/internal/rng"
	"github.com/Faultbox/midgard-hair/internal/strand"
	"github.com/Faultbox/midgard-hair/internal/surface"
	"github.com/Faultbox/midgard-hair/pkg/math"
)

// cancelCheckInterval is how many strands a worker grows between context
// checks.
const cancelCheckInterval = 256

// Generate grows p.StrandCount strands over m. The mesh is only read.
//
// Strand i draws from its own stream of p.Seed, so the result is identical
// for identical seed, parameters, and surface regardless of p.Workers.
// An empty or malformed surface yields an empty collection and no error;
// the only error is ctx being cancelled.
func Generate(ctx context.Context, m *surface.Mesh, p Params) ([]*strand.Strand, error) {
	log := logger.Named("groom")

	if p.StrandCount <= 0 || p.ControlPointsPerStrand < 1 {
		log.Warn("nothing to generate",
			zap.Int("strands", p.StrandCount),
			zap.Int("controlPoints", p.ControlPointsPerStrand))
		return []*strand.Strand{}, nil
	}

	sampler, ok := NewSampler(m)
	if !ok {
		log.Warn("surface has no usable triangles, generating no strands",
			zap.Int("triangles", m.TriangleCount()))
		return []*strand.Strand{}, nil
	}

	strands := make([]*strand.Strand, p.StrandCount)
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := (len(strands) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(strands); start += chunk {
		end := min(start+chunk, len(strands))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if (i-start)%cancelCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				strands[i] = grow(i, sampler, &p)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if p.ClumpStrength > 0 {
		Clump(strands, p.ClumpStrength, p.ClusterSize)
	}

	log.Debug("generated strands",
		zap.Int("strands", len(strands)),
		zap.Int("controlPoints", p.ControlPointsPerStrand),
		zap.Float64("area", sampler.TotalArea()),
		zap.Int("workers", workers))
	return strands, nil
}

// grow synthesizes strand index from its own random stream.
func grow(index int, sampler *Sampler, p *Params) *strand.Strand {
	r := rng.Stream(p.Seed, uint64(index))

	root, normal, _ := sampler.Sample(r)
	length := max(0, p.BaseLength+rng.Range(r, -p.LengthVariation, p.LengthVariation))
	phase := r.Float32() * math.Tau
	b1, b2 := normal.Orthonormal()

	n := p.ControlPointsPerStrand
	points := make([]strand.ControlPoint, n)
	for i := range n {
		var t float32
		if n > 1 {
			t = float32(i) / float32(n-1)
		}

		pos := root.Add(normal.Scale(length * t))

		// Sag grows toward the tip; stiffness holds up the root section.
		pos.Y -= p.Gravity * length * t * t * (1 - p.Stiffness*(1-t))

		angle := t*p.CurlFrequency*math.Tau + phase
		curl := b1.Scale(math.Cos(angle)).Add(b2.Scale(math.Sin(angle)))
		pos = pos.Add(curl.Scale(p.CurlAmplitude * t))

		// Always draw the jitter so the stream layout does not depend on
		// FrizzStrength.
		jitter := math.Vec3{X: rng.Signed(r), Y: rng.Signed(r), Z: rng.Signed(r)}
		pos = pos.Add(jitter.Scale(p.FrizzStrength * t))

		points[i] = strand.ControlPoint{
			Position: pos,
			Radius:   max(0, math.Lerp(p.RootThickness, p.TipThickness, t)),
			Color:    p.RootColor.Lerp(p.TipColor, t),
			AO:       math.Saturate(math.Lerp(p.RootAO, p.TipAO, t)),
		}
	}

	return strand.New(index, Classify(root, normal, p), points, p.SegmentsPerControl)
}
