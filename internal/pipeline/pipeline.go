// Package pipeline wires the hair components together: groom a surface,
// simulate, shade, bake the card maps, and export the results.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-hair/internal/bake"
	"github.com/Faultbox/midgard-hair/internal/config"
	"github.com/Faultbox/midgard-hair/internal/groom"
	"github.com/Faultbox/midgard-hair/internal/lod"
	"github.com/Faultbox/midgard-hair/internal/logger"
	"github.com/Faultbox/midgard-hair/internal/shading"
	"github.com/Faultbox/midgard-hair/internal/sim"
	"github.com/Faultbox/midgard-hair/internal/strand"
	"github.com/Faultbox/midgard-hair/internal/surface"
	"github.com/Faultbox/midgard-hair/internal/tube"
	"github.com/Faultbox/midgard-hair/pkg/math"
)

// ErrNotGroomed is returned by steps that need strands before Groom ran.
var ErrNotGroomed = errors.New("pipeline: no strands, call Groom first")

// Pipeline holds one hair object.
type Pipeline struct {
	cfg     *config.Config
	log     *zap.Logger
	surface *surface.Mesh
	strands []*strand.Strand
	state   *sim.State
	ticks   int
}

// New creates a pipeline over the built-in scalp surface.
func New(cfg *config.Config) *Pipeline {
	s := cfg.Surface
	return NewWithSurface(cfg, surface.Scalp(s.Radius, s.LowerElevation, s.Rings, s.Segments))
}

// NewWithSurface creates a pipeline over m. The mesh is only read.
func NewWithSurface(cfg *config.Config, m *surface.Mesh) *Pipeline {
	p := &Pipeline{
		cfg:     cfg,
		log:     logger.Named("pipeline"),
		surface: m,
	}
	p.log.Debug("pipeline created",
		zap.Int("vertices", len(m.Positions)),
		zap.Int("triangles", m.TriangleCount()))
	return p
}

// Strands returns the current strands.
func (p *Pipeline) Strands() []*strand.Strand {
	return p.strands
}

// Ticks returns how many simulation ticks ran since the last Groom.
func (p *Pipeline) Ticks() int {
	return p.ticks
}

// Groom generates strands with the configured parameters and resets the
// simulation.
func (p *Pipeline) Groom(ctx context.Context) error {
	return p.groom(ctx, p.cfg.Groom)
}

// GroomForTier generates strands with the tier's counts. A card-only tier
// clears the strands.
func (p *Pipeline) GroomForTier(ctx context.Context, t lod.Tier) error {
	return p.groom(ctx, TierParams(p.cfg.Groom, t))
}

func (p *Pipeline) groom(ctx context.Context, params groom.Params) error {
	strands, err := groom.Generate(ctx, p.surface, params)
	if err != nil {
		return fmt.Errorf("groom: %w", err)
	}
	p.strands = strands
	p.state = sim.NewState(strands)
	p.ticks = 0

	p.log.Info("groomed",
		zap.Int("strands", len(strands)),
		zap.Int("controlPoints", params.ControlPointsPerStrand),
		zap.Uint64("seed", params.Seed))
	return nil
}

// TierParams returns base with the strand and control point counts of t.
func TierParams(base groom.Params, t lod.Tier) groom.Params {
	base.StrandCount = t.StrandCount
	base.ControlPointsPerStrand = t.ControlPointsPerStrand
	return base
}

// Simulate runs ticks steps at the configured tick rate.
func (p *Pipeline) Simulate(ctx context.Context, ticks int) error {
	if p.state == nil {
		return ErrNotGroomed
	}

	dt := 1 / p.cfg.Run.TickRate
	for range ticks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.state.Step(p.strands, dt, p.cfg.Sim); err != nil {
			return fmt.Errorf("simulate tick %d: %w", p.ticks, err)
		}
		p.ticks++
	}

	p.log.Info("simulated",
		zap.Int("ticks", ticks),
		zap.Int("total", p.ticks),
		zap.Float32("dt", dt))
	return nil
}

// Light returns the configured preview light.
func (p *Pipeline) Light() shading.Light {
	l := p.cfg.Light
	return shading.Light{
		Direction: shading.SunDirection(l.Longitude, l.Latitude),
		Color:     l.Color,
	}
}

// Tubes builds the tube mesh with segments per ring and replaces the vertex
// colors with the shaded color of each sample.
func (p *Pipeline) Tubes(segments int) *tube.Mesh {
	m := tube.Build(p.strands, segments)
	segments = max(segments, tube.MinSegments)

	light := p.Light()
	eye := p.cfg.Light.Eye

	// Groups follow the vertex order, one ring per sample.
	v := 0
	for _, g := range m.Groups {
		samples := p.strands[g.Strand].Samples()
		for i := range samples.Len() {
			c := shading.ShadeSample(samples, i, eye, light, &p.cfg.Material).Clamped()
			for range segments {
				col := &m.Vertices[v].Color
				col[0], col[1], col[2] = c.R, c.G, c.B
				v++
			}
		}
	}
	return m
}

// Bake renders the card maps and fits the card to the current strands. With
// no strands the card hangs from the top of the surface.
func (p *Pipeline) Bake(ctx context.Context) (*bake.Maps, *bake.Card, error) {
	maps, err := bake.Bake(ctx, p.cfg.Bake)
	if err != nil {
		return nil, nil, fmt.Errorf("bake: %w", err)
	}

	card := bake.FitCard(p.strands, p.cfg.Groom.RootThickness)
	if card == nil {
		r := p.cfg.Surface.Radius
		card = bake.BuildCard(p.topOfSurface(), 2*r, p.cfg.Groom.BaseLength+r)
	}
	return maps, card, nil
}

func (p *Pipeline) topOfSurface() (top math.Vec3) {
	for i, pos := range p.surface.Positions {
		if i == 0 || pos.Y > top.Y {
			top = pos
		}
	}
	return top
}
