// Package bake renders the maps used by the low-detail card fallback: an
// alpha silhouette, a flow direction map, and a depth/AO map.
//
// Every shape parameter is given in UV units (fractions of the card), so the
// same Params baked at a different resolution produce the same picture,
// just resampled.
package bake

import (
	"errors"
	"fmt"
)

// ErrInvalidSize is returned when the requested output has no pixels.
var ErrInvalidSize = errors.New("bake: invalid output size")

// Params controls all three bakers.
type Params struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Seed   uint64 `yaml:"seed"`

	// Alpha map.
	StrandCount   int     `yaml:"strand_count"`
	WaveAmplitude float32 `yaml:"wave_amplitude"` // horizontal sway, UV units
	WaveFrequency float32 `yaml:"wave_frequency"` // sway cycles from root to tip
	RootWidth     float32 `yaml:"root_width"`     // strand width at the root, UV units
	Dither        float32 `yaml:"dither"`         // multiplicative noise, +/- fraction

	// Flow map.
	FlowBend      float32 `yaml:"flow_bend"`      // horizontal perturbation of the downward flow
	FlowFrequency float32 `yaml:"flow_frequency"` // perturbation cycles across the card

	// Depth map.
	DepthRadial float32 `yaml:"depth_radial"` // darkening at the card edges
	DepthTip    float32 `yaml:"depth_tip"`    // darkening at the tips

	// Workers bounds row parallelism for the alpha map. 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// DefaultParams returns a 256x512 card of 200 strands.
func DefaultParams() Params {
	return Params{
		Width:         256,
		Height:        512,
		Seed:          1,
		StrandCount:   200,
		WaveAmplitude: 0.02,
		WaveFrequency: 3,
		RootWidth:     0.012,
		Dither:        0.05,
		FlowBend:      0.25,
		FlowFrequency: 2,
		DepthRadial:   0.6,
		DepthTip:      0.3,
	}
}

func (p *Params) validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, p.Width, p.Height)
	}
	return nil
}
