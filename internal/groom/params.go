// Package groom grows strand collections over a source surface.
package groom

import (
	"github.com/Faultbox/midgard-hair/pkg/math"
)

// Params configures strand generation and clumping. Generation reads a copy
// and never mutates it.
type Params struct {
	Seed                   uint64 `yaml:"seed"`
	StrandCount            int    `yaml:"strand_count"`
	ControlPointsPerStrand int    `yaml:"control_points"`
	SegmentsPerControl     int    `yaml:"segments_per_control"`

	BaseLength      float32 `yaml:"base_length"`
	LengthVariation float32 `yaml:"length_variation"` // uniform +/- around BaseLength

	// Gravity is the tip sag as a fraction of strand length. Stiffness in
	// [0, 1] holds the section near the root up against it.
	Gravity   float32 `yaml:"gravity"`
	Stiffness float32 `yaml:"stiffness"`

	CurlFrequency float32 `yaml:"curl_frequency"` // turns over the full length
	CurlAmplitude float32 `yaml:"curl_amplitude"` // offset at the tip, world units
	FrizzStrength float32 `yaml:"frizz_strength"` // per-axis jitter at the tip

	RootThickness float32  `yaml:"root_thickness"`
	TipThickness  float32  `yaml:"tip_thickness"`
	RootColor     math.RGB `yaml:"root_color"`
	TipColor      math.RGB `yaml:"tip_color"`
	RootAO        float32  `yaml:"root_ao"`
	TipAO         float32  `yaml:"tip_ao"`

	// Every ClusterSize-th strand leads a clump. ClumpStrength 0 disables
	// clumping.
	ClusterSize   int     `yaml:"cluster_size"`
	ClumpStrength float32 `yaml:"clump_strength"`

	// FrontThreshold is the minimum root normal Z for the front group.
	// LateralThreshold is the minimum |normal X| for left/right.
	FrontThreshold   float32 `yaml:"front_threshold"`
	LateralThreshold float32 `yaml:"lateral_threshold"`

	// Workers bounds generation parallelism; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// DefaultParams returns medium-length, lightly curled hair for a head of
// roughly 0.1 world units radius.
func DefaultParams() Params {
	return Params{
		Seed:                   1,
		StrandCount:            5000,
		ControlPointsPerStrand: 8,
		SegmentsPerControl:     4,
		BaseLength:             0.25,
		LengthVariation:        0.03,
		Gravity:                0.6,
		Stiffness:              0.5,
		CurlFrequency:          2,
		CurlAmplitude:          0.01,
		FrizzStrength:          0.002,
		RootThickness:          0.0008,
		TipThickness:           0.0002,
		RootColor:              math.RGB{R: 0.12, G: 0.08, B: 0.05},
		TipColor:               math.RGB{R: 0.35, G: 0.24, B: 0.15},
		RootAO:                 0.4,
		TipAO:                  1,
		ClusterSize:            16,
		ClumpStrength:          0.3,
		FrontThreshold:         0.6,
		LateralThreshold:       0.5,
	}
}
