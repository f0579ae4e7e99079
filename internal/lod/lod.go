// Package lod maps viewing distance to a quality tier.
//
// TierFor is a pure function of distance. Selector wraps it with the state a
// renderer needs in practice: a distance margin so the tier does not flicker
// near a band edge, and an eased cross-fade between strands and the card.
package lod

import (
	gomath "math"
)

// Tier is the quality chosen for one distance.
type Tier struct {
	StrandCount            int  `yaml:"strand_count"`
	ControlPointsPerStrand int  `yaml:"control_points_per_strand"`
	TubeSegments           int  `yaml:"tube_segments"`
	UseCardFallback        bool `yaml:"use_card_fallback"`
}

// CardOnly draws no strands at all.
var CardOnly = Tier{UseCardFallback: true}

// band covers distance ratios below maxRatio.
type band struct {
	maxRatio float32
	tier     Tier
}

// Bands in order of increasing distance. Every quality field is
// non-increasing down the table.
var bands = []band{
	{0.10, Tier{StrandCount: 20000, ControlPointsPerStrand: 16, TubeSegments: 8}},
	{0.25, Tier{StrandCount: 10000, ControlPointsPerStrand: 12, TubeSegments: 6}},
	{0.50, Tier{StrandCount: 4000, ControlPointsPerStrand: 8, TubeSegments: 4}},
	{0.75, Tier{StrandCount: 1500, ControlPointsPerStrand: 6, TubeSegments: 3}},
	{1.00, Tier{StrandCount: 400, ControlPointsPerStrand: 4, TubeSegments: 3, UseCardFallback: true}},
}

// cardBand is the band index of CardOnly.
var cardBand = len(bands)

// TierFor returns the tier for distance out of maxDistance. Distance 0 (or
// less) gets the highest tier; maxDistance and beyond get CardOnly, as do a
// NaN distance and a non-positive maxDistance.
func TierFor(distance, maxDistance float32) Tier {
	return tierAt(bandFor(ratio(distance, maxDistance)))
}

// MaxTier is TierFor(0, d) for any positive d.
func MaxTier() Tier {
	return bands[0].tier
}

func ratio(distance, maxDistance float32) float32 {
	if maxDistance <= 0 || gomath.IsNaN(float64(distance)) || gomath.IsNaN(float64(maxDistance)) {
		return 1
	}
	return max(0, distance/maxDistance)
}

func bandFor(r float32) int {
	for i, b := range bands {
		if r < b.maxRatio {
			return i
		}
	}
	return cardBand
}

func tierAt(i int) Tier {
	if i >= cardBand {
		return CardOnly
	}
	return bands[i].tier
}
