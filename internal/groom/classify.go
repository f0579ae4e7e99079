package groom

import (
	"github.com/Faultbox/midgard-hair/internal/strand"
	"github.com/Faultbox/midgard-hair/pkg/math"
)

// Classify assigns a styling group from the root. Roots facing forward
// (+Z) are bangs; roots facing sideways go left or right by the sign of
// their X position (+X is the head's left when it faces +Z); the rest are
// back.
func Classify(root, normal math.Vec3, p *Params) strand.Group {
	switch {
	case normal.Z >= p.FrontThreshold:
		return strand.GroupFront
	case math.Abs(normal.X) >= p.LateralThreshold && root.X > 0:
		return strand.GroupLeft
	case math.Abs(normal.X) >= p.LateralThreshold && root.X < 0:
		return strand.GroupRight
	default:
		return strand.GroupBack
	}
}
