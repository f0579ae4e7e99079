package groom

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-hair/internal/logger"
	"github.com/Faultbox/midgard-hair/internal/strand"
	"github.com/Faultbox/midgard-hair/pkg/math"
)

// representative is a frozen copy of a clump leader.
type representative struct {
	root      math.Vec3
	positions []math.Vec3
}

// Clump pulls each strand toward the nearest clump leader by root distance.
// Every clusterSize-th strand is a leader. Control point p of a strand with
// n points moves toward the leader's point p by strength*p/(n-1), so roots
// stay put and tips bunch the most.
//
// Leaders are copied before any strand moves: a blend always targets the
// pre-clump shape, never a leader already pulled toward someone else.
// Leaders without control points are skipped. Every strand is
// retessellated.
func Clump(strands []*strand.Strand, strength float32, clusterSize int) {
	if strength <= 0 || clusterSize < 1 || len(strands) == 0 {
		return
	}

	var reps []representative
	for i := 0; i < len(strands); i += clusterSize {
		s := strands[i]
		if len(s.Points) == 0 {
			continue
		}
		rep := representative{root: s.Root(), positions: make([]math.Vec3, len(s.Points))}
		for j, cp := range s.Points {
			rep.positions[j] = cp.Position
		}
		reps = append(reps, rep)
	}
	if len(reps) == 0 {
		return
	}

	roots := make([]math.Vec3, len(reps))
	for i, r := range reps {
		roots[i] = r.root
	}
	index := newGridIndex(roots)

	for _, s := range strands {
		n := len(s.Points)
		if n < 2 {
			s.Retessellate()
			continue
		}
		rep := &reps[index.Nearest(s.Root())]
		for p := range s.Points {
			if p >= len(rep.positions) {
				break
			}
			t := float32(p) / float32(n-1)
			cp := &s.Points[p]
			cp.Position = cp.Position.Lerp(rep.positions[p], strength*t)
		}
		s.Retessellate()
	}

	logger.Named("groom").Debug("clumped strands",
		zap.Int("strands", len(strands)),
		zap.Int("clumps", len(reps)),
		zap.Float32("strength", strength))
}
