package sim

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/midgard-hair/internal/strand"
	"github.com/Faultbox/midgard-hair/pkg/math"
)

// minSpringLength is the parent distance below which the spring direction
// is undefined and the spring contributes nothing.
const minSpringLength = 1e-7

// Step advances every strand by dt seconds and retessellates it. Roots do
// not move. Strands are integrated in parallel, each from its own state at
// the start of the step; Step returns only after all of them are done, so
// no partially stepped frame is ever visible.
//
// A store shaped for a different collection is a caller bug and is
// reported with ErrShapeMismatch; nothing is moved in that case.
func (s *State) Step(strands []*strand.Strand, dt float32, p Params) error {
	if err := s.Validate(strands); err != nil {
		return err
	}
	if dt <= 0 || len(strands) == 0 {
		return nil
	}

	substeps := max(1, p.Substeps)
	h := dt / float32(substeps)
	external := p.Gravity
	if wind, ok := p.WindDirection.TryNormalize(1e-9); ok {
		external = external.Add(wind.Scale(p.WindStrength))
	}

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := (len(strands) + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < len(strands); start += chunk {
		end := min(start+chunk, len(strands))
		g.Go(func() error {
			var prev []math.Vec3
			for i := start; i < end; i++ {
				st := strands[i]
				vel := s.strandVelocities(i)
				for range substeps {
					prev = integrate(st.Points, vel, prev, external, s.restLengths[i], h, &p)
				}
				st.Retessellate()
			}
			return nil
		})
	}
	return g.Wait()
}

// integrate applies one symplectic Euler step to points[1:]. Forces are
// evaluated from the positions at the start of the step, copied into prev,
// which is returned for reuse.
func integrate(points []strand.ControlPoint, vel, prev []math.Vec3, external math.Vec3, rest, h float32, p *Params) []math.Vec3 {
	prev = prev[:0]
	for _, cp := range points {
		prev = append(prev, cp.Position)
	}

	for i := 1; i < len(points); i++ {
		force := external

		toParent := prev[i-1].Sub(prev[i])
		if dist := toParent.Length(); dist > minSpringLength {
			force = force.Add(toParent.Scale(p.Stiffness * (dist - rest) / dist))
		}

		v := vel[i].Add(force.Scale(h)).Scale(p.Damping)
		if p.MaxSpeed > 0 {
			if speed := v.Length(); speed > p.MaxSpeed {
				v = v.Scale(p.MaxSpeed / speed)
			}
		}
		vel[i] = v
		points[i].Position = prev[i].Add(v.Scale(h))
	}
	return prev
}
