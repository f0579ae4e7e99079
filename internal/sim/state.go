package sim

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-hair/internal/logger"
	"github.com/Faultbox/midgard-hair/internal/strand"
	"github.com/Faultbox/midgard-hair/pkg/math"
)

// ErrShapeMismatch is returned when the velocity store was sized for a
// different strand collection.
var ErrShapeMismatch = errors.New("velocity store does not match strand collection")

// Key addresses one control point of one strand.
type Key struct {
	Strand int
	Point  int
}

// State owns the per-point velocities for one strand collection. It is kept
// apart from the strands; Resize must be called whenever the collection is
// regenerated, and Step refuses to run on a mismatched shape.
type State struct {
	offsets     []int // first velocity of each strand; len = strands+1
	velocities  []math.Vec3
	restLengths []float32 // per strand
}

// NewState returns a zeroed state shaped for strands.
func NewState(strands []*strand.Strand) *State {
	s := &State{}
	s.Resize(strands)
	return s
}

// Resize reshapes the store for strands, zeroes all velocities, and takes
// each strand's rest segment length from its current shape.
func (s *State) Resize(strands []*strand.Strand) {
	s.offsets = make([]int, len(strands)+1)
	s.restLengths = make([]float32, len(strands))
	total := 0
	for i, st := range strands {
		s.offsets[i] = total
		n := len(st.Points)
		total += n
		if n > 1 {
			s.restLengths[i] = st.Length() / float32(n-1)
		}
	}
	s.offsets[len(strands)] = total
	s.velocities = make([]math.Vec3, total)

	logger.Named("sim").Debug("velocity store resized",
		zap.Int("strands", len(strands)),
		zap.Int("points", total))
}

// Validate checks that the store matches strands point for point.
func (s *State) Validate(strands []*strand.Strand) error {
	if len(strands) != s.Strands() {
		return fmt.Errorf("%w: %d strands, store holds %d", ErrShapeMismatch, len(strands), s.Strands())
	}
	for i, st := range strands {
		if got, want := len(st.Points), s.Points(i); got != want {
			return fmt.Errorf("%w: strand %d has %d points, store holds %d", ErrShapeMismatch, i, got, want)
		}
	}
	return nil
}

// Strands returns the number of strands the store is shaped for.
func (s *State) Strands() int {
	if len(s.offsets) == 0 {
		return 0
	}
	return len(s.offsets) - 1
}

// Points returns the number of points held for strand i.
func (s *State) Points(i int) int {
	if i < 0 || i >= s.Strands() {
		return 0
	}
	return s.offsets[i+1] - s.offsets[i]
}

// RestLength returns the rest segment length of strand i.
func (s *State) RestLength(i int) float32 {
	if i < 0 || i >= len(s.restLengths) {
		return 0
	}
	return s.restLengths[i]
}

// Velocity returns the velocity at k.
func (s *State) Velocity(k Key) (math.Vec3, bool) {
	idx, ok := s.index(k)
	if !ok {
		return math.Vec3{}, false
	}
	return s.velocities[idx], true
}

// SetVelocity overwrites the velocity at k.
func (s *State) SetVelocity(k Key, v math.Vec3) bool {
	idx, ok := s.index(k)
	if !ok {
		return false
	}
	s.velocities[idx] = v
	return true
}

func (s *State) index(k Key) (int, bool) {
	if k.Point < 0 || k.Point >= s.Points(k.Strand) {
		return 0, false
	}
	return s.offsets[k.Strand] + k.Point, true
}

// strandVelocities returns the velocity slice of strand i.
func (s *State) strandVelocities(i int) []math.Vec3 {
	return s.velocities[s.offsets[i]:s.offsets[i+1]]
}
