package groom

import (
	gomath "math"

	"github.com/Faultbox/midgard-hair/pkg/math"
)

type cellKey [3]int32

// gridIndex is a uniform grid over a fixed point set answering nearest
// neighbor queries. Ties go to the lowest point index, matching a linear
// scan.
type gridIndex struct {
	points         []math.Vec3
	origin         math.Vec3
	cellSize       float32
	cells          map[cellKey][]int
	minKey, maxKey cellKey
}

func newGridIndex(points []math.Vec3) *gridIndex {
	g := &gridIndex{points: points, cells: make(map[cellKey][]int)}
	if len(points) == 0 {
		return g
	}

	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = math.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = math.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	extent := max(hi.X-lo.X, hi.Y-lo.Y, hi.Z-lo.Z)

	// Roots lie on a surface, so size cells for a 2D spread.
	g.cellSize = extent / max(1, float32(gomath.Sqrt(float64(len(points)))))
	if g.cellSize <= 0 {
		g.cellSize = 1
	}
	g.origin = lo

	for i, p := range points {
		k := g.key(p)
		if i == 0 {
			g.minKey, g.maxKey = k, k
		}
		for a := range 3 {
			g.minKey[a] = min(g.minKey[a], k[a])
			g.maxKey[a] = max(g.maxKey[a], k[a])
		}
		g.cells[k] = append(g.cells[k], i)
	}
	return g
}

func (g *gridIndex) key(p math.Vec3) cellKey {
	d := p.Sub(g.origin).Scale(1 / g.cellSize)
	return cellKey{
		int32(gomath.Floor(float64(d.X))),
		int32(gomath.Floor(float64(d.Y))),
		int32(gomath.Floor(float64(d.Z))),
	}
}

// Nearest returns the index of the point closest to q, or -1 for an empty
// index. Rings of cells are searched outward from the first ring touching
// the occupied box until no unvisited cell can hold anything closer.
func (g *gridIndex) Nearest(q math.Vec3) int {
	if len(g.points) == 0 {
		return -1
	}

	c := g.key(q)
	var first, reach int32
	for a := range 3 {
		// Chebyshev distance from c to the box along this axis.
		gap := max(g.minKey[a]-c[a], c[a]-g.maxKey[a], 0)
		first = max(first, gap)
		reach = max(reach, abs32(c[a]-g.minKey[a]), abs32(c[a]-g.maxKey[a]))
	}

	best := -1
	var bestDist float32
	for r := first; r <= reach; r++ {
		g.visitRing(c, r, func(i int) {
			d := g.points[i].Sub(q).LengthSq()
			if best < 0 || d < bestDist || (d == bestDist && i < best) {
				best, bestDist = i, d
			}
		})
		// Cells beyond ring r are at least r cells away from q's cell.
		bound := float32(r) * g.cellSize
		if best >= 0 && bestDist < bound*bound {
			break
		}
	}
	return best
}

// visitRing calls fn for every point in occupied-box cells at Chebyshev
// distance r from c. Only the shell is walked.
func (g *gridIndex) visitRing(c cellKey, r int32, fn func(int)) {
	var lo, hi [3]int32
	for a := range 3 {
		lo[a] = max(-r, g.minKey[a]-c[a])
		hi[a] = min(r, g.maxKey[a]-c[a])
		if lo[a] > hi[a] {
			return
		}
	}

	visit := func(dx, dy, dz int32) {
		for _, i := range g.cells[cellKey{c[0] + dx, c[1] + dy, c[2] + dz}] {
			fn(i)
		}
	}
	for dx := lo[0]; dx <= hi[0]; dx++ {
		for dy := lo[1]; dy <= hi[1]; dy++ {
			if abs32(dx) == r || abs32(dy) == r {
				for dz := lo[2]; dz <= hi[2]; dz++ {
					visit(dx, dy, dz)
				}
				continue
			}
			if lo[2] == -r {
				visit(dx, dy, -r)
			}
			if hi[2] == r && r != 0 {
				visit(dx, dy, r)
			}
		}
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
