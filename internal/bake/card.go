package bake

import (
	"image"
	"image/color"

	"github.com/Faultbox/midgard-hair/internal/strand"
	"github.com/Faultbox/midgard-hair/pkg/math"
)

// Card is the quad the baked maps are drawn on.
type Card struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	UVs       []math.Vec2
	Indices   []uint32
}

// BuildCard creates a vertical card hanging from top, centered on it, facing
// +Z. UV (0, 0) is the top-left corner so V runs from root to tip like the
// baked maps.
func BuildCard(top math.Vec3, width, length float32) *Card {
	half := width / 2
	bottom := top.Y - length

	// Order: TL, TR, BR, BL
	return &Card{
		Positions: []math.Vec3{
			{X: top.X - half, Y: top.Y, Z: top.Z},
			{X: top.X + half, Y: top.Y, Z: top.Z},
			{X: top.X + half, Y: bottom, Z: top.Z},
			{X: top.X - half, Y: bottom, Z: top.Z},
		},
		Normals: []math.Vec3{{Z: 1}, {Z: 1}, {Z: 1}, {Z: 1}},
		UVs: []math.Vec2{
			{X: 0, Y: 0},
			{X: 1, Y: 0},
			{X: 1, Y: 1},
			{X: 0, Y: 1},
		},
		Indices: []uint32{0, 3, 2, 0, 2, 1},
	}
}

// FitCard builds a card covering the X/Y extent of the strands' control
// points, placed at their largest Z plus padding. It returns nil for an
// empty collection.
func FitCard(strands []*strand.Strand, padding float32) *Card {
	first := true
	var minX, maxX, minY, maxY, maxZ float32
	for _, s := range strands {
		for _, cp := range s.Points {
			p := cp.Position
			if first {
				minX, maxX, minY, maxY, maxZ = p.X, p.X, p.Y, p.Y, p.Z
				first = false
				continue
			}
			minX = min(minX, p.X)
			maxX = max(maxX, p.X)
			minY = min(minY, p.Y)
			maxY = max(maxY, p.Y)
			maxZ = max(maxZ, p.Z)
		}
	}
	if first {
		return nil
	}

	top := math.Vec3{X: (minX + maxX) / 2, Y: maxY + padding, Z: maxZ + padding}
	return BuildCard(top, maxX-minX+2*padding, maxY-minY+2*padding)
}

// Colorize tints depth with a root-to-tip color gradient running down the
// image, scaled by the depth value. The result is opaque.
func Colorize(depth *image.Gray, root, tip math.RGB) *image.NRGBA {
	b := depth.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		v := (float32(y) + 0.5) / float32(b.Dy())
		base := root.Lerp(tip, v)
		for x := range b.Dx() {
			d := float32(depth.GrayAt(b.Min.X+x, b.Min.Y+y).Y) / 255
			r, g, bl := base.Scale(d).Bytes()
			out.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: bl, A: 255})
		}
	}
	return out
}
