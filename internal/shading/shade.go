package shading

import (
	"github.com/Faultbox/midgard-hair/pkg/math"
)

// Shade returns the color of one fiber sample. tangent, view, and light are
// unit vectors (view and light point away from the sample); t is the
// position along the strand in [0, 1] and ao its occlusion (1 = open).
//
// Shade has no side effects and does not allocate, so it can be called
// from any number of goroutines.
func Shade(tangent, view, light math.Vec3, lightColor math.RGB, m *Material, t, ao float32) math.RGB {
	base := m.RootColor.Lerp(m.TipColor, math.Saturate(t))

	tl := math.Clamp(tangent.Dot(light), -1, 1)
	tv := math.Clamp(tangent.Dot(view), -1, 1)

	var c math.RGB

	if m.DiffuseStrength != 0 {
		c = c.Add(base.Scale(m.DiffuseStrength * math.Sqrt(1-tl*tl)))
	}

	// Both lobes share the light's angle to the fiber cross-section.
	lightAngle := math.Asin(tl)
	if m.PrimaryStrength != 0 {
		g := lobe(lightAngle, tv, m.PrimaryShift, m.PrimaryWidth)
		c = c.Add(m.PrimaryTint.Scale(m.PrimaryStrength * g))
	}
	if m.SecondaryStrength != 0 {
		g := lobe(lightAngle, tv, m.SecondaryShift, m.SecondaryWidth)
		c = c.Add(m.SecondaryTint.Mul(base).Scale(m.SecondaryStrength * g))
	}

	if m.TransmissionStrength != 0 && tl < 0 {
		c = c.Add(m.TransmissionColor.Mul(base).Scale(m.TransmissionStrength * tl * tl))
	}

	if m.BackscatterStrength != 0 {
		if align := view.Dot(light); align > 0 {
			c = c.Add(base.Scale(m.BackscatterStrength * math.Pow(align, m.BackscatterSharpness)))
		}
	}

	occlusion := 1 - m.AOStrength*(1-ao)
	return c.Mul(lightColor).Scale(occlusion)
}

// lobe is a Gaussian in the difference between the shifted reflection
// cosine and the view cosine. A non-positive width turns it off.
func lobe(lightAngle, tv, shift, width float32) float32 {
	if width <= 0 {
		return 0
	}
	d := math.Cos(lightAngle+shift) - tv
	return math.Exp(-d * d / (2 * width * width))
}
