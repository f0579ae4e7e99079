package math

// RGB is a linear color with float components, nominally in [0, 1].
type RGB struct {
	R, G, B float32
}

// Common colors.
var (
	Black = RGB{0, 0, 0}
	White = RGB{1, 1, 1}
)

// Add returns c + other.
func (c RGB) Add(other RGB) RGB {
	return RGB{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Mul returns the component-wise product.
func (c RGB) Mul(other RGB) RGB {
	return RGB{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Scale returns c * s.
func (c RGB) Scale(s float32) RGB {
	return RGB{c.R * s, c.G * s, c.B * s}
}

// Lerp interpolates from c to other by t.
func (c RGB) Lerp(other RGB, t float32) RGB {
	return RGB{
		c.R + t*(other.R-c.R),
		c.G + t*(other.G-c.G),
		c.B + t*(other.B-c.B),
	}
}

// Clamped returns c with every channel clamped to [0, 1].
func (c RGB) Clamped() RGB {
	return RGB{Saturate(c.R), Saturate(c.G), Saturate(c.B)}
}

// Bytes packs the clamped color into 8-bit channels.
func (c RGB) Bytes() (r, g, b uint8) {
	c = c.Clamped()
	return ToByte(c.R), ToByte(c.G), ToByte(c.B)
}

// ToByte maps [0, 1] to [0, 255] with rounding. Out-of-range input is clamped.
func ToByte(v float32) uint8 {
	return uint8(Saturate(v)*255 + 0.5)
}
