package math

import "math"

// Tau is a full turn in radians.
const Tau = 2 * math.Pi

// Clamp limits v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float32) float32 {
	if v > hi {
		return hi
	}
	if v >= lo {
		return v
	}
	return lo
}

// Saturate clamps v to [0, 1].
func Saturate(v float32) float32 {
	return Clamp(v, 0, 1)
}

// Lerp interpolates from a to b by t.
func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// Abs returns |v|.
func Abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Sqrt is a float32 square root. Negative input returns 0.
func Sqrt(v float32) float32 {
	if v <= 0 {
		return 0
	}
	return float32(math.Sqrt(float64(v)))
}

// Sin is a float32 sine.
func Sin(v float32) float32 {
	return float32(math.Sin(float64(v)))
}

// Cos is a float32 cosine.
func Cos(v float32) float32 {
	return float32(math.Cos(float64(v)))
}

// Exp is a float32 exponential.
func Exp(v float32) float32 {
	return float32(math.Exp(float64(v)))
}

// Asin is a float32 arcsine with input clamped to [-1, 1].
func Asin(v float32) float32 {
	return float32(math.Asin(float64(Clamp(v, -1, 1))))
}

// Pow is a float32 power.
func Pow(v, e float32) float32 {
	return float32(math.Pow(float64(v), float64(e)))
}
