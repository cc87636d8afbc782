package dsp

import "math"

// SoftClip applies a smooth nonlinear limiter so transient overshoot (from
// PolyBLEP correction or summed voices) never hard-clips the output.
func SoftClip(x float64) float64 {
	return math.Tanh(x)
}

// FlushDenormal forces very small magnitudes to exact zero, avoiding the
// CPU penalty some processors impose on denormalized floating point.
func FlushDenormal(x float64) float64 {
	if math.Abs(x) < 1e-15 {
		return 0
	}
	return x
}
