package mathutil

import "math"

// Clamp limits x to [lo, hi]. NaN collapses to lo.
func Clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) || x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Finite reports whether x is neither NaN nor infinite.
func Finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Sanitize replaces non-finite values with zero.
func Sanitize(x float64) float64 {
	if !Finite(x) {
		return 0
	}
	return x
}

// WrapAngle maps any finite angle into [-Pi, Pi].
func WrapAngle(a float64) float64 {
	if !Finite(a) {
		return 0
	}
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// AngleDiff returns the absolute smallest difference between two angles.
func AngleDiff(a, b float64) float64 {
	return math.Abs(WrapAngle(a - b))
}

// Normalize returns the unit vector of (x, y). Degenerate or non-finite
// input yields (0, 0) and ok=false.
func Normalize(x, y float64) (nx, ny float64, ok bool) {
	if !Finite(x) || !Finite(y) {
		return 0, 0, false
	}
	l := math.Hypot(x, y)
	if l < 1e-9 {
		return 0, 0, false
	}
	return x / l, y / l, true
}

// Distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}
