// Package easing holds the interpolation helpers shared by the speed ramps,
// the zoom keyframes and the cursor trajectory.
package easing

// Smoothstep applies the cubic ease u²(3−2u). Input is clamped to [0, 1].
func Smoothstep(u float64) float64 {
	u = Clamp(u, 0, 1)
	return u * u * (3 - 2*u)
}

// Lerp performs linear interpolation between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp limits v to [lo, hi]. When lo > hi the midpoint is returned.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NearlyZero reports whether v is within 1e-9 of zero.
func NearlyZero(v float64) bool {
	return v > -1e-9 && v < 1e-9
}
