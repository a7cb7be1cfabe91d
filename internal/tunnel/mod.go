package tunnel

import "math"

// floorMod returns a mod m in [0, m) for m > 0.
func floorMod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// floorModFloat floors v and reduces it into [0, m). Values that are not
// finite yield fallback.
func floorModFloat(v float64, m int, fallback int) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	r := math.Mod(math.Floor(v), float64(m))
	if r < 0 {
		r += float64(m)
	}
	// r+m can round up to m for tiny negative r.
	if r >= float64(m) {
		r = 0
	}
	return int(r)
}

// clampInt constrains v to lie within the inclusive [lo, hi] range.
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
