package timeline

import "math"

// DefaultStep is the nominal cursor advance per frame in milliseconds.
const DefaultStep = 16.67

// Percent returns the position of time t relative to duration d, in percent.
// Percent(0, d) is 0 and Percent(d, d) is 100. A non-positive duration maps
// every time to 0.
func Percent(t, d float64) float64 {
	if d <= 0 {
		return 0
	}
	return 100 * t / d
}

// TimeAt is the inverse of Percent.
func TimeAt(percent, d float64) float64 {
	if d <= 0 {
		return 0
	}
	return percent * d / 100
}

// Clamp limits t to the closed interval [0, d]. NaN maps to 0.
func Clamp(t, d float64) float64 {
	if t < 0 || !(d > 0) || math.IsNaN(t) {
		return 0
	}
	if t > d {
		return d
	}
	return t
}

// Normalize maps a cursor position into [0, d). Positions at or beyond the
// end wrap to 0, as the playback loop does. NaN maps to 0.
func Normalize(cursor, d float64) float64 {
	if !(cursor >= 0 && cursor < d) {
		return 0
	}
	return cursor
}

// Advance moves cursor forward by step. On reaching or exceeding d the
// cursor wraps to 0 (looping playback).
func Advance(cursor, step, d float64) float64 {
	next := cursor + step
	if !(next >= 0 && next < d) {
		return 0
	}
	return next
}
