// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// ClipInterval is a wrapper to use Clip with an r1.Interval instead of
// a separate max and min value
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// Sign returns -1 for negative values, 1 for positive values, and 0
// otherwise
func Sign(value float64) float64 {
	switch {
	case value < 0:
		return -1.0
	case value > 0:
		return 1.0
	default:
		return 0.0
	}
}

// Outside returns whether value lies strictly outside of interval.
// Values on the interval's bounds are inside.
func Outside(value float64, interval r1.Interval) bool {
	return value < interval.Min || value > interval.Max
}

// Wrap wraps value into the interval [min, max), as is done for angles
func Wrap(value, min, max float64) float64 {
	width := max - min
	wrapped := math.Mod(value-min, width)
	if wrapped < 0 {
		wrapped += width
	}
	return wrapped + min
}
