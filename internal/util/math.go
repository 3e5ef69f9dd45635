package util

import (
	"math"
	"strconv"
)

// Coerce returns value limited to the range [min, max]
func Coerce(value float64, min float64, max float64) float64 {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}

// CoerceSymmetric returns value limited to the range [-limit, limit]
func CoerceSymmetric(value float64, limit float64) float64 {
	return Coerce(value, -limit, limit)
}

// RoundHalfUp rounds to the nearest integer, resolving ties towards positive infinity.
// This differs from math.Round, which resolves ties away from zero.
func RoundHalfUp(value float64) float64 {
	return math.Floor(value + 0.5)
}

// FormatFloat prints a float using the minimal number of digits needed to represent it
func FormatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// FormatOptionalFloat prints the value behind the pointer, or fallback if it is nil
func FormatOptionalFloat(value *float64, fallback string) string {
	if value == nil {
		return fallback
	}
	return FormatFloat(*value)
}
