package util

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// MinMax returns the smallest and the largest value, both are 0 for an empty slice
func MinMax(s []float64) (float64, float64) {
	if len(s) < 1 {
		return 0, 0
	}
	minimum, maximum := s[0], s[0]
	for _, v := range s[1:] {
		if v < minimum {
			minimum = v
		}
		if v > maximum {
			maximum = v
		}
	}
	return minimum, maximum
}

func SortedKeys[T constraints.Ordered, K any](input map[T]K) []T {
	result := make([]T, 0, len(input))
	for k := range input {
		result = append(result, k)
	}
	slices.Sort(result)
	return result
}
