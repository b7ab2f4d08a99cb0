package util

import (
	"reflect"
)

// CopyInts copies a slice of ints.
func CopyInts(input []int) []int {
	results := make([]int, len(input))
	copy(results, input)
	return results
}

// SameElements determines whether two int slices have the
// same elements (in any order).
func SameElements(slice1 []int, slice2 []int) bool {
	if len(slice1) != len(slice2) {
		return false
	}

	slice1Counts := map[int]int{}
	for _, s := range slice1 {
		slice1Counts[s]++
	}

	slice2Counts := map[int]int{}
	for _, s := range slice2 {
		slice2Counts[s]++
	}

	return reflect.DeepEqual(slice1Counts, slice2Counts)
}

// WithoutElement returns a copy of the argument slice with all occurrences
// of the argument element removed, preserving the order of the remainder.
func WithoutElement(input []int, element int) []int {
	results := []int{}

	for _, value := range input {
		if value != element {
			results = append(results, value)
		}
	}

	return results
}
