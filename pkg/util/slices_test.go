package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCopyInts(t *testing.T) {
	original := []int{3, 1, 2}
	copied := CopyInts(original)
	assert.Equal(t, original, copied)

	copied[0] = 99
	assert.Equal(t, []int{3, 1, 2}, original)
}

func TestSameElements(t *testing.T) {
	assert.True(t, SameElements([]int{1, 2, 3}, []int{3, 2, 1}))
	assert.True(t, SameElements([]int{}, []int{}))
	assert.False(t, SameElements([]int{1, 2, 3}, []int{1, 2}))
	assert.False(t, SameElements([]int{1, 2, 2}, []int{1, 1, 2}))
	assert.False(t, SameElements([]int{1, 2, 3}, []int{1, 2, 4}))
}

func TestWithoutElement(t *testing.T) {
	assert.Equal(t, []int{1, 3}, WithoutElement([]int{1, 2, 3}, 2))
	assert.Equal(t, []int{1, 2, 3}, WithoutElement([]int{1, 2, 3}, 4))
	assert.Equal(t, []int{}, WithoutElement([]int{5, 5}, 5))
}
