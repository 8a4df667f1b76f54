package kernelsvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinHeapKeepsSmallest(t *testing.T) {
	h := newMinHeap(3)
	for i, v := range []float64{5, 1, 4, 2, 3} {
		h.add(v, i)
	}
	assert.ElementsMatch(t, []int{1, 3, 4}, h.indices())
	assert.Equal(t, 3.0, h.top())
}

func TestMaxHeapKeepsLargest(t *testing.T) {
	h := newMaxHeap(2)
	for i, v := range []float64{5, 1, 4, 2, 3} {
		h.add(v, i)
	}
	assert.ElementsMatch(t, []int{0, 2}, h.indices())
	assert.Equal(t, 4.0, h.top())
}

func TestHeapTiesKeepEarlierIndex(t *testing.T) {
	h := newMinHeap(1)
	h.add(1, 0)
	h.add(1, 1)
	assert.Equal(t, []int{0}, h.indices())

	h = newMaxHeap(2)
	for i := 0; i < 5; i++ {
		h.add(7, i)
	}
	assert.ElementsMatch(t, []int{0, 1}, h.indices())
}

func TestHeapInitAndZeroLimit(t *testing.T) {
	h := newMaxHeap(0)
	h.add(1, 0)
	assert.True(t, h.empty())

	h.init(2)
	h.add(1, 0)
	h.add(2, 1)
	h.add(3, 2)
	assert.ElementsMatch(t, []int{1, 2}, h.indices())

	h.init(1)
	assert.True(t, h.empty())
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []int{3, 1, 2}, dedupe([]int{3, 1, 3, 2, 1}))
	assert.Equal(t, []int{}, dedupe([]int{}))
}
