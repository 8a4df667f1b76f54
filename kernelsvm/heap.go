package kernelsvm

import "container/heap"

type heapItem struct {
	value float64
	index int
}

// boundedHeap keeps the limit most extreme values seen since init.
// A min heap keeps the smallest values, a max heap the largest ones; in both
// cases the root is the least extreme retained value, i.e. the boundary.
type boundedHeap struct {
	items       []heapItem
	limit       int
	keepLargest bool
}

func newMinHeap(limit int) *boundedHeap {
	return &boundedHeap{limit: limit}
}

func newMaxHeap(limit int) *boundedHeap {
	return &boundedHeap{limit: limit, keepLargest: true}
}

func (h *boundedHeap) Len() int { return len(h.items) }

func (h *boundedHeap) Less(i, j int) bool {
	if h.keepLargest {
		return h.items[i].value < h.items[j].value
	}
	return h.items[i].value > h.items[j].value
}

func (h *boundedHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *boundedHeap) Push(x any) { h.items = append(h.items, x.(heapItem)) }

func (h *boundedHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// init empties the heap and sets a new capacity.
func (h *boundedHeap) init(limit int) {
	h.items = h.items[:0]
	h.limit = limit
}

// add offers index with its sort value. Ties keep the earlier index.
func (h *boundedHeap) add(value float64, index int) {
	if h.limit <= 0 {
		return
	}
	if len(h.items) < h.limit {
		heap.Push(h, heapItem{value: value, index: index})
		return
	}
	root := h.items[0].value
	if (h.keepLargest && value > root) || (!h.keepLargest && value < root) {
		h.items[0] = heapItem{value: value, index: index}
		heap.Fix(h, 0)
	}
}

func (h *boundedHeap) empty() bool {
	return len(h.items) == 0
}

// top returns the boundary value; the heap must not be empty.
func (h *boundedHeap) top() float64 {
	return h.items[0].value
}

// indices returns the retained indices in heap order.
func (h *boundedHeap) indices() []int {
	out := make([]int, len(h.items))
	for i, item := range h.items {
		out[i] = item.index
	}
	return out
}
