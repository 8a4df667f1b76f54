package kernelsvm

import "container/list"

// KernelProvider supplies kernel values for the examples of one training run.
// Indices refer to the current permutation of the examples; Swap must be applied
// together with the matching ExampleStore swap.
type KernelProvider interface {
	// Value returns K(i, j).
	Value(i, j int) float64
	// Eval computes the kernel of two arbitrary vectors.
	Eval(x, z []Feature) float64
	// Row returns K(i, 0..n-1) for the active size n. The slice is owned by
	// the provider and only valid until the next call that changes the cache.
	Row(i int) []float64
	Swap(i, j int)
	SetActiveSize(n int)
}

type cacheRow struct {
	index int
	data  []float64
	elem  *list.Element
}

// KernelCache is a KernelProvider keeping the most recently used kernel rows.
type KernelCache struct {
	kernel     Kernel
	x          [][]Feature
	diag       []float64
	rows       []*cacheRow
	lru        *list.List
	capacity   int
	activeSize int
}

// NewKernelCache builds a cache over the examples x holding at most capacity rows.
func NewKernelCache(kernel Kernel, x [][]Feature, capacity int) *KernelCache {
	if capacity < 2 {
		capacity = 2
	}
	l := len(x)
	c := &KernelCache{
		kernel:     kernel,
		x:          make([][]Feature, l),
		diag:       make([]float64, l),
		rows:       make([]*cacheRow, l),
		lru:        list.New(),
		capacity:   capacity,
		activeSize: l,
	}
	copy(c.x, x)
	for i := 0; i < l; i++ {
		c.diag[i] = kernel.Eval(c.x[i], c.x[i])
	}
	return c
}

// Eval computes K(x, z) with the kernel function of the cache
func (c *KernelCache) Eval(x, z []Feature) float64 {
	return c.kernel.Eval(x, z)
}

// Value returns K(i, j), from the cache when possible.
func (c *KernelCache) Value(i, j int) float64 {
	if i == j {
		return c.diag[i]
	}
	if r := c.rows[i]; r != nil && j < len(r.data) {
		return r.data[j]
	}
	if r := c.rows[j]; r != nil && i < len(r.data) {
		return r.data[i]
	}
	return c.kernel.Eval(c.x[i], c.x[j])
}

// Row returns the kernel row of i over the active range.
func (c *KernelCache) Row(i int) []float64 {
	r := c.rows[i]
	if r == nil {
		if c.lru.Len() >= c.capacity {
			c.evict()
		}
		r = &cacheRow{index: i}
		r.elem = c.lru.PushFront(r)
		c.rows[i] = r
	} else {
		c.lru.MoveToFront(r.elem)
	}
	if have := len(r.data); have < c.activeSize {
		if cap(r.data) >= c.activeSize {
			r.data = r.data[:c.activeSize]
		} else {
			data := make([]float64, c.activeSize)
			copy(data, r.data[:have])
			r.data = data
		}
		for j := have; j < c.activeSize; j++ {
			r.data[j] = c.compute(i, j)
		}
	}
	return r.data[:c.activeSize]
}

// compute evaluates K(i, j) without looking at the row of i.
func (c *KernelCache) compute(i, j int) float64 {
	if i == j {
		return c.diag[i]
	}
	if r := c.rows[j]; r != nil && i < len(r.data) {
		return r.data[i]
	}
	return c.kernel.Eval(c.x[i], c.x[j])
}

func (c *KernelCache) evict() {
	back := c.lru.Back()
	if back == nil {
		return
	}
	victim := c.lru.Remove(back).(*cacheRow)
	c.rows[victim.index] = nil
}

// Swap exchanges examples i and j, keeping every cached row consistent.
func (c *KernelCache) Swap(i, j int) {
	if i == j {
		return
	}
	c.x[i], c.x[j] = c.x[j], c.x[i]
	c.diag[i], c.diag[j] = c.diag[j], c.diag[i]
	c.rows[i], c.rows[j] = c.rows[j], c.rows[i]
	if c.rows[i] != nil {
		c.rows[i].index = i
	}
	if c.rows[j] != nil {
		c.rows[j].index = j
	}

	lo, hi := i, j
	if lo > hi {
		lo, hi = hi, lo
	}
	for e := c.lru.Front(); e != nil; e = e.Next() {
		r := e.Value.(*cacheRow)
		if len(r.data) > hi {
			r.data[lo], r.data[hi] = r.data[hi], r.data[lo]
		} else if len(r.data) > lo {
			// entries from lo on are stale, recomputed on the next Row call
			r.data = r.data[:lo]
		}
	}
}

// SetActiveSize sets the number of leading examples rows are computed for.
func (c *KernelCache) SetActiveSize(n int) {
	c.activeSize = n
}

// ActiveSize returns the current length of the rows handed out by Row.
func (c *KernelCache) ActiveSize() int {
	return c.activeSize
}
