package kernelsvm

// ExampleStore holds the training examples together with their dual
// coefficients and box bounds. Swap must be applied together with the
// matching KernelProvider swap.
type ExampleStore interface {
	Count() int
	Dimension() int
	// Alphas returns the dual coefficients; the engine writes through this slice.
	Alphas() []float64
	Labels() []float64
	// Costs returns the per-example upper bounds of the positive and negative side.
	Costs() (pos, neg []float64)
	Example(i int) []Feature
	Swap(i, j int)
	SetBias(b float64)
	Bias() float64
}

// Examples is the in-memory ExampleStore.
type Examples struct {
	x      [][]Feature
	y      []float64
	alphas []float64
	cPos   []float64
	cNeg   []float64
	index  []int
	dim    int
	bias   float64
}

// NewExamples builds a store over x with targets y. All costs start at 1.
func NewExamples(x [][]Feature, y []float64) *Examples {
	l := len(x)
	e := &Examples{
		x:      make([][]Feature, l),
		y:      make([]float64, l),
		alphas: make([]float64, l),
		cPos:   make([]float64, l),
		cNeg:   make([]float64, l),
		index:  make([]int, l),
	}
	copy(e.x, x)
	copy(e.y, y)
	for i := 0; i < l; i++ {
		e.cPos[i] = 1
		e.cNeg[i] = 1
		e.index[i] = i
		if n := len(x[i]); n > 0 && x[i][n-1].GetIndex() > e.dim {
			e.dim = x[i][n-1].GetIndex()
		}
	}
	return e
}

// Count returns the number of examples
func (e *Examples) Count() int {
	return len(e.x)
}

// Dimension returns the largest feature index
func (e *Examples) Dimension() int {
	return e.dim
}

// Alphas returns the dual coefficients
func (e *Examples) Alphas() []float64 {
	return e.alphas
}

// Labels returns the targets
func (e *Examples) Labels() []float64 {
	return e.y
}

// Costs returns the box bounds
func (e *Examples) Costs() (pos, neg []float64) {
	return e.cPos, e.cNeg
}

// Example returns the features of example i
func (e *Examples) Example(i int) []Feature {
	return e.x[i]
}

// OriginalIndex returns the position example i had when the store was built.
func (e *Examples) OriginalIndex(i int) int {
	return e.index[i]
}

// Swap exchanges examples i and j
func (e *Examples) Swap(i, j int) {
	e.x[i], e.x[j] = e.x[j], e.x[i]
	swapFloat64Array(e.y, i, j)
	swapFloat64Array(e.alphas, i, j)
	swapFloat64Array(e.cPos, i, j)
	swapFloat64Array(e.cNeg, i, j)
	swapIntArray(e.index, i, j)
}

// SetBias stores the learned bias
func (e *Examples) SetBias(b float64) {
	e.bias = b
}

// Bias returns the learned bias
func (e *Examples) Bias() float64 {
	return e.bias
}

func swapIntArray(array []int, idxA int, idxB int) {
	temp := array[idxA]
	array[idxA] = array[idxB]
	array[idxB] = temp
}

func swapFloat64Array(array []float64, idxA int, idxB int) {
	temp := array[idxA]
	array[idxA] = array[idxB]
	array[idxB] = temp
}
