package kernelsvm

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomExamples(random *rand.Rand, l, n int) [][]Feature {
	x := make([][]Feature, l)
	for i := range x {
		values := make([]float64, n)
		for j := range values {
			values[j] = random.Float64()*2 - 1
		}
		x[i] = NewDenseExample(values...)
	}
	return x
}

func assertRowsMatch(t *testing.T, c *KernelCache, kernel Kernel, x [][]Feature) {
	t.Helper()
	for i := 0; i < c.ActiveSize(); i++ {
		row := c.Row(i)
		require.Len(t, row, c.ActiveSize())
		for j := range row {
			assert.InDelta(t, kernel.Eval(x[i], x[j]), row[j], 1e-12, "row %d column %d", i, j)
			assert.InDelta(t, kernel.Eval(x[i], x[j]), c.Value(i, j), 1e-12)
		}
	}
}

func TestKernelCacheRows(t *testing.T) {
	random := rand.New(rand.NewSource(1))
	kernel := NewRBFKernel(0.7)
	x := randomExamples(random, 8, 3)

	c := NewKernelCache(kernel, x, 3)
	assertRowsMatch(t, c, kernel, x)
	assert.LessOrEqual(t, c.lru.Len(), 3)
}

func TestKernelCacheEvictsLeastRecentlyUsed(t *testing.T) {
	x := [][]Feature{NewDenseExample(1), NewDenseExample(2), NewDenseExample(3)}
	c := NewKernelCache(NewLinearKernel(), x, 2)

	c.Row(0)
	c.Row(1)
	c.Row(0)
	c.Row(2)

	assert.NotNil(t, c.rows[0])
	assert.Nil(t, c.rows[1])
	assert.NotNil(t, c.rows[2])
}

func TestKernelCacheSwapAndActiveSize(t *testing.T) {
	random := rand.New(rand.NewSource(2))
	kernel := NewPolyKernel(0.5, 1, 3)
	x := randomExamples(random, 10, 4)
	perm := make([][]Feature, len(x))
	copy(perm, x)

	c := NewKernelCache(kernel, x, 6)
	for i := 0; i < 10; i++ {
		c.Row(i)
	}

	c.SetActiveSize(6)
	for _, pair := range [][2]int{{0, 9}, {2, 5}, {3, 7}, {1, 2}} {
		c.Swap(pair[0], pair[1])
		perm[pair[0]], perm[pair[1]] = perm[pair[1]], perm[pair[0]]
	}
	assertRowsMatch(t, c, kernel, perm)

	c.SetActiveSize(10)
	assertRowsMatch(t, c, kernel, perm)
}
