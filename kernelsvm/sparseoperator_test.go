package kernelsvm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSparseOperators(t *testing.T) {
	x := []Feature{NewFeatureNode(1, 1), NewFeatureNode(3, 2)}
	z := []Feature{NewFeatureNode(2, 5), NewFeatureNode(3, 4)}

	assert.Equal(t, 5.0, SparseOperatorNrm2Sq(x))
	assert.Equal(t, 8.0, SparseOperatorDot(x, z))
	assert.Equal(t, 8.0, SparseOperatorDot(z, x))
	assert.Equal(t, 30.0, SparseOperatorDist2Sq(x, z))
	assert.Equal(t, 0.0, SparseOperatorDot(x, nil))

	y := make([]float64, 3)
	SparseOperatorAxpy(2, x, y)
	assert.Equal(t, []float64{2, 0, 4}, y)
}

func TestKernelEval(t *testing.T) {
	x := NewDenseExample(1, 0, 2)
	z := NewDenseExample(0, 5, 4)

	assert.Equal(t, 8.0, NewLinearKernel().Eval(x, z))
	assert.Equal(t, 81.0, NewPolyKernel(1, 1, 2).Eval(x, z))
	assert.Equal(t, 1.0, NewRBFKernel(0.5).Eval(x, x))
	assert.InDelta(t, math.Exp(-15), NewRBFKernel(0.5).Eval(x, z), 1e-15)
	assert.InDelta(t, math.Tanh(8.5), Kernel{Type: SIGMOID, Gamma: 1, Coef0: 0.5}.Eval(x, z), 1e-15)
}

func TestKernelTypeRegistry(t *testing.T) {
	for _, kernelType := range KernelTypeValues() {
		assert.Equal(t, kernelType, GetKernelTypeById(kernelType.Id()))
	}
	assert.Nil(t, GetKernelTypeById(42))
	assert.True(t, EPSILON_SVR.IsSupportVectorRegression())
	assert.False(t, C_SVC.IsSupportVectorRegression())
	assert.Equal(t, EPSILON_SVR, GetSvmTypeById(EPSILON_SVR.Id()))
}
