package kernelsvm

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"limhan.info/kernelsvm-go/test"
)

func init() {
	SetLogOutput(io.Discard)
}

func TestTrainPredict(t *testing.T) {
	x := [][]Feature{
		NewDenseExample(2, 2),
		NewDenseExample(3, 3),
		NewDenseExample(-1, -1),
		NewDenseExample(-2, -2),
	}
	prob := NewProblem(4, 2, []float64{3, 3, 7, 7}, x, -1)

	for _, kernel := range []Kernel{NewLinearKernel(), NewRBFKernel(0.5), NewPolyKernel(1, 1, 2)} {
		param := NewParameter(C_SVC, kernel, 1, 1e-3, 1000)
		model, err := Train(prob, param)
		require.NoError(t, err)

		assert.Equal(t, []int{3, 7}, model.Label)
		assert.Equal(t, 2, model.NumClass)
		assert.True(t, model.Converged)
		for i, xi := range x {
			assert.Equal(t, prob.Y[i], Predict(model, xi), "kernel %s", kernel.Type.Name())
		}
	}
}

func TestTrainModelSummary(t *testing.T) {
	x := [][]Feature{
		NewDenseExample(2, 2),
		NewDenseExample(3, 3),
		NewDenseExample(-1, -1),
		NewDenseExample(-2, -2),
	}
	prob := NewProblem(4, 2, []float64{-1, -1, 1, 1}, x, -1)
	model, err := Train(prob, NewParameter(C_SVC, NewLinearKernel(), 1, 1e-3, 1000))
	require.NoError(t, err)

	// -1 appears first, the positive side still holds the +1 examples
	assert.Equal(t, []int{1, -1}, model.Label)
	assert.Len(t, model.SV, 2)
	assert.ElementsMatch(t, []int{0, 2}, model.SVIndices)
	assert.Equal(t, 0, model.NumBoundedSV)

	w, err := model.Weights()
	require.NoError(t, err)
	require.Len(t, w, 2)
	assert.InDelta(t, -1.0/3, w[0], 1e-2)
	assert.InDelta(t, -1.0/3, w[1], 1e-2)
	assert.InDelta(t, 1.0/3, model.Rho, 1e-2)
}

func TestTrainRejectsThreeLabels(t *testing.T) {
	x := [][]Feature{NewDenseExample(1), NewDenseExample(2), NewDenseExample(3)}
	prob := NewProblem(3, 1, []float64{1, 2, 3}, x, -1)

	_, err := Train(prob, NewParameter(C_SVC, NewLinearKernel(), 1, 1e-3, 1000))
	assert.Error(t, err)
}

func TestTrainDegenerateProblems(t *testing.T) {
	param := NewParameter(EPSILON_SVR, NewLinearKernel(), 1, 1e-3, 1000)

	model, err := Train(NewProblem(0, 0, nil, nil, -1), param)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(model.Rho))
	assert.Equal(t, 0, model.Iterations)

	model, err = Train(NewProblem(1, 1, []float64{4.5}, [][]Feature{NewDenseExample(1)}, -1), param)
	require.NoError(t, err)
	assert.Equal(t, 4.5, model.Rho)
	assert.Equal(t, 4.5, Predict(model, NewDenseExample(3)))
}

func TestWeightsNeedLinearKernel(t *testing.T) {
	model := &Model{Kernel: NewRBFKernel(1)}
	_, err := model.Weights()
	assert.Error(t, err)
}

func TestSetCostsDerivesC(t *testing.T) {
	x := [][]Feature{NewDenseExample(1, 0), NewDenseExample(0, 2)}
	examples := NewExamples(x, []float64{1, -1})
	kernel := NewKernelCache(NewLinearKernel(), x, 2)
	param := NewParameter(C_SVC, NewLinearKernel(), 0, 1e-3, 1000)

	setCosts(examples, kernel, param, 1, 1)

	cPos, cNeg := examples.Costs()
	assert.InDeltaSlice(t, []float64{0.4, 0.4}, cPos, 1e-12)
	assert.InDeltaSlice(t, []float64{0.4, 0.4}, cNeg, 1e-12)
}

func TestSetCostsWeightsAndBalance(t *testing.T) {
	x := [][]Feature{NewDenseExample(1), NewDenseExample(2), NewDenseExample(3), NewDenseExample(4)}
	examples := NewExamples(x, []float64{1, 1, 1, -1})
	kernel := NewKernelCache(NewLinearKernel(), x, 2)

	param := NewParameter(C_SVC, NewLinearKernel(), 2, 1e-3, 1000)
	param.BalanceCost = true
	require.NoError(t, param.SetWeights([]float64{1, 2, 1, 1}))
	setCosts(examples, kernel, param, 3, 1)

	cPos, cNeg := examples.Costs()
	assert.InDeltaSlice(t, []float64{4.0 / 3, 8.0 / 3, 4.0 / 3, 4.0 / 3}, cPos, 1e-12)
	assert.InDeltaSlice(t, []float64{4, 8, 4, 4}, cNeg, 1e-12)

	param = NewParameter(C_SVC, NewLinearKernel(), 1, 1e-3, 1000)
	require.NoError(t, param.SetWeights([]float64{9, 9, 9, 9}))
	require.NoError(t, param.SetSideWeights([]float64{1, 2, 3, 4}, []float64{4, 3, 2, 1}))
	setCosts(examples, kernel, param, 3, 1)
	cPos, cNeg = examples.Costs()
	assert.Equal(t, []float64{1, 2, 3, 4}, cPos)
	assert.Equal(t, []float64{4, 3, 2, 1}, cNeg)
}

func TestGroupClasses(t *testing.T) {
	prob := NewProblem(3, 1, []float64{-1, 1, -1}, make([][]Feature, 3), -1)
	rv, err := groupClasses(prob)
	require.NoError(t, err)
	assert.Equal(t, []int{1, -1}, rv.label)
	assert.Equal(t, []int{1, 2}, rv.count)
	assert.Equal(t, []int{1, 0, 1}, rv.dataLabel)

	prob = NewProblem(3, 1, []float64{5, 3, 5}, make([][]Feature, 3), -1)
	rv, err = groupClasses(prob)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 3}, rv.label)
	assert.Equal(t, []int{0, 1, 0}, rv.dataLabel)
}

func TestReadProblem(t *testing.T) {
	file, err := os.Create(filepath.Join(t.TempDir(), "problem"))
	require.NoError(t, err)
	require.NoError(t, test.WriteToFile(file, []string{
		"1 1:1 3:0.5",
		"",
		"-1 2:2",
	}))
	require.NoError(t, file.Close())

	training := NewTraining(1, false, file.Name(), 0, nil, nil)
	require.NoError(t, training.ReadProblem())

	prob := training.Prob
	assert.Equal(t, 2, prob.L)
	assert.Equal(t, 4, prob.N)
	assert.Equal(t, []float64{1, -1}, prob.Y)
	require.Len(t, prob.X[0], 3)
	assert.Equal(t, 4, prob.X[0][2].GetIndex())
	assert.Equal(t, 1.0, prob.X[0][2].GetValue())
	require.Len(t, prob.X[1], 2)
	assert.Equal(t, 2, prob.X[1][0].GetIndex())
}

func TestReadProblemErrors(t *testing.T) {
	for _, lines := range []string{
		"abc 1:1",
		"1 1:1 2",
		"1 x:1",
		"1 1:y",
		"1 2:1 1:1",
		"1 0:1",
	} {
		_, err := ReadProblem(strings.NewReader(lines), -1)
		assert.Error(t, err, lines)
	}

	training := NewTraining(-1, false, filepath.Join(t.TempDir(), "missing"), 0, nil, nil)
	assert.Error(t, training.ReadProblem())
}

func TestCrossValidation(t *testing.T) {
	training := NewTraining(-1, true, "../testdata/twoclass.scale", 5, NewParameter(C_SVC, NewLinearKernel(), 10, 1e-3, 100000), nil)
	require.NoError(t, training.ReadProblem())

	result, err := training.DoCrossValidation()
	require.NoError(t, err)
	assert.Greater(t, result.Accuracy, 0.9)

	param := NewParameter(EPSILON_SVR, NewLinearKernel(), 10, 1e-3, 100000)
	require.NoError(t, param.SetEpsilon(0.01, 0.01))
	training = NewTraining(-1, true, "../testdata/line.scale", 100, param, nil)
	require.NoError(t, training.ReadProblem())

	result, err = training.DoCrossValidation()
	require.NoError(t, err)
	assert.Less(t, result.MeanSquaredError, 1e-3)
	assert.InDelta(t, 1, result.SquaredCorrelation, 1e-3)
}
