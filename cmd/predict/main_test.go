package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"limhan.info/kernelsvm-go/kernelsvm"
)

func trainModel(t *testing.T, svmType *kernelsvm.SvmType, file string) *kernelsvm.Model {
	t.Helper()
	kernelsvm.SetLogOutput(&bytes.Buffer{})

	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()

	prob, err := kernelsvm.ReadProblem(f, -1)
	require.NoError(t, err)

	param := kernelsvm.NewParameter(svmType, kernelsvm.NewLinearKernel(), 10, 1e-3, 100000)
	if svmType.IsSupportVectorRegression() {
		require.NoError(t, param.SetEpsilon(0.01, 0.01))
	}
	model, err := kernelsvm.Train(prob, param)
	require.NoError(t, err)
	return model
}

func TestDoPredictCorruptLine(t *testing.T) {
	model := trainModel(t, kernelsvm.C_SVC, "../../testdata/twoclass.scale")

	err := DoPredict(strings.NewReader("1 abc\n"), &bytes.Buffer{}, model)
	assert.EqualError(t, err, "wrong input format at line 1")
}

func TestDoPredictCorruptIndex(t *testing.T) {
	model := trainModel(t, kernelsvm.C_SVC, "../../testdata/twoclass.scale")

	err := DoPredict(strings.NewReader("1 :1\n"), &bytes.Buffer{}, model)
	assert.EqualError(t, err, "the index  cannot be parsed")
}

func TestDoPredict(t *testing.T) {
	model := trainModel(t, kernelsvm.C_SVC, "../../testdata/twoclass.scale")

	var out bytes.Buffer
	err := DoPredict(strings.NewReader("1 1:0.9 2:0.8\n-1 1:-0.7 2:-0.9\n1 1:0.5 2:0.5 9:88223\n"), &out, model)
	require.NoError(t, err)
	assert.Equal(t, "1\n-1\n1\n", out.String())
}

func TestDoPredictRegression(t *testing.T) {
	model := trainModel(t, kernelsvm.EPSILON_SVR, "../../testdata/line.scale")

	var out bytes.Buffer
	require.NoError(t, DoPredict(strings.NewReader("2 1:0.5\n0 1:-0.5\n"), &out, model))

	lines := strings.Fields(out.String())
	require.Len(t, lines, 2)
	for i, want := range []float64{2, 0} {
		got, err := strconv.ParseFloat(lines[i], 64)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 0.05)
	}
}

func TestMainWritesPredictions(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	output := filepath.Join(t.TempDir(), "predictions")
	os.Args = []string{"predict", "-q", "-c=10", "-tf=../../testdata/twoclass.scale", "-if=../../testdata/twoclass.scale", "-of=" + output}
	main()

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(string(data)), 60)
}
