package kernelsvm

import (
	"io"
	"log"
	"math"
	"math/rand"
	"os"
)

var logger = log.New(os.Stdout, "[kernelsvm] ", log.LstdFlags)

// SetLogOutput redirects the package logger, io.Discard silences it.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Train uses the Problem and Parameters to create a training model
func Train(prob *Problem, param *Parameter) (*Model, error) {
	if err := param.Check(prob); err != nil {
		return nil, err
	}

	l := prob.L
	model := &Model{
		SvmType: param.SvmType,
		Kernel:  param.Kernel,
		Bias:    prob.Bias,
	}
	if prob.Bias >= 0 {
		model.NumFeatures = prob.N - 1
	} else {
		model.NumFeatures = prob.N
	}

	y := make([]float64, l)
	var nPos, nNeg int
	if param.SvmType.IsSupportVectorRegression() {
		copy(y, prob.Y)
	} else {
		rv, err := groupClasses(prob)
		if err != nil {
			return nil, err
		}
		model.Label = rv.label
		model.NumClass = rv.nrClass
		for i := 0; i < l; i++ {
			y[i] = 1
			if rv.dataLabel[i] != 0 {
				y[i] = -1
			}
		}
		if rv.nrClass == 2 {
			nPos, nNeg = rv.count[0], rv.count[1]
		}
	}

	examples := NewExamples(prob.X, y)
	kernel := NewKernelCache(param.Kernel, prob.X, param.CacheSize)
	setCosts(examples, kernel, param, nPos, nNeg)

	svm := NewSVM(kernel, examples, param, rand.New(rand.NewSource(param.Seed)))
	svm.Train()

	model.Rho = examples.Bias()
	model.Iterations = svm.Iterations()
	model.Converged = svm.Converged()
	cPos, cNeg := examples.Costs()
	alphas := examples.Alphas()
	for i := 0; i < examples.Count(); i++ {
		alpha := alphas[i]
		if alpha == 0 {
			continue
		}
		model.SV = append(model.SV, examples.Example(i))
		model.SVIndices = append(model.SVIndices, examples.OriginalIndex(i))
		model.Alpha = append(model.Alpha, alpha)
		if (alpha > 0 && alpha >= cPos[i]-isZero) || (alpha < 0 && -alpha >= cNeg[i]-isZero) {
			model.NumBoundedSV++
		}
	}

	logger.Printf("optimization finished, #iter = %d, converged = %v", model.Iterations, model.Converged)
	logger.Printf("nSV = %d, nBSV = %d, b = %g", len(model.SV), model.NumBoundedSV, model.Rho)
	return model, nil
}

// setCosts fills the per-example box bounds of the store.
func setCosts(examples *Examples, kernel KernelProvider, param *Parameter, nPos, nNeg int) {
	l := examples.Count()
	c := param.C
	if c <= 0 {
		var diag float64
		for i := 0; i < l; i++ {
			diag += kernel.Value(i, i)
		}
		c = 1
		if diag > 0 {
			c = float64(l) / diag
		}
		logger.Printf("C not set, using C = %g", c)
	}

	lPos, lNeg := param.LPos, param.LNeg
	if param.BalanceCost && nPos > 0 && nNeg > 0 {
		lPos *= float64(l) / (2 * float64(nPos))
		lNeg *= float64(l) / (2 * float64(nNeg))
	}

	cPos, cNeg := examples.Costs()
	for i := 0; i < l; i++ {
		wPos, wNeg := 1.0, 1.0
		if param.WeightsPos != nil {
			wPos, wNeg = param.WeightsPos[i], param.WeightsNeg[i]
		} else if param.Weights != nil {
			wPos, wNeg = param.Weights[i], param.Weights[i]
		}
		cPos[i] = c * lPos * wPos
		cNeg[i] = c * lNeg * wNeg
	}
}

// Predict uses the model to predict the result based on the input features x
func Predict(model *Model, x []Feature) float64 {
	dec := model.DecisionValue(x)
	if model.SvmType.IsSupportVectorRegression() {
		return dec
	}
	if model.NumClass == 0 {
		return math.NaN()
	}
	if dec > 0 || model.NumClass < 2 {
		return float64(model.Label[0])
	}
	return float64(model.Label[1])
}

func crossValidation(prob *Problem, param *Parameter, nrFold int, target []float64) error {
	var i int
	var l = prob.L
	var perm = make([]int, l)
	random := rand.New(rand.NewSource(param.Seed))

	if nrFold > l {
		nrFold = l
		logger.Println("WARNING: # folds > # data. Will use # folds = # data instead (i.e., leave-one-out cross validation)")
	}
	var foldStart = make([]int, nrFold+1)

	for i = 0; i < l; i++ {
		perm[i] = i
	}
	random.Shuffle(l, func(a, b int) { swapIntArray(perm, a, b) })

	for i = 0; i <= nrFold; i++ {
		foldStart[i] = i * l / nrFold
	}

	for i = 0; i < nrFold; i++ {
		begin := foldStart[i]
		end := foldStart[i+1]
		tempL := l - (end - begin)
		subProb := NewProblem(tempL, prob.N, make([]float64, tempL), make([][]Feature, tempL), prob.Bias)

		k := 0
		for j := 0; j < l; j++ {
			if j >= begin && j < end {
				continue
			}
			subProb.X[k] = prob.X[perm[j]]
			subProb.Y[k] = prob.Y[perm[j]]
			k++
		}

		subModel, err := Train(subProb, param)
		if err != nil {
			return err
		}
		for j := begin; j < end; j++ {
			target[perm[j]] = Predict(subModel, prob.X[perm[j]])
		}
	}
	return nil
}
