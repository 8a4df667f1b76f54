package kernelsvm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Training is the struct command to hold
type Training struct {
	Bias            float64
	CrossValidation bool
	InputFilename   string
	NrFold          int
	Param           *Parameter
	Prob            *Problem
}

// NewTraining creates a new training type
func NewTraining(bias float64, crossValidation bool, inputFile string, nrFold int, param *Parameter, problem *Problem) *Training {
	return &Training{Bias: bias, CrossValidation: crossValidation, InputFilename: inputFile, NrFold: nrFold, Param: param, Prob: problem}
}

// CrossValidationResult summarizes the predictions of a cross validation run.
type CrossValidationResult struct {
	Correct            int
	Accuracy           float64 // classification only
	MeanSquaredError   float64
	SquaredCorrelation float64 // regression only
}

// DoCrossValidation does just that
func (t *Training) DoCrossValidation() (*CrossValidationResult, error) {
	l := t.Prob.L
	target := make([]float64, l)

	start := time.Now()
	if err := crossValidation(t.Prob, t.Param, t.NrFold, target); err != nil {
		return nil, err
	}
	logger.Printf("time: %v\n", time.Since(start))

	result := &CrossValidationResult{}
	if l > 0 {
		d := floats.Distance(target, t.Prob.Y, 2)
		result.MeanSquaredError = d * d / float64(l)
	}
	if t.Param.SvmType.IsSupportVectorRegression() {
		r := stat.Correlation(target, t.Prob.Y, nil)
		result.SquaredCorrelation = r * r
		logger.Printf("Cross Validation Mean squared error = %g\n", result.MeanSquaredError)
		logger.Printf("Cross Validation Squared correlation coefficient = %g\n", result.SquaredCorrelation)
		return result, nil
	}

	for i := 0; i < l; i++ {
		if target[i] == t.Prob.Y[i] {
			result.Correct++
		}
	}
	if l > 0 {
		result.Accuracy = float64(result.Correct) / float64(l)
	}
	logger.Printf("correct: %d\n", result.Correct)
	logger.Printf("Cross Validation Accuracy = %g%%\n", 100*result.Accuracy)
	return result, nil
}

// ReadProblem reads the file into the training problem field
func (t *Training) ReadProblem() error {
	f, err := os.Open(t.InputFilename)
	if err != nil {
		return fmt.Errorf("unable to open %s: %w", t.InputFilename, err)
	}
	defer f.Close()
	t.Prob, err = readProblem(f, t.Bias)
	return err
}

// ReadProblem parses libsvm formatted examples, one "label index:value ..." line each.
func ReadProblem(inputStream io.Reader, bias float64) (*Problem, error) {
	return readProblem(inputStream, bias)
}

func readProblem(inputStream io.Reader, bias float64) (*Problem, error) {
	scanner := bufio.NewScanner(inputStream)
	vy := make([]float64, 0)
	vx := make([][]Feature, 0)
	maxIndex := 0
	lineNr := 0

	for scanner.Scan() {
		lineNr++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		v, err := strconv.ParseFloat(tokens[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid label %q: %w", lineNr, tokens[0], err)
		}
		vy = append(vy, v)

		m := len(tokens) - 1
		var x []Feature
		if bias >= 0 {
			x = make([]Feature, m+1)
		} else {
			x = make([]Feature, m)
		}

		indexBefore := 0
		for i := 1; i < len(tokens); i++ {
			keyVal := strings.Split(tokens[i], ":")
			if len(keyVal) != 2 {
				return nil, fmt.Errorf("line %d: token format is incorrect %q", lineNr, tokens[i])
			}

			key, err := strconv.ParseInt(keyVal[0], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid index %q: %w", lineNr, keyVal[0], err)
			}
			if int(key) <= indexBefore {
				return nil, fmt.Errorf("line %d: indices must be positive and ascending, got %d after %d", lineNr, key, indexBefore)
			}
			indexBefore = int(key)

			val, err := strconv.ParseFloat(keyVal[1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid value %q: %w", lineNr, keyVal[1], err)
			}

			x[i-1] = NewFeatureNode(int(key), val)
		}
		if m > 0 && x[m-1].GetIndex() > maxIndex {
			maxIndex = x[m-1].GetIndex()
		}
		vx = append(vx, x)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return constructProblem(vy, vx, maxIndex, bias), nil
}

func constructProblem(vy []float64, vx [][]Feature, maxIndex int, bias float64) *Problem {
	l := len(vy)
	x := make([][]Feature, l)
	n := maxIndex

	if bias >= 0 {
		n++
	}

	for i := 0; i < l; i++ {
		x[i] = vx[i]
		if bias >= 0 {
			x[i][len(x[i])-1] = NewFeatureNode(maxIndex+1, bias)
		}
	}

	y := make([]float64, l)
	copy(y, vy)

	return NewProblem(l, n, y, x, bias)
}
