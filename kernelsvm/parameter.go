package kernelsvm

import (
	"errors"
	"fmt"
	"math"
)

// Parameter contains the training options
type Parameter struct {
	SvmType *SvmType
	Kernel  Kernel

	C              float64 // complexity, <= 0 derives it from the kernel diagonal
	Eps            float64 // KKT tolerance of the stopping criterion
	MaxIters       int
	WorkingSetSize int
	ShrinkConst    int // iterations at a bound before an example is shrunk
	CacheSize      int // kernel rows kept in memory

	QuadraticLossPos bool
	QuadraticLossNeg bool
	EpsilonPos       float64 // tube width below the target, regression only
	EpsilonNeg       float64 // tube width above the target, regression only

	Weights    []float64 // per-example weight of both sides
	WeightsPos []float64 // per-example weight of the positive side, overrides Weights
	WeightsNeg []float64 // per-example weight of the negative side, overrides Weights
	LPos       float64
	LNeg       float64
	// BalanceCost scales LPos and LNeg by the inverse class frequency.
	BalanceCost bool

	Seed int64
}

// NewParameter constructs a Parameter with the remaining options at their defaults
func NewParameter(svmType *SvmType, kernel Kernel, c float64, eps float64, maxIters int) *Parameter {
	return &Parameter{
		SvmType:        svmType,
		Kernel:         kernel,
		C:              c,
		Eps:            eps,
		MaxIters:       maxIters,
		WorkingSetSize: 10,
		ShrinkConst:    50,
		CacheSize:      200,
		LPos:           1,
		LNeg:           1,
	}
}

// SetC sets the complexity constant. Values <= 0 select the automatic default.
func (p *Parameter) SetC(c float64) error {
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return fmt.Errorf("C must be finite, got %g", c)
	}
	p.C = c
	return nil
}

// SetEps sets the convergence epsilon
func (p *Parameter) SetEps(eps float64) error {
	if !(eps > 0) {
		return errors.New("eps must be bigger than 0")
	}
	p.Eps = eps
	return nil
}

// SetMaxIters sets the iteration budget
func (p *Parameter) SetMaxIters(maxIters int) error {
	if maxIters < 1 {
		return errors.New("max iterations must be at least 1")
	}
	p.MaxIters = maxIters
	return nil
}

// SetWorkingSetSize sets the number of variables optimized per iteration
func (p *Parameter) SetWorkingSetSize(n int) error {
	if n < 2 {
		return fmt.Errorf("working set size must be at least 2, got %d", n)
	}
	p.WorkingSetSize = n
	return nil
}

// SetShrinkConst sets how many iterations an example must stay at a bound before it is shrunk
func (p *Parameter) SetShrinkConst(n int) error {
	if n < 1 {
		return fmt.Errorf("shrink constant must be at least 1, got %d", n)
	}
	p.ShrinkConst = n
	return nil
}

// SetEpsilon sets the regression tube
func (p *Parameter) SetEpsilon(pos, neg float64) error {
	if pos < 0 || neg < 0 {
		return fmt.Errorf("epsilon must not be negative, got %g and %g", pos, neg)
	}
	p.EpsilonPos = pos
	p.EpsilonNeg = neg
	return nil
}

// SetWeights sets one weight per example, applied to both sides
func (p *Parameter) SetWeights(weights []float64) error {
	if err := checkWeights(weights); err != nil {
		return err
	}
	p.Weights = copyOf(weights)
	return nil
}

// SetSideWeights sets separate per-example weights for the positive and negative side
func (p *Parameter) SetSideWeights(pos, neg []float64) error {
	if len(pos) != len(neg) {
		return fmt.Errorf("weight columns differ in length: %d and %d", len(pos), len(neg))
	}
	if err := checkWeights(pos); err != nil {
		return err
	}
	if err := checkWeights(neg); err != nil {
		return err
	}
	p.WeightsPos = copyOf(pos)
	p.WeightsNeg = copyOf(neg)
	return nil
}

// GetWeights returns a copy of the shared weights
func (p *Parameter) GetWeights() []float64 {
	return copyOf(p.Weights)
}

// SetSvmType sets the svm type
func (p *Parameter) SetSvmType(svmType *SvmType) error {
	if svmType == nil {
		return errors.New("svm type must not be nil")
	}
	p.SvmType = svmType
	return nil
}

// SetKernel sets the kernel function
func (p *Parameter) SetKernel(kernel Kernel) error {
	if kernel.Type == nil {
		return errors.New("kernel type must not be nil")
	}
	if kernel.Gamma < 0 {
		return fmt.Errorf("gamma must not be negative, got %g", kernel.Gamma)
	}
	if kernel.Type == POLY && kernel.Degree < 0 {
		return fmt.Errorf("degree must not be negative, got %d", kernel.Degree)
	}
	p.Kernel = kernel
	return nil
}

// Check validates the parameter against a problem before training
func (p *Parameter) Check(prob *Problem) error {
	if p.SvmType == nil {
		return errors.New("svm type must not be nil")
	}
	if err := p.SetKernel(p.Kernel); err != nil {
		return err
	}
	if math.IsNaN(p.C) || math.IsInf(p.C, 0) {
		return fmt.Errorf("C must be finite, got %g", p.C)
	}
	if !(p.Eps > 0) {
		return errors.New("eps must be bigger than 0")
	}
	if p.MaxIters < 1 {
		return errors.New("max iterations must be at least 1")
	}
	if p.WorkingSetSize < 2 {
		return fmt.Errorf("working set size must be at least 2, got %d", p.WorkingSetSize)
	}
	if p.ShrinkConst < 1 {
		return fmt.Errorf("shrink constant must be at least 1, got %d", p.ShrinkConst)
	}
	if p.EpsilonPos < 0 || p.EpsilonNeg < 0 {
		return fmt.Errorf("epsilon must not be negative, got %g and %g", p.EpsilonPos, p.EpsilonNeg)
	}
	if !(p.LPos > 0) || !(p.LNeg > 0) {
		return fmt.Errorf("cost factors must be bigger than 0, got %g and %g", p.LPos, p.LNeg)
	}
	if prob == nil {
		return nil
	}
	if len(prob.X) != prob.L || len(prob.Y) != prob.L {
		return fmt.Errorf("problem has %d examples but %d vectors and %d targets", prob.L, len(prob.X), len(prob.Y))
	}
	for _, column := range [][]float64{p.Weights, p.WeightsPos, p.WeightsNeg} {
		if column != nil && len(column) != prob.L {
			return fmt.Errorf("weight column has %d entries for %d examples", len(column), prob.L)
		}
		if err := checkWeights(column); err != nil {
			return err
		}
	}
	if (p.WeightsPos == nil) != (p.WeightsNeg == nil) {
		return errors.New("positive and negative weight columns must be set together")
	}
	for i, x := range prob.X {
		if !checkSorted(x) {
			return fmt.Errorf("feature nodes of example %d must be sorted by index in ascending order", i)
		}
	}
	return nil
}

func checkWeights(weights []float64) error {
	for i, w := range weights {
		if math.IsNaN(w) || w < 0 {
			return fmt.Errorf("weight %d must not be negative, got %g", i, w)
		}
	}
	return nil
}

func copyOf(a []float64) []float64 {
	if a == nil {
		return nil
	}
	b := make([]float64, len(a))
	copy(b, a)
	return b
}
