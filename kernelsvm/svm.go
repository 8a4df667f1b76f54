package kernelsvm

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	isZero = 1e-10
	// consecutive failed sub-problems before the KKT precision is relaxed
	maxTargetCount = 50
)

// loss specializes the engine for classification or regression.
type loss interface {
	// isAlphaNeg reports whether example i is optimized on the negative side.
	isAlphaNeg(s *SVM, i int) bool
	// nabla is the dual gradient of example i on the side given by isAlphaNeg.
	nabla(s *SVM, i int) float64
	// optimize solves the prepared sub-problem into s.primal.
	optimize(s *SVM) error
}

// SVM is the decomposition engine. It owns the cached sums
// sum[i] = Σ_j alpha[j]·K(i, j) and the shrinking state; the dual
// coefficients live in the example store and are written in place.
type SVM struct {
	examples ExampleStore
	kernel   KernelProvider
	active   *activeSet
	loss     loss
	random   *rand.Rand

	alphas []float64
	ys     []float64
	cPos   []float64
	cNeg   []float64

	sum     []float64
	atBound []int

	workingSetSize int
	workingSet     []int
	whichAlpha     []bool
	primal         []float64
	qp             *QuadraticProblem
	heapMin        *boundedHeap
	heapMax        *boundedHeap

	sumAlpha    float64
	lambdaEq    float64
	lambdaWS    float64
	targetCount int
	toShrink    int
	shrinkConst int

	convergenceEpsilon float64
	feasibleEpsilon    float64
	epsilonPos         float64
	epsilonNeg         float64
	quadraticLossPos   bool
	quadraticLossNeg   bool
	maxIterations      int
	paramShrinkConst   int
	paramWorkingSet    int

	iterations int
	converged  bool
}

// NewSVM builds an engine over a populated kernel provider and example store.
// The costs of the store must already be set. random is only used to pad the working set.
func NewSVM(kernel KernelProvider, examples ExampleStore, param *Parameter, random *rand.Rand) *SVM {
	s := &SVM{
		examples:           examples,
		kernel:             kernel,
		random:             random,
		convergenceEpsilon: param.Eps,
		feasibleEpsilon:    param.Eps,
		quadraticLossPos:   param.QuadraticLossPos,
		quadraticLossNeg:   param.QuadraticLossNeg,
		maxIterations:      param.MaxIters,
		paramShrinkConst:   param.ShrinkConst,
		paramWorkingSet:    param.WorkingSetSize,
	}
	if param.SvmType.IsSupportVectorRegression() {
		s.loss = regressionLoss{}
		s.epsilonPos = param.EpsilonPos
		s.epsilonNeg = param.EpsilonNeg
	} else {
		s.loss = patternLoss{}
	}
	return s
}

// Train optimizes the dual coefficients and stores the bias in the example store.
// It always finishes with a usable solution; see Converged.
func (s *SVM) Train() {
	s.iterations = 0
	s.converged = false

	switch s.examples.Count() {
	case 0:
		s.examples.SetBias(math.NaN())
		return
	case 1:
		s.converged = true
		s.examples.SetBias(s.examples.Labels()[0])
		return
	}

	s.initOptimizer()
	s.initWorkingSet()

	for s.iterations < s.maxIterations {
		s.iterations++
		s.optimize()
		s.putOptimizerValues()

		if s.convergence() {
			s.projectToConstraint()
			if s.active.shrunk() {
				logger.Println("checking convergence for all variables")
				s.resetShrinked()
			}
			// the projection and the reinstated examples are checked again
			if s.converged = s.convergence(); s.converged {
				break
			}
			// a violator remains, free the shrinking counters again
			s.shrinkConst += 10
			s.targetCount = 0
			s.toShrink = 0
			for i := range s.atBound {
				s.atBound[i] = 0
			}
		}

		s.shrink()
		s.calculateWorkingSet()
		s.updateWorkingSet()
	}

	if !s.converged {
		logger.Printf("no convergence within %d iterations, keeping the current solution", s.maxIterations)
		if s.active.shrunk() {
			s.resetShrinked()
		}
	}
	s.examples.SetBias(s.computeBias())
}

// Iterations returns the number of sub-problems solved by the last Train.
func (s *SVM) Iterations() int {
	return s.iterations
}

// Converged reports whether the last Train met the KKT conditions.
func (s *SVM) Converged() bool {
	return s.converged
}

// ConvergenceEpsilon returns the KKT tolerance in use, which is relaxed
// when the sub-problems keep failing.
func (s *SVM) ConvergenceEpsilon() float64 {
	return s.convergenceEpsilon
}

// Predict evaluates the decision function at x.
func (s *SVM) Predict(x []Feature) float64 {
	f := s.examples.Bias()
	alphas := s.examples.Alphas()
	for i := 0; i < s.examples.Count(); i++ {
		if alpha := alphas[i]; alpha != 0 {
			f += alpha * s.kernel.Eval(s.examples.Example(i), x)
		}
	}
	return f
}

func (s *SVM) initOptimizer() {
	total := s.examples.Count()
	s.alphas = s.examples.Alphas()
	s.ys = s.examples.Labels()
	s.cPos, s.cNeg = s.examples.Costs()
	s.active = newActiveSet(s.examples, s.kernel)

	s.sum = make([]float64, total)
	s.atBound = make([]int, total)

	s.workingSetSize = s.paramWorkingSet
	if s.workingSetSize > total {
		s.workingSetSize = total
	}
	s.workingSet = make([]int, 0, s.workingSetSize)
	s.whichAlpha = make([]bool, s.workingSetSize)
	s.primal = make([]float64, s.workingSetSize)
	s.qp = NewQuadraticProblem(s.workingSetSize, isZero/100, s.convergenceEpsilon/10)
	s.heapMin = newMinHeap(s.workingSetSize / 2)
	s.heapMax = newMaxHeap(s.workingSetSize/2 + s.workingSetSize%2)

	s.sumAlpha = 0
	s.lambdaEq = 0
	s.lambdaWS = 0
	s.targetCount = 0
	s.toShrink = 0
	s.shrinkConst = s.paramShrinkConst
}

// initWorkingSet computes the sums for warm-started alphas and selects the first working set.
func (s *SVM) initWorkingSet() {
	s.projectToConstraint()
	for i := range s.sum {
		s.sum[i] = 0
		s.atBound[i] = 0
	}
	for i, alpha := range s.alphas {
		if alpha != 0 {
			floats.AddScaled(s.sum, alpha, s.kernel.Row(i))
		}
	}
	s.calculateWorkingSet()
	s.updateWorkingSet()
}

// upperBound is the box limit of the side of example i, as a magnitude.
func (s *SVM) upperBound(i int, neg bool) float64 {
	if neg {
		if s.quadraticLossNeg && s.cNeg[i] > 0 {
			return math.MaxFloat64
		}
		return s.cNeg[i]
	}
	if s.quadraticLossPos && s.cPos[i] > 0 {
		return math.MaxFloat64
	}
	return s.cPos[i]
}

// quadraticTerm is the diagonal regularizer of a quadratic loss side.
func (s *SVM) quadraticTerm(i int, neg bool) float64 {
	if neg {
		if s.quadraticLossNeg && s.cNeg[i] > 0 {
			return 1 / s.cNeg[i]
		}
		return 0
	}
	if s.quadraticLossPos && s.cPos[i] > 0 {
		return 1 / s.cPos[i]
	}
	return 0
}

// nablaSide is the dual gradient of example i for the given side.
func (s *SVM) nablaSide(i int, neg bool) float64 {
	if neg {
		return -s.sum[i] + s.ys[i] + s.epsilonNeg + s.quadraticTerm(i, true)*math.Max(-s.alphas[i], 0)
	}
	return s.sum[i] - s.ys[i] + s.epsilonPos + s.quadraticTerm(i, false)*math.Max(s.alphas[i], 0)
}

func sideSign(neg bool) float64 {
	if neg {
		return -1
	}
	return 1
}

// lambda is the KKT slack of example i: >= 0 when the example is optimal.
func (s *SVM) lambda(i int) float64 {
	neg := s.loss.isAlphaNeg(s, i)
	a := sideSign(neg)
	r := s.loss.nabla(s, i) + a*s.lambdaEq
	p := a * s.alphas[i]
	if p <= isZero {
		return r
	}
	if p >= s.upperBound(i, neg)-isZero {
		return -r
	}
	return -math.Abs(r)
}

// isFreeSV reports whether alpha[i] is a support vector strictly inside its box.
func (s *SVM) isFreeSV(i int) bool {
	alpha := s.alphas[i]
	return (alpha > isZero && alpha < s.upperBound(i, false)-isZero) ||
		(alpha < -isZero && alpha > -s.upperBound(i, true)+isZero)
}

func (s *SVM) canIncrease(i int) bool {
	alpha := s.alphas[i]
	if s.loss.isAlphaNeg(s, i) {
		return alpha < -isZero
	}
	return alpha < s.upperBound(i, false)-isZero
}

func (s *SVM) canDecrease(i int) bool {
	alpha := s.alphas[i]
	if s.loss.isAlphaNeg(s, i) {
		return alpha > -s.upperBound(i, true)+isZero
	}
	return alpha > isZero
}

// updateWorkingSet builds the sub-problem of the current working set.
func (s *SVM) updateWorkingSet() {
	n := len(s.workingSet)
	s.qp.Resize(n)
	s.primal = s.primal[:n]
	qp := s.qp

	for pos, i := range s.workingSet {
		neg := s.whichAlpha[pos]
		a := sideSign(neg)
		row := s.kernel.Row(i)
		for q := 0; q < pos; q++ {
			qp.H.SetSym(pos, q, a*qp.A[q]*row[s.workingSet[q]])
		}
		qp.H.SetSym(pos, pos, row[i]+s.quadraticTerm(i, neg))
		qp.A[pos] = a
		qp.L[pos] = 0
		qp.U[pos] = s.upperBound(i, neg)
		s.primal[pos] = math.Min(math.Max(a*s.alphas[i], 0), qp.U[pos])
		qp.C[pos] = s.nablaSide(i, neg)
	}

	// the linear term reproduces nabla at the current primal
	var hp mat.VecDense
	hp.MulVec(qp.H, mat.NewVecDense(n, s.primal))
	floats.Sub(qp.C, hp.RawVector().Data)
}

// optimize solves the sub-problem. A failed solve keeps the previous alphas.
func (s *SVM) optimize() {
	s.qp.MaxAllowedError = s.convergenceEpsilon / 10
	s.qp.B = floats.Dot(s.qp.A, s.primal)

	if err := s.loss.optimize(s); err != nil {
		s.targetCount++
		s.restorePrimal()
	} else {
		s.targetCount = 0
	}

	if s.targetCount >= maxTargetCount {
		s.convergenceEpsilon *= 2
		s.feasibleEpsilon = s.convergenceEpsilon
		s.targetCount = 0
		logger.Printf("sub-problems keep failing, reducing KKT precision to %g", s.convergenceEpsilon)
	}
}

func (s *SVM) restorePrimal() {
	for pos, i := range s.workingSet {
		s.primal[pos] = s.qp.A[pos] * s.alphas[i]
	}
}

// putOptimizerValues writes the sub-problem solution back to the alphas.
func (s *SVM) putOptimizerValues() {
	for pos := len(s.workingSet) - 1; pos >= 0; pos-- {
		s.applyDelta(s.workingSet[pos], s.qp.A[pos]*s.primal[pos])
	}
}

// applyDelta sets alpha[i] and updates sum over the active range.
// It is the only place sum changes outside of initialization and unshrinking.
func (s *SVM) applyDelta(i int, alpha float64) {
	diff := alpha - s.alphas[i]
	s.alphas[i] = alpha
	if diff == 0 {
		return
	}
	floats.AddScaled(s.sum[:s.active.size], diff, s.kernel.Row(i))
}

// convergence estimates lambda_eq and checks the KKT conditions on the active range.
func (s *SVM) convergence() bool {
	var lambdaSum, alphaSum float64
	total := 0
	for i := 0; i < s.active.size; i++ {
		alpha := s.alphas[i]
		alphaSum += alpha
		if alpha > isZero && alpha < s.upperBound(i, false)-isZero {
			lambdaSum -= s.nablaSide(i, false)
			total++
		} else if alpha < -isZero && alpha > -s.upperBound(i, true)+isZero {
			lambdaSum += s.nablaSide(i, true)
			total++
		}
	}
	if total > 0 {
		s.lambdaEq = lambdaSum / float64(total)
	} else {
		s.lambdaEq = s.lambdaWS
	}

	if s.targetCount > 2 {
		if s.targetCount > 20 {
			tc := float64(s.targetCount)
			s.lambdaEq = ((40-tc)*s.lambdaEq + (tc-20)*s.lambdaWS) / 20
			if s.targetCount > 40 {
				i := s.workingSet[s.targetCount%len(s.workingSet)]
				neg := s.loss.isAlphaNeg(s, i)
				s.lambdaEq = -sideSign(neg) * s.nablaSide(i, neg)
			}
		} else {
			s.lambdaEq = s.lambdaWS
		}
	}

	if math.Abs(alphaSum+s.sumAlpha) > s.convergenceEpsilon {
		s.projectToConstraint()
		return false
	}

	for i := 0; i < s.active.size; i++ {
		if s.lambda(i) < -s.convergenceEpsilon {
			return false
		}
	}
	return true
}

// projectToConstraint spreads the equality residual over the free support
// vectors. No alpha is shifted past its box or across zero; the part a clamped
// variable cannot take goes to the remaining free ones.
func (s *SVM) projectToConstraint() {
	residual := s.sumAlpha
	var free []int
	for i := 0; i < s.active.size; i++ {
		residual += s.alphas[i]
		if s.isFreeSV(i) {
			free = append(free, i)
		}
	}

	// every pass clamps a variable or absorbs the residual
	for passes := len(free) + 1; passes > 0 && len(free) > 0 && math.Abs(residual) > isZero; passes-- {
		shift := residual / float64(len(free))
		next := free[:0]
		for _, i := range free {
			lo, hi := 0.0, s.upperBound(i, false)
			if s.alphas[i] < 0 {
				lo, hi = -s.upperBound(i, true), 0
			}
			alpha := math.Min(math.Max(s.alphas[i]-shift, lo), hi)
			residual -= s.alphas[i] - alpha
			s.applyDelta(i, alpha)
			if alpha > lo && alpha < hi {
				next = append(next, i)
			}
		}
		free = next
	}
}

// computeBias averages the bias over the free support vectors, falling back
// to the examples with zero alpha and then to all examples.
func (s *SVM) computeBias() float64 {
	var b float64
	count := 0
	for i := 0; i < s.active.size; i++ {
		if s.isFreeSV(i) {
			b += s.marginBias(i, s.alphas[i] < 0)
			count++
		}
	}
	if count > 0 {
		return b / float64(count)
	}

	logger.Println("no free support vectors, estimating the bias from examples with zero alpha")
	for i := 0; i < s.active.size; i++ {
		if math.Abs(s.alphas[i]) <= isZero {
			b += s.marginBias(i, s.loss.isAlphaNeg(s, i))
			count++
		}
	}
	if count > 0 {
		return b / float64(count)
	}

	logger.Println("no examples with zero alpha, estimating the bias from all examples")
	for i := 0; i < s.active.size; i++ {
		b += s.marginBias(i, s.loss.isAlphaNeg(s, i))
	}
	return b / float64(s.active.size)
}

// marginBias is the bias placing example i exactly on the margin of the given side.
func (s *SVM) marginBias(i int, neg bool) float64 {
	return -sideSign(neg) * s.nablaSide(i, neg)
}
