package kernelsvm

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNoDescent reports that no point better than the warm start was found.
	ErrNoDescent = errors.New("kernelsvm: sub-problem solution does not decrease the objective")
	// ErrInfeasible reports that the equality constraint cannot be met with all variables at a bound.
	ErrInfeasible = errors.New("kernelsvm: no free variable left to satisfy the equality constraint")
)

const tau = 1e-12

// QuadraticProblem is the small dense problem solved once per iteration:
//
//	min 1/2 x'Hx + c'x
//	l <= x <= u
//	A'x = b,  A[i] in {-1, +1}
//
// It is meant for a handful of variables and warm starts, not for large problems.
type QuadraticProblem struct {
	H *mat.SymDense
	C []float64
	L []float64
	U []float64
	A []float64
	B float64

	// IsZero is the initial distance to a bound below which a variable is clipped.
	IsZero float64
	// MaxAllowedError is the stopping tolerance of the pair iterations.
	MaxAllowedError float64
	MaxIterations   int

	n    int
	grad []float64
}

// NewQuadraticProblem allocates a problem with n variables.
func NewQuadraticProblem(n int, isZero float64, maxAllowedError float64) *QuadraticProblem {
	return &QuadraticProblem{
		H:               mat.NewSymDense(n, nil),
		C:               make([]float64, n),
		L:               make([]float64, n),
		U:               make([]float64, n),
		A:               make([]float64, n),
		IsZero:          isZero,
		MaxAllowedError: maxAllowedError,
		MaxIterations:   100 * (n + 10),
		n:               n,
		grad:            make([]float64, n),
	}
}

// Resize changes the number of variables, reallocating when it differs.
func (qp *QuadraticProblem) Resize(n int) {
	if n == qp.n {
		return
	}
	qp.H = mat.NewSymDense(n, nil)
	qp.C = make([]float64, n)
	qp.L = make([]float64, n)
	qp.U = make([]float64, n)
	qp.A = make([]float64, n)
	qp.grad = make([]float64, n)
	qp.MaxIterations = 100 * (n + 10)
	qp.n = n
}

// Size returns the number of variables
func (qp *QuadraticProblem) Size() int {
	return qp.n
}

// Objective evaluates 1/2 x'Hx + c'x.
func (qp *QuadraticProblem) Objective(x []float64) float64 {
	xv := mat.NewVecDense(qp.n, x)
	return 0.5*mat.Inner(xv, qp.H, xv) + floats.Dot(qp.C, x)
}

// Gradient returns Hx + c. The slice is reused by the next call.
func (qp *QuadraticProblem) Gradient(x []float64) []float64 {
	gv := mat.NewVecDense(qp.n, qp.grad)
	gv.MulVec(qp.H, mat.NewVecDense(qp.n, x))
	floats.Add(qp.grad, qp.C)
	return qp.grad
}

// Solve improves x in place starting from the feasible warm start x and
// returns the multiplier of the equality constraint, lambda being the
// previous estimate. A non-nil error means x is not better than the warm
// start and must not be used.
func (qp *QuadraticProblem) Solve(x []float64, lambda float64) (float64, error) {
	start := qp.Objective(x)
	qp.pairIterations(x)
	lambda = qp.multiplier(x, lambda)
	return lambda, qp.clipAndProject(x, start)
}

func (qp *QuadraticProblem) canIncrease(k int, x []float64) bool {
	if qp.A[k] > 0 {
		return x[k] < qp.U[k]
	}
	return x[k] > qp.L[k]
}

func (qp *QuadraticProblem) canDecrease(k int, x []float64) bool {
	if qp.A[k] > 0 {
		return x[k] > qp.L[k]
	}
	return x[k] < qp.U[k]
}

// roomUp is how far A[k]*x[k] can grow, roomDown how far it can shrink.
func (qp *QuadraticProblem) roomUp(k int, x []float64) float64 {
	if qp.A[k] > 0 {
		return qp.U[k] - x[k]
	}
	return x[k] - qp.L[k]
}

func (qp *QuadraticProblem) roomDown(k int, x []float64) float64 {
	if qp.A[k] > 0 {
		return x[k] - qp.L[k]
	}
	return qp.U[k] - x[k]
}

// pairIterations moves along A[i]e_i - A[j]e_j for the maximal violating
// pair until the violation drops below MaxAllowedError.
func (qp *QuadraticProblem) pairIterations(x []float64) {
	g := qp.Gradient(x)
	for iter := 0; iter < qp.MaxIterations; iter++ {
		i, j := -1, -1
		gmax, gmin := math.Inf(-1), math.Inf(1)
		for k := 0; k < qp.n; k++ {
			v := -qp.A[k] * g[k]
			if qp.canIncrease(k, x) && v > gmax {
				gmax = v
				i = k
			}
			if qp.canDecrease(k, x) && v < gmin {
				gmin = v
				j = k
			}
		}
		if i < 0 || j < 0 || gmax-gmin <= qp.MaxAllowedError {
			return
		}

		eta := qp.H.At(i, i) + qp.H.At(j, j) - 2*qp.A[i]*qp.A[j]*qp.H.At(i, j)
		if eta <= 0 {
			eta = tau
		}
		t := (gmax - gmin) / eta
		upI, downJ := qp.roomUp(i, x), qp.roomDown(j, x)
		hitI, hitJ := false, false
		if limit := math.Min(upI, downJ); t >= limit {
			t = limit
			hitI, hitJ = upI == limit, downJ == limit
		}
		if t <= 0 {
			return
		}

		x[i] += qp.A[i] * t
		x[j] -= qp.A[j] * t
		if hitI {
			qp.snap(i, x, true)
		}
		if hitJ {
			qp.snap(j, x, false)
		}

		for k := 0; k < qp.n; k++ {
			g[k] += qp.H.At(k, i)*qp.A[i]*t - qp.H.At(k, j)*qp.A[j]*t
		}
	}
}

// snap puts x[k] exactly on the bound it was moved to.
func (qp *QuadraticProblem) snap(k int, x []float64, up bool) {
	if (qp.A[k] > 0) == up {
		x[k] = qp.U[k]
	} else {
		x[k] = qp.L[k]
	}
}

// multiplier estimates lambda from the free variables, or from the tightest
// bounded ones when none is free.
func (qp *QuadraticProblem) multiplier(x []float64, lambda float64) float64 {
	g := qp.Gradient(x)
	var sum float64
	free := 0
	gmax, gmin := math.Inf(-1), math.Inf(1)
	for k := 0; k < qp.n; k++ {
		v := -qp.A[k] * g[k]
		if x[k] > qp.L[k] && x[k] < qp.U[k] {
			sum += v
			free++
			continue
		}
		if qp.canIncrease(k, x) {
			gmax = math.Max(gmax, v)
		}
		if qp.canDecrease(k, x) {
			gmin = math.Min(gmin, v)
		}
	}
	switch {
	case free > 0:
		return sum / float64(free)
	case !math.IsInf(gmax, 0) && !math.IsInf(gmin, 0):
		return (gmax + gmin) / 2
	case !math.IsInf(gmax, 0):
		return gmax
	case !math.IsInf(gmin, 0):
		return gmin
	}
	return lambda
}

// clipAndProject clips variables close to a bound, spreads the equality
// residual over the free ones and accepts the point if it is feasible and
// below start. Otherwise the clipping distance grows to the nearest free
// variable and the step repeats, so every round fixes at least one more variable.
func (qp *QuadraticProblem) clipAndProject(x []float64, start float64) error {
	tol := qp.IsZero
	for round := 0; round <= qp.n; round++ {
		free := 0
		residual := qp.B
		for k := 0; k < qp.n; k++ {
			if x[k]-qp.L[k] <= tol {
				x[k] = qp.L[k]
			} else if qp.U[k]-x[k] <= tol {
				x[k] = qp.U[k]
			} else {
				free++
			}
			residual -= qp.A[k] * x[k]
		}

		if free > 0 {
			shift := residual / float64(free)
			for k := 0; k < qp.n; k++ {
				if x[k] > qp.L[k] && x[k] < qp.U[k] {
					x[k] += qp.A[k] * shift
				}
			}
		} else if math.Abs(residual) > float64(qp.n)*qp.IsZero {
			return ErrInfeasible
		}

		if qp.inBox(x) && qp.Objective(x) < start {
			return nil
		}
		if free == 0 {
			return ErrNoDescent
		}

		nearest := math.Inf(1)
		for k := 0; k < qp.n; k++ {
			if x[k] > qp.L[k] && x[k] < qp.U[k] {
				nearest = math.Min(nearest, math.Min(x[k]-qp.L[k], qp.U[k]-x[k]))
			}
		}
		if !math.IsInf(nearest, 1) {
			tol = math.Max(tol, nearest)
		}
	}
	return ErrNoDescent
}

func (qp *QuadraticProblem) inBox(x []float64) bool {
	for k := 0; k < qp.n; k++ {
		if x[k] < qp.L[k] || x[k] > qp.U[k] {
			return false
		}
	}
	return true
}
