package kernelsvm

import "math"

// Kernel is a kernel function with its parameters.
type Kernel struct {
	Type   *KernelType
	Degree int     // for poly
	Gamma  float64 // for poly/rbf/sigmoid
	Coef0  float64 // for poly/sigmoid
}

// NewLinearKernel returns the dot product kernel
func NewLinearKernel() Kernel {
	return Kernel{Type: LINEAR}
}

// NewRBFKernel returns a radial basis function kernel
func NewRBFKernel(gamma float64) Kernel {
	return Kernel{Type: RBF, Gamma: gamma}
}

// NewPolyKernel returns a polynomial kernel
func NewPolyKernel(gamma, coef0 float64, degree int) Kernel {
	return Kernel{Type: POLY, Gamma: gamma, Coef0: coef0, Degree: degree}
}

// Eval computes K(x, z).
func (k Kernel) Eval(x, z []Feature) float64 {
	switch k.Type {
	case LINEAR:
		return SparseOperatorDot(x, z)
	case POLY:
		return powi(k.Gamma*SparseOperatorDot(x, z)+k.Coef0, k.Degree)
	case RBF:
		return math.Exp(-k.Gamma * SparseOperatorDist2Sq(x, z))
	case SIGMOID:
		return math.Tanh(k.Gamma*SparseOperatorDot(x, z) + k.Coef0)
	}
	panic("unknown kernel type")
}

func powi(base float64, times int) float64 {
	tmp := base
	ret := 1.0
	for t := times; t > 0; t /= 2 {
		if t%2 == 1 {
			ret *= tmp
		}
		tmp = tmp * tmp
	}
	return ret
}
