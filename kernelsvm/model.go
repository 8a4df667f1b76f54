package kernelsvm

import "errors"

// Model is a struct containing the data of a trained model
type Model struct {
	SvmType *SvmType
	Kernel  Kernel
	// Bias is the value of the constant feature appended to inputs, < 0 for none.
	Bias float64
	// Rho is the offset of the decision function.
	Rho         float64
	Label       []int
	NumClass    int
	NumFeatures int

	SV        [][]Feature
	SVIndices []int // position of each support vector in the training problem
	Alpha     []float64

	NumBoundedSV int
	Iterations   int
	Converged    bool
}

// DecisionValue evaluates Σ alpha_i K(sv_i, x) + rho.
func (m *Model) DecisionValue(x []Feature) float64 {
	dec := m.Rho
	for i, sv := range m.SV {
		dec += m.Alpha[i] * m.Kernel.Eval(sv, x)
	}
	return dec
}

// Weights returns the primal weight vector of a linear kernel model,
// including the weight of the bias feature when the model has one.
func (m *Model) Weights() ([]float64, error) {
	if m.Kernel.Type != LINEAR {
		return nil, errors.New("weights are only defined for the linear kernel")
	}
	n := m.NumFeatures
	if m.Bias >= 0 {
		n++
	}
	w := make([]float64, n)
	for i, sv := range m.SV {
		SparseOperatorAxpy(m.Alpha[i], sv, w)
	}
	return w, nil
}
