package kernelsvm

// Problem is a set of training examples.
// Bias >= 0 appends a constant feature with that value to every example.
type Problem struct {
	L    int
	N    int
	X    [][]Feature
	Y    []float64
	Bias float64
}

// NewProblem constructs a Problem
func NewProblem(l int, n int, y []float64, x [][]Feature, bias float64) *Problem {
	return &Problem{
		L:    l,
		N:    n,
		X:    x,
		Y:    y,
		Bias: bias,
	}
}
