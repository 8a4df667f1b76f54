package kernelsvm

import "math"

// patternLoss specializes the engine for binary classification with labels
// +1 and -1. Positive examples live on the positive side, negative ones on
// the negative side, and the tube width is zero.
type patternLoss struct{}

func (patternLoss) isAlphaNeg(s *SVM, i int) bool {
	return s.ys[i] < 0
}

func (patternLoss) nabla(s *SVM, i int) float64 {
	neg := s.ys[i] < 0
	return s.ys[i]*s.sum[i] - 1 + s.quadraticTerm(i, neg)*math.Abs(s.alphas[i])
}

func (patternLoss) optimize(s *SVM) error {
	var err error
	s.lambdaWS, err = s.qp.Solve(s.primal, s.lambdaEq)
	return err
}
