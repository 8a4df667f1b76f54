package kernelsvm

// signFlipRounds bounds the solve and flip rounds of one regression sub-problem.
const signFlipRounds = 3

// regressionLoss specializes the engine for epsilon-insensitive regression.
// An example whose alpha is zero may move to either side; its side follows
// the sign of the current residual.
type regressionLoss struct{}

func (regressionLoss) isAlphaNeg(s *SVM, i int) bool {
	switch alpha := s.alphas[i]; {
	case alpha < 0:
		return true
	case alpha > 0:
		return false
	}
	return s.sum[i]+s.lambdaEq-s.ys[i] > 0
}

func (r regressionLoss) nabla(s *SVM, i int) float64 {
	return s.nablaSide(i, r.isAlphaNeg(s, i))
}

// optimize alternates solves and sign flips. A failed round falls back to the
// primal of the last successful one; the call only fails when no round succeeded.
func (regressionLoss) optimize(s *SVM) error {
	var accepted []float64
	var err error
	for round := 0; round < signFlipRounds; round++ {
		var lambdaWS float64
		if lambdaWS, err = s.qp.Solve(s.primal, s.lambdaEq); err != nil {
			if accepted != nil {
				copy(s.primal, accepted)
				return nil
			}
			s.restorePrimal()
		} else {
			s.lambdaWS = lambdaWS
		}
		flipped := s.flipSigns()
		if flipped == 0 {
			break
		}
		logger.Printf("moved %d variables to the other side of the tube, round %d", flipped, round+1)
		if err == nil {
			accepted = append(accepted[:0], s.primal...)
		}
	}
	return err
}

// flipSigns moves working set variables sitting at zero to the other side
// when the reduced gradient there is negative and returns how many moved.
func (s *SVM) flipSigns() int {
	qp := s.qp
	g := qp.Gradient(s.primal)
	epsilonSum := s.epsilonPos + s.epsilonNeg

	flipped := 0
	for pos := range s.workingSet {
		if s.primal[pos] > isZero {
			continue
		}
		// at zero the gradients of both sides add up to the tube width
		other := epsilonSum - g[pos] - qp.A[pos]*s.lambdaWS
		if other >= -s.convergenceEpsilon {
			continue
		}
		s.flip(pos, epsilonSum)
		flipped++
	}
	return flipped
}

// flip moves working set variable pos to the other side at zero.
func (s *SVM) flip(pos int, epsilonSum float64) {
	qp := s.qp
	i := s.workingSet[pos]
	neg := s.whichAlpha[pos]

	s.primal[pos] = 0
	s.whichAlpha[pos] = !neg
	qp.A[pos] = -qp.A[pos]
	qp.C[pos] = epsilonSum - qp.C[pos]
	for k := 0; k < qp.n; k++ {
		if k != pos {
			qp.H.SetSym(pos, k, -qp.H.At(pos, k))
		}
	}
	qp.H.SetSym(pos, pos, qp.H.At(pos, pos)-s.quadraticTerm(i, neg)+s.quadraticTerm(i, !neg))
	qp.U[pos] = s.upperBound(i, !neg)
}
