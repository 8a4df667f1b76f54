package kernelsvm

// swap exchanges examples i and j together with the engine state.
func (s *SVM) swap(i, j int) {
	s.active.swap(i, j)
	swapFloat64Array(s.sum, i, j)
	swapIntArray(s.atBound, i, j)
}

// shrink moves examples that stayed optimal at a bound for shrinkConst
// iterations behind the active range. Their alphas are frozen and folded
// into sumAlpha.
func (s *SVM) shrink() {
	if s.toShrink <= s.active.size/10 || s.active.size <= s.workingSetSize {
		return
	}
	last := s.active.size
	for i := 0; i < last && last > s.workingSetSize; {
		if s.atBound[i] < s.shrinkConst {
			i++
			continue
		}
		last--
		s.sumAlpha += s.alphas[i]
		s.swap(i, last)
	}
	logger.Printf("shrinking active examples from %d to %d", s.active.size, last)
	s.toShrink = 0
	s.active.resize(last)
}

// resetShrinked reactivates every example and recomputes the sums of the
// examples that were shrunk.
func (s *SVM) resetShrinked() {
	old := s.active.size
	s.active.resize(s.active.total())
	for j := old; j < len(s.sum); j++ {
		s.sum[j] = 0
		s.atBound[j] = 0
	}
	for i, alpha := range s.alphas {
		if alpha == 0 {
			continue
		}
		row := s.kernel.Row(i)
		for j := old; j < len(row); j++ {
			s.sum[j] += alpha * row[j]
		}
	}
	s.sumAlpha = 0
	s.targetCount = 0
}
