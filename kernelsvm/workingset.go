package kernelsvm

// feasible updates the at-bound streak of example i and reports whether it
// may enter the working set.
func (s *SVM) feasible(i int) bool {
	neg := s.loss.isAlphaNeg(s, i)
	p := sideSign(neg) * s.alphas[i]
	lambda := s.lambda(i)

	if p <= isZero || p >= s.upperBound(i, neg)-isZero {
		if lambda >= 0 {
			s.atBound[i]++
			if s.atBound[i] == s.shrinkConst {
				s.toShrink++
			}
		} else {
			s.atBound[i] = 0
		}
	} else {
		s.atBound[i] = 0
	}

	return lambda < s.feasibleEpsilon && s.atBound[i] < s.shrinkConst
}

// calculateWorkingSet selects the next working set: the most violating
// examples in both directions, a repair example after failed sub-problems,
// and random padding up to the target size.
func (s *SVM) calculateWorkingSet() {
	target := s.workingSetSize
	s.heapMin.init(target / 2)
	s.heapMax.init(target/2 + target%2)

	for i := 0; i < s.active.size; i++ {
		if !s.feasible(i) {
			continue
		}
		v := s.loss.nabla(s, i)
		if !s.loss.isAlphaNeg(s, i) {
			v = -v
		}
		s.heapMin.add(v, i)
		s.heapMax.add(v, i)
	}

	ws := s.workingSet[:0]
	ws = append(ws, s.heapMin.indices()...)
	ws = append(ws, s.heapMax.indices()...)
	// the heaps can only share an index when their boundaries cross
	if !s.heapMin.empty() && !s.heapMax.empty() && s.heapMin.top() >= s.heapMax.top() {
		ws = dedupe(ws)
	}

	if s.targetCount > 0 {
		ws = s.addLeastLambda(ws, target)
	}
	ws = s.padWorkingSet(ws, target)

	s.workingSet = ws
	s.whichAlpha = s.whichAlpha[:len(ws)]
	for pos, i := range ws {
		s.whichAlpha[pos] = s.loss.isAlphaNeg(s, i)
	}
}

// addLeastLambda adds the least optimal example that can move alpha in a
// direction the working set is missing.
func (s *SVM) addLeastLambda(ws []int, target int) []int {
	up, down := false, false
	for _, i := range ws {
		up = up || s.canIncrease(i)
		down = down || s.canDecrease(i)
	}
	if up && down {
		return ws
	}

	best := -1
	var bestLambda float64
	for i := 0; i < s.active.size; i++ {
		if contains(ws, i) {
			continue
		}
		if (!up && s.canIncrease(i)) || (!down && s.canDecrease(i)) {
			if lambda := s.lambda(i); best < 0 || lambda < bestLambda {
				best, bestLambda = i, lambda
			}
		}
	}
	if best < 0 {
		return ws
	}
	if len(ws) < target {
		return append(ws, best)
	}
	ws[s.replaceableSlot(ws, best)] = best
	return ws
}

// replaceableSlot picks the last member of a full working set whose place
// best can take without losing a direction the set covers.
func (s *SVM) replaceableSlot(ws []int, best int) int {
	for k := len(ws) - 1; k >= 0; k-- {
		up, down := s.canIncrease(best), s.canDecrease(best)
		for q, i := range ws {
			if q != k {
				up = up || s.canIncrease(i)
				down = down || s.canDecrease(i)
			}
		}
		if up && down {
			return k
		}
	}
	return len(ws) - 1
}

// padWorkingSet fills ws with active examples, scanning from a random start.
func (s *SVM) padWorkingSet(ws []int, target int) []int {
	limit := target
	if s.active.size < limit {
		limit = s.active.size
	}
	if len(ws) >= limit {
		return ws
	}
	i := s.random.Intn(s.active.size)
	for len(ws) < limit {
		if !contains(ws, i) {
			ws = append(ws, i)
		}
		i = (i + 1) % s.active.size
	}
	return ws
}

// dedupe removes repeated indices, keeping the first occurrence.
func dedupe(ws []int) []int {
	out := make([]int, 0, len(ws))
	for _, i := range ws {
		if !contains(out, i) {
			out = append(out, i)
		}
	}
	return out
}

func contains(ws []int, i int) bool {
	for _, j := range ws {
		if j == i {
			return true
		}
	}
	return false
}
