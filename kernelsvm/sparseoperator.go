package kernelsvm

// SparseOperatorNrm2Sq is the equivalent of nrm2sq
func SparseOperatorNrm2Sq(x []Feature) float64 {
	var ret float64

	for _, feature := range x {
		ret += feature.GetValue() * feature.GetValue()
	}

	return ret
}

// SparseOperatorDot is the dot product of two sparse vectors.
// Both vectors must be sorted by index.
func SparseOperatorDot(x []Feature, z []Feature) float64 {
	var ret float64

	i, j := 0, 0
	for i < len(x) && j < len(z) {
		xi, zj := x[i].GetIndex(), z[j].GetIndex()
		switch {
		case xi == zj:
			ret += x[i].GetValue() * z[j].GetValue()
			i++
			j++
		case xi > zj:
			j++
		default:
			i++
		}
	}

	return ret
}

// SparseOperatorDist2Sq is the squared euclidean distance of two sparse vectors.
func SparseOperatorDist2Sq(x []Feature, z []Feature) float64 {
	var ret float64

	i, j := 0, 0
	for i < len(x) && j < len(z) {
		xi, zj := x[i].GetIndex(), z[j].GetIndex()
		switch {
		case xi == zj:
			d := x[i].GetValue() - z[j].GetValue()
			ret += d * d
			i++
			j++
		case xi > zj:
			ret += z[j].GetValue() * z[j].GetValue()
			j++
		default:
			ret += x[i].GetValue() * x[i].GetValue()
			i++
		}
	}
	for ; i < len(x); i++ {
		ret += x[i].GetValue() * x[i].GetValue()
	}
	for ; j < len(z); j++ {
		ret += z[j].GetValue() * z[j].GetValue()
	}

	return ret
}

// SparseOperatorAxpy is the equivalent of axpy on a dense y.
func SparseOperatorAxpy(a float64, x []Feature, y []float64) {
	for _, feature := range x {
		y[feature.GetIndex()-1] += a * feature.GetValue()
	}
}
