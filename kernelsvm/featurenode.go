package kernelsvm

// Feature is one non-zero entry of a sparse example vector.
// Indices start at 1 and must be strictly increasing within an example.
type Feature interface {
	GetIndex() int
	GetValue() float64
	SetValue(val float64)
}

// FeatureNode implements a Feature
type FeatureNode struct {
	index int
	value float64
}

// NewFeatureNode returns a new FeatureNode
func NewFeatureNode(index int, value float64) *FeatureNode {
	return &FeatureNode{
		index: index,
		value: value,
	}
}

// GetIndex does just that
func (f *FeatureNode) GetIndex() int {
	return f.index
}

// GetValue does just that
func (f *FeatureNode) GetValue() float64 {
	return f.value
}

// SetValue does just that
func (f *FeatureNode) SetValue(val float64) {
	f.value = val
}

// NewDenseExample builds a sparse example from a dense vector, skipping zeros.
func NewDenseExample(values ...float64) []Feature {
	x := make([]Feature, 0, len(values))
	for i, v := range values {
		if v != 0 {
			x = append(x, NewFeatureNode(i+1, v))
		}
	}
	return x
}

func checkSorted(x []Feature) bool {
	indexBefore := 0
	for _, n := range x {
		if n.GetIndex() <= indexBefore {
			return false
		}
		indexBefore = n.GetIndex()
	}
	return true
}
