package kernelsvm

import "fmt"

// GroupClassesReturn result of a group of classes
type GroupClassesReturn struct {
	count     []int
	label     []int
	nrClass   int
	dataLabel []int
}

// groupClasses maps the labels of a classification problem to class indices.
// At most two classes are accepted; class 0 becomes the positive side.
func groupClasses(prob *Problem) (*GroupClassesReturn, error) {
	l := prob.L
	label := make([]int, 0, 2)
	count := make([]int, 0, 2)
	dataLabel := make([]int, l)

	for i := 0; i < l; i++ {
		thisLabel := int(prob.Y[i])
		j := 0
		for ; j < len(label); j++ {
			if thisLabel == label[j] {
				count[j]++
				break
			}
		}
		if j == len(label) {
			if len(label) == 2 {
				return nil, fmt.Errorf("classification needs at most two labels, found %d, %d and %d", label[0], label[1], thisLabel)
			}
			label = append(label, thisLabel)
			count = append(count, 1)
		}
		dataLabel[i] = j
	}

	//
	// Labels are ordered by their first occurrence in the training set.
	// For -1/+1 labels with -1 first, swap so that the positive side holds the +1 instances.
	//
	if len(label) == 2 && label[0] == -1 && label[1] == 1 {
		swapIntArray(label, 0, 1)
		swapIntArray(count, 0, 1)
		for i := 0; i < l; i++ {
			dataLabel[i] = 1 - dataLabel[i]
		}
	}

	return &GroupClassesReturn{
		count:     count,
		label:     label,
		nrClass:   len(label),
		dataLabel: dataLabel,
	}, nil
}
