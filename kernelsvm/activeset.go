package kernelsvm

// activeSet is the permutable index space shared by the example store and
// the kernel provider. Examples [0, size) are active, [size, Count()) are
// shrunk. All permutations go through swap so both collaborators stay aligned.
type activeSet struct {
	examples ExampleStore
	kernel   KernelProvider
	size     int
}

func newActiveSet(examples ExampleStore, kernel KernelProvider) *activeSet {
	a := &activeSet{
		examples: examples,
		kernel:   kernel,
	}
	a.resize(examples.Count())
	return a
}

func (a *activeSet) swap(i, j int) {
	if i == j {
		return
	}
	a.examples.Swap(i, j)
	a.kernel.Swap(i, j)
}

func (a *activeSet) resize(n int) {
	a.size = n
	a.kernel.SetActiveSize(n)
}

func (a *activeSet) total() int {
	return a.examples.Count()
}

func (a *activeSet) shrunk() bool {
	return a.size < a.examples.Count()
}
