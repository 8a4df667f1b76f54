package kernelsvm

// LINEAR : u'*v
var LINEAR = NewKernelType(0, "linear")

// POLY : (gamma*u'*v + coef0)^degree
var POLY = NewKernelType(1, "polynomial")

// RBF : exp(-gamma*|u-v|^2)
var RBF = NewKernelType(2, "rbf")

// SIGMOID : tanh(gamma*u'*v + coef0)
var SIGMOID = NewKernelType(3, "sigmoid")

var kernelTypeValues = []*KernelType{
	LINEAR,
	POLY,
	RBF,
	SIGMOID,
}

// KernelType names a kernel function
type KernelType struct {
	name string
	id   int
}

// NewKernelType returns a new KernelType
func NewKernelType(id int, name string) *KernelType {
	return &KernelType{
		id:   id,
		name: name,
	}
}

// KernelTypeValues gives a list of KernelTypes
func KernelTypeValues() []*KernelType {
	return kernelTypeValues
}

// GetKernelTypeById returns the kernel type with the given id, or nil
func GetKernelTypeById(id int) *KernelType {
	for _, kernelType := range kernelTypeValues {
		if kernelType.id == id {
			return kernelType
		}
	}
	return nil
}

// Name is the name of the kernel
func (kernelType *KernelType) Name() string {
	return kernelType.name
}

// Id returns the numeric id used on the command line
func (kernelType *KernelType) Id() int {
	return kernelType.id
}
