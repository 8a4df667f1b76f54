package kernelsvm

// C_SVC : soft margin support vector classification
var C_SVC = NewSvmType(0, "C_SVC", false)

// EPSILON_SVR : epsilon-insensitive support vector regression
var EPSILON_SVR = NewSvmType(3, "EPSILON_SVR", true)

var svmTypeValues = []*SvmType{
	C_SVC,
	EPSILON_SVR,
}

// SvmType describes the kind of problem being trained
type SvmType struct {
	name                    string
	supportVectorRegression bool
	id                      int
}

// NewSvmType returns a new SvmType based on input fields
func NewSvmType(id int, name string, supportVectorRegression bool) *SvmType {
	return &SvmType{
		id:                      id,
		name:                    name,
		supportVectorRegression: supportVectorRegression,
	}
}

// SvmTypeValues gives a list of SvmTypes
func SvmTypeValues() []*SvmType {
	return svmTypeValues
}

// GetSvmTypeById returns the svm type with the given id, or nil
func GetSvmTypeById(id int) *SvmType {
	for _, svmType := range svmTypeValues {
		if svmType.id == id {
			return svmType
		}
	}
	return nil
}

// Name is the name of the type
func (svmType *SvmType) Name() string {
	return svmType.name
}

// Id returns the numeric id used on the command line
func (svmType *SvmType) Id() int {
	return svmType.id
}

// IsSupportVectorRegression returns if this type trains a regression
func (svmType *SvmType) IsSupportVectorRegression() bool {
	return svmType.supportVectorRegression
}
