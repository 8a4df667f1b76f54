package main

import (
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"limhan.info/kernelsvm-go/kernelsvm"
)

func parseTrainingFromArgs(args []string) *kernelsvm.Training {
	var err error
	var bias float64
	var crossValidation bool
	var inputFilename string
	var nrFold int

	kernel := kernelsvm.NewLinearKernel()
	kernel.Degree = 3
	param := kernelsvm.NewParameter(kernelsvm.C_SVC, kernel, 1, 1e-3, 100000)
	bias = -1.0

	for i := 0; i < len(args); i++ {
		if !strings.HasPrefix(args[i], "-") {
			exitWithHelp()
		}

		tokens := strings.SplitN(args[i], "=", 2)
		flag := tokens[0]
		var val string
		if len(tokens) > 1 {
			val = tokens[1]
		}

		switch flag {
		case "-s":
			id, _ := strconv.Atoi(val)
			svmType := kernelsvm.GetSvmTypeById(id)
			if svmType == nil {
				log.Fatalf("unknown svm type %s", val)
			}
			err = param.SetSvmType(svmType)
		case "-t":
			id, _ := strconv.Atoi(val)
			kernelType := kernelsvm.GetKernelTypeById(id)
			if kernelType == nil {
				log.Fatalf("unknown kernel type %s", val)
			}
			kernel.Type = kernelType
		case "-d":
			kernel.Degree, err = strconv.Atoi(val)
		case "-g":
			kernel.Gamma, err = strconv.ParseFloat(val, 64)
		case "-r":
			kernel.Coef0, err = strconv.ParseFloat(val, 64)
		case "-c":
			var c float64
			if c, err = strconv.ParseFloat(val, 64); err == nil {
				err = param.SetC(c)
			}
		case "-e":
			var eps float64
			if eps, err = strconv.ParseFloat(val, 64); err == nil {
				err = param.SetEps(eps)
			}
		case "-p":
			var p float64
			if p, err = strconv.ParseFloat(val, 64); err == nil {
				err = param.SetEpsilon(p, p)
			}
		case "-i":
			var n int
			if n, err = strconv.Atoi(val); err == nil {
				err = param.SetMaxIters(n)
			}
		case "-n":
			var n int
			if n, err = strconv.Atoi(val); err == nil {
				err = param.SetWorkingSetSize(n)
			}
		case "-h":
			var n int
			if n, err = strconv.Atoi(val); err == nil {
				err = param.SetShrinkConst(n)
			}
		case "-m":
			param.CacheSize, err = strconv.Atoi(val)
		case "-w":
			param.BalanceCost = true
		case "-B":
			bias, err = strconv.ParseFloat(val, 64)
		case "-v":
			crossValidation = true
			nrFold, _ = strconv.Atoi(val)
			if nrFold < 2 {
				log.Fatal("n-fold cross validation: n must be >= 2")
			}
		case "-q":
			kernelsvm.SetLogOutput(io.Discard)
		case "-if":
			inputFilename = val
		default:
			log.Printf("Unknown option : %s", flag)
			exitWithHelp()
		}

		if err != nil {
			log.Fatalf("invalid value for %s: %v", flag, err)
		}
	}

	if err = param.SetKernel(kernel); err != nil {
		log.Fatalf("invalid kernel: %v", err)
	}

	return kernelsvm.NewTraining(bias, crossValidation, inputFilename, nrFold, param, nil)
}

func exitWithHelp() {
	log.Fatalf("Usage: train [options] -if=training_set_file\n" +
		"options:\n" +
		"-s type : set type of SVM (default 0)\n" +
		"    0 -- C-SVC (binary classification)\n" +
		"    3 -- epsilon-SVR (regression)\n" +
		"-t kernel_type : set type of kernel function (default 0)\n" +
		"    0 -- linear: u'*v\n" +
		"    1 -- polynomial: (gamma*u'*v + coef0)^degree\n" +
		"    2 -- radial basis function: exp(-gamma*|u-v|^2)\n" +
		"    3 -- sigmoid: tanh(gamma*u'*v + coef0)\n" +
		"-d degree : set degree in kernel function (default 3)\n" +
		"-g gamma : set gamma in kernel function (default 1/num_features)\n" +
		"-r coef0 : set coef0 in kernel function (default 0)\n" +
		"-c cost : set the parameter C, <= 0 derives it from the data (default 1)\n" +
		"-p epsilon : set the epsilon in loss function of epsilon-SVR (default 0)\n" +
		"-e epsilon : set tolerance of the KKT conditions (default 0.001)\n" +
		"-i iterations : set the maximal number of iterations (default 100000)\n" +
		"-n size : set the working set size (default 10)\n" +
		"-h count : set the iterations at bound before shrinking (default 50)\n" +
		"-m rows : set the number of cached kernel rows (default 200)\n" +
		"-w : balance the cost of the two classes\n" +
		"-B bias : if bias >= 0, instance x becomes [x; bias]; if < 0, no bias term added (default -1)\n" +
		"-v n: n-fold cross validation mode\n" +
		"-if : Input filename\n" +
		"-q : quiet mode (no outputs)\n")
}

func main() {
	training := parseTrainingFromArgs(os.Args[1:])
	if err := training.ReadProblem(); err != nil {
		log.Fatalf("unable to read problem: %v", err)
	}
	if training.Param.Kernel.Gamma == 0 && training.Prob.N > 0 {
		training.Param.Kernel.Gamma = 1 / float64(training.Prob.N)
	}

	if training.CrossValidation {
		if _, err := training.DoCrossValidation(); err != nil {
			log.Fatalf("cross validation failed: %v", err)
		}
		return
	}

	model, err := kernelsvm.Train(training.Prob, training.Param)
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}
	log.Printf("trained %s model: %d support vectors, %d at bound, %d iterations, converged = %v",
		model.SvmType.Name(), len(model.SV), model.NumBoundedSV, model.Iterations, model.Converged)
	if w, err := model.Weights(); err == nil {
		log.Printf("w = %v, b = %g", w, model.Rho)
	}
}
