package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"limhan.info/kernelsvm-go/kernelsvm"
)

// DoPredict reads from a reader stream and writes the results to the outputstream
func DoPredict(reader io.Reader, writer io.Writer, model *kernelsvm.Model) error {
	var correct int
	var predicted, targets []float64

	var n int
	var nrFeature = model.NumFeatures

	if model.Bias >= 0 {
		n = nrFeature + 1
	} else {
		n = nrFeature
	}

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		total := len(targets)
		tokens := strings.Fields(line)

		targetLabel, err := strconv.ParseFloat(tokens[0], 64)
		if err != nil {
			return fmt.Errorf("wrong input format at line %d: %w", total+1, err)
		}

		var x []kernelsvm.Feature
		for i := 1; i < len(tokens); i++ {
			split := strings.SplitN(tokens[i], ":", 2)
			if len(split) < 2 {
				return fmt.Errorf("wrong input format at line %d", total+1)
			}

			idx, err := strconv.ParseInt(split[0], 10, 32)
			if err != nil {
				return fmt.Errorf("the index %s cannot be parsed", split[0])
			}
			val, err := strconv.ParseFloat(split[1], 64)
			if err != nil {
				return fmt.Errorf("the val %s cannot be parsed", split[1])
			}

			// the dimension of testing data may exceed that of training
			if int(idx) <= nrFeature {
				x = append(x, kernelsvm.NewFeatureNode(int(idx), val))
			}
		}

		if model.Bias >= 0 {
			x = append(x, kernelsvm.NewFeatureNode(n, model.Bias))
		}

		predictLabel := kernelsvm.Predict(model, x)
		if _, err := io.WriteString(writer, fmt.Sprintf("%g\n", predictLabel)); err != nil {
			return err
		}

		if predictLabel == targetLabel {
			correct++
		}
		predicted = append(predicted, predictLabel)
		targets = append(targets, targetLabel)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	total := len(targets)
	if total == 0 {
		return nil
	}
	if model.SvmType.IsSupportVectorRegression() {
		d := floats.Distance(predicted, targets, 2)
		r := stat.Correlation(predicted, targets, nil)
		log.Printf("Mean squared error = %g (regression)\n", d*d/float64(total))
		log.Printf("Squared correlation coefficient = %g (regression)\n", r*r)
	} else {
		log.Printf("Accuracy = %g%% (%d/%d)\n", float64(correct)/float64(total)*100, correct, total)
	}
	return nil
}

func exitWithHelp() {
	log.Fatalf("Usage: predict [options] -tf=training_file -if=test_file -of=output_file\n" +
		"options:\n" +
		"-s type : set type of SVM, 0 for C-SVC, 3 for epsilon-SVR (default 0)\n" +
		"-t kernel_type : 0 linear, 1 polynomial, 2 rbf, 3 sigmoid (default 0)\n" +
		"-g gamma : set gamma in kernel function (default 1/num_features)\n" +
		"-c cost : set the parameter C (default 1)\n" +
		"-p epsilon : set the epsilon in loss function of epsilon-SVR (default 0)\n" +
		"-B bias : if bias >= 0, instance x becomes [x; bias] (default -1)\n" +
		"-tf training_file\n" +
		"-if test_file\n" +
		"-of output_file\n" +
		"-q quiet mode (no outputs)\n")
}

func main() {
	var err error
	var trainFile, inputFile, outputFile *os.File
	bias := -1.0
	kernel := kernelsvm.NewLinearKernel()
	param := kernelsvm.NewParameter(kernelsvm.C_SVC, kernel, 1, 1e-3, 100000)

	if len(os.Args) < 2 {
		exitWithHelp()
	}

	for _, arg := range os.Args[1:] {
		flagVal := strings.SplitN(arg, "=", 2)
		var val string
		if len(flagVal) > 1 {
			val = flagVal[1]
		}

		switch flagVal[0] {
		case "-s":
			id, _ := strconv.Atoi(val)
			svmType := kernelsvm.GetSvmTypeById(id)
			if svmType == nil {
				log.Fatalf("unknown svm type %s", val)
			}
			err = param.SetSvmType(svmType)
		case "-t":
			id, _ := strconv.Atoi(val)
			if kernel.Type = kernelsvm.GetKernelTypeById(id); kernel.Type == nil {
				log.Fatalf("unknown kernel type %s", val)
			}
		case "-g":
			kernel.Gamma, err = strconv.ParseFloat(val, 64)
		case "-c":
			var c float64
			if c, err = strconv.ParseFloat(val, 64); err == nil {
				err = param.SetC(c)
			}
		case "-p":
			var p float64
			if p, err = strconv.ParseFloat(val, 64); err == nil {
				err = param.SetEpsilon(p, p)
			}
		case "-B":
			bias, err = strconv.ParseFloat(val, 64)
		case "-q":
			kernelsvm.SetLogOutput(io.Discard)
		case "-tf":
			if trainFile, err = os.Open(val); err != nil {
				log.Fatalf("Unable to open training file %s", val)
			}
		case "-if":
			if inputFile, err = os.Open(val); err != nil {
				log.Fatalf("Unable to open inputfile %s", val)
			}
		case "-of":
			if outputFile, err = os.Create(val); err != nil {
				log.Fatalf("Unable to create outputfile %s", val)
			}
		default:
			exitWithHelp()
		}

		if err != nil {
			log.Fatalf("invalid value for %s: %v", flagVal[0], err)
		}
	}

	if trainFile == nil || inputFile == nil || outputFile == nil {
		exitWithHelp()
	}
	defer trainFile.Close()
	defer inputFile.Close()
	defer outputFile.Close()

	prob, err := kernelsvm.ReadProblem(trainFile, bias)
	if err != nil {
		log.Fatalf("unable to read training file: %v", err)
	}
	if kernel.Gamma == 0 && prob.N > 0 {
		kernel.Gamma = 1 / float64(prob.N)
	}
	if err = param.SetKernel(kernel); err != nil {
		log.Fatalf("invalid kernel: %v", err)
	}

	model, err := kernelsvm.Train(prob, param)
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}
	if err = DoPredict(inputFile, outputFile, model); err != nil {
		log.Fatalf("prediction failed: %v", err)
	}
}
