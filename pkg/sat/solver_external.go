package sat

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable
const (
	satisfiableExitCode   = 10
	unsatisfiableExitCode = 20
)

type inputMode int

const (
	stdinInput inputMode = iota // DIMACS is fed through the standard input
	fileInput                   // DIMACS is written to a temporary file passed as argument
)

type outputMode int

const (
	stdoutOutput outputMode = iota // Model is printed as "v" lines
	fileOutput                     // Model is written to a file passed as the last argument
)

// externalSolver drives a SAT-competition style executable.
type externalSolver struct {
	name   string
	path   string
	args   []string
	input  inputMode
	output outputMode
}

func NewKissatSolver(config Config) SATSolver {
	return &externalSolver{name: "kissat", path: config.KissatPath, args: []string{"-q", "--relaxed"}}
}

func NewCadicalSolver(config Config) SATSolver {
	return &externalSolver{name: "cadical", path: config.CadicalPath, args: []string{"-q"}}
}

func NewCryptominisatSolver(config Config) SATSolver {
	return &externalSolver{name: "cryptominisat", path: config.CryptominisatPath, args: []string{"--verb", "0"}}
}

func NewMinisatSolver(config Config) SATSolver {
	return &externalSolver{name: "minisat", path: config.MinisatPath, args: []string{"-verb=0"}, input: fileInput, output: fileOutput}
}

func NewGlucoseSimpSolver(config Config) SATSolver {
	return &externalSolver{name: "glucose-simp", path: config.GlucoseSimpPath, args: []string{"-verb=0"}, input: fileInput, output: fileOutput}
}

func NewSlimeSolver(config Config) SATSolver {
	return &externalSolver{name: "slime", path: config.SlimePath, input: fileInput}
}

func NewOrtoolsatSolver(config Config) SATSolver {
	return &externalSolver{name: "ortoolsat", path: config.OrtoolsatPath, input: fileInput}
}

func (solver *externalSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	dimacs := sat.ToDIMACS() // Transform SAT into DIMACS-CNF string format
	args := append([]string{}, solver.args...)

	var stdin *strings.Reader
	if solver.input == stdinInput {
		stdin = strings.NewReader(dimacs)
	} else {
		inputFile, err := writeTempFile("dimacs-*.cnf", dimacs)
		if err != nil {
			return nil, err
		}
		defer os.Remove(inputFile) // Ensure the file is removed after execution
		args = append(args, inputFile)
	}

	var outputFile string
	if solver.output == fileOutput {
		var err error
		if outputFile, err = writeTempFile(solver.name+"_output-*.cnf", ""); err != nil {
			return nil, err
		}
		defer os.Remove(outputFile)
		args = append(args, outputFile)
	}

	cmd := exec.CommandContext(ctx, solver.path, args...)
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	} else if cmd.ProcessState == nil {
		return nil, fmt.Errorf("cannot start %v: %v", solver.name, err)
	}

	exitCode := cmd.ProcessState.ExitCode()
	if err != nil && exitCode != satisfiableExitCode && exitCode != unsatisfiableExitCode {
		return nil, fmt.Errorf("an error occurred during %v execution: %v : %v", solver.name, err.Error(), stderr.String())
	} else if exitCode == unsatisfiableExitCode {
		return nil, nil
	}

	if solver.output == stdoutOutput {
		return parseSolution(stdOut.String())
	}

	output, err := os.ReadFile(outputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read output file: %v", err)
	}
	return parseModelFile(string(output))
}

func writeTempFile(pattern, content string) (string, error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %v", err)
	}
	if _, err := file.WriteString(content); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to write temporary file: %v", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to close temporary file: %v", err)
	}
	return file.Name(), nil
}

// parseSolution reads the "v" lines of a competition-format output; the trailing 0 is dropped.
func parseSolution(solverOutput string) (SATSolution, error) {
	fields := lo.FlatMap(
		lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
			return len(line) > 0 && line[0] == 'v'
		}),
		func(line string, _ int) []string {
			return strings.Fields(line[1:])
		},
	)
	return parseLiterals(fields)
}

// parseModelFile reads the model file written by minisat-like solvers: a "SAT" header followed by the literals.
func parseModelFile(solverOutput string) (SATSolution, error) {
	fields := lo.Reject(strings.Fields(solverOutput), func(field string, _ int) bool {
		return field == "SAT" || field == "SATISFIABLE"
	})
	return parseLiterals(fields)
}

func parseLiterals(fields []string) (SATSolution, error) {
	solution := make(SATSolution, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid literal in solver output: %v", err)
		}
		if value == 0 {
			break
		}
		solution = append(solution, value)
	}
	return solution, nil
}
