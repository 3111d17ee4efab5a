package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/limaJavier/carpool/pkg/engine"
	"github.com/limaJavier/carpool/pkg/model"
	"github.com/limaJavier/carpool/pkg/sat"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const KB float32 = 1024

type ResultType int

const (
	solved ResultType = iota
	relaxed
	unsatisfiable
	timeout
)

var resultTypes = map[ResultType]string{
	solved:        "solved",
	relaxed:       "relaxed",
	unsatisfiable: "unsatisfiable",
	timeout:       "timeout",
}

type TestMetadata struct {
	Name      string
	Riders    int
	Cars      int
	Avoidance int
	Input     model.RawModelInput
}

type BenchmarkResult struct {
	Solver        string
	Strategy      string
	Test          TestMetadata
	Duration      int64 // Milliseconds
	Memory        float32
	CpuPercentage int64
	Result        ResultType
}

type options struct {
	sizes      []int
	instances  int
	seed       int64
	solvers    []string
	strategies []string
	timeout    time.Duration
	jobs       int
	executable string
	out        string
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	var opts options
	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Measure seating time over randomly generated fleets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tests := getTests(rand.New(rand.NewSource(opts.seed)), opts.sizes, opts.instances)
			results, err := benchmark(cmd.Context(), logger, opts, tests)
			if err != nil {
				return err
			}
			return toCsv(opts.out, results)
		},
	}

	flags := cmd.Flags()
	flags.IntSliceVar(&opts.sizes, "riders", []int{10, 25, 50, 100}, "Number of riders of every generated instance")
	flags.IntVar(&opts.instances, "instances", 3, "Instances generated per number of riders")
	flags.Int64Var(&opts.seed, "seed", 1, "Seed of the instance generator")
	flags.StringSliceVar(&opts.solvers, "solvers", []string{"gophersat", "gini"}, fmt.Sprintf("Solvers to measure, out of: %v", strings.Join(engine.Solvers, ", ")))
	flags.StringSliceVar(&opts.strategies, "strategies", []string{"strict", "relaxed"}, "Strategies to measure")
	flags.DurationVar(&opts.timeout, "timeout", time.Minute, "Time limit of a single seating")
	flags.IntVar(&opts.jobs, "jobs", 1, "Seatings measured at once; more than one skews durations")
	flags.StringVar(&opts.executable, "executable", "", "carpool executable to measure through /usr/bin/time; seatings run in-process when empty")
	flags.StringVar(&opts.out, "out", "benchmark_results.csv", "CSV file where results are written")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		logger.Fatal(err)
	}
}

func benchmark(ctx context.Context, logger logrus.FieldLogger, opts options, tests []TestMetadata) ([]BenchmarkResult, error) {
	type job struct {
		test     TestMetadata
		solver   string
		strategy string
	}
	jobs := make([]job, 0, len(tests)*len(opts.solvers)*len(opts.strategies))
	for _, test := range tests {
		for _, strategy := range opts.strategies {
			for _, solver := range opts.solvers {
				jobs = append(jobs, job{test: test, solver: solver, strategy: strategy})
			}
		}
	}

	directory := ""
	if opts.executable != "" {
		var err error
		if directory, err = writeTests(tests); err != nil {
			return nil, err
		}
		defer os.RemoveAll(directory)
	}

	results := make([]BenchmarkResult, len(jobs))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(opts.jobs, 1))
	for i, job := range jobs {
		group.Go(func() error {
			logger.WithFields(logrus.Fields{
				"test":     job.test.Name,
				"strategy": job.strategy,
				"solver":   job.solver,
			}).Info("benchmarking")

			result := BenchmarkResult{Solver: job.solver, Strategy: job.strategy, Test: job.test}
			var err error
			if opts.executable == "" {
				result.Duration, result.Result, err = measureInProcess(ctx, job.test, job.solver, job.strategy, opts.timeout)
			} else {
				result.Duration, result.Memory, result.CpuPercentage, result.Result, err = measure(ctx, opts.executable, job.solver, job.strategy, filepath.Join(directory, job.test.Name+".json"), opts.timeout)
			}
			if err != nil {
				return fmt.Errorf("an error occurred at test %q using strategy %q and solver %q: %w", job.test.Name, job.strategy, job.solver, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func getTests(rng *rand.Rand, sizes []int, instances int) []TestMetadata {
	tests := make([]TestMetadata, 0, len(sizes)*instances)
	for _, riders := range sizes {
		for instance := range instances {
			input := generateInstance(rng, riders)
			tests = append(tests, TestMetadata{
				Name:      fmt.Sprintf("riders%d_%d", riders, instance),
				Riders:    len(input.Riders),
				Cars:      len(input.Cars),
				Avoidance: lo.Sum(lo.MapToSlice(input.Avoid, func(_ string, avoided []string) int { return len(avoided) })),
				Input:     input,
			})
		}
	}
	return tests
}

// generateInstance draws a fleet with a little spare capacity, riders with up to two exclusions
// and roughly one avoidance pair every five riders.
func generateInstance(rng *rand.Rand, riders int) model.RawModelInput {
	catalog := model.DefaultCatalog()
	input := model.RawModelInput{Avoid: make(map[string][]string)}

	var seats uint64
	for seats < uint64(riders)+uint64(riders)/5 {
		build := uint64(rng.Intn(len(catalog.Builds)))
		input.Cars = append(input.Cars, build)
		seats += catalog.Seats(build)
	}

	names := make([]string, riders)
	for i := range riders {
		names[i] = fmt.Sprintf("rider%d", i)
		exclusions := make([]model.SeatCategory, rng.Intn(model.MaxExclusions+1))
		for j := range exclusions {
			exclusions[j] = model.SeatCategory(rng.Intn(len(catalog.Categories)))
		}
		input.Riders = append(input.Riders, model.RawRider{Name: names[i], Exclusions: exclusions})
	}

	for range riders / 5 {
		a, b := rng.Intn(riders), rng.Intn(riders)
		if a != b {
			input.Avoid[names[a]] = append(input.Avoid[names[a]], names[b])
		}
	}
	return input
}

func measureInProcess(ctx context.Context, test TestMetadata, solver, strategy string, limit time.Duration) (duration int64, result ResultType, err error) {
	newEngine, err := engine.NewFactory(solver, sat.DefaultConfig())
	if err != nil {
		return 0, 0, err
	}
	seater := model.NewStrictSeater(newEngine)
	if strategy == "relaxed" {
		seater = model.NewRelaxedSeater(newEngine)
	}

	input, err := model.ProcessRawInput(test.Input, model.DefaultCatalog())
	if err != nil {
		return 0, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	start := time.Now()
	seating, err := seater.Build(ctx, input)
	duration = time.Since(start).Milliseconds()

	var capacityErr model.CapacityExceededError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return duration, timeout, nil
	case errors.As(err, &capacityErr):
		return duration, unsatisfiable, nil
	case err != nil:
		return duration, 0, err
	case seating.Relaxed:
		return duration, relaxed, nil
	case seating.Satisfiable:
		return duration, solved, nil
	default:
		return duration, unsatisfiable, nil
	}
}

func writeTests(tests []TestMetadata) (string, error) {
	directory, err := os.MkdirTemp("", "carpool-benchmark")
	if err != nil {
		return "", err
	}
	for _, test := range tests {
		bytes, err := json.Marshal(test.Input)
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(filepath.Join(directory, test.Name+".json"), bytes, 0o644); err != nil {
			return "", err
		}
	}
	return directory, nil
}

func measure(ctx context.Context, executable, solver, strategy, testFile string, limit time.Duration) (duration int64, maxMemory float32, cpuPercentage int64, result ResultType, err error) {
	ctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	cmd := exec.CommandContext(ctx, "/usr/bin/time", "-v", executable, "--strategy", strategy, "--solver", solver, "--out", os.TempDir(), testFile)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	cmd.Run()
	if ctx.Err() != nil {
		return limit.Milliseconds(), 0, 0, timeout, nil
	}
	if result, err = resultOf(cmd.ProcessState.ExitCode(), strategy, stdOut.String()+stdErr.String()); err != nil {
		return 0, 0, 0, 0, err
	}

	splits := strings.Split(stdErr.String(), "\n")
	getLine := func(substr string) (string, error) {
		line, ok := lo.Find(splits, func(line string) bool {
			return strings.Contains(strings.ToLower(line), substr)
		})
		if !ok {
			return "", fmt.Errorf("substring %q could not be found", substr)
		}
		return line, nil
	}

	lines := make([]string, 0, 3)
	for _, substr := range []string{"wall clock", "maximum resident set size", "percent of cpu"} {
		line, err := getLine(substr)
		if err != nil {
			return 0, 0, 0, 0, err
		}
		lines = append(lines, line)
	}

	duration = parseDurationLine(lines[0])
	maxMemory = parseMemoryLine(lines[1])
	cpuPercentage = parseCpuPercentageLine(lines[2])

	return duration, maxMemory, cpuPercentage, result, nil
}

// capacityExceeded is logged by the CLI when a fleet has fewer seats than riders
const capacityExceeded = "is more than the number of seats available"

// resultOf classifies a CLI run from its exit code and combined output. Like the in-process
// measure, a fleet with too few seats counts as unsatisfiable.
func resultOf(exitCode int, strategy, output string) (ResultType, error) {
	switch {
	case exitCode == 10 && strategy == "relaxed" && strings.Contains(output, "relaxed=true"):
		return relaxed, nil
	case exitCode == 10:
		return solved, nil
	case exitCode == 20:
		return unsatisfiable, nil
	case exitCode == 1 && strings.Contains(output, capacityExceeded):
		return unsatisfiable, nil
	default:
		return 0, fmt.Errorf("carpool exited with code %d: %v", exitCode, output)
	}
}

func toCsv(path string, results []BenchmarkResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Solver", "Strategy", "Test", "Riders", "Cars", "Avoidance", "Duration(ms)", "Memory(MB)", "CPU(%)", "Result"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{
			result.Solver,
			result.Strategy,
			result.Test.Name,
			fmt.Sprintf("%d", result.Test.Riders),
			fmt.Sprintf("%d", result.Test.Cars),
			fmt.Sprintf("%d", result.Test.Avoidance),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%.1f", result.Memory),
			fmt.Sprintf("%d", result.CpuPercentage),
			resultTypes[result.Result],
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("cannot write CSV record: %w", err)
		}
	}
	return nil
}

func parseDurationLine(line string) int64 {
	durationStr := strings.Split(line, "(h:mm:ss or m:ss):")[1][1:]
	return parseDuration(durationStr)
}

func parseDuration(durationStr string) int64 {
	parts := strings.Split(durationStr, ":")
	secondsStr := parts[len(parts)-1]
	secondsParts := strings.Split(secondsStr, ".")

	var duration int64
	if len(parts) == 3 { // h:mm:ss
		hours := lo.Must(strconv.Atoi(parts[0]))
		minutes := lo.Must(strconv.Atoi(parts[1]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(hours*3600+minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else { // m:ss
		minutes := lo.Must(strconv.Atoi(parts[0]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	}
	return duration
}

func parseMemoryLine(line string) float32 {
	memoryStr := strings.Split(line, ":")[1][1:]
	return float32(lo.Must(strconv.ParseFloat(memoryStr, 32))) / KB
}

func parseCpuPercentageLine(line string) int64 {
	percentageStr := strings.Split(line, ":")[1][1:]
	percentageStr = percentageStr[:len(percentageStr)-1]
	return int64(lo.Must(strconv.Atoi(percentageStr)))
}
