package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/limaJavier/carpool/pkg/engine"
	"github.com/limaJavier/carpool/pkg/model"
	"github.com/limaJavier/carpool/pkg/output"
	"github.com/limaJavier/carpool/pkg/sat"
	"github.com/mattn/go-isatty"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Exit codes
const (
	satisfiable   = 10
	verification  = 15
	unsatisfiable = 20
	failure       = 1
)

var (
	validStrategies = []string{"strict", "relaxed"}
	validFormats    = []string{"text", "json"}
	seaters         = map[string]func(model.EngineFactory, ...model.Option) model.Seater{
		"strict":  model.NewStrictSeater,
		"relaxed": model.NewRelaxedSeater,
	}
)

type options struct {
	solver      string
	strategy    string
	catalogPath string
	configPath  string
	outDir      string
	format      string
	verbose     bool
}

// outcome of a single configuration file; err is set when the file could not be seated or written
type outcome struct {
	result   model.Result
	verified bool
	err      error
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stderr)

	exitCode := failure
	var opts options
	cmd := &cobra.Command{
		Use:   "carpool [files...]",
		Short: "Seat riders across a fleet of cars",
		Long: `Seat riders across a fleet of cars, honouring per-rider seat-category exclusions and
pairwise avoidance. Every configuration file is solved independently; files ending in .json,
.yaml or .yml are read as documents, any other file in the sectioned text format.

Exit code is 10 when every file is satisfiable, 20 when any is not, 15 when a seating fails
verification and 1 on any other error. A file that fails does not stop the others from being
seated and written.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				logger.SetLevel(logrus.DebugLevel)
			}
			opts.solver, opts.strategy, opts.format = strings.ToLower(opts.solver), strings.ToLower(opts.strategy), strings.ToLower(opts.format)

			// Validate arguments
			if !slices.Contains(validStrategies, opts.strategy) {
				return fmt.Errorf("%v is not a valid strategy", opts.strategy)
			} else if !slices.Contains(engine.Solvers, opts.solver) {
				return fmt.Errorf("%v is not a valid solver", opts.solver)
			} else if !slices.Contains(validFormats, opts.format) {
				return fmt.Errorf("%v is not a valid format", opts.format)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, files []string) error {
			outcomes, err := seat(cmd.Context(), logger, opts, files)
			if err != nil {
				return err
			}
			exitCode = exitCodeOf(outcomes)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.solver, "solver", "gophersat", fmt.Sprintf("Solver to use. Allowed values are: %v", strings.Join(engine.Solvers, ", ")))
	flags.StringVar(&opts.strategy, "strategy", "strict", `Seating strategy: "strict" reports unsatisfiable as soon as every constraint cannot hold, "relaxed" drops avoidance pairs when they are the only conflict`)
	flags.StringVar(&opts.catalogPath, "catalog", "", "JSON or YAML catalog of seat categories and car builds; the Sedan, Sports Car and Van catalog is used when empty")
	flags.StringVar(&opts.configPath, "config", "", fmt.Sprintf("JSON or YAML file with the paths of external solvers; defaults to %v next to the executable when present", sat.ConfigPath))
	flags.StringVar(&opts.outDir, "out", "", "Directory where every result is written as <file>_<timestamp>; if empty, results are written into the Standard Output")
	flags.StringVar(&opts.format, "format", "text", `Output format: "text" or "json"`)
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log constraint statistics and solver progress")

	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		logger.Error(err)
		return failure
	}
	return exitCode
}

func seat(ctx context.Context, logger logrus.FieldLogger, opts options, files []string) ([]outcome, error) {
	//** Load catalog and solver configuration
	catalog := model.DefaultCatalog()
	if opts.catalogPath != "" {
		var err error
		if catalog, err = model.CatalogFromFile(opts.catalogPath); err != nil {
			return nil, err
		}
	}
	config, err := solverConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	newEngine, err := engine.NewFactory(opts.solver, config)
	if err != nil {
		return nil, err
	}
	seater := seaters[opts.strategy](newEngine, model.WithLogger(logger))

	//** Seat every file on its own engine session, a failing file does not stop the others
	outcomes := make([]outcome, len(files))
	var stdout sync.Mutex
	var group errgroup.Group
	for i, file := range files {
		group.Go(func() error {
			fileLogger := logger.WithFields(logrus.Fields{"file": file, "solver": opts.solver})
			fail := func(err error) error {
				fileLogger.Error(err)
				outcomes[i] = outcome{err: err}
				return nil
			}

			input, err := model.InputFromFile(file, catalog)
			if err != nil {
				return fail(fmt.Errorf("cannot parse input file %q: %w", file, err))
			}

			start := time.Now()
			result, err := seater.Build(ctx, input)
			if err != nil {
				return fail(fmt.Errorf("an error occurred while seating %q: %w", file, err))
			}
			fileLogger.WithFields(logrus.Fields{
				"satisfiable": result.Satisfiable,
				"relaxed":     result.Relaxed,
				"variables":   result.Variables,
				"constraints": result.Constraints,
				"duration":    time.Since(start),
			}).Info("seating finished")
			if result.Diagnosis != nil {
				fileLogger.WithFields(logrus.Fields{
					"seatable":          result.Diagnosis.Seatable,
					"riders":            result.Diagnosis.Riders,
					"avoidanceConflict": result.Diagnosis.AvoidanceConflict,
				}).Warn("every constraint cannot hold at once")
			}

			// Verify seating correctness, a relaxed seating only against the constraints it kept
			verified := true
			if result.Satisfiable {
				checked := input
				if result.Relaxed {
					checked = input.WithoutAvoidance()
				}
				verified = seater.Verify(result.Assignment, checked)
			}
			outcomes[i] = outcome{result: result, verified: verified}
			if !verified {
				fileLogger.Error("seating failed verification")
				return nil
			}

			if err := write(model.NewPlan(result, input), file, opts, &stdout, fileLogger); err != nil {
				return fail(err)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func write(plan model.Plan, file string, opts options, stdout *sync.Mutex, logger logrus.FieldLogger) error {
	colored := opts.outDir == "" && !color.NoColor && isatty.IsTerminal(os.Stdout.Fd())

	var buffer bytes.Buffer
	var err error
	if opts.format == "json" {
		err = output.WriteJSON(&buffer, plan)
	} else {
		err = output.WriteText(&buffer, plan, colored)
	}
	if err != nil {
		return fmt.Errorf("an error occurred while building output of %q: %w", file, err)
	}

	// Verify outDir is empty, if so then write the results to the Standard Output
	if opts.outDir == "" {
		stdout.Lock()
		defer stdout.Unlock()
		_, err := os.Stdout.Write(buffer.Bytes())
		return err
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("cannot create output directory: %w", err)
	}
	path := output.OutputPath(opts.outDir, file, time.Now())
	if err := os.WriteFile(path, buffer.Bytes(), 0o666); err != nil {
		return fmt.Errorf("an error occurred while writing to the output file: %w", err)
	}
	logger.WithField("output", path).Info("output written")
	return nil
}

// solverConfig loads the given file or, when empty, the default config file next to the executable.
func solverConfig(path string) (sat.Config, error) {
	if path != "" {
		return sat.LoadConfig(path)
	}

	execPath, err := os.Executable()
	if err != nil {
		return sat.DefaultConfig(), nil
	}
	path = filepath.Join(filepath.Dir(execPath), sat.ConfigPath)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return sat.DefaultConfig(), nil
	}
	return sat.LoadConfig(path)
}

func exitCodeOf(outcomes []outcome) int {
	if lo.SomeBy(outcomes, func(o outcome) bool { return o.err != nil }) {
		return failure
	} else if lo.SomeBy(outcomes, func(o outcome) bool { return !o.verified }) {
		return verification
	} else if lo.EveryBy(outcomes, func(o outcome) bool { return o.result.Satisfiable }) {
		return satisfiable
	}
	return unsatisfiable
}
