package engine

import (
	"fmt"

	"github.com/limaJavier/carpool/pkg/sat"
)

// Solvers lists the names NewFactory accepts. The first two run in-process.
var Solvers = []string{"gophersat", "gini", "kissat", "cadical", "cryptominisat", "minisat", "glucosesimp", "slime", "ortoolsat"}

var cnfSolvers = map[string]func(sat.Config) sat.SATSolver{
	"gini":          func(sat.Config) sat.SATSolver { return sat.NewGiniSolver() },
	"kissat":        sat.NewKissatSolver,
	"cadical":       sat.NewCadicalSolver,
	"cryptominisat": sat.NewCryptominisatSolver,
	"minisat":       sat.NewMinisatSolver,
	"glucosesimp":   sat.NewGlucoseSimpSolver,
	"slime":         sat.NewSlimeSolver,
	"ortoolsat":     sat.NewOrtoolsatSolver,
}

// NewFactory returns a constructor of fresh engines backed by the named solver. External
// solvers are located through config.
func NewFactory(solver string, config sat.Config) (func() Engine, error) {
	if solver == "gophersat" {
		return NewGophersat, nil
	}

	newSolver, ok := cnfSolvers[solver]
	if !ok {
		return nil, fmt.Errorf("%v is not a valid solver", solver)
	}
	satSolver := newSolver(config)
	return func() Engine {
		return NewCNF(satSolver)
	}, nil
}
