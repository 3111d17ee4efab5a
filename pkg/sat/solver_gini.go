package sat

import (
	"context"
	"fmt"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

const (
	satisfiable   = 1
	unsatisfiable = -1
	pollInterval  = 5 * time.Millisecond
)

// giniSolver runs the SAT instance in-process, so it needs no executable on the host.
type giniSolver struct{}

func NewGiniSolver() SATSolver {
	return &giniSolver{}
}

func (solver *giniSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	g := gini.NewVc(int(sat.Variables), len(sat.Clauses))
	for _, clause := range sat.Clauses {
		for _, literal := range clause {
			g.Add(z.Dimacs2Lit(int(literal)))
		}
		g.Add(z.LitNull)
	}

	// Poll the background solve so that a cancelled context stops the search
	connection := g.GoSolve()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var result int
	for {
		var done bool
		if result, done = connection.Test(); done {
			break
		}
		select {
		case <-ctx.Done():
			connection.Stop()
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	if result == unsatisfiable {
		return nil, nil
	} else if result != satisfiable {
		return nil, fmt.Errorf("gini returned an unknown result: %d", result)
	}

	solution := make(SATSolution, 0, sat.Variables)
	for variable := z.Var(1); variable <= g.MaxVar(); variable++ {
		if g.Value(variable.Pos()) {
			solution = append(solution, int64(variable))
		} else {
			solution = append(solution, -int64(variable))
		}
	}
	return solution, nil
}
