package sat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// ErrInvalidSolution is returned when a solver reports a model that does not satisfy the instance.
var ErrInvalidSolution = errors.New("solution does not satisfy the SAT instance")

type SATSolution []int64

type SAT struct {
	Variables uint64
	Clauses   [][]int64
}

type SATSolver interface {
	Solve(context.Context, SAT) (SATSolution, error) // Returns a solution of the SAT instance if satisfiable, else returns nil (these are valid outputs where error shall be nil)
}

func (s SAT) ToDIMACS() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", s.Variables, len(s.Clauses))
	for _, clause := range s.Clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String()
}

// Satisfied checks that solution neither repeats nor contradicts a literal and satisfies every clause.
func (s SAT) Satisfied(solution SATSolution) bool {
	literals := make(map[int64]bool, len(solution))
	for _, literal := range solution {
		if literals[literal] || literals[-literal] {
			return false
		}
		literals[literal] = true
	}

	return lo.EveryBy(s.Clauses, func(clause []int64) bool {
		return lo.SomeBy(clause, func(literal int64) bool { return literals[literal] })
	})
}
