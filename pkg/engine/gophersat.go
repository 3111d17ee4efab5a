package engine

import (
	"context"

	"github.com/crillab/gophersat/solver"
)

// NewGophersat returns an Engine that hands pseudo-boolean constraints to gophersat as they are.
func NewGophersat() Engine {
	return newSession(gophersatBackend{})
}

type gophersatBackend struct{}

func (gophersatBackend) solve(ctx context.Context, variables int, constraints []Constraint) (Status, []int, error) {
	if err := ctx.Err(); err != nil {
		return Unknown, nil, err
	}

	values := make([]int, variables)
	pbs := make([]solver.PBConstr, 0, len(constraints))
	for _, constraint := range constraints {
		pbs = append(pbs, toPB(constraint)...)
	}
	if len(pbs) == 0 {
		return Sat, values, nil
	}

	s := solver.New(solver.ParsePBConstrs(pbs))
	switch s.Solve() {
	case solver.Sat:
		// Variables that never occur in a constraint are absent from the model and keep 0
		for v, value := range s.Model() {
			if v < variables && value {
				values[v] = 1
			}
		}
		return Sat, values, nil
	case solver.Unsat:
		return Unsat, nil, nil
	default:
		return Unknown, nil, nil
	}
}

// toPB translates a constraint into gophersat terms, where variable v is the CNF variable v+1.
func toPB(constraint Constraint) []solver.PBConstr {
	switch c := constraint.(type) {
	case Linear:
		c = c.normalized()
		lits, weights := make([]int, len(c.Terms)), make([]int, len(c.Terms))
		for i, term := range c.Terms {
			lits[i], weights[i] = int(term.Var)+1, term.Coef
		}
		switch c.Op {
		case Le:
			return []solver.PBConstr{solver.LtEq(lits, weights, c.Bound)}
		case Ge:
			return []solver.PBConstr{solver.GtEq(lits, weights, c.Bound)}
		default:
			return solver.Eq(lits, weights, c.Bound)
		}
	case Domain:
		lit := int(c.Var) + 1
		switch zero, one := c.allows(); {
		case zero && one:
			return nil
		case zero:
			return []solver.PBConstr{solver.PropClause(-lit)}
		case one:
			return []solver.PBConstr{solver.PropClause(lit)}
		default:
			return []solver.PBConstr{{AtLeast: 1}} // Empty clause
		}
	}
	return nil
}
