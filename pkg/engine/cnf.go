package engine

import (
	"context"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/limaJavier/carpool/pkg/sat"
)

// NewCNF returns an Engine that compiles every constraint into CNF, using sorting networks
// for the cardinality part, and delegates the instance to a SAT solver.
func NewCNF(solver sat.SATSolver) Engine {
	return newSession(cnfBackend{solver: solver})
}

type cnfBackend struct {
	solver sat.SATSolver
}

func (backend cnfBackend) solve(ctx context.Context, variables int, constraints []Constraint) (Status, []int, error) {
	instance, inputs := compile(variables, constraints)

	solution, err := backend.solver.Solve(ctx, instance)
	if err != nil {
		return Unknown, nil, err
	} else if solution == nil { // The SAT instance is not satisfiable
		return Unsat, nil, nil
	} else if !instance.Satisfied(solution) {
		return Unknown, nil, sat.ErrInvalidSolution
	}

	positives := make(map[int64]bool, len(solution))
	for _, literal := range solution {
		if literal > 0 {
			positives[literal] = true
		}
	}
	values := make([]int, variables)
	for v, input := range inputs {
		if positives[dimacs(input)] {
			values[v] = 1
		}
	}
	return Sat, values, nil
}

// compile builds the circuit of every constraint and asserts each root as a unit clause.
// inputs[v] is the circuit input standing for variable v.
func compile(variables int, constraints []Constraint) (sat.SAT, []z.Lit) {
	circuit := logic.NewCCap(2 * (variables + 1))
	inputs := make([]z.Lit, variables)
	for v := range inputs {
		inputs[v] = circuit.Lit()
	}

	roots := make([]z.Lit, 0, len(constraints))
	for _, constraint := range constraints {
		roots = append(roots, encode(circuit, inputs, constraint))
	}

	collector := &clauseCollector{}
	circuit.ToCnf(collector)
	for _, root := range roots {
		collector.Add(root)
		collector.Add(z.LitNull)
	}

	return sat.SAT{
		Variables: uint64(circuit.Len() - 1),
		Clauses:   collector.clauses,
	}, inputs
}

func encode(circuit *logic.C, inputs []z.Lit, constraint Constraint) z.Lit {
	switch c := constraint.(type) {
	case Linear:
		c = c.normalized()
		// A negative coefficient a on x is rewritten as a + |a|*(not x), moving a to the bound
		bound, counted := c.Bound, make([]z.Lit, 0, len(c.Terms))
		for _, term := range c.Terms {
			m, coef := inputs[term.Var], term.Coef
			if coef < 0 {
				m, coef = m.Not(), -coef
				bound += coef
			}
			for range coef {
				counted = append(counted, m)
			}
		}
		card := circuit.CardSort(counted)
		switch c.Op {
		case Le:
			return card.Leq(bound)
		case Ge:
			return card.Geq(bound)
		default:
			return circuit.And(card.Leq(bound), card.Geq(bound))
		}
	case Domain:
		switch zero, one := c.allows(); {
		case zero && one:
			return circuit.T
		case zero:
			return inputs[c.Var].Not()
		case one:
			return inputs[c.Var]
		}
	}
	return circuit.F
}

// clauseCollector receives the z.LitNull-terminated clauses produced by the circuit.
type clauseCollector struct {
	clauses [][]int64
	current []int64
}

func (collector *clauseCollector) Add(m z.Lit) {
	if m == z.LitNull {
		collector.clauses = append(collector.clauses, collector.current)
		collector.current = nil
		return
	}
	collector.current = append(collector.current, dimacs(m))
}

func dimacs(m z.Lit) int64 {
	if m.IsPos() {
		return int64(m.Var())
	}
	return -int64(m.Var())
}
