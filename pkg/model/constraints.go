package model

import (
	"github.com/limaJavier/carpool/pkg/engine"
	"github.com/samber/lo"
)

type constraintState struct {
	input     ModelInput
	indexer   indexer
	variables []engine.Var // variables[indexer.Index(r, c, s)] = occupies(r, c, s)

	riders,
	cars,
	categories uint64
}

func (state constraintState) occupies(rider, car uint64, category SeatCategory) engine.Var {
	return state.variables[state.indexer.Index(rider, car, category)]
}

// occupiesCar returns the variables placing rider in car, one per category.
func (state constraintState) occupiesCar(rider, car uint64) []engine.Var {
	vars := make([]engine.Var, 0, state.categories)
	for category := range state.categories {
		vars = append(vars, state.occupies(rider, car, SeatCategory(category)))
	}
	return vars
}

// occupies(r, c, s) ∈ {0, 1}
func integralityConstraints(state constraintState) []engine.Constraint {
	return lo.Map(state.variables, func(variable engine.Var, _ int) engine.Constraint {
		return engine.Binary(variable)
	})
}

// Σ_{c, s} occupies(r, c, s) = 1
func singleAssignmentConstraints(state constraintState) []engine.Constraint {
	constraints := make([]engine.Constraint, 0, state.riders)
	for rider := range state.riders {
		vars := make([]engine.Var, 0, state.cars*state.categories)
		for car := range state.cars {
			vars = append(vars, state.occupiesCar(rider, car)...)
		}
		constraints = append(constraints, engine.Linear{Terms: engine.Sum(vars...), Op: engine.Eq, Bound: 1})
	}
	return constraints
}

// Σ_r occupies(r, c, s) <= capacity(build(c), s)
func capacityConstraints(state constraintState) []engine.Constraint {
	constraints := make([]engine.Constraint, 0, state.cars*state.categories)
	for _, car := range state.input.Cars {
		for category := range state.categories {
			vars := make([]engine.Var, 0, state.riders)
			for rider := range state.riders {
				vars = append(vars, state.occupies(rider, car.Id, SeatCategory(category)))
			}

			capacity := state.input.Catalog.Capacity(car.Build, SeatCategory(category))
			constraints = append(constraints, engine.Linear{Terms: engine.Sum(vars...), Op: engine.Le, Bound: int(capacity)})
		}
	}
	return constraints
}

// Σ_c occupies(r, c, s) = 0 for every s excluded by r
func exclusionConstraints(state constraintState) []engine.Constraint {
	constraints := make([]engine.Constraint, 0)
	for _, rider := range state.input.Riders {
		// A repeated exclusion forces the same sum, once is enough
		for _, category := range lo.Uniq(rider.Exclusions) {
			vars := make([]engine.Var, 0, state.cars)
			for car := range state.cars {
				vars = append(vars, state.occupies(rider.Id, car, category))
			}
			constraints = append(constraints, engine.Linear{Terms: engine.Sum(vars...), Op: engine.Eq, Bound: 0})
		}
	}
	return constraints
}

// Σ_s occupies(a, c, s) + occupies(b, c, s) <= 1 for every avoidance pair {a, b} and car c
func avoidanceConstraints(state constraintState) []engine.Constraint {
	pairs := state.input.Avoidance.Pairs()
	constraints := make([]engine.Constraint, 0, uint64(len(pairs))*state.cars)
	for _, pair := range pairs {
		for car := range state.cars {
			vars := append(state.occupiesCar(pair[0], car), state.occupiesCar(pair[1], car)...)
			constraints = append(constraints, engine.Linear{Terms: engine.Sum(vars...), Op: engine.Le, Bound: 1})
		}
	}
	return constraints
}
