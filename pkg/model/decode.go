package model

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// decode reads the valuation of the last satisfiable check. Every rider must have exactly one
// indicator set; anything else is an InconsistencyError.
func decode(encoding *encoding) (Assignment, error) {
	placements := make([][]Placement, encoding.state.riders)

	for _, variable := range encoding.state.variables {
		value, err := encoding.engine.Value(variable)
		if err != nil {
			return nil, fmt.Errorf("cannot read occupancy variable %d: %w", variable, err)
		}

		index, ok := encoding.indices[variable]
		if !ok {
			return nil, InconsistencyError{Reason: fmt.Sprintf("variable %d is not bound to any seat", variable)}
		}
		rider, car, category := encoding.state.indexer.Attributes(index)

		switch value {
		case 0:
		case 1:
			placements[rider] = append(placements[rider], Placement{Rider: rider, Car: car, Category: category})
		default:
			return nil, InconsistencyError{
				Rider:  encoding.state.input.Riders[rider].Name,
				Reason: fmt.Sprintf("occupancy of car #%d %v has value %d, expected 0 or 1", car+1, encoding.state.input.Catalog.Categories[category], value),
			}
		}
	}

	assignment := make(Assignment, 0, encoding.state.riders)
	for rider, riderPlacements := range placements {
		if len(riderPlacements) != 1 {
			return nil, InconsistencyError{
				Rider:  encoding.state.input.Riders[rider].Name,
				Reason: fmt.Sprintf("expected exactly one seat, found %d", len(riderPlacements)),
			}
		}
		assignment = append(assignment, riderPlacements[0])
	}
	return assignment, nil
}

// Placement seats Rider in a seat of Category in car slot Car.
type Placement struct {
	Rider    uint64
	Car      uint64
	Category SeatCategory
}

// Assignment holds one placement per rider, ordered by rider.
type Assignment []Placement

// InCar returns the placements of a car slot, ordered by rider.
func (assignment Assignment) InCar(car uint64) []Placement {
	placements := lo.Filter(assignment, func(placement Placement, _ int) bool { return placement.Car == car })
	slices.SortFunc(placements, func(a, b Placement) int { return int(a.Rider) - int(b.Rider) })
	return placements
}
