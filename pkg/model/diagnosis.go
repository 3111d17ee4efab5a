package model

import (
	"slices"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// Diagnosis explains an unsatisfiable seating attempt.
type Diagnosis struct {
	Seatable int // Largest number of riders that fit at once in seats they do not exclude
	Riders   int
	// AvoidanceConflict is set when every rider could be seated ignoring avoidance, so the
	// avoidance pairs alone make the attempt unsatisfiable.
	AvoidanceConflict bool
}

type seat struct {
	car      uint64
	category SeatCategory
	slot     uint64
}

// diagnose computes a maximum matching between riders and individual seats. The base layer is
// satisfiable exactly when the matching covers every rider.
func diagnose(input ModelInput) (Diagnosis, error) {
	seats := make([]seat, 0)
	for _, car := range input.Cars {
		for category := range input.Catalog.Categories {
			for slot := range input.Catalog.Capacity(car.Build, SeatCategory(category)) {
				seats = append(seats, seat{car: car.Id, category: SeatCategory(category), slot: slot})
			}
		}
	}

	// Build neighbors predicate based on exclusions
	neighbors := func(riderAny any, seatAny any) (bool, error) {
		rider := riderAny.(Rider)
		seat := seatAny.(seat)

		return !slices.Contains(rider.Exclusions, seat.category), nil
	}

	// Transform riders and seats to slices of any
	ridersAny, seatsAny := lo.Map(input.Riders, func(rider Rider, _ int) any { return rider }), lo.Map(seats, func(seat seat, _ int) any { return seat })

	graph, err := bipartitegraph.NewBipartiteGraph(ridersAny, seatsAny, neighbors)
	if err != nil {
		return Diagnosis{}, err
	}

	seatable := len(graph.LargestMatching())
	return Diagnosis{
		Seatable:          seatable,
		Riders:            len(input.Riders),
		AvoidanceConflict: seatable == len(input.Riders) && len(input.Avoidance.Pairs()) > 0,
	}, nil
}
