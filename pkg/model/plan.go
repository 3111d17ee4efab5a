package model

// Plan is the seating plan handed to the writers: every car of the fleet in order, each with
// its riders grouped by seat category in the catalog display order.
type Plan struct {
	Satisfiable bool      `json:"satisfiable"`
	Relaxed     bool      `json:"relaxed,omitempty"`
	Cars        []CarPlan `json:"cars,omitempty"`
}

type CarPlan struct {
	Number uint64          `json:"number"` // 1-based position in the fleet
	Build  string          `json:"build"`
	Seats  []CategorySeats `json:"seats"`
}

type CategorySeats struct {
	Category      string   `json:"category"`
	NotApplicable bool     `json:"notApplicable,omitempty"` // The build has no seat of this category
	Riders        []string `json:"riders"`
}

func NewPlan(result Result, input ModelInput) Plan {
	plan := Plan{
		Satisfiable: result.Satisfiable,
		Relaxed:     result.Relaxed,
	}
	if !result.Satisfiable {
		return plan
	}

	plan.Cars = make([]CarPlan, 0, len(input.Cars))
	for _, car := range input.Cars {
		build := input.Catalog.Builds[car.Build]
		carPlan := CarPlan{
			Number: car.Id + 1,
			Build:  build.Name,
			Seats:  make([]CategorySeats, 0, len(input.Catalog.Categories)),
		}

		placements := result.Assignment.InCar(car.Id)
		for category, name := range input.Catalog.Categories {
			riders := make([]uint64, 0)
			for _, placement := range placements {
				if placement.Category == SeatCategory(category) {
					riders = append(riders, placement.Rider)
				}
			}

			carPlan.Seats = append(carPlan.Seats, CategorySeats{
				Category:      name,
				NotApplicable: build.Capacities[category] == 0,
				Riders:        input.riderNames(riders),
			})
		}
		plan.Cars = append(plan.Cars, carPlan)
	}
	return plan
}
