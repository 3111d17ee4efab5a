package model

import (
	"fmt"
	"slices"
)

// verify re-validates an assignment against the input without any solver: one seat per rider,
// valid car slots and categories, build capacities, exclusions and avoidance.
func verify(assignment Assignment, input ModelInput) error {
	if len(assignment) != len(input.Riders) {
		return fmt.Errorf("%d riders seated, expected %d", len(assignment), len(input.Riders))
	}

	//** Initialize occupancy
	occupancy := make([][]uint64, len(input.Cars))
	for car := range occupancy {
		occupancy[car] = make([]uint64, len(input.Catalog.Categories))
	}

	seated := make([]bool, len(input.Riders))
	carOf := make([]uint64, len(input.Riders))

	for _, placement := range assignment {
		// Check that:
		// - The rider exists and is seated only once
		// - The car slot and the category exist
		// - The rider does not exclude the category
		if placement.Rider >= uint64(len(input.Riders)) {
			return fmt.Errorf("unknown rider %d", placement.Rider)
		}
		rider := input.Riders[placement.Rider]

		if seated[placement.Rider] {
			return fmt.Errorf("%q is seated more than once", rider.Name)
		} else if placement.Car >= uint64(len(input.Cars)) {
			return fmt.Errorf("%q is seated in unknown car #%d", rider.Name, placement.Car+1)
		} else if !input.Catalog.ValidCategory(placement.Category) {
			return fmt.Errorf("%q is seated in unknown seat category %d", rider.Name, placement.Category)
		} else if slices.Contains(rider.Exclusions, placement.Category) {
			return fmt.Errorf("%q is seated in excluded category %v", rider.Name, input.Catalog.Categories[placement.Category])
		}

		seated[placement.Rider] = true                 // Store rider seating
		carOf[placement.Rider] = placement.Car         // Store rider car
		occupancy[placement.Car][placement.Category]++ // Store seat occupancy
	}

	// Check whether every (car, category) occupancy is within the capacity of the car's build
	for _, car := range input.Cars {
		for category, occupied := range occupancy[car.Id] {
			if capacity := input.Catalog.Capacity(car.Build, SeatCategory(category)); occupied > capacity {
				return fmt.Errorf("car #%d has %d riders in %v seats, capacity is %d", car.Id+1, occupied, input.Catalog.Categories[category], capacity)
			}
		}
	}

	// Check whether any avoidance pair shares a car
	for _, pair := range input.Avoidance.Pairs() {
		if carOf[pair[0]] == carOf[pair[1]] {
			return fmt.Errorf("%q and %q share car #%d", input.Riders[pair[0]].Name, input.Riders[pair[1]].Name, carOf[pair[0]]+1)
		}
	}
	return nil
}
