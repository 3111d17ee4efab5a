package model

import "slices"

// MaxExclusions is the largest number of seat categories a rider may exclude.
const MaxExclusions = 2

// Precheck validates the necessary conditions that do not need a solver: total capacity first,
// exclusion lists second. It does not modify the input.
func Precheck(input ModelInput) error {
	var seats uint64
	for _, car := range input.Cars {
		seats += input.Catalog.Seats(car.Build)
	}
	if riders := uint64(len(input.Riders)); riders > seats {
		return CapacityExceededError{Riders: riders, Seats: seats}
	}

	for _, rider := range input.Riders {
		if len(rider.Exclusions) > MaxExclusions ||
			slices.ContainsFunc(rider.Exclusions, func(category SeatCategory) bool { return !input.Catalog.ValidCategory(category) }) {
			return MalformedExclusionError{
				Rider:      rider.Name,
				Exclusions: slices.Clone(rider.Exclusions),
				Categories: len(input.Catalog.Categories),
			}
		}
	}
	return nil
}
