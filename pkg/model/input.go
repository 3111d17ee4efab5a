package model

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type RawRider struct {
	Name       string         `json:"name"`
	Exclusions []SeatCategory `json:"exclusions,omitempty"`
}

// RawModelInput is the configuration as read from a file, before any validation.
type RawModelInput struct {
	Cars   []uint64            `json:"cars"`               // Build index of every car slot, in fleet order
	Riders []RawRider          `json:"riders"`             // Declaration order is kept as rider ids
	Avoid  map[string][]string `json:"avoid,omitempty"`    // Rider name -> names it must not share a car with
	Lines  map[string]int      `json:"-" mapstructure:"-"` // Line where each rider or avoidance entry was declared, if known
}

type Car struct {
	Id    uint64 // Position in the fleet
	Build uint64
}

type Rider struct {
	Id         uint64
	Name       string
	Exclusions []SeatCategory
}

// AvoidanceRelation maps a rider id to the ids it must not share a car with. It is
// interpreted symmetrically.
type AvoidanceRelation map[uint64][]uint64

// Pairs returns every unordered avoidance pair once, smaller id first, sorted.
func (relation AvoidanceRelation) Pairs() [][2]uint64 {
	seen := make(map[[2]uint64]bool)
	pairs := make([][2]uint64, 0)
	for rider, avoided := range relation {
		for _, other := range avoided {
			pair := [2]uint64{min(rider, other), max(rider, other)}
			if !seen[pair] {
				seen[pair] = true
				pairs = append(pairs, pair)
			}
		}
	}
	slices.SortFunc(pairs, func(a, b [2]uint64) int {
		if a[0] != b[0] {
			return cmp.Compare(a[0], b[0])
		}
		return cmp.Compare(a[1], b[1])
	})
	return pairs
}

// Avoids reports whether a and b must not share a car, regardless of who declared it.
func (relation AvoidanceRelation) Avoids(a, b uint64) bool {
	return slices.Contains(relation[a], b) || slices.Contains(relation[b], a)
}

type ModelInput struct {
	Catalog   Catalog
	Cars      []Car
	Riders    []Rider
	Avoidance AvoidanceRelation
}

// WithoutAvoidance returns a copy of the input whose avoidance relation is empty.
func (input ModelInput) WithoutAvoidance() ModelInput {
	input.Avoidance = AvoidanceRelation{}
	return input
}

// InputFromFile reads a configuration file: JSON and YAML by extension, the sectioned text format otherwise.
func InputFromFile(file string, catalog Catalog) (ModelInput, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".json":
		return InputFromJson(file, catalog)
	case ".yaml", ".yml":
		return InputFromYaml(file, catalog)
	default:
		return InputFromConfig(file, catalog)
	}
}

func InputFromJson(file string, catalog Catalog) (ModelInput, error) {
	return inputFromDocument(file, catalog)
}

func InputFromYaml(file string, catalog Catalog) (ModelInput, error) {
	return inputFromDocument(file, catalog)
}

func inputFromDocument(file string, catalog Catalog) (ModelInput, error) {
	document, err := readDocument(file)
	if err != nil {
		return ModelInput{}, err
	}

	var rawInput RawModelInput
	if err := mapstructure.Decode(document, &rawInput); err != nil {
		return ModelInput{}, errors.Wrapf(err, "invalid input %q", file)
	}
	return ProcessRawInput(rawInput, catalog)
}

// ProcessRawInput validates the shape of a configuration and builds the immutable model.
// Exclusion values are kept as given; their validation belongs to Precheck.
func ProcessRawInput(rawInput RawModelInput, catalog Catalog) (ModelInput, error) {
	if err := catalog.Validate(); err != nil {
		return ModelInput{}, err
	}

	input := ModelInput{
		Catalog:   catalog,
		Cars:      make([]Car, 0, len(rawInput.Cars)),
		Riders:    make([]Rider, 0, len(rawInput.Riders)),
		Avoidance: make(AvoidanceRelation),
	}

	//** Manage cars
	if len(rawInput.Cars) == 0 {
		return ModelInput{}, ConfigError{Subject: "cars", Reason: "no car information found"}
	}
	for id, build := range rawInput.Cars {
		if build >= uint64(len(catalog.Builds)) {
			return ModelInput{}, ConfigError{
				Subject: fmt.Sprintf("car #%d", id+1),
				Reason:  fmt.Sprintf("invalid car build %d: car build must be between 0 and %d", build, len(catalog.Builds)-1),
			}
		}
		input.Cars = append(input.Cars, Car{Id: uint64(id), Build: build})
	}

	//** Manage riders
	if len(rawInput.Riders) == 0 {
		return ModelInput{}, ConfigError{Subject: "riders", Reason: "no seat data found"}
	}
	ids := make(map[string]uint64, len(rawInput.Riders))
	for _, rawRider := range rawInput.Riders {
		name := normalizeName(rawRider.Name)
		if name == "" {
			return ModelInput{}, ConfigError{Subject: "riders", Reason: "rider without a name"}
		} else if _, ok := ids[name]; ok {
			return ModelInput{}, ConfigError{Line: rawInput.Lines[name], Subject: name, Reason: "repeated name in input"}
		}

		id := uint64(len(input.Riders))
		ids[name] = id
		input.Riders = append(input.Riders, Rider{
			Id:         id,
			Name:       name,
			Exclusions: slices.Clone(rawRider.Exclusions),
		})
	}

	//** Manage avoidance
	for rawName, rawAvoided := range rawInput.Avoid {
		name := normalizeName(rawName)
		line := rawInput.Lines[avoidLineKey(name)]
		rider, ok := ids[name]
		if !ok {
			return ModelInput{}, ConfigError{Line: line, Subject: name, Reason: "avoidance declared for an unknown rider"}
		}

		for _, rawOther := range rawAvoided {
			other := normalizeName(rawOther)
			otherId, ok := ids[other]
			if !ok {
				return ModelInput{}, ConfigError{Line: line, Subject: name, Reason: fmt.Sprintf("cannot avoid unknown rider %q", other)}
			} else if otherId == rider {
				return ModelInput{}, ConfigError{Line: line, Subject: name, Reason: "a rider cannot avoid itself"}
			}
			if !slices.Contains(input.Avoidance[rider], otherId) {
				input.Avoidance[rider] = append(input.Avoidance[rider], otherId)
			}
		}
	}

	return input, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func avoidLineKey(name string) string {
	return "avoid:" + name
}

// riderNames returns the names of the given rider ids.
func (input ModelInput) riderNames(ids []uint64) []string {
	return lo.Map(ids, func(id uint64, _ int) string { return input.Riders[id].Name })
}
