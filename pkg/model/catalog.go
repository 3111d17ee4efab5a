package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// SeatCategory indexes Catalog.Categories. It is signed so that out-of-range exclusions
// survive parsing and can be reported by Precheck.
type SeatCategory int

// Categories of the default catalog
const (
	Window SeatCategory = iota
	Shotgun
	Middle
)

// Builds of the default catalog
const (
	Sedan uint64 = iota
	Sports
	Van
)

type CarBuild struct {
	Name       string
	Capacities []uint64 // Capacities[category] = number of seats of that category
}

type Catalog struct {
	Categories []string // Display order, the position of a name is its SeatCategory
	Builds     []CarBuild
}

func DefaultCatalog() Catalog {
	return Catalog{
		Categories: []string{"Window", "Shotgun", "Middle"},
		Builds: []CarBuild{
			{Name: "Sedan", Capacities: []uint64{2, 1, 1}},
			{Name: "Sports Car", Capacities: []uint64{0, 1, 0}},
			{Name: "Van", Capacities: []uint64{4, 1, 1}},
		},
	}
}

func (catalog Catalog) Validate() error {
	if len(catalog.Categories) == 0 {
		return ConfigError{Subject: "catalog", Reason: "at least one seat category is required"}
	} else if len(catalog.Builds) == 0 {
		return ConfigError{Subject: "catalog", Reason: "at least one car build is required"}
	}

	for i, category := range catalog.Categories {
		if strings.TrimSpace(category) == "" {
			return ConfigError{Subject: "catalog", Reason: fmt.Sprintf("seat category %d has no name", i)}
		}
	}
	for i, build := range catalog.Builds {
		if strings.TrimSpace(build.Name) == "" {
			return ConfigError{Subject: "catalog", Reason: fmt.Sprintf("car build %d has no name", i)}
		} else if len(build.Capacities) != len(catalog.Categories) {
			return ConfigError{
				Subject: build.Name,
				Reason:  fmt.Sprintf("expected %d seat capacities (one per category), found %d", len(catalog.Categories), len(build.Capacities)),
			}
		}
	}
	return nil
}

func (catalog Catalog) Capacity(build uint64, category SeatCategory) uint64 {
	return catalog.Builds[build].Capacities[category]
}

// Seats returns the total number of seats of a build.
func (catalog Catalog) Seats(build uint64) uint64 {
	var seats uint64
	for _, capacity := range catalog.Builds[build].Capacities {
		seats += capacity
	}
	return seats
}

func (catalog Catalog) ValidCategory(category SeatCategory) bool {
	return category >= 0 && int(category) < len(catalog.Categories)
}

// CatalogFromFile reads a JSON or YAML catalog of the form
// {"categories": [...], "builds": [{"name": ..., "capacities": [...]}]}.
func CatalogFromFile(file string) (Catalog, error) {
	raw, err := readDocument(file)
	if err != nil {
		return Catalog{}, err
	}

	var catalog Catalog
	if err := mapstructure.Decode(raw, &catalog); err != nil {
		return Catalog{}, errors.Wrapf(err, "invalid catalog %q", file)
	}
	if err := catalog.Validate(); err != nil {
		return Catalog{}, err
	}
	return catalog, nil
}

// readDocument decodes a JSON or YAML file, chosen by extension, into a generic map.
func readDocument(file string) (map[string]any, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %q", file)
	}

	var document map[string]any
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(bytes, &document)
	default:
		err = json.Unmarshal(bytes, &document)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse %q", file)
	}
	return document, nil
}
