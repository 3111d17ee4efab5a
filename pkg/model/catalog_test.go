package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	t.Run("Default catalog", func(t *testing.T) {
		catalog := DefaultCatalog()

		assert.NoError(t, catalog.Validate())
		assert.Equal(t, uint64(4), catalog.Seats(Sedan))
		assert.Equal(t, uint64(1), catalog.Seats(Sports))
		assert.Equal(t, uint64(6), catalog.Seats(Van))
		assert.Equal(t, uint64(0), catalog.Capacity(Sports, Window))
		assert.True(t, catalog.ValidCategory(Middle))
		assert.False(t, catalog.ValidCategory(3))
	})

	t.Run("Invalid capacities", func(t *testing.T) {
		catalog := DefaultCatalog()
		catalog.Builds = append(catalog.Builds, CarBuild{Name: "Truck", Capacities: []uint64{1}})

		var configErr ConfigError
		require.True(t, errors.As(catalog.Validate(), &configErr))
		assert.Equal(t, "Truck", configErr.Subject)
	})

	t.Run("Catalog from file", func(t *testing.T) {
		//** Act
		catalog, err := CatalogFromFile("testdata/catalog.yaml")

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"Front", "Back"}, catalog.Categories)
		assert.Equal(t, []CarBuild{
			{Name: "Coupe", Capacities: []uint64{1, 1}},
			{Name: "Minibus", Capacities: []uint64{1, 8}},
		}, catalog.Builds)
	})

	t.Run("Custom catalog seating", func(t *testing.T) {
		//** Arrange
		catalog, err := CatalogFromFile("testdata/catalog.yaml")
		require.NoError(t, err)
		input, err := ProcessRawInput(RawModelInput{
			Cars: []uint64{0, 1},
			Riders: []RawRider{
				{Name: "driver", Exclusions: []SeatCategory{1}},
				{Name: "navigator", Exclusions: []SeatCategory{1}},
				{Name: "kid"},
			},
			Avoid: map[string][]string{"driver": {"navigator"}},
		}, catalog)
		require.NoError(t, err)

		for name, newEngine := range engines {
			seater := NewStrictSeater(newEngine)

			//** Act
			result, err := seater.Build(context.Background(), input)

			//** Assert
			require.NoError(t, err, name)
			assert.True(t, result.Satisfiable, name)
			assert.True(t, seater.Verify(result.Assignment, input), name)
		}
	})
}
