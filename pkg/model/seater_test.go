package model

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/limaJavier/carpool/pkg/engine"
	"github.com/limaJavier/carpool/pkg/sat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	satisfiableTestDirectory   = "testdata/satisfiable/"
	unsatisfiableTestDirectory = "testdata/unsatisfiable/"
)

var engines = map[string]EngineFactory{
	"gophersat": engine.NewGophersat,
	"cnf-gini": func() engine.Engine {
		return engine.NewCNF(sat.NewGiniSolver())
	},
}

func TestStrictSeater(t *testing.T) {
	for name, newEngine := range engines {
		seater := NewStrictSeater(newEngine)

		t.Run(name+"/Satisfiable instances", func(t *testing.T) {
			satisfiableExecution(t, seater)
		})
		t.Run(name+"/Unsatisfiable instances", func(t *testing.T) {
			unsatisfiableExecution(t, seater)
		})
		t.Run(name+"/Two riders share a sedan", func(t *testing.T) {
			//** Arrange
			input := newInput(t, []uint64{Sedan}, riders("alice", "bob"), nil)

			//** Act
			result, err := seater.Build(context.Background(), input)

			//** Assert
			require.NoError(t, err)
			assert.True(t, result.Satisfiable)
			require.Len(t, result.Assignment, 2)
			assert.Equal(t, uint64(0), result.Assignment[0].Car)
			assert.Equal(t, uint64(0), result.Assignment[1].Car)
			if result.Assignment[0].Category == result.Assignment[1].Category {
				assert.Equal(t, Window, result.Assignment[0].Category)
			}
			assert.True(t, seater.Verify(result.Assignment, input))
			assert.Equal(t, 2*1*3, result.Variables)
		})
		t.Run(name+"/Sports car cannot hold two riders", func(t *testing.T) {
			//** Arrange
			input := newInput(t, []uint64{Sports}, riders("alice", "bob"), nil)

			//** Act
			result, err := seater.Build(context.Background(), input)

			//** Assert
			var capacityErr CapacityExceededError
			require.True(t, errors.As(err, &capacityErr))
			assert.Equal(t, CapacityExceededError{Riders: 2, Seats: 1}, capacityErr)
			assert.False(t, result.Satisfiable)
			assert.Nil(t, result.Assignment)
		})
		t.Run(name+"/Avoiding riders take different cars", func(t *testing.T) {
			//** Arrange
			input := newInput(t, []uint64{Sedan, Sedan}, riders("alice", "bob"), map[string][]string{"alice": {"bob"}})

			//** Act
			result, err := seater.Build(context.Background(), input)

			//** Assert
			require.NoError(t, err)
			require.True(t, result.Satisfiable)
			assert.NotEqual(t, result.Assignment[0].Car, result.Assignment[1].Car)
			assert.True(t, seater.Verify(result.Assignment, input))

			// The base layer alone is satisfiable too
			relaxed, err := seater.Build(context.Background(), input.WithoutAvoidance())
			require.NoError(t, err)
			assert.True(t, relaxed.Satisfiable)
			assert.False(t, relaxed.Relaxed)
		})
		t.Run(name+"/Repeated exclusion still forbids the category", func(t *testing.T) {
			//** Arrange
			input := newInput(t, []uint64{Sedan}, []RawRider{
				{Name: "carol", Exclusions: []SeatCategory{Window, Window}},
				{Name: "alice"},
				{Name: "bob"},
			}, nil)
			require.NoError(t, Precheck(input))

			//** Act
			result, err := seater.Build(context.Background(), input)

			//** Assert
			require.NoError(t, err)
			require.True(t, result.Satisfiable)
			assert.NotEqual(t, Window, result.Assignment[0].Category)
			assert.True(t, seater.Verify(result.Assignment, input))
		})
		t.Run(name+"/Avoidance makes a single sedan unsatisfiable", func(t *testing.T) {
			//** Arrange
			input := newInput(t, []uint64{Sedan}, riders("alice", "bob"), map[string][]string{"bob": {"alice"}})

			//** Act
			result, err := seater.Build(context.Background(), input)

			//** Assert
			require.NoError(t, err)
			assert.False(t, result.Satisfiable)
			assert.False(t, result.Relaxed)
			assert.Nil(t, result.Assignment)
			require.NotNil(t, result.Diagnosis)
			assert.Equal(t, Diagnosis{Seatable: 2, Riders: 2, AvoidanceConflict: true}, *result.Diagnosis)
		})
		t.Run(name+"/Repeated builds are valid", func(t *testing.T) {
			//** Arrange
			input := newInput(t, []uint64{Van, Sedan, Sports}, riders("a", "b", "c", "d", "e", "f", "g", "h"), map[string][]string{
				"a": {"b", "c"},
				"d": {"e"},
			})

			for range 3 {
				//** Act
				result, err := seater.Build(context.Background(), input)

				//** Assert
				require.NoError(t, err)
				assert.True(t, result.Satisfiable)
				assert.True(t, seater.Verify(result.Assignment, input))
			}
		})
	}
}

func TestRelaxedSeater(t *testing.T) {
	for name, newEngine := range engines {
		seater := NewRelaxedSeater(newEngine)

		t.Run(name+"/Satisfiable instances", func(t *testing.T) {
			satisfiableExecution(t, seater)
		})
		t.Run(name+"/Drops avoidance when it is the only conflict", func(t *testing.T) {
			//** Arrange
			input := newInput(t, []uint64{Sedan}, riders("alice", "bob"), map[string][]string{"alice": {"bob"}})

			//** Act
			result, err := seater.Build(context.Background(), input)

			//** Assert
			require.NoError(t, err)
			assert.True(t, result.Satisfiable)
			assert.True(t, result.Relaxed)
			require.NotNil(t, result.Diagnosis)
			assert.True(t, result.Diagnosis.AvoidanceConflict)
			assert.False(t, seater.Verify(result.Assignment, input))
			assert.True(t, seater.Verify(result.Assignment, input.WithoutAvoidance()))
		})
		t.Run(name+"/Keeps unsatisfiable base layer", func(t *testing.T) {
			//** Arrange
			input := newInput(t, []uint64{Sports, Sports}, []RawRider{
				{Name: "alice", Exclusions: []SeatCategory{Shotgun}},
				{Name: "bob"},
			}, map[string][]string{"alice": {"bob"}})

			//** Act
			result, err := seater.Build(context.Background(), input)

			//** Assert
			require.NoError(t, err)
			assert.False(t, result.Satisfiable)
			assert.False(t, result.Relaxed)
			require.NotNil(t, result.Diagnosis)
			assert.Equal(t, Diagnosis{Seatable: 1, Riders: 2}, *result.Diagnosis)
		})
	}
}

func TestSeaterCancelled(t *testing.T) {
	//** Arrange
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	seater := NewStrictSeater(func() engine.Engine { return engine.NewCNF(sat.NewGiniSolver()) })
	input := newInput(t, []uint64{Van, Van}, riders("a", "b", "c", "d", "e", "f", "g", "h", "i", "j"), nil)

	//** Act
	_, err := seater.Build(ctx, input)

	//** Assert
	assert.ErrorIs(t, err, context.Canceled)
}

func satisfiableExecution(t *testing.T, seater Seater) {
	testFiles, err := os.ReadDir(satisfiableTestDirectory)
	require.NoError(t, err)

	for _, file := range testFiles {
		//** Arrange
		input, err := InputFromFile(filepath.Join(satisfiableTestDirectory, file.Name()), DefaultCatalog())
		require.NoError(t, err, file.Name())

		//** Act
		result, err := seater.Build(context.Background(), input)

		//** Assert
		assert.NoError(t, err, file.Name())
		assert.True(t, result.Satisfiable, file.Name())
		assert.False(t, result.Relaxed, file.Name())
		assert.True(t, seater.Verify(result.Assignment, input), file.Name())
	}
}

func unsatisfiableExecution(t *testing.T, seater Seater) {
	testFiles, err := os.ReadDir(unsatisfiableTestDirectory)
	require.NoError(t, err)

	for _, file := range testFiles {
		//** Arrange
		input, err := InputFromFile(filepath.Join(unsatisfiableTestDirectory, file.Name()), DefaultCatalog())
		require.NoError(t, err, file.Name())

		//** Act
		result, err := seater.Build(context.Background(), input)

		//** Assert
		assert.NoError(t, err, file.Name())
		assert.False(t, result.Satisfiable, file.Name())
		assert.Nil(t, result.Assignment, file.Name())
		assert.NotNil(t, result.Diagnosis, file.Name())
	}
}

func riders(names ...string) []RawRider {
	riders := make([]RawRider, 0, len(names))
	for _, name := range names {
		riders = append(riders, RawRider{Name: name})
	}
	return riders
}

func newInput(t *testing.T, cars []uint64, riders []RawRider, avoid map[string][]string) ModelInput {
	t.Helper()
	input, err := ProcessRawInput(RawModelInput{Cars: cars, Riders: riders, Avoid: avoid}, DefaultCatalog())
	require.NoError(t, err)
	return input
}
