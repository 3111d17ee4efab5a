package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/limaJavier/carpool/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDirectory = "../../pkg/model/testdata/"

func TestRun(t *testing.T) {
	t.Run("Satisfiable files", func(t *testing.T) {
		//** Arrange
		out := t.TempDir()
		files := []string{testDirectory + "satisfiable/road_trip.txt", testDirectory + "satisfiable/commute.json"}

		//** Act
		code := run(append([]string{"--out", out, "--format", "json"}, files...))

		//** Assert
		assert.Equal(t, satisfiable, code)
		written, err := os.ReadDir(out)
		require.NoError(t, err)
		require.Len(t, written, 2)
		for _, entry := range written {
			bytes, err := os.ReadFile(filepath.Join(out, entry.Name()))
			require.NoError(t, err)
			var plan model.Plan
			require.NoError(t, json.Unmarshal(bytes, &plan))
			assert.True(t, plan.Satisfiable)
		}
	})

	t.Run("Unsatisfiable file", func(t *testing.T) {
		//** Arrange
		out := t.TempDir()

		//** Act
		code := run([]string{"--out", out, "--solver", "gini", testDirectory + "unsatisfiable/rivals.yaml"})

		//** Assert
		assert.Equal(t, unsatisfiable, code)
		written, err := os.ReadDir(out)
		require.NoError(t, err)
		require.Len(t, written, 1)
		bytes, err := os.ReadFile(filepath.Join(out, written[0].Name()))
		require.NoError(t, err)
		assert.Equal(t, "The provided constraints are unsatisfiable.\n", string(bytes))
	})

	t.Run("Relaxed strategy", func(t *testing.T) {
		//** Act
		code := run([]string{"--out", t.TempDir(), "--strategy", "relaxed", testDirectory + "unsatisfiable/rivals.yaml"})

		//** Assert
		assert.Equal(t, satisfiable, code)
	})

	t.Run("Invalid file among valid ones", func(t *testing.T) {
		//** Arrange
		out := t.TempDir()
		files := []string{testDirectory + "invalid/missing_end.txt", testDirectory + "satisfiable/road_trip.txt", testDirectory + "satisfiable/airport.yaml"}

		//** Act
		code := run(append([]string{"--out", out}, files...))

		//** Assert
		assert.Equal(t, failure, code)
		written, err := os.ReadDir(out)
		require.NoError(t, err)
		assert.Len(t, written, 2)
	})

	invalid := map[string][]string{
		"No files":         {},
		"Unknown solver":   {"--solver", "z3", testDirectory + "satisfiable/commute.json"},
		"Unknown strategy": {"--strategy", "lenient", testDirectory + "satisfiable/commute.json"},
		"Unknown format":   {"--format", "xml", testDirectory + "satisfiable/commute.json"},
		"Invalid file":     {"--out", os.TempDir(), testDirectory + "invalid/missing_end.txt"},
	}
	for name, args := range invalid {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, failure, run(args))
		})
	}
}
