package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/limaJavier/carpool/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var plan = model.Plan{
	Satisfiable: true,
	Cars: []model.CarPlan{
		{Number: 1, Build: "Sedan", Seats: []model.CategorySeats{
			{Category: "Window", Riders: []string{"alice", "bob"}},
			{Category: "Shotgun", Riders: []string{"carol"}},
			{Category: "Middle", Riders: []string{}},
		}},
		{Number: 2, Build: "Sports Car", Seats: []model.CategorySeats{
			{Category: "Window", NotApplicable: true, Riders: []string{}},
			{Category: "Shotgun", Riders: []string{"dave"}},
			{Category: "Middle", NotApplicable: true, Riders: []string{}},
		}},
	},
}

func TestWriteText(t *testing.T) {
	t.Run("Satisfiable plan", func(t *testing.T) {
		//** Arrange
		var buffer bytes.Buffer

		//** Act
		err := WriteText(&buffer, plan, false)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, "==== Car #1: Sedan ====\n"+
			"Window: alice bob\n"+
			"Shotgun: carol\n"+
			"Middle:\n"+
			"==== Car #2: Sports Car ====\n"+
			"Window: N / A\n"+
			"Shotgun: dave\n"+
			"Middle: N / A\n", buffer.String())
	})

	t.Run("Relaxed plan", func(t *testing.T) {
		//** Arrange
		var buffer bytes.Buffer
		relaxed := plan
		relaxed.Relaxed = true

		//** Act
		err := WriteText(&buffer, relaxed, false)

		//** Assert
		require.NoError(t, err)
		assert.Contains(t, buffer.String(), Relaxed+"\n==== Car #1: Sedan ====\n")
	})

	t.Run("Unsatisfiable plan", func(t *testing.T) {
		//** Arrange
		var buffer bytes.Buffer

		//** Act
		err := WriteText(&buffer, model.Plan{}, false)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, Unsatisfiable+"\n", buffer.String())
	})

	t.Run("Colored output", func(t *testing.T) {
		//** Arrange
		var buffer bytes.Buffer

		//** Act
		err := WriteText(&buffer, plan, true)

		//** Assert
		require.NoError(t, err)
		assert.Contains(t, buffer.String(), "\x1b[")
		assert.Contains(t, buffer.String(), "Shotgun: carol\n")
	})
}

func TestWriteJSON(t *testing.T) {
	//** Arrange
	var buffer bytes.Buffer

	//** Act
	err := WriteJSON(&buffer, plan)

	//** Assert
	require.NoError(t, err)
	var decoded model.Plan
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &decoded))
	assert.Equal(t, plan, decoded)
	assert.Contains(t, buffer.String(), `"notApplicable": true`)
}

func TestOutputPath(t *testing.T) {
	now := time.Date(2024, time.March, 9, 14, 5, 7, 123456000, time.UTC)

	assert.Equal(t, "solutions/weekend.txt_03092024140507123456", OutputPath("solutions", "configs/weekend.txt", now))
}
