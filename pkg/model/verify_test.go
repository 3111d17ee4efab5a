package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerify(t *testing.T) {
	input := newInput(t, []uint64{Sedan, Sports}, []RawRider{
		{Name: "alice", Exclusions: []SeatCategory{Window}},
		{Name: "bob"},
		{Name: "carol"},
	}, map[string][]string{"alice": {"bob"}})

	valid := Assignment{
		{Rider: 0, Car: 1, Category: Shotgun},
		{Rider: 1, Car: 0, Category: Window},
		{Rider: 2, Car: 0, Category: Window},
	}
	assert.NoError(t, verify(valid, input))

	invalid := map[string]Assignment{
		"Missing rider": valid[:2],
		"Seated twice": {
			{Rider: 0, Car: 1, Category: Shotgun},
			{Rider: 0, Car: 0, Category: Window},
			{Rider: 2, Car: 0, Category: Window},
		},
		"Unknown car": {
			{Rider: 0, Car: 2, Category: Shotgun},
			{Rider: 1, Car: 0, Category: Window},
			{Rider: 2, Car: 0, Category: Window},
		},
		"Unknown category": {
			{Rider: 0, Car: 1, Category: 3},
			{Rider: 1, Car: 0, Category: Window},
			{Rider: 2, Car: 0, Category: Window},
		},
		"Excluded category": {
			{Rider: 0, Car: 0, Category: Window},
			{Rider: 1, Car: 1, Category: Shotgun},
			{Rider: 2, Car: 0, Category: Window},
		},
		"Over capacity": {
			{Rider: 0, Car: 0, Category: Shotgun},
			{Rider: 1, Car: 1, Category: Shotgun},
			{Rider: 2, Car: 0, Category: Shotgun},
		},
		"Not applicable category": {
			{Rider: 0, Car: 1, Category: Shotgun},
			{Rider: 1, Car: 0, Category: Window},
			{Rider: 2, Car: 1, Category: Window},
		},
		"Avoided riders share a car": {
			{Rider: 0, Car: 0, Category: Shotgun},
			{Rider: 1, Car: 0, Category: Window},
			{Rider: 2, Car: 1, Category: Shotgun},
		},
	}
	for name, assignment := range invalid {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, verify(assignment, input))
		})
	}

	t.Run("Seater verification", func(t *testing.T) {
		seater := NewStrictSeater(engines["gophersat"])

		assert.True(t, seater.Verify(valid, input))
		assert.False(t, seater.Verify(invalid["Avoided riders share a car"], input))
		assert.True(t, seater.Verify(invalid["Avoided riders share a car"], input.WithoutAvoidance()))
	})
}
