package model

import (
	"fmt"

	"github.com/limaJavier/carpool/pkg/engine"
)

// encoding is the result of translating a ModelInput into an engine: the engine itself, holding
// the base layer below a restore point and the avoidance layer above it, plus the bidirectional
// index between (rider, car, category) triples and engine variables.
type encoding struct {
	engine  engine.Engine
	state   constraintState
	indices map[engine.Var]uint64 // Inverse of state.variables

	baseConstraints      int
	avoidanceConstraints int
}

// Constraint layers, asserted in this order
var (
	baseLayer = []func(state constraintState) []engine.Constraint{
		integralityConstraints,
		singleAssignmentConstraints,
		capacityConstraints,
		exclusionConstraints,
	}
	avoidanceLayer = []func(state constraintState) []engine.Constraint{
		avoidanceConstraints,
	}
)

func encode(target engine.Engine, input ModelInput) (*encoding, error) {
	//** Extract attributes's domains
	totalRiders, totalCars, totalCategories := uint64(len(input.Riders)), uint64(len(input.Cars)), uint64(len(input.Catalog.Categories))
	indexer := newIndexer(totalRiders, totalCars, totalCategories)

	//** Declare variables in index order
	variables := make([]engine.Var, indexer.Size())
	indices := make(map[engine.Var]uint64, indexer.Size())
	for index := range indexer.Size() {
		rider, car, category := indexer.Attributes(index)
		variable := target.DeclareInt(fmt.Sprintf("occupies(%v,%d,%v)", input.Riders[rider].Name, car, input.Catalog.Categories[category]))
		variables[index] = variable
		indices[variable] = index
	}

	state := constraintState{
		input:      input,
		indexer:    indexer,
		variables:  variables,
		riders:     totalRiders,
		cars:       totalCars,
		categories: totalCategories,
	}
	encoding := &encoding{
		engine:  target,
		state:   state,
		indices: indices,
	}

	var err error
	if encoding.baseConstraints, err = assertLayer(target, baseLayer, state); err != nil {
		return nil, fmt.Errorf("cannot assert base layer: %w", err)
	}

	target.Push()

	if encoding.avoidanceConstraints, err = assertLayer(target, avoidanceLayer, state); err != nil {
		return nil, fmt.Errorf("cannot assert avoidance layer: %w", err)
	}
	return encoding, nil
}

func assertLayer(target engine.Engine, layer []func(state constraintState) []engine.Constraint, state constraintState) (int, error) {
	asserted := 0
	for _, constraints := range layer {
		for _, constraint := range constraints(state) {
			if err := target.Assert(constraint); err != nil {
				return asserted, err
			}
			asserted++
		}
	}
	return asserted, nil
}

// dropAvoidance reverts the engine to the restore point marked after the base layer.
func (encoding *encoding) dropAvoidance() error {
	if err := encoding.engine.Pop(); err != nil {
		return err
	}
	encoding.avoidanceConstraints = 0
	return nil
}
