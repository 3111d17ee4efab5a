package model

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type relaxedSeater struct {
	strict *strictSeater
}

// NewRelaxedSeater returns a Seater that, when the fully constrained problem is unsatisfiable only
// because of avoidance pairs, solves again on a fresh session without them and marks the result
// as Relaxed.
func NewRelaxedSeater(newEngine EngineFactory, opts ...Option) Seater {
	return &relaxedSeater{
		strict: &strictSeater{
			newEngine: newEngine,
			options:   newOptions(opts),
		},
	}
}

func (seater *relaxedSeater) Build(ctx context.Context, input ModelInput) (result Result, err error) {
	ctx, span := seater.strict.tracer.Start(ctx, "seater.Build", trace.WithAttributes(
		attribute.String("strategy", "relaxed"),
		attribute.Int("riders", len(input.Riders)),
		attribute.Int("cars", len(input.Cars)),
	))
	defer func() {
		endSpan(span, result, err)
	}()

	result, err = seater.strict.attempt(ctx, input)
	if err != nil || result.Satisfiable || !result.Diagnosis.AvoidanceConflict {
		return result, err
	}

	seater.strict.logger.WithField("pairs", len(input.Avoidance.Pairs())).Info("dropping avoidance pairs")

	relaxed, err := seater.strict.attempt(ctx, input.WithoutAvoidance())
	if err != nil {
		return Result{}, err
	}
	relaxed.Relaxed = relaxed.Satisfiable
	relaxed.Diagnosis = result.Diagnosis
	return relaxed, nil
}

// Verify validates the assignment against the full input, avoidance included. A relaxed
// assignment is expected to fail it when avoided riders share a car.
func (seater *relaxedSeater) Verify(assignment Assignment, input ModelInput) bool {
	return seater.strict.Verify(assignment, input)
}
