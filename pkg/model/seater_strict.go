package model

import (
	"context"
	"fmt"

	"github.com/limaJavier/carpool/pkg/engine"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type strictSeater struct {
	newEngine EngineFactory
	options
}

// NewStrictSeater returns a Seater that reports Unsat as soon as the fully constrained problem
// is unsatisfiable.
func NewStrictSeater(newEngine EngineFactory, opts ...Option) Seater {
	return &strictSeater{
		newEngine: newEngine,
		options:   newOptions(opts),
	}
}

func (seater *strictSeater) Build(ctx context.Context, input ModelInput) (result Result, err error) {
	ctx, span := seater.tracer.Start(ctx, "seater.Build", trace.WithAttributes(
		attribute.String("strategy", "strict"),
		attribute.Int("riders", len(input.Riders)),
		attribute.Int("cars", len(input.Cars)),
	))
	defer func() {
		endSpan(span, result, err)
	}()

	return seater.attempt(ctx, input)
}

// attempt runs one seating attempt on a fresh engine session: precheck, encode, check, then
// decode on Sat or revert to the base layer on Unsat.
func (seater *strictSeater) attempt(ctx context.Context, input ModelInput) (Result, error) {
	logger := seater.logger.WithFields(logrus.Fields{
		"riders": len(input.Riders),
		"cars":   len(input.Cars),
	})

	//** Feasibility precheck
	if err := Precheck(input); err != nil {
		return Result{}, err
	}

	//** Build constraint layers
	encoding, err := encode(seater.newEngine(), input)
	if err != nil {
		return Result{}, err
	}
	variables, constraints := encoding.engine.Stats()
	logger = logger.WithFields(logrus.Fields{
		"variables":   variables,
		"constraints": constraints,
		"avoidance":   encoding.avoidanceConstraints,
	})
	logger.Debug("constraint layers built")

	//** Check satisfiability
	status, err := encoding.engine.Check(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("cannot check satisfiability: %w", err)
	}
	logger.WithField("status", status).Debug("check finished")

	result := Result{
		Variables:   variables,
		Constraints: constraints,
	}

	switch status {
	case engine.Sat:
		assignment, err := decode(encoding)
		if err != nil {
			return Result{}, err
		}
		if err := verify(assignment, input); err != nil {
			return Result{}, InconsistencyError{Reason: fmt.Sprintf("decoded assignment is invalid: %v", err)}
		}
		result.Satisfiable = true
		result.Assignment = assignment

	case engine.Unsat:
		if err := encoding.dropAvoidance(); err != nil {
			return Result{}, fmt.Errorf("cannot revert to the base layer: %w", err)
		}
		diagnosis, err := diagnose(input)
		if err != nil {
			return Result{}, fmt.Errorf("cannot diagnose unsatisfiable seating: %w", err)
		}
		logger.WithFields(logrus.Fields{
			"seatable":          diagnosis.Seatable,
			"avoidanceConflict": diagnosis.AvoidanceConflict,
		}).Debug("seating is unsatisfiable")
		result.Diagnosis = &diagnosis

	default:
		return Result{}, fmt.Errorf("engine finished with status %v", status)
	}
	return result, nil
}

func (seater *strictSeater) Verify(assignment Assignment, input ModelInput) bool {
	if err := verify(assignment, input); err != nil {
		seater.logger.WithError(err).Debug("assignment verification failed")
		return false
	}
	return true
}

func endSpan(span trace.Span, result Result, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(
			attribute.Bool("satisfiable", result.Satisfiable),
			attribute.Bool("relaxed", result.Relaxed),
			attribute.Int("variables", result.Variables),
			attribute.Int("constraints", result.Constraints),
		)
	}
	span.End()
}
