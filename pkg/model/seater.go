package model

import (
	"context"
	"io"

	"github.com/limaJavier/carpool/pkg/engine"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Seater interface {
	Build(
		ctx context.Context,
		input ModelInput,
	) (Result, error)

	Verify(
		assignment Assignment,
		input ModelInput,
	) bool
}

// Result of a seating attempt. Assignment is set only when Satisfiable, Diagnosis only when the
// fully constrained problem was not.
type Result struct {
	Satisfiable bool
	Relaxed     bool // Satisfiable only after dropping every avoidance pair
	Assignment  Assignment
	Diagnosis   *Diagnosis

	Variables   int
	Constraints int
}

// EngineFactory creates the independent engine session each attempt owns.
type EngineFactory func() engine.Engine

type Option func(*options)

type options struct {
	logger logrus.FieldLogger
	tracer trace.Tracer
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

func newOptions(opts []Option) options {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	o := options{
		logger: discard,
		tracer: otel.Tracer("github.com/limaJavier/carpool/pkg/model"),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
