package model

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// ConfigError reports a malformed configuration. Line is 0 when the source has no lines.
type ConfigError struct {
	Line    int
	Subject string
	Reason  string
}

func (err ConfigError) Error() string {
	if err.Line > 0 {
		return fmt.Sprintf("invalid configuration at line %d (%v): %v", err.Line, err.Subject, err.Reason)
	}
	return fmt.Sprintf("invalid configuration (%v): %v", err.Subject, err.Reason)
}

type CapacityExceededError struct {
	Riders uint64
	Seats  uint64
}

func (err CapacityExceededError) Error() string {
	return fmt.Sprintf("invalid assignment: number of riders to seat, %d, is more than the number of seats available, %d", err.Riders, err.Seats)
}

type MalformedExclusionError struct {
	Rider      string
	Exclusions []SeatCategory
	Categories int // Valid exclusions range over [0, Categories)
}

func (err MalformedExclusionError) Error() string {
	if len(err.Exclusions) > MaxExclusions {
		return fmt.Sprintf("too many exclusions specified for %q: %d given, the maximum is %d", err.Rider, len(err.Exclusions), MaxExclusions)
	}
	invalid := lo.Filter(err.Exclusions, func(category SeatCategory, _ int) bool {
		return category < 0 || int(category) >= err.Categories
	})
	values := strings.Join(lo.Map(invalid, func(category SeatCategory, _ int) string { return fmt.Sprint(int(category)) }), ", ")
	return fmt.Sprintf("%v isn't a valid seat category for %q: exclusions must be between 0 and %d", values, err.Rider, err.Categories-1)
}

// InconsistencyError means the engine produced a valuation the encoding cannot have admitted.
// It always points at a defect, never at an infeasible input.
type InconsistencyError struct {
	Rider  string
	Reason string
}

func (err InconsistencyError) Error() string {
	if err.Rider == "" {
		return fmt.Sprintf("internal consistency failure: %v", err.Reason)
	}
	return fmt.Sprintf("internal consistency failure for rider %q: %v", err.Rider, err.Reason)
}
