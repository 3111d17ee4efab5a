package engine

import (
	"context"
	"fmt"
)

// backend decides a flat set of constraints over variables 0..variables-1.
type backend interface {
	solve(ctx context.Context, variables int, constraints []Constraint) (Status, []int, error)
}

// session keeps declarations and layered constraints for a backend that solves from scratch
// on every Check, which makes restore points trivial to honour.
type session struct {
	backend backend
	names   []string
	layers  [][]Constraint // layers[0] is never popped
	status  Status
	values  []int
}

func newSession(backend backend) *session {
	return &session{
		backend: backend,
		layers:  [][]Constraint{{}},
	}
}

func (s *session) DeclareInt(name string) Var {
	s.names = append(s.names, name)
	s.invalidate()
	return Var(len(s.names) - 1)
}

func (s *session) Assert(constraint Constraint) error {
	for _, v := range constraint.variables() {
		if v < 0 || int(v) >= len(s.names) {
			return fmt.Errorf("%w: x%d in %v", ErrUnknownVariable, v, constraint)
		}
	}
	top := len(s.layers) - 1
	s.layers[top] = append(s.layers[top], constraint)
	s.invalidate()
	return nil
}

func (s *session) Push() {
	s.layers = append(s.layers, []Constraint{})
}

func (s *session) Pop() error {
	if len(s.layers) == 1 {
		return ErrNoRestorePoint
	}
	s.layers = s.layers[:len(s.layers)-1]
	s.invalidate()
	return nil
}

func (s *session) Check(ctx context.Context) (Status, error) {
	s.invalidate()
	if err := ctx.Err(); err != nil {
		return Unknown, err
	}
	status, values, err := s.backend.solve(ctx, len(s.names), s.constraints())
	if err != nil {
		return Unknown, err
	}
	s.status, s.values = status, values
	return status, nil
}

func (s *session) Value(v Var) (int, error) {
	if s.status != Sat {
		return 0, ErrNotSatisfied
	} else if v < 0 || int(v) >= len(s.values) {
		return 0, fmt.Errorf("%w: x%d", ErrUnknownVariable, v)
	}
	return s.values[v], nil
}

func (s *session) Stats() (variables, constraints int) {
	return len(s.names), len(s.constraints())
}

func (s *session) constraints() []Constraint {
	all := make([]Constraint, 0)
	for _, layer := range s.layers {
		all = append(all, layer...)
	}
	return all
}

func (s *session) invalidate() {
	s.status = Unknown
	s.values = nil
}
