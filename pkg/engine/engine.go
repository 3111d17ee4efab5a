// Package engine provides the constraint-solving collaborator used by the seating model:
// integer variables restricted to {0, 1}, linear constraints over them, restore points and
// a satisfiability check that yields a valuation.
package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Var identifies a variable declared in an Engine. Variables are numbered densely from 0
// in declaration order.
type Var int

type Status int

const (
	Unknown Status = iota
	Sat
	Unsat
)

func (s Status) String() string {
	switch s {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

type Op int

const (
	Eq Op = iota
	Le
	Ge
)

func (op Op) String() string {
	switch op {
	case Le:
		return "<="
	case Ge:
		return ">="
	default:
		return "="
	}
}

var (
	ErrNoRestorePoint  = errors.New("no restore point to revert to")
	ErrNotSatisfied    = errors.New("values are only available after a satisfiable check")
	ErrUnknownVariable = errors.New("unknown variable")
)

// Engine is the capability set the encoder relies on. Implementations are not safe for
// concurrent use; every solve attempt is expected to own its Engine.
type Engine interface {
	// DeclareInt declares a new integer variable. Engines in this package only admit the values 0 and 1.
	DeclareInt(name string) Var
	// Assert adds a constraint on top of the current restore point
	Assert(constraint Constraint) error
	// Push marks a restore point
	Push()
	// Pop discards every constraint asserted since the last restore point
	Pop() error
	// Check decides the satisfiability of every constraint currently asserted
	Check(ctx context.Context) (Status, error)
	// Value returns the value of v in the model found by the last satisfiable Check
	Value(v Var) (int, error)
	// Stats returns the number of declared variables and asserted constraints
	Stats() (variables, constraints int)
}

type Constraint interface {
	variables() []Var
	String() string
}

type Term struct {
	Var  Var
	Coef int
}

// Sum returns the terms of an unweighted sum over vars.
func Sum(vars ...Var) []Term {
	return lo.Map(vars, func(v Var, _ int) Term { return Term{Var: v, Coef: 1} })
}

// Linear states that the weighted sum of Terms compares to Bound through Op.
type Linear struct {
	Terms []Term
	Op    Op
	Bound int
}

func (l Linear) variables() []Var {
	return lo.Map(l.Terms, func(term Term, _ int) Var { return term.Var })
}

func (l Linear) String() string {
	if len(l.Terms) == 0 {
		return fmt.Sprintf("0 %v %d", l.Op, l.Bound)
	}
	terms := lo.Map(l.Terms, func(term Term, _ int) string {
		if term.Coef == 1 {
			return fmt.Sprintf("x%d", term.Var)
		}
		return fmt.Sprintf("%d*x%d", term.Coef, term.Var)
	})
	return fmt.Sprintf("%v %v %d", strings.Join(terms, " + "), l.Op, l.Bound)
}

// normalized merges repeated variables and drops zero coefficients. The result is sorted by variable.
func (l Linear) normalized() Linear {
	coefs := make(map[Var]int, len(l.Terms))
	for _, term := range l.Terms {
		coefs[term.Var] += term.Coef
	}
	terms := make([]Term, 0, len(coefs))
	for v, coef := range coefs {
		if coef != 0 {
			terms = append(terms, Term{Var: v, Coef: coef})
		}
	}
	slices.SortFunc(terms, func(a, b Term) int { return int(a.Var) - int(b.Var) })
	return Linear{Terms: terms, Op: l.Op, Bound: l.Bound}
}

// Domain is the disjunction Var = Values[0] or Var = Values[1] or ...
type Domain struct {
	Var    Var
	Values []int
}

// Binary restricts v to {0, 1}.
func Binary(v Var) Domain {
	return Domain{Var: v, Values: []int{0, 1}}
}

func (d Domain) variables() []Var {
	return []Var{d.Var}
}

func (d Domain) String() string {
	return strings.Join(lo.Map(d.Values, func(value int, _ int) string {
		return fmt.Sprintf("x%d = %d", d.Var, value)
	}), " or ")
}

// allows reports which boolean values the domain admits.
func (d Domain) allows() (zero, one bool) {
	return slices.Contains(d.Values, 0), slices.Contains(d.Values, 1)
}
