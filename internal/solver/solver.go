// Package solver abstracts the external MILP solver collaborator named
// in spec.md §1/§6: "the solver itself is an external collaborator. The
// core emits a standard MILP and consumes primal/dual values." and
// "required capability is solve(lp_problem) -> {status, primals, duals,
// objective}."
//
// Grounded on the teacher's external-collaborator-behind-one-interface
// shape (internal/domain/interfaces.go's BrokerClient/CashManager
// abstract a broker the same way Solver abstracts a solver process).
package solver

import (
	"context"

	"github.com/aristath/gridforge/internal/milp"
)

// Status is the solver's reported outcome.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	default:
		return "error"
	}
}

// Solution is what spec.md §6 calls "{status, primals, duals,
// objective}".
type Solution struct {
	Status    Status
	Primals   map[string]float64 // variable name -> value
	Duals     map[string]float64 // constraint name -> shadow price
	Objective float64
}

// Options is the "typed key-value maps per solver name" spec.md §6
// calls for: solver-specific settings (MIP gap, thread count, time
// limit) that the core passes through unopened.
type Options map[string]any

// Solver is the pluggable interface every external collaborator
// implements.
type Solver interface {
	Solve(ctx context.Context, prob *milp.LPProblem, opts Options) (Solution, error)
}

// EmitOptions controls how a problem is (re-)emitted (spec.md §4.6.6:
// "core re-emits the problem with symbolic labels when requested").
type EmitOptions struct {
	// SymbolicLabels, when true, keeps human-readable names on every
	// variable and constraint instead of substituting integer indices,
	// so an IIS-capable solver can report a readable irreducible
	// infeasible set.
	SymbolicLabels bool
}

// Retry runs Solve once, and if the solver reports infeasibility,
// retries exactly once with symbolic labels requested via reEmit — the
// "Infeasible models may be retried once with symbolic labels for
// diagnostic output" policy from spec.md §7. reEmit is a no-op hook
// here since this package doesn't own LP construction; callers
// (internal/pipeline's Run) supply it bound to a fresh Builder's Emit(opts) call.
func Retry(ctx context.Context, s Solver, prob *milp.LPProblem, opts Options, reEmit func(EmitOptions) (*milp.LPProblem, error)) (Solution, error) {
	sol, err := s.Solve(ctx, prob, opts)
	if err != nil {
		return sol, err
	}
	if sol.Status != StatusInfeasible || reEmit == nil {
		return sol, nil
	}
	symbolic, err := reEmit(EmitOptions{SymbolicLabels: true})
	if err != nil {
		return sol, nil // best-effort diagnostic re-emit; original result stands
	}
	return s.Solve(ctx, symbolic, opts)
}
