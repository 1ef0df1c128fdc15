package solver

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/gridforge/internal/milp"
)

// wireProblem and wireSolution are the msgpack wire shapes exchanged
// with a SubprocessAdapter's child process: a flattened, solver-
// agnostic view of milp.LPProblem/Solution that doesn't leak this
// package's Go types across the process boundary.
type wireProblem struct {
	Vars        []wireVar        `msgpack:"vars"`
	Constraints []wireConstraint `msgpack:"constraints"`
	Objective   []wireTerm       `msgpack:"objective"`
}

type wireVar struct {
	Name  string  `msgpack:"name"`
	Kind  int     `msgpack:"kind"`
	Lower float64 `msgpack:"lower"`
	Upper float64 `msgpack:"upper"`
}

type wireConstraint struct {
	Name  string     `msgpack:"name"`
	Terms []wireTerm `msgpack:"terms"`
	Op    int        `msgpack:"op"`
	RHS   float64    `msgpack:"rhs"`
}

type wireTerm struct {
	Var  string  `msgpack:"var"`
	Coef float64 `msgpack:"coef"`
}

type wireSolution struct {
	Status    int                `msgpack:"status"`
	Primals   map[string]float64 `msgpack:"primals"`
	Duals     map[string]float64 `msgpack:"duals"`
	Objective float64            `msgpack:"objective"`
}

// SubprocessAdapter is a concrete out-of-process Solver implementation:
// it encodes the LPProblem to msgpack over a child process's stdin and
// decodes its Solution from stdout. This is the one point where the
// MILP crosses a process boundary to the external solver collaborator
// named in spec.md §6.
type SubprocessAdapter struct {
	// Command is the solver executable, e.g. a vendored CBC/HiGHS
	// wrapper that speaks this package's msgpack protocol on stdio.
	Command string
	Args    []string
}

// Solve encodes prob, invokes Command, and decodes its stdout.
func (a *SubprocessAdapter) Solve(ctx context.Context, prob *milp.LPProblem, opts Options) (Solution, error) {
	wp := toWireProblem(prob)
	payload, err := msgpack.Marshal(wp)
	if err != nil {
		return Solution{}, fmt.Errorf("solver: encoding problem: %w", err)
	}

	cmd := exec.CommandContext(ctx, a.Command, a.Args...)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Solution{}, fmt.Errorf("solver: subprocess %s failed: %w (stderr: %s)", a.Command, err, stderr.String())
	}

	var ws wireSolution
	if err := msgpack.Unmarshal(stdout.Bytes(), &ws); err != nil {
		return Solution{}, fmt.Errorf("solver: decoding solution: %w", err)
	}

	return fromWireSolution(ws), nil
}

func toWireProblem(prob *milp.LPProblem) wireProblem {
	wp := wireProblem{
		Vars:        make([]wireVar, len(prob.Vars)),
		Constraints: make([]wireConstraint, len(prob.Constraints)),
		Objective:   make([]wireTerm, len(prob.Objective.Terms)),
	}
	for i, v := range prob.Vars {
		wp.Vars[i] = wireVar{Name: v.Name, Kind: int(v.Kind), Lower: v.Lower, Upper: v.Upper}
	}
	for i, c := range prob.Constraints {
		wp.Constraints[i] = wireConstraint{Name: c.Name, Op: int(c.Op), RHS: c.RHS, Terms: toWireTerms(c.Terms)}
	}
	for i, t := range prob.Objective.Terms {
		wp.Objective[i] = wireTerm{Var: t.Var, Coef: t.Coef}
	}
	return wp
}

func toWireTerms(terms []milp.Term) []wireTerm {
	out := make([]wireTerm, len(terms))
	for i, t := range terms {
		out[i] = wireTerm{Var: t.Var, Coef: t.Coef}
	}
	return out
}

func fromWireSolution(ws wireSolution) Solution {
	return Solution{
		Status:    Status(ws.Status),
		Primals:   ws.Primals,
		Duals:     ws.Duals,
		Objective: ws.Objective,
	}
}
