// Package customconstraint implements the user-defined linear
// constraints described in spec.md §3/§4.6.4/§6: an operator, an RHS
// target, and an LHS dictionary (component name -> table of
// (index1, index2, ..., multiplier) rows) with `*` wildcard expansion
// over any index set.
//
// Grounded on spec.md §4.6.4's "Custom constraints" paragraph and §6's
// on-disk layout (custom_constraints/<group>/{<symbol>.csv, operator.csv,
// target.csv}, rows keyed by a "Sum Range ID" encoding the constraint id
// and modeled year). Operator spellings (<=, >=, ==, gt, lt, eq) are
// confirmed against _examples/original_source/new_modeling_toolkit/
// system/policy.py's ConstraintOperator enum, consulted because spec.md
// is silent on the exact accepted strings.
package customconstraint

import (
	"fmt"
	"sort"
	"strings"
)

// Operator is one of {<=, =, >=}, accepting the original system's
// broader set of input spellings (spec.md §6: "operator column is
// <=|>=|==|gt|lt|eq").
type Operator int

const (
	LE Operator = iota
	EQ
	GE
)

// ParseOperator accepts every spelling spec.md §6 documents.
func ParseOperator(s string) (Operator, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "<=", "le", "lt":
		return LE, nil
	case ">=", "ge", "gt":
		return GE, nil
	case "==", "=", "eq":
		return EQ, nil
	default:
		return LE, fmt.Errorf("customconstraint: unrecognized operator %q", s)
	}
}

func (o Operator) String() string {
	switch o {
	case LE:
		return "<="
	case EQ:
		return "=="
	case GE:
		return ">="
	default:
		return "?"
	}
}

// Row is one LHS summand: `multiplier * model_component[index_tuple]`
// against a named model symbol (e.g. "ProvidePower", "OperationalCapacity").
// An index entry of "*" requests wildcard expansion over that position's
// declared index set (spec.md §4.6.4: "Wildcards expand to the Cartesian
// product of the referenced index sets").
type Row struct {
	Symbol     string
	Component  string
	Indices    []string // positional index tuple, "*" marks a wildcard position
	Multiplier float64
}

// Group is one constraint_group directory: a single named custom
// constraint per modeled year, built from its symbol tables, declared
// operator, and target (spec.md §6's custom_constraints/<group>/ layout).
type Group struct {
	ID       string
	Operator Operator
	// Target[modelYear] is the RHS for that year.
	Target map[int]float64
	// Rows[modelYear] is the set of LHS rows for that year, decoded from
	// the group's "Sum Range ID" (which encodes constraint id + modeled
	// year per spec.md §6).
	Rows map[int][]Row
}

// ExpandedTerm is one concrete (no-wildcard) LHS summand after wildcard
// expansion, ready to be resolved to a decision-variable name by the
// MILP builder.
type ExpandedTerm struct {
	Symbol     string
	Component  string
	Indices    []string
	Multiplier float64
}

// IndexDomain resolves the concrete values a wildcard at the given
// position of the given symbol may range over (e.g. every resource
// name, every rep-period index as a string). The MILP builder supplies
// this from its own Sets, keeping this package independent of milp's
// index-set types.
type IndexDomain func(symbol string, position int) []string

// Expand realizes every wildcard in a Group's modeled-year rows against
// the supplied index domains, returning one ExpandedTerm per concrete
// combination. Missing combinations (callers that filter a domain
// further downstream) are the MILP builder's concern, not this
// package's — per spec.md §4.6.4, "missing combinations are skipped
// silently" happens when the builder cannot resolve a variable name,
// not here.
func Expand(rows []Row, domains IndexDomain) []ExpandedTerm {
	var out []ExpandedTerm
	for _, r := range rows {
		for _, combo := range expandRow(r, domains) {
			out = append(out, combo)
		}
	}
	return out
}

func expandRow(r Row, domains IndexDomain) []ExpandedTerm {
	combos := [][]string{{}}
	for pos, idx := range r.Indices {
		var next [][]string
		values := []string{idx}
		if idx == "*" {
			values = domains(r.Symbol, pos)
			sort.Strings(values) // lexicographic emission order, spec.md §5
		}
		for _, prefix := range combos {
			for _, v := range values {
				entry := append(append([]string(nil), prefix...), v)
				next = append(next, entry)
			}
		}
		combos = next
	}
	out := make([]ExpandedTerm, 0, len(combos))
	for _, c := range combos {
		out = append(out, ExpandedTerm{Symbol: r.Symbol, Component: r.Component, Indices: c, Multiplier: r.Multiplier})
	}
	return out
}
