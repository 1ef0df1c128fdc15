package milp

import (
	"sort"
	"strconv"

	"github.com/aristath/gridforge/internal/customconstraint"
)

// SetCustomConstraints attaches already-parsed custom-constraint groups
// (spec.md §6: custom_constraints/<group>/{symbol.csv, operator.csv,
// target.csv}) to the builder. Parsing the on-disk tree is the loader's
// job; this package only expands wildcards and resolves symbols to
// decision variables it already declared.
func (b *Builder) SetCustomConstraints(groups []customconstraint.Group) {
	b.customConstraints = groups
	b.sets.CustomConstraints = b.sets.CustomConstraints[:0]
	for _, g := range groups {
		b.sets.CustomConstraints = append(b.sets.CustomConstraints, g.ID)
	}
	sort.Strings(b.sets.CustomConstraints)
}

// customConstraintVarKind maps a custom-constraint symbol to the
// component category its "*" component-name wildcard ranges over, and
// to the variable-name prefix the MILP builder already uses for it
// (spec.md §4.6.4: LHS references "model_component[index_tuple]" by
// symbol, the same symbols named throughout §4.6.2).
var customConstraintVarKind = map[string]string{
	"ProvidePower":        "resource",
	"IncreaseLoad":        "resource",
	"OperationalCapacity": "asset",
	"TransmitPower":       "line",
	"CommittedUnits":      "uc_resource",
	"FuelConsumption":     "fuel_conversion_plant",
	"SocIntra":            "storage_resource",
}

// buildCustomConstraints realizes every group's wildcards and emits one
// constraint per (group, modeled year) with its declared operator and a
// penalized slack (spec.md §4.6.4/§4.6.5).
func (b *Builder) buildCustomConstraints() {
	for _, g := range b.customConstraints {
		op := customOpToMILP(g.Operator)
		for _, y := range b.sets.ModelYears {
			rows, ok := g.Rows[y]
			if !ok {
				continue
			}
			terms := b.expandCustomRows(rows, y)
			if len(terms) == 0 {
				// spec.md §4.6.4: "LHS with only integer (empty) sum is
				// skipped."
				continue
			}
			b.declare(varName("CustomConstraintSlack", g.ID, y), Continuous, 0, bigM)
			terms = append(terms, Term{Var: varName("CustomConstraintSlack", g.ID, y), Coef: policySlackSign(op)})
			b.prob.AddConstraint(Constraint{
				Name:  varName("CustomConstraint", g.ID, y),
				Terms: terms,
				Op:    op,
				RHS:   g.Target[y],
			})
			// Penalized in the objective's addSlackPenalties, alongside
			// every other slack family (spec.md §4.6.4: "Slack variables
			// with high penalty enable infeasibility diagnosis").
		}
	}
}

func customOpToMILP(o customconstraint.Operator) Op {
	switch o {
	case customconstraint.GE:
		return GE
	case customconstraint.EQ:
		return EQ
	default:
		return LE
	}
}

// expandCustomRows expands each row's component-name wildcard over the
// symbol's declared category, then its index-position wildcards over
// the rep periods/hours (the model year is fixed to y), and resolves each concrete
// combination to an already-declared variable. Combinations that don't
// resolve to a declared variable are skipped silently, matching
// spec.md §4.6.4's handling of missing combinations.
func (b *Builder) expandCustomRows(rows []customconstraint.Row, y int) []Term {
	var terms []Term
	for _, row := range rows {
		for _, component := range b.customConstraintComponents(row.Symbol, row.Component) {
			expanded := customconstraint.Expand([]customconstraint.Row{{
				Symbol:     row.Symbol,
				Component:  component,
				Indices:    row.Indices,
				Multiplier: row.Multiplier,
			}}, b.customConstraintIndexDomains())
			for _, t := range expanded {
				name := b.customConstraintVarName(t, y)
				if name == "" || !b.declared[name] {
					continue
				}
				terms = append(terms, Term{Var: name, Coef: t.Multiplier})
			}
		}
	}
	return terms
}

// customConstraintComponents resolves a row's component-name field,
// expanding "*" into every entity of the category the symbol ranges
// over (spec.md §4.6.4's Cartesian-product wildcard rule, applied to
// the dictionary key as well as the index tuple).
func (b *Builder) customConstraintComponents(symbol, component string) []string {
	if component != "*" {
		return []string{component}
	}
	switch customConstraintVarKind[symbol] {
	case "resource":
		return b.sets.Resources
	case "asset":
		return b.sets.Assets
	case "line":
		return b.sets.TransmissionLines
	case "uc_resource":
		return b.sets.UnitCommitmentRes
	case "fuel_conversion_plant":
		return b.sets.FuelConversionPlants
	case "storage_resource":
		return b.sets.StorageRes
	default:
		return nil
	}
}

// customConstraintIndexDomains supplies the wildcard domains for the
// (rep_period, hour) index positions custom constraints may reference
// after the component name (spec.md §4.6.1's REP_PERIODS/HOURS sets).
func (b *Builder) customConstraintIndexDomains() customconstraint.IndexDomain {
	return func(symbol string, position int) []string {
		switch position {
		case 0:
			return intsToStrings(b.sets.RepPeriods)
		case 1:
			return intsToStrings(b.sets.Hours)
		default:
			return nil
		}
	}
}

// customConstraintVarName resolves one expanded term to the decision
// variable name the earlier build phases registered for it, following
// each symbol's existing naming convention (varName(symbol, component,
// year[, rep, hour])).
func (b *Builder) customConstraintVarName(t customconstraint.ExpandedTerm, y int) string {
	switch t.Symbol {
	case "OperationalCapacity":
		return "" // OperationalCapacity is an expression, not a declared var, so terms naming it are dropped.
	case "ProvidePower", "IncreaseLoad", "TransmitPower", "CommittedUnits", "FuelConsumption", "SocIntra":
		if len(t.Indices) < 2 {
			return ""
		}
		rp, err1 := strconv.Atoi(t.Indices[0])
		h, err2 := strconv.Atoi(t.Indices[1])
		if err1 != nil || err2 != nil {
			return ""
		}
		return varName(t.Symbol, t.Component, y, rp, h)
	default:
		return ""
	}
}

func intsToStrings(in []int) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strconv.Itoa(v)
	}
	return out
}
