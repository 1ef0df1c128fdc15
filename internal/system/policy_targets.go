package system

import (
	"fmt"

	"github.com/aristath/gridforge/internal/component"
	"github.com/aristath/gridforge/internal/timeseries"
)

// ResolveUpdateableTargets computes the absolute target timeseries for
// every policy whose target_units is "relative" (spec.md §4.4:
// "any policy whose target is declared relative... computes its
// absolute target from linked load components once loads are
// resampled"). It must run after the temporal reducer has rescaled
// load profiles, since a relative target is a percentage of resampled
// sales or system peak.
//
// target_basis selects what the percentage is taken of:
//   - "sales": the sum of annual_energy_forecast across every Load
//     linked to the policy via "policy_load".
//   - "system_load": the system-wide peak across every linked Load's
//     resampled profile.
func ResolveUpdateableTargets(s *System) error {
	for _, name := range s.Names() {
		c, _ := s.Component(name)
		if !c.Kind.IsPolicy() {
			continue
		}
		if c.MustString("target_units", "absolute") != "relative" {
			continue
		}

		pct, ok := c.Get("target")
		if !ok {
			continue
		}
		pctSeries, err := pct.AsSeries()
		if err != nil {
			return fmt.Errorf("policy %s: relative target must be a timeseries of fractions: %w", c.Name, err)
		}

		basisValue, err := policyBasis(c, s)
		if err != nil {
			return err
		}

		years := pctSeries.Instants()
		values := make([]float64, len(years))
		for i, v := range pctSeries.Values() {
			values[i] = v * basisValue
		}
		abs, err := timeseries.New(timeseries.KindNumeric, timeseries.AxisModeledYear, years, values)
		if err != nil {
			return fmt.Errorf("policy %s: building absolute target: %w", c.Name, err)
		}
		if err := c.Set("target", component.Value{Type: component.AttrSeriesNumeric, Series: abs}); err != nil {
			return fmt.Errorf("policy %s: writing resolved target: %w", c.Name, err)
		}
	}
	return nil
}

func policyBasis(c *component.Component, s *System) (float64, error) {
	basis := c.MustString("target_basis", "sales")
	var total float64
	found := false
	for _, l := range c.Links("policy_load") {
		load, ok := s.Component(l.To)
		if !ok {
			continue
		}
		switch basis {
		case "sales":
			v, ok := load.Get("annual_energy_forecast")
			if !ok {
				continue
			}
			ts, err := v.AsSeries()
			if err != nil {
				return 0, err
			}
			if ts.Len() > 0 {
				_, last := ts.At(ts.Len() - 1)
				total += last
				found = true
			}
		case "system_load":
			v, ok := load.Get("profile")
			if !ok {
				continue
			}
			ts, err := v.AsSeries()
			if err != nil {
				return 0, err
			}
			for _, val := range ts.Values() {
				if val > total {
					total = val
				}
			}
			found = true
		default:
			return 0, fmt.Errorf("policy %s: unrecognized target_basis %q", c.Name, basis)
		}
	}
	if !found {
		return 0, fmt.Errorf("policy %s: relative target but no linked Load contributed a %s basis", c.Name, basis)
	}
	return total, nil
}
