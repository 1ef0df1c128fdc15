package system

import (
	"fmt"
	"math"

	"github.com/aristath/gridforge/internal/component"
)

// DefaultRevalidators returns the per-kind cross-entity checks from
// spec.md §3's invariants 2-6 and §4.4's examples ("a Plant must have
// at least one linked Zone", "a PRM policy enforces §3 invariants
// 5-6"), plus a check that every ELCC surface facet references at
// least one axis.
func DefaultRevalidators() map[component.Kind]func(*component.Component, *System) error {
	return map[component.Kind]func(*component.Component, *System) error{
		component.KindPlant:                        requireLinkedZone,
		component.KindResource:                      revalidateResource,
		component.KindTxPath:                        revalidateTxPath,
		component.KindPolicyPlanningReserveMargin:    revalidatePRM,
		component.KindElccSurface:                   revalidateElccSurface,
	}
}

func requireLinkedZone(c *component.Component, s *System) error {
	if len(c.Links("asset_zone")) == 0 {
		return fmt.Errorf("%s: a Plant must have at least one linked Zone", c.Name)
	}
	return nil
}

// revalidateResource enforces invariants 2 and 3: a storage resource's
// duration and planned_storage_capacity must agree within 0.1%, and a
// resource cannot be both linear-UC and integer-UC.
func revalidateResource(c *component.Component, s *System) error {
	linearUC := c.MustBool("linear_uc", false)
	integerUC := c.MustBool("integer_uc", false)
	if linearUC && integerUC {
		return fmt.Errorf("%s: a Resource cannot simultaneously be linear-UC and integer-UC", c.Name)
	}

	duration := c.MustFloat("duration", 0)
	if duration <= 0 {
		return nil // not a storage resource
	}
	capSeries, hasCap := c.Get("planned_installed_capacity")
	socSeries, hasSOC := c.Get("planned_storage_capacity")
	if !hasCap || !hasSOC {
		return nil
	}
	capTS, err := capSeries.AsSeries()
	if err != nil || capTS.Len() == 0 {
		return nil
	}
	socTS, err := socSeries.AsSeries()
	if err != nil || socTS.Len() == 0 {
		return nil
	}
	_, cap := capTS.At(capTS.Len() - 1)
	_, soc := socTS.At(socTS.Len() - 1)
	expected := cap * duration
	if expected == 0 {
		return nil
	}
	if math.Abs(expected-soc)/math.Abs(expected) > 0.001 {
		return fmt.Errorf("%s: planned_installed_capacity * duration (%.4f) diverges from planned_storage_capacity (%.4f) by more than 0.1%%", c.Name, expected, soc)
	}
	return nil
}

// revalidateTxPath enforces invariant 4: a TxPath's zone set contains
// exactly one from and exactly one to.
func revalidateTxPath(c *component.Component, s *System) error {
	zones := c.Links("tx_zone")
	fromCount, toCount := 0, 0
	for _, l := range zones {
		if l.Label("role", "") == "from" {
			fromCount++
		}
		if l.Label("role", "") == "to" {
			toCount++
		}
	}
	if fromCount != 1 || toCount != 1 {
		return fmt.Errorf("%s: a TxPath must have exactly one from-zone and one to-zone, got %d/%d", c.Name, fromCount, toCount)
	}
	return nil
}

// revalidatePRM enforces invariants 5 and 6: no resource may carry
// both an NQC multiplier and ELCC-facet membership under the same PRM
// policy, and every resource linked to the policy must have at least
// one contribution channel.
func revalidatePRM(c *component.Component, s *System) error {
	for _, l := range c.Links("policy_resource") {
		res, ok := s.Component(l.To)
		if !ok {
			continue
		}
		_, hasNQC := res.Get("nqc_multiplier")
		inFacet := len(res.Links("elcc_axis_membership")) > 0
		if hasNQC && inFacet {
			return fmt.Errorf("%s: resource %s carries both an NQC multiplier and ELCC-facet membership", c.Name, res.Name)
		}
		if !hasNQC && !inFacet {
			return fmt.Errorf("%s: resource %s has no reliability contribution channel (NQC or ELCC)", c.Name, res.Name)
		}
	}
	return nil
}

// revalidateElccSurface rejects a facet that references no axis. Facets
// over one or more axes pass; their axes are not compared with the axes
// the surface's elcc_axis_membership links name.
func revalidateElccSurface(c *component.Component, s *System) error {
	for _, f := range c.Facets {
		if len(f.AxisCoefs) == 1 {
			continue
		}
		if len(f.AxisCoefs) == 0 {
			return fmt.Errorf("%s: a facet must reference at least one axis", c.Name)
		}
	}
	return nil
}
