package milp

import (
	"sort"

	"github.com/aristath/gridforge/internal/component"
	"github.com/aristath/gridforge/internal/system"
	"github.com/aristath/gridforge/internal/temporal"
)

// AdjacentPair is one chrono-adjacent (rep_a, rep_b) pair within a
// model year (spec.md §4.6.1: "ADJACENT_REP_PERIODS(year)").
type AdjacentPair struct {
	RepA, RepB int
}

// Sets holds every index set spec.md §4.6.1 names, built once from the
// System and the temporal reducer's Result. Iteration over every named
// set is sorted lexicographically so repeated runs on the same inputs
// produce byte-identical MILPs (spec.md §5's ordering guarantee).
type Sets struct {
	ModelYears []int
	RepPeriods []int // 0..len(temporal.Result.RepPeriods)-1
	Hours      []int // 0..hoursPerRepPeriod-1
	Vintages   []int // == ModelYears

	// InterPeriodActive[y] is true when inter-period dynamics are
	// enabled for model year y (spec.md §4.6.1: CHRONO_PERIODS depends
	// on this per year).
	InterPeriodActive map[int]bool
	// ChronoPeriods[y] is the chronological-period index set for year y:
	// the full chrono set when inter-period dynamics are active, else
	// it equals RepPeriods (spec.md §4.6.1).
	ChronoPeriods map[int][]int
	// AdjacentPairs[y] is the set of chrono-adjacent (rep_a, rep_b)
	// pairs for year y.
	AdjacentPairs map[int][]AdjacentPair

	Assets               []string
	Plants               []string
	Resources            []string
	TransmissionLines    []string
	CandidateFuels       []string
	FinalFuels           []string
	BiomassResources     []string
	FuelZones            []string
	FuelTransportations  []string
	FuelStorages         []string
	FuelConversionPlants []string
	Zones                []string
	Reserves             []string
	Policies             []string
	ElccSurfaces         []string
	UnitCommitmentRes    []string
	CurtailableRes       []string
	StorageRes           []string
	CustomConstraints    []string
}

// BuildSets assembles every index set from the validated System and the
// temporal reducer's Result.
func BuildSets(sys *system.System, temp *temporal.Result, interPeriodByYear map[int]bool) *Sets {
	s := &Sets{InterPeriodActive: interPeriodByYear, ChronoPeriods: map[int][]int{}, AdjacentPairs: map[int][]AdjacentPair{}}

	s.RepPeriods = rangeInts(len(temp.RepPeriods))
	if len(temp.RepPeriods) > 0 {
		s.Hours = rangeInts(len(temp.RepPeriods[0].Hours))
	}

	modelYears := map[int]struct{}{}
	for _, c := range allComponents(sys) {
		if c.Kind == component.KindLoad {
			if v, ok := c.Get("annual_energy_forecast"); ok {
				if ts, err := v.AsSeries(); err == nil {
					for _, t := range ts.Instants() {
						modelYears[t.Year()] = struct{}{}
					}
				}
			}
		}
	}
	for y := range modelYears {
		s.ModelYears = append(s.ModelYears, y)
	}
	sort.Ints(s.ModelYears)
	s.Vintages = append([]int(nil), s.ModelYears...)

	for _, y := range s.ModelYears {
		if s.InterPeriodActive[y] {
			s.ChronoPeriods[y] = rangeInts(len(temp.ChronoPeriods))
			s.AdjacentPairs[y] = adjacentPairs(temp)
		} else {
			s.ChronoPeriods[y] = s.RepPeriods
		}
	}

	s.Assets = sortedNamesOfKinds(sys, component.KindAsset, component.KindPlant, component.KindResource, component.KindTxPath,
		component.KindFuelConversionPlant, component.KindFuelStorage, component.KindFuelTransportation, component.KindElectrolyzer)
	s.Plants = sortedNamesOfKinds(sys, component.KindPlant)
	s.Resources = sortedNamesOfKinds(sys, component.KindResource)
	s.TransmissionLines = sortedNamesOfKinds(sys, component.KindTxPath)
	s.CandidateFuels = sortedNamesOfKinds(sys, component.KindCandidateFuel)
	s.FinalFuels = sortedNamesOfKinds(sys, component.KindFinalFuel)
	s.BiomassResources = sortedNamesOfKinds(sys, component.KindBiomassResource)
	s.FuelZones = sortedNamesOfKinds(sys, component.KindFuelZone)
	s.FuelTransportations = sortedNamesOfKinds(sys, component.KindFuelTransportation)
	s.FuelStorages = sortedNamesOfKinds(sys, component.KindFuelStorage)
	s.FuelConversionPlants = sortedNamesOfKinds(sys, component.KindFuelConversionPlant)
	s.Zones = sortedNamesOfKinds(sys, component.KindZone)
	s.Reserves = sortedNamesOfKinds(sys, component.KindReserve)
	s.Policies = sortedNamesOfKinds(sys, component.KindPolicyAnnualEnergyStandard, component.KindPolicyHourlyEnergyStandard,
		component.KindPolicyAnnualEmissions, component.KindPolicyPlanningReserveMargin)
	s.ElccSurfaces = sortedNamesOfKinds(sys, component.KindElccSurface)

	for _, name := range s.Resources {
		c, _ := sys.Component(name)
		if c.MustBool("linear_uc", false) || c.MustBool("integer_uc", false) {
			s.UnitCommitmentRes = append(s.UnitCommitmentRes, name)
		}
		if c.MustBool("is_curtailable", false) {
			s.CurtailableRes = append(s.CurtailableRes, name)
		}
		if c.MustFloat("duration", 0) > 0 {
			s.StorageRes = append(s.StorageRes, name)
		}
	}

	return s
}

func allComponents(sys *system.System) []*component.Component {
	names := sys.Names()
	out := make([]*component.Component, 0, len(names))
	for _, n := range names {
		c, _ := sys.Component(n)
		out = append(out, c)
	}
	return out
}

func sortedNamesOfKinds(sys *system.System, kinds ...component.Kind) []string {
	set := map[component.Kind]bool{}
	for _, k := range kinds {
		set[k] = true
	}
	var out []string
	for _, n := range sys.Names() {
		c, _ := sys.Component(n)
		if set[c.Kind] {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

func rangeInts(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// adjacentPairs derives chrono-adjacent (rep_a, rep_b) pairs from the
// reducer's chrono ordering and chrono->rep mapping.
func adjacentPairs(temp *temporal.Result) []AdjacentPair {
	seen := map[AdjacentPair]bool{}
	var out []AdjacentPair
	for i := 0; i+1 < len(temp.MapToRepPeriods); i++ {
		a, b := temp.MapToRepPeriods[i], temp.MapToRepPeriods[i+1]
		pair := AdjacentPair{RepA: a, RepB: b}
		if !seen[pair] {
			seen[pair] = true
			out = append(out, pair)
		}
	}
	return out
}
