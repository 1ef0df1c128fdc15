package component

// AttrSpec declares the type and declared unit for one named attribute
// of a Kind. Unknown attribute names are rejected by Component.Set at
// construction time (spec.md §9).
type AttrSpec struct {
	Type     AttrType
	Unit     string
	Required bool
}

// Schema returns the full attribute schema for a Kind: the union of the
// groups that apply to it. Specializations of Asset (Plant, Resource,
// TxPath, the fuel-side asset kinds) all carry the common Asset group.
func Schema(k Kind) map[string]AttrSpec {
	out := map[string]AttrSpec{}
	merge := func(group map[string]AttrSpec) {
		for name, spec := range group {
			out[name] = spec
		}
	}

	if k.IsAsset() {
		merge(assetAttrs())
	}
	switch k {
	case KindResource:
		merge(resourceAttrs())
		merge(storageAttrs())
		merge(unitCommitmentAttrs())
		merge(reliabilityAttrs())
	case KindTxPath:
		merge(txPathAttrs())
	case KindFuelConversionPlant, KindFuelStorage, KindFuelTransportation, KindElectrolyzer:
		merge(fuelAssetAttrs())
	case KindLoad:
		merge(loadAttrs())
	case KindZone, KindFuelZone:
		merge(zoneAttrs())
	case KindCandidateFuel, KindFinalFuel, KindBiomassResource:
		merge(fuelCommodityAttrs())
		if k == KindFinalFuel {
			merge(finalFuelAttrs())
		}
	case KindReserve:
		merge(reserveAttrs())
	case KindOutageDistribution:
		merge(outageAttrs())
	case KindPolicyAnnualEnergyStandard, KindPolicyHourlyEnergyStandard,
		KindPolicyAnnualEmissions, KindPolicyPlanningReserveMargin:
		merge(policyAttrs())
		if k == KindPolicyHourlyEnergyStandard {
			merge(map[string]AttrSpec{
				"hourly_penalty": {Type: AttrSeriesNumeric, Unit: "$/MWh"},
			})
		}
	case KindAssetGroup, KindTranche:
		merge(map[string]AttrSpec{
			"group_total_potential": {Type: AttrScalarNumeric, Unit: "MW"},
		})
	}
	return out
}

func assetAttrs() map[string]AttrSpec {
	return map[string]AttrSpec{
		"planned_installed_capacity": {Type: AttrSeriesNumeric, Unit: "MW", Required: true},
		"planned_retirable":          {Type: AttrScalarBoolean, Unit: ""},
		"physical_lifetime":          {Type: AttrScalarInteger, Unit: "h"},
		"potential":                  {Type: AttrSeriesNumeric, Unit: "MW"},
		"capital_cost":               {Type: AttrSeriesNumeric, Unit: "$/MW"},
		"fixed_om_cost":              {Type: AttrSeriesNumeric, Unit: "$/MW"},
		"min_cumulative_new_build":   {Type: AttrScalarNumeric, Unit: "MW"},
		"min_operational_capacity":   {Type: AttrScalarNumeric, Unit: "MW"},
		"can_build_new":              {Type: AttrScalarBoolean, Unit: ""},
		"can_retire":                 {Type: AttrScalarBoolean, Unit: ""},
		"unit_size":                  {Type: AttrScalarNumeric, Unit: "MW"},
		"integer_build":              {Type: AttrScalarBoolean, Unit: ""},
		"resource_potential_penalty": {Type: AttrScalarNumeric, Unit: "$/MW"},
	}
}

func resourceAttrs() map[string]AttrSpec {
	return map[string]AttrSpec{
		"variable_cost":                    {Type: AttrSeriesNumeric, Unit: "$/MWh"},
		"heat_rate":                        {Type: AttrScalarNumeric, Unit: "MMBtu/MWh"},
		"provide_power_potential_profile":  {Type: AttrSeriesFractional, Unit: ""},
		"provide_power_minimum_profile":    {Type: AttrSeriesFractional, Unit: ""},
		"is_variable":                      {Type: AttrScalarBoolean, Unit: ""},
		"is_curtailable":                   {Type: AttrScalarBoolean, Unit: ""},
		"is_shed_dr":                       {Type: AttrScalarBoolean, Unit: ""},
		"annual_shed_call_budget":          {Type: AttrScalarNumeric, Unit: "h"},
		"daily_budget":                     {Type: AttrSeriesFractional, Unit: ""},
		"annual_budget":                    {Type: AttrSeriesFractional, Unit: ""},
		"monthly_budget":                   {Type: AttrSeriesNumeric, Unit: "MWh"},
		"increase_load_potential_profile":  {Type: AttrSeriesFractional, Unit: ""},
		"adjacency_window_hours":           {Type: AttrScalarInteger, Unit: "h"},
	}
}

func storageAttrs() map[string]AttrSpec {
	return map[string]AttrSpec{
		"duration":                     {Type: AttrScalarNumeric, Unit: "h"},
		"planned_storage_capacity":     {Type: AttrSeriesNumeric, Unit: "MWh"},
		"charging_efficiency":          {Type: AttrScalarFractional, Unit: ""},
		"discharging_efficiency":       {Type: AttrScalarFractional, Unit: ""},
		"parasitic_loss":               {Type: AttrScalarFractional, Unit: ""},
		"soc_min_fraction":             {Type: AttrScalarFractional, Unit: ""},
		"inter_period_dynamics_active": {Type: AttrScalarBoolean, Unit: ""},
	}
}

func unitCommitmentAttrs() map[string]AttrSpec {
	return map[string]AttrSpec{
		"linear_uc":             {Type: AttrScalarBoolean, Unit: ""},
		"integer_uc":            {Type: AttrScalarBoolean, Unit: ""},
		"min_stable_level":      {Type: AttrScalarFractional, Unit: ""},
		"min_up_time":           {Type: AttrScalarNumeric, Unit: "h"},
		"min_down_time":         {Type: AttrScalarNumeric, Unit: "h"},
		"start_cost":            {Type: AttrScalarNumeric, Unit: "$"},
		"shutdown_cost":         {Type: AttrScalarNumeric, Unit: "$"},
		"ramp_rate_1hr":         {Type: AttrScalarFractional, Unit: ""},
		"ramp_rate_2hr":         {Type: AttrScalarFractional, Unit: ""},
		"ramp_rate_3hr":         {Type: AttrScalarFractional, Unit: ""},
		"ramp_rate_4hr":         {Type: AttrScalarFractional, Unit: ""},
	}
}

func reliabilityAttrs() map[string]AttrSpec {
	return map[string]AttrSpec{
		"nqc_multiplier":         {Type: AttrScalarFractional, Unit: ""},
		"deliverability_status":  {Type: AttrScalarString, Unit: ""},
		"emission_rate_per_mwh":  {Type: AttrScalarNumeric, Unit: "tCO2"},
	}
}

func txPathAttrs() map[string]AttrSpec {
	return map[string]AttrSpec{
		"forward_rating": {Type: AttrScalarFractional, Unit: ""},
		"reverse_rating": {Type: AttrScalarFractional, Unit: ""},
		"emission_rate":  {Type: AttrScalarNumeric, Unit: "tCO2"},
	}
}

func fuelAssetAttrs() map[string]AttrSpec {
	return map[string]AttrSpec{
		"conversion_efficiency": {Type: AttrScalarFractional, Unit: ""},
		"variable_cost":         {Type: AttrSeriesNumeric, Unit: "$/MMBtu"},
	}
}

func loadAttrs() map[string]AttrSpec {
	return map[string]AttrSpec{
		"profile":                 {Type: AttrSeriesNumeric, Unit: "MW", Required: true},
		"annual_energy_forecast":  {Type: AttrSeriesNumeric, Unit: "MWh"},
	}
}

func zoneAttrs() map[string]AttrSpec {
	return map[string]AttrSpec{
		"description": {Type: AttrScalarString, Unit: ""},
	}
}

func fuelCommodityAttrs() map[string]AttrSpec {
	return map[string]AttrSpec{
		"price":               {Type: AttrSeriesNumeric, Unit: "$/MMBtu"},
		"feedstock_limit":     {Type: AttrScalarNumeric, Unit: "MMBtu"},
		"pathway_efficiency":  {Type: AttrScalarFractional, Unit: ""},
		"emission_rate_mmbtu": {Type: AttrScalarNumeric, Unit: "tCO2"},
	}
}

// finalFuelAttrs is scoped to KindFinalFuel only: demand is a
// consumption requirement, not a commodity property shared with
// CandidateFuel/BiomassResource's supply-side attributes.
func finalFuelAttrs() map[string]AttrSpec {
	return map[string]AttrSpec{
		"demand": {Type: AttrSeriesNumeric, Unit: "MMBtu"},
	}
}

func reserveAttrs() map[string]AttrSpec {
	return map[string]AttrSpec{
		"flat_requirement":        {Type: AttrSeriesNumeric, Unit: "MW"},
		"pct_of_zonal_gross_load": {Type: AttrScalarFractional, Unit: ""},
	}
}

func outageAttrs() map[string]AttrSpec {
	return map[string]AttrSpec{
		"forced_outage_rate": {Type: AttrScalarFractional, Unit: ""},
		"mean_outage_hours":  {Type: AttrScalarNumeric, Unit: "h"},
	}
}

func policyAttrs() map[string]AttrSpec {
	return map[string]AttrSpec{
		"target":       {Type: AttrSeriesNumeric, Unit: ""},
		"adjustment":   {Type: AttrSeriesNumeric, Unit: ""},
		"target_basis": {Type: AttrScalarString, Unit: ""}, // "sales" | "system_load"
		"target_units": {Type: AttrScalarString, Unit: ""}, // "relative" | "absolute"
		"operator":     {Type: AttrScalarString, Unit: ""}, // ">=" | "<=" | "=="
	}
}
