package component

// Kind enumerates the concrete entity kinds from spec.md §3.
type Kind int

const (
	KindAsset Kind = iota
	KindPlant
	KindResource
	KindTxPath
	KindFuelConversionPlant
	KindFuelStorage
	KindFuelTransportation
	KindElectrolyzer
	KindZone
	KindFuelZone
	KindLoad
	KindCandidateFuel
	KindFinalFuel
	KindBiomassResource
	KindReserve
	KindPolicyAnnualEnergyStandard
	KindPolicyHourlyEnergyStandard
	KindPolicyAnnualEmissions
	KindPolicyPlanningReserveMargin
	KindElccSurface
	KindOutageDistribution
	KindAssetGroup
	KindTranche
)

var kindNames = map[Kind]string{
	KindAsset:                       "Asset",
	KindPlant:                       "Plant",
	KindResource:                    "Resource",
	KindTxPath:                      "TxPath",
	KindFuelConversionPlant:         "FuelConversionPlant",
	KindFuelStorage:                 "FuelStorage",
	KindFuelTransportation:          "FuelTransportation",
	KindElectrolyzer:                "Electrolyzer",
	KindZone:                        "Zone",
	KindFuelZone:                    "FuelZone",
	KindLoad:                        "Load",
	KindCandidateFuel:               "CandidateFuel",
	KindFinalFuel:                   "FinalFuel",
	KindBiomassResource:             "BiomassResource",
	KindReserve:                     "Reserve",
	KindPolicyAnnualEnergyStandard:  "AnnualEnergyStandard",
	KindPolicyHourlyEnergyStandard:  "HourlyEnergyStandard",
	KindPolicyAnnualEmissions:       "AnnualEmissionsPolicy",
	KindPolicyPlanningReserveMargin: "PlanningReserveMargin",
	KindElccSurface:                 "ElccSurface",
	KindOutageDistribution:          "OutageDistribution",
	KindAssetGroup:                  "AssetGroup",
	KindTranche:                     "Tranche",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "Unknown"
}

// IsAsset reports whether a Kind is (or specializes) Asset — the things
// with cost and a buildable/retirable quantity.
func (k Kind) IsAsset() bool {
	switch k {
	case KindAsset, KindPlant, KindResource, KindTxPath, KindFuelConversionPlant,
		KindFuelStorage, KindFuelTransportation, KindElectrolyzer:
		return true
	default:
		return false
	}
}

// IsPolicy reports whether a Kind is a Policy subtype.
func (k Kind) IsPolicy() bool {
	switch k {
	case KindPolicyAnnualEnergyStandard, KindPolicyHourlyEnergyStandard,
		KindPolicyAnnualEmissions, KindPolicyPlanningReserveMargin:
		return true
	default:
		return false
	}
}
