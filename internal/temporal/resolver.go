package temporal

import "time"

// WeatherTimestamp implements timeseries.TimepointResolver: it maps a
// (model_year, rep_period, hour) triple to the weather-year instant the
// representative period's hour stands in for (spec.md §4.1). The
// representative-period structure itself doesn't vary by model year in
// this reducer (inter-period toggling only changes which chronological
// periods feed the MILP's adjacency constraints, not the rep periods'
// own timestamps), so modelYear is accepted for interface symmetry but
// unused here.
func (r *Result) WeatherTimestamp(modelYear, repPeriod, hour int) (time.Time, bool) {
	_ = modelYear
	if repPeriod < 0 || repPeriod >= len(r.RepPeriods) {
		return time.Time{}, false
	}
	rp := r.RepPeriods[repPeriod]
	if hour < 0 || hour >= len(rp.Hours) {
		return time.Time{}, false
	}
	return rp.Hours[hour], true
}
