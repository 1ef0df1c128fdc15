package timeseries

import (
	"fmt"
	"time"
)

// TimepointResolver maps a (model year, representative period, hour)
// triple to the weather-year instant it represents. The temporal
// reducer implements this; timeseries only depends on the interface to
// avoid an import cycle.
type TimepointResolver interface {
	WeatherTimestamp(modelYear, repPeriod, hour int) (time.Time, bool)
}

// SliceByTimepoint returns the value a (model_year, rep_period, hour)
// triple maps to, per spec.md §4.1: "slicing by a timepoint returns the
// value at the weather-year timestamp the (rep_period_index, hour) maps
// to (via TemporalSettings)."
func (ts *Timeseries) SliceByTimepoint(r TimepointResolver, modelYear, repPeriod, hour int) (float64, bool) {
	t, ok := r.WeatherTimestamp(modelYear, repPeriod, hour)
	if !ok {
		return 0, false
	}
	if v, ok := ts.exactAt(t); ok {
		return v, true
	}
	return ts.AtOrBefore(t)
}

func (ts *Timeseries) exactAt(t time.Time) (float64, bool) {
	for i, inst := range ts.instants {
		if inst.Equal(t) {
			return ts.values[i], true
		}
	}
	return 0, false
}

// ResampleUp mutates ts in place to a higher (finer) frequency using its
// declared Upsample method, filling intermediate timestamps at the given
// step.
func (ts *Timeseries) ResampleUp(step time.Duration) error {
	if len(ts.instants) < 2 {
		return nil
	}
	if ts.Upsample == UpsampleNone {
		return fmt.Errorf("timeseries: resample_up called with no upsample method declared")
	}

	var instants []time.Time
	var values []float64
	for i := 0; i < len(ts.instants)-1; i++ {
		cur, next := ts.instants[i], ts.instants[i+1]
		curV, nextV := ts.values[i], ts.values[i+1]
		for t := cur; t.Before(next); t = t.Add(step) {
			instants = append(instants, t)
			switch ts.Upsample {
			case UpsampleFFill:
				values = append(values, curV)
			case UpsampleInterpolate:
				frac := float64(t.Sub(cur)) / float64(next.Sub(cur))
				values = append(values, curV+frac*(nextV-curV))
			}
		}
	}
	instants = append(instants, ts.instants[len(ts.instants)-1])
	values = append(values, ts.values[len(ts.values)-1])

	ts.instants, ts.values = instants, values
	if ts.Kind == KindFractional {
		ts.clipFractional()
	}
	return nil
}

// ResampleDown mutates ts in place to a lower (coarser) frequency using
// its declared Downsample method, bucketing by the given frequency label
// ("annual", "monthly", "weekly").
func (ts *Timeseries) ResampleDown(bucket string) error {
	if ts.Downsample == DownsampleNone {
		return fmt.Errorf("timeseries: resample_down called with no downsample method declared")
	}

	buckets := map[string][]int{}
	order := []string{}
	for i, t := range ts.instants {
		key := bucketKey(t, bucket)
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], i)
	}

	var instants []time.Time
	var values []float64
	for _, key := range order {
		idxs := buckets[key]
		rep := ts.instants[idxs[0]]
		var agg float64
		switch ts.Downsample {
		case DownsampleSum, DownsampleAnnual:
			for _, i := range idxs {
				agg += ts.values[i]
			}
		case DownsampleMean:
			for _, i := range idxs {
				agg += ts.values[i]
			}
			agg /= float64(len(idxs))
		case DownsampleFirst:
			agg = ts.values[idxs[0]]
		case DownsampleMonthly, DownsampleWeekly:
			for _, i := range idxs {
				agg += ts.values[i]
			}
		}
		instants = append(instants, rep)
		values = append(values, agg)
	}

	ts.instants, ts.values = instants, values
	if ts.Downsample == DownsampleAnnual {
		ts.normalizeAnnual()
	}
	if ts.Kind == KindFractional {
		ts.clipFractional()
	}
	return nil
}

func bucketKey(t time.Time, bucket string) string {
	switch bucket {
	case "annual":
		return fmt.Sprintf("%d", t.Year())
	case "monthly":
		return fmt.Sprintf("%d-%02d", t.Year(), t.Month())
	case "weekly":
		y, w := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", y, w)
	default:
		return t.Format(time.RFC3339)
	}
}

// compatible reports whether two series can be combined arithmetically.
// Month-hour and annual axes are never compatible with each other
// (spec.md §9: "reject operations across incompatible kinds, e.g.
// month-hour × annual").
func compatible(a, b *Timeseries) error {
	if a.Axis != b.Axis {
		return fmt.Errorf("timeseries: incompatible axes %v and %v", a.Axis, b.Axis)
	}
	if len(a.instants) != len(b.instants) {
		return fmt.Errorf("timeseries: misaligned indices (%d vs %d points)", len(a.instants), len(b.instants))
	}
	for i := range a.instants {
		if !a.instants[i].Equal(b.instants[i]) {
			return fmt.Errorf("timeseries: misaligned indices at position %d", i)
		}
	}
	return nil
}

func resultKind(a, b Kind) Kind {
	if a == KindFractional && b == KindFractional {
		return KindFractional
	}
	return KindNumeric
}

// Add returns a new series that is the pointwise sum of ts and other.
// Both series must share an axis and already-aligned indices.
func (ts *Timeseries) Add(other *Timeseries) (*Timeseries, error) {
	if err := compatible(ts, other); err != nil {
		return nil, fmt.Errorf("add: %w", err)
	}
	values := make([]float64, len(ts.values))
	for i := range values {
		values[i] = ts.values[i] + other.values[i]
	}
	out := &Timeseries{Kind: resultKind(ts.Kind, other.Kind), Axis: ts.Axis, instants: ts.Instants(), values: values}
	if out.Kind == KindFractional {
		out.clipFractional()
	}
	return out, nil
}

// Mul returns a new series that is the pointwise product of ts and other.
func (ts *Timeseries) Mul(other *Timeseries) (*Timeseries, error) {
	if err := compatible(ts, other); err != nil {
		return nil, fmt.Errorf("mul: %w", err)
	}
	values := make([]float64, len(ts.values))
	for i := range values {
		values[i] = ts.values[i] * other.values[i]
	}
	out := &Timeseries{Kind: resultKind(ts.Kind, other.Kind), Axis: ts.Axis, instants: ts.Instants(), values: values}
	if out.Kind == KindFractional {
		out.clipFractional()
	}
	return out, nil
}

// ScaleBy returns a new series with every value multiplied by a scalar.
func (ts *Timeseries) ScaleBy(factor float64) *Timeseries {
	values := make([]float64, len(ts.values))
	for i, v := range ts.values {
		values[i] = v * factor
	}
	out := &Timeseries{Kind: ts.Kind, Axis: ts.Axis, instants: ts.Instants(), values: values}
	if out.Kind == KindFractional {
		out.clipFractional()
	}
	return out
}
