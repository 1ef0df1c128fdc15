// Package timeseries implements the semantically typed, ordered series
// described in spec.md §3/§4.1: numeric, fractional ([0,1]) and boolean
// values keyed by instants, with declared resample methods and axis
// kind. Operator overloading is deliberately not used (spec.md §9):
// arithmetic is exposed as explicit methods that align indices and
// refuse to combine incompatible semantic kinds.
package timeseries

import (
	"fmt"
	"sort"
	"time"
)

// Kind is the semantic value type of a Timeseries.
type Kind int

const (
	// KindNumeric admits any real value.
	KindNumeric Kind = iota
	// KindFractional is clipped to [0, 1] after every transform.
	KindFractional
	// KindBoolean admits only 0/1 (true/false).
	KindBoolean
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindFractional:
		return "fractional"
	case KindBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// AxisKind distinguishes what a Timeseries' index actually represents.
type AxisKind int

const (
	AxisWeatherYear AxisKind = iota
	AxisModeledYear
	AxisMonthHour
	AxisSeasonHour
	AxisMonthly
)

// UpsampleMethod controls how gaps are filled when resampling to a
// higher frequency.
type UpsampleMethod int

const (
	UpsampleNone UpsampleMethod = iota
	UpsampleFFill
	UpsampleInterpolate
)

// DownsampleMethod controls how points are aggregated when resampling
// to a lower frequency.
type DownsampleMethod int

const (
	DownsampleNone DownsampleMethod = iota
	DownsampleSum
	DownsampleMean
	DownsampleAnnual
	DownsampleMonthly
	DownsampleWeekly
	DownsampleFirst
)

// Timeseries is an ordered, semantically typed sequence of values keyed
// by timestamp.
type Timeseries struct {
	Kind         Kind
	Axis         AxisKind
	DefaultFreq  time.Duration
	Upsample     UpsampleMethod
	Downsample   DownsampleMethod
	instants     []time.Time
	values       []float64
}

// New builds a Timeseries from parallel instant/value slices. Instants
// need not be pre-sorted; New sorts them and enforces the per-Kind and
// per-Axis invariants from spec.md §3/§4.1.
func New(kind Kind, axis AxisKind, instants []time.Time, values []float64) (*Timeseries, error) {
	if len(instants) != len(values) {
		return nil, fmt.Errorf("timeseries: %d instants but %d values", len(instants), len(values))
	}

	ts := &Timeseries{Kind: kind, Axis: axis}
	pairs := make([]point, len(instants))
	for i := range instants {
		pairs[i] = point{t: instants[i], v: values[i]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].t.Before(pairs[j].t) })

	ts.instants = make([]time.Time, len(pairs))
	ts.values = make([]float64, len(pairs))
	for i, p := range pairs {
		ts.instants[i] = p.t
		ts.values[i] = p.v
	}

	if axis == AxisModeledYear && kind != KindBoolean {
		// MODELED_YEAR axes (e.g. modeled_years mask) are boolean by
		// construction elsewhere; nothing to normalize here, but the
		// annual normalization below still applies when Downsample is
		// DownsampleAnnual regardless of axis.
	}

	if ts.Downsample == DownsampleAnnual {
		ts.normalizeAnnual()
	}
	if axis == AxisMonthHour && len(ts.instants) != 0 && len(ts.instants) != 288 {
		return nil, fmt.Errorf("timeseries: month-hour axis requires exactly 288 points, got %d", len(ts.instants))
	}

	if kind == KindFractional {
		ts.clipFractional()
	}
	if kind == KindBoolean {
		if err := ts.validateBoolean(); err != nil {
			return nil, err
		}
	}

	return ts, nil
}

type point struct {
	t time.Time
	v float64
}

// Len returns the number of points.
func (ts *Timeseries) Len() int { return len(ts.instants) }

// At returns the (timestamp, value) pair at index i.
func (ts *Timeseries) At(i int) (time.Time, float64) { return ts.instants[i], ts.values[i] }

// Values returns a copy of the underlying value slice.
func (ts *Timeseries) Values() []float64 {
	out := make([]float64, len(ts.values))
	copy(out, ts.values)
	return out
}

// Instants returns a copy of the underlying instant slice.
func (ts *Timeseries) Instants() []time.Time {
	out := make([]time.Time, len(ts.instants))
	copy(out, ts.instants)
	return out
}

func (ts *Timeseries) clipFractional() {
	for i, v := range ts.values {
		if v < 0 {
			ts.values[i] = 0
		} else if v > 1 {
			ts.values[i] = 1
		}
	}
}

func (ts *Timeseries) validateBoolean() error {
	for _, v := range ts.values {
		if v != 0 && v != 1 {
			return fmt.Errorf("timeseries: boolean series admits only 0/1, got %v", v)
		}
	}
	return nil
}

// normalizeAnnual enforces that a DownsampleAnnual series carries
// exactly one point per calendar year, normalized to January 1 of that
// year (spec.md §4.1: "assigning non-annual timestamps to an `annual`
// series normalizes them to January 1 of each calendar year").
func (ts *Timeseries) normalizeAnnual() {
	seen := map[int]int{} // year -> index into a compacted slice
	var instants []time.Time
	var values []float64
	for i, t := range ts.instants {
		y := t.Year()
		jan1 := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
		if idx, ok := seen[y]; ok {
			// Last value assigned to a given calendar year wins; callers
			// are expected to have already resolved scenario precedence
			// before constructing the Timeseries (spec.md §4.2).
			values[idx] = ts.values[i]
			continue
		}
		seen[y] = len(instants)
		instants = append(instants, jan1)
		values = append(values, ts.values[i])
	}
	ts.instants = instants
	ts.values = values
}

// SliceByYear returns all points whose timestamp falls within the given
// calendar year.
func (ts *Timeseries) SliceByYear(year int) *Timeseries {
	var instants []time.Time
	var values []float64
	for i, t := range ts.instants {
		if t.Year() == year {
			instants = append(instants, t)
			values = append(values, ts.values[i])
		}
	}
	out := &Timeseries{Kind: ts.Kind, Axis: ts.Axis, DefaultFreq: ts.DefaultFreq,
		Upsample: ts.Upsample, Downsample: ts.Downsample, instants: instants, values: values}
	return out
}

// AtOrBefore returns the value in effect at instant t: the value of the
// latest point at or before t. ok is false if t precedes every point.
func (ts *Timeseries) AtOrBefore(t time.Time) (value float64, ok bool) {
	idx := sort.Search(len(ts.instants), func(i int) bool { return ts.instants[i].After(t) })
	if idx == 0 {
		return 0, false
	}
	return ts.values[idx-1], true
}
