// Package component implements the typed entity registry described in
// spec.md §3/§4.2: components with a unique name, linkage-group maps, and
// validated scalar or Timeseries attributes.
package component

import (
	"fmt"

	"github.com/aristath/gridforge/internal/timeseries"
)

// AttrType is the declared type of a Component attribute. Unknown
// attributes are a validation error rather than silently accepted
// (spec.md §9: "replace dynamic attribute access with a generated,
// typed schema per component kind").
type AttrType int

const (
	AttrScalarNumeric AttrType = iota
	AttrScalarFractional
	AttrScalarBoolean
	AttrScalarInteger
	AttrScalarString
	AttrSeriesNumeric
	AttrSeriesFractional
	AttrSeriesBoolean
)

// Value holds one attribute value, scalar or Timeseries, tagged by the
// AttrType it was parsed as.
type Value struct {
	Type   AttrType
	Number float64
	Text   string
	Series *timeseries.Timeseries
}

// AsFloat returns the scalar numeric/fractional/integer/boolean value.
func (v Value) AsFloat() (float64, error) {
	switch v.Type {
	case AttrScalarNumeric, AttrScalarFractional, AttrScalarInteger, AttrScalarBoolean:
		return v.Number, nil
	default:
		return 0, fmt.Errorf("value: attribute is a timeseries, not a scalar")
	}
}

// AsSeries returns the Timeseries value.
func (v Value) AsSeries() (*timeseries.Timeseries, error) {
	if v.Series == nil {
		return nil, fmt.Errorf("value: attribute is a scalar, not a timeseries")
	}
	return v.Series, nil
}

// IsSeries reports whether the value carries a Timeseries.
func (v Value) IsSeries() bool { return v.Series != nil }
