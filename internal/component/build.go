package component

import (
	"fmt"
	"time"

	"github.com/aristath/gridforge/internal/apperrors"
	"github.com/aristath/gridforge/internal/timeseries"
)

// Build constructs a Component from raw rows grouped by attribute name,
// applying scenario resolution per spec.md §4.2. Dereferencing a
// file-reference row's CSV contents is the tabular-input reader's job
// (an external collaborator per spec.md §1/§6); Build expects rows
// handed to it to already carry literal values, and records a
// validation error if it's handed an unresolved file reference.
//
// Every failure is appended to col rather than returned immediately, so
// a caller can validate every attribute of a component before deciding
// whether to abort (spec.md §7).
func Build(name string, kind Kind, rowsByAttr map[string][]Row, scenarioPriority []string, col *apperrors.Collector) *Component {
	c := New(name, kind)
	schema := Schema(kind)

	for attr, rows := range rowsByAttr {
		spec, ok := schema[attr]
		if !ok {
			col.Add(name, "unknown-attribute", fmt.Sprintf("attribute %q is not declared for kind %s", attr, kind))
			continue
		}

		resolved, err := ResolveAttributeRows(rows, scenarioPriority)
		if err != nil {
			col.Add(name, "scenario-resolution", fmt.Sprintf("%s.%s: %v", name, attr, err))
			continue
		}

		v, err := buildValue(spec, resolved)
		if err != nil {
			col.Add(name, "attribute-type", fmt.Sprintf("%s.%s: %v", name, attr, err))
			continue
		}
		if err := c.Set(attr, v); err != nil {
			col.Add(name, "attribute-type", err.Error())
			continue
		}
	}

	for attr, spec := range schema {
		if spec.Required {
			if _, ok := c.Get(attr); !ok {
				col.Add(name, "missing-required", fmt.Sprintf("%s: required attribute %q not set", name, attr))
			}
		}
	}

	return c
}

func isScalarType(t AttrType) bool {
	return t == AttrScalarNumeric || t == AttrScalarFractional ||
		t == AttrScalarBoolean || t == AttrScalarInteger || t == AttrScalarString
}

func buildValue(spec AttrSpec, rows []Row) (Value, error) {
	if isScalarType(spec.Type) {
		if len(rows) == 0 {
			return Value{}, fmt.Errorf("no rows to build a scalar from")
		}
		if rows[0].Timestamp != nil {
			return Value{}, fmt.Errorf("scalar attribute given a timestamped row")
		}
		return scalarFromRow(spec, rows[0])
	}

	for _, r := range rows {
		if r.Timestamp == nil {
			return Value{}, fmt.Errorf("timeseries attribute given an unresolved file reference")
		}
	}

	kind := timeseries.KindNumeric
	switch spec.Type {
	case AttrSeriesFractional:
		kind = timeseries.KindFractional
	case AttrSeriesBoolean:
		kind = timeseries.KindBoolean
	}

	ts, err := buildSeries(kind, spec.Unit, rows)
	if err != nil {
		return Value{}, err
	}
	return Value{Type: spec.Type, Series: ts}, nil
}

func scalarFromRow(spec AttrSpec, r Row) (Value, error) {
	switch spec.Type {
	case AttrScalarNumeric:
		f, err := ParseFloat(r.Value, spec.Unit, r.Unit)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: spec.Type, Number: f}, nil
	case AttrScalarFractional:
		f, err := ParseFloat(r.Value, spec.Unit, r.Unit)
		if err != nil {
			return Value{}, err
		}
		if f < 0 {
			f = 0
		} else if f > 1 {
			f = 1
		}
		return Value{Type: spec.Type, Number: f}, nil
	case AttrScalarInteger:
		n, err := ParseInt(r.Value)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: spec.Type, Number: float64(n)}, nil
	case AttrScalarBoolean:
		b, err := ParseBool(r.Value)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: spec.Type, Number: boolToFloat(b)}, nil
	case AttrScalarString:
		return Value{Type: spec.Type, Text: r.Value}, nil
	default:
		return Value{}, fmt.Errorf("unsupported scalar type")
	}
}

func buildSeries(kind timeseries.Kind, unit string, rows []Row) (*timeseries.Timeseries, error) {
	instants := make([]time.Time, len(rows))
	values := make([]float64, len(rows))
	for i, r := range rows {
		instants[i] = *r.Timestamp
		f, err := ParseFloat(r.Value, unit, r.Unit)
		if err != nil {
			return nil, err
		}
		values[i] = f
	}
	return timeseries.New(kind, timeseries.AxisWeatherYear, instants, values)
}
