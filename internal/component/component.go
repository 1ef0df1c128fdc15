package component

import (
	"fmt"
	"sort"

	"github.com/aristath/gridforge/internal/linkage"
	"github.com/aristath/gridforge/internal/timeseries"
)

// Component is the base entity from spec.md §3: a unique name, typed
// attributes, and linkage-group maps published by the linkage graph.
type Component struct {
	Name       string
	Kind       Kind
	attributes map[string]Value
	links      map[string][]*linkage.Linkage // keyed by link kind name

	// results and resultSeries hold solver-derived values written back
	// by the result binder (spec.md §4.7) after System is otherwise
	// frozen (spec.md §5: "only its optimization-result attributes are
	// written after solve"). They bypass the input Schema entirely —
	// results are derived, never user-declared, so there is nothing to
	// validate against.
	results      map[string]float64
	resultSeries map[string]*timeseries.Timeseries

	// Facets only apply to KindElccSurface (spec.md §3's "set of linear
	// facets over one or more axes"); modeled as a dedicated field
	// rather than forced into the scalar/timeseries attribute schema,
	// since a facet is itself a small structured record, not one value.
	Facets []Facet
}

// Facet is one linear piece of an ELCC surface: intercept + per-axis
// coefficient, where each axis sums selected resources' reliability
// capacities weighted by a per-resource axis multiplier (spec.md §3/§4.6.4).
type Facet struct {
	Intercept float64
	AxisCoefs map[string]float64 // axis name -> coefficient
}

// New constructs an empty Component of the given kind.
func New(name string, kind Kind) *Component {
	return &Component{
		Name:       name,
		Kind:       kind,
		attributes: map[string]Value{},
		links:      map[string][]*linkage.Linkage{},
	}
}

// Set assigns an attribute value, rejecting names not in the kind's
// schema and types that don't match the declared AttrType.
func (c *Component) Set(attr string, v Value) error {
	schema := Schema(c.Kind)
	spec, ok := schema[attr]
	if !ok {
		return fmt.Errorf("component %s: unknown attribute %q for kind %s", c.Name, attr, c.Kind)
	}
	if err := checkType(spec.Type, v); err != nil {
		return fmt.Errorf("component %s: attribute %q: %w", c.Name, attr, err)
	}
	c.attributes[attr] = v
	return nil
}

func checkType(declared AttrType, v Value) error {
	isScalar := declared == AttrScalarNumeric || declared == AttrScalarFractional ||
		declared == AttrScalarBoolean || declared == AttrScalarInteger || declared == AttrScalarString
	if isScalar && v.IsSeries() {
		return fmt.Errorf("expected a scalar, got a timeseries")
	}
	if !isScalar && !v.IsSeries() {
		return fmt.Errorf("expected a timeseries, got a scalar")
	}
	return nil
}

// Get returns a previously set attribute value.
func (c *Component) Get(attr string) (Value, bool) {
	v, ok := c.attributes[attr]
	return v, ok
}

// MustFloat returns a scalar attribute's float value, or fallback if unset.
func (c *Component) MustFloat(attr string, fallback float64) float64 {
	v, ok := c.Get(attr)
	if !ok {
		return fallback
	}
	f, err := v.AsFloat()
	if err != nil {
		return fallback
	}
	return f
}

// MustBool returns a scalar boolean attribute, or fallback if unset.
func (c *Component) MustBool(attr string, fallback bool) bool {
	return c.MustFloat(attr, boolToFloat(fallback)) != 0
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// MustString returns a scalar string attribute, or fallback if unset.
func (c *Component) MustString(attr string, fallback string) string {
	v, ok := c.Get(attr)
	if !ok || v.Type != AttrScalarString {
		return fallback
	}
	return v.Text
}

// AttachLink publishes a linkage into this component's per-kind map, per
// spec.md §4.3 step 4: "Publish the linkage into both endpoints' per-kind
// maps under the tuple (from_name, to_name)."
func (c *Component) AttachLink(linkKind string, l *linkage.Linkage) {
	c.links[linkKind] = append(c.links[linkKind], l)
}

// Links returns every linkage published under the given kind name.
func (c *Component) Links(linkKind string) []*linkage.Linkage {
	return c.links[linkKind]
}

// LinkKinds returns the sorted set of link-kind names this component has
// at least one linkage under (spec.md invariant 1: "the union of its
// linkage maps contains exactly the links declared in the linkage
// registry").
func (c *Component) LinkKinds() []string {
	out := make([]string, 0, len(c.links))
	for k := range c.links {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// AddFacet appends an ELCC facet. Only meaningful for KindElccSurface.
func (c *Component) AddFacet(f Facet) {
	c.Facets = append(c.Facets, f)
}

// SetResult records one annualized or scalar solver-derived value
// (spec.md §4.7). Idempotent: a later call for the same attribute
// overwrites, matching the read-only-accessor resolution of spec.md
// §9(a) — callers compute once per run and bind once.
func (c *Component) SetResult(attr string, v float64) {
	if c.results == nil {
		c.results = map[string]float64{}
	}
	c.results[attr] = v
}

// Result returns a previously bound scalar result value.
func (c *Component) Result(attr string) (float64, bool) {
	v, ok := c.results[attr]
	return v, ok
}

// SetResultSeries records a timepoint-indexed solver-derived series
// (spec.md §4.7: "Timepoint-indexed prices... are also unweighted per
// rep-period weight and periods-per-year so users see $/MWh").
func (c *Component) SetResultSeries(attr string, ts *timeseries.Timeseries) {
	if c.resultSeries == nil {
		c.resultSeries = map[string]*timeseries.Timeseries{}
	}
	c.resultSeries[attr] = ts
}

// ResultSeries returns a previously bound timepoint-indexed result.
func (c *Component) ResultSeries(attr string) (*timeseries.Timeseries, bool) {
	ts, ok := c.resultSeries[attr]
	return ts, ok
}
