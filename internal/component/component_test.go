package component

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/gridforge/internal/linkage"
	"github.com/aristath/gridforge/internal/timeseries"
)

func TestSetRejectsAnUndeclaredAttribute(t *testing.T) {
	c := New("zone_1", KindZone)
	err := c.Set("not_in_schema", Value{Type: AttrScalarString, Text: "x"})
	assert.Error(t, err)
}

func TestSetRejectsASeriesForAScalarSchemaField(t *testing.T) {
	c := New("zone_1", KindZone)
	ts, err := timeseries.New(timeseries.KindNumeric, timeseries.AxisModeledYear, []time.Time{time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}, []float64{1})
	require.NoError(t, err)

	err = c.Set("description", Value{Type: AttrScalarString, Series: ts})
	assert.Error(t, err, "description is declared scalar; a non-nil Series must be rejected")
}

func TestSetRejectsAScalarForASeriesSchemaField(t *testing.T) {
	c := New("load_1", KindLoad)
	err := c.Set("profile", Value{Type: AttrSeriesNumeric, Number: 5})
	assert.Error(t, err, "profile is declared a series; a nil Series must be rejected")
}

func TestSetThenGetRoundTrips(t *testing.T) {
	c := New("zone_1", KindZone)
	require.NoError(t, c.Set("description", Value{Type: AttrScalarString, Text: "northern interconnect"}))

	v, ok := c.Get("description")
	require.True(t, ok)
	assert.Equal(t, "northern interconnect", v.Text)
}

func TestMustFloatFallsBackWhenUnset(t *testing.T) {
	c := New("res_1", KindResource)
	assert.Equal(t, 7.5, c.MustFloat("heat_rate", 7.5))

	require.NoError(t, c.Set("heat_rate", Value{Type: AttrScalarNumeric, Number: 9.8}))
	assert.Equal(t, 9.8, c.MustFloat("heat_rate", 7.5))
}

func TestMustBoolReadsBackSetScalar(t *testing.T) {
	c := New("res_1", KindResource)
	assert.False(t, c.MustBool("is_curtailable", false))

	require.NoError(t, c.Set("is_curtailable", Value{Type: AttrScalarBoolean, Number: 1}))
	assert.True(t, c.MustBool("is_curtailable", false))
}

func TestAttachLinkAndLinksRoundTrip(t *testing.T) {
	c := New("plant_a", KindPlant)
	l := &linkage.Linkage{Kind: "to_zone", From: "plant_a", To: "zone_1"}
	c.AttachLink("to_zone", l)

	links := c.Links("to_zone")
	require.Len(t, links, 1)
	assert.Same(t, l, links[0])
	assert.Empty(t, c.Links("policy_load"))
}

func TestLinkKindsIsSortedAndDeduplicatedByKind(t *testing.T) {
	c := New("plant_a", KindPlant)
	c.AttachLink("to_zone", &linkage.Linkage{Kind: "to_zone"})
	c.AttachLink("plant_fuel", &linkage.Linkage{Kind: "plant_fuel"})
	c.AttachLink("plant_fuel", &linkage.Linkage{Kind: "plant_fuel"})

	assert.Equal(t, []string{"plant_fuel", "to_zone"}, c.LinkKinds())
}

func TestSetResultOverwritesAndResultReadsBack(t *testing.T) {
	c := New("plant_a", KindPlant)
	_, ok := c.Result("annual_cost")
	assert.False(t, ok)

	c.SetResult("annual_cost", 1000)
	v, ok := c.Result("annual_cost")
	require.True(t, ok)
	assert.Equal(t, 1000.0, v)

	c.SetResult("annual_cost", 2000)
	v, ok = c.Result("annual_cost")
	require.True(t, ok)
	assert.Equal(t, 2000.0, v, "a later SetResult call overwrites rather than accumulating")
}
