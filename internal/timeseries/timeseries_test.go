package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkTimes(n int, start time.Time, step time.Duration) []time.Time {
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[i] = start.Add(time.Duration(i) * step)
	}
	return out
}

func TestFractionalClipsToUnitInterval(t *testing.T) {
	instants := mkTimes(3, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), time.Hour)
	ts, err := New(KindFractional, AxisWeatherYear, instants, []float64{-0.2, 0.5, 1.8})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1}, ts.Values())
}

func TestBooleanRejectsNonBinary(t *testing.T) {
	instants := mkTimes(2, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), time.Hour)
	_, err := New(KindBoolean, AxisModeledYear, instants, []float64{1, 0.5})
	assert.Error(t, err)
}

func TestMonthHourRequires288Points(t *testing.T) {
	instants := mkTimes(100, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), time.Hour)
	values := make([]float64, 100)
	_, err := New(KindNumeric, AxisMonthHour, instants, values)
	assert.Error(t, err)

	instants288 := mkTimes(288, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), time.Hour)
	values288 := make([]float64, 288)
	_, err = New(KindNumeric, AxisMonthHour, instants288, values288)
	assert.NoError(t, err)
}

func TestAnnualDownsampleNormalizesToJanFirst(t *testing.T) {
	ts := &Timeseries{Kind: KindNumeric, Axis: AxisModeledYear, Downsample: DownsampleAnnual}
	instants := []time.Time{
		time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2031, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	ts2, err := New(KindNumeric, AxisModeledYear, instants, []float64{10, 20})
	require.NoError(t, err)
	ts2.Downsample = DownsampleAnnual
	require.NoError(t, ts2.ResampleDown("annual"))
	for _, inst := range ts2.Instants() {
		assert.Equal(t, time.January, inst.Month())
		assert.Equal(t, 1, inst.Day())
	}
	_ = ts
}

func TestAddRejectsMismatchedAxis(t *testing.T) {
	instants := mkTimes(3, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), time.Hour)
	a, err := New(KindNumeric, AxisWeatherYear, instants, []float64{1, 2, 3})
	require.NoError(t, err)
	b, err := New(KindNumeric, AxisModeledYear, instants, []float64{1, 2, 3})
	require.NoError(t, err)
	_, err = a.Add(b)
	assert.Error(t, err)
}

func TestAddSumsAlignedSeries(t *testing.T) {
	instants := mkTimes(3, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), time.Hour)
	a, err := New(KindNumeric, AxisWeatherYear, instants, []float64{1, 2, 3})
	require.NoError(t, err)
	b, err := New(KindNumeric, AxisWeatherYear, instants, []float64{10, 20, 30})
	require.NoError(t, err)
	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, []float64{11, 22, 33}, sum.Values())
}
