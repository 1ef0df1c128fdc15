package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{Path: ":memory:", Profile: ProfileReadHeavy})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetMissReturnsOkFalseNotError(t *testing.T) {
	s := openTestStore(t)
	value, ok, err := s.Get(context.Background(), Key("temporal.Result", []byte("nothing-here")))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestPutThenGetRoundTrips(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	key := Key("temporal.Result", []byte("settings"), []byte("profiles"))

	require.NoError(t, s.Put(ctx, key, "temporal.Result", []byte("payload-v1")))

	value, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("payload-v1"), value)
}

func TestPutIsAnUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	key := Key("temporal.Result", []byte("same-inputs"))

	require.NoError(t, s.Put(ctx, key, "temporal.Result", []byte("v1")))
	require.NoError(t, s.Put(ctx, key, "temporal.Result", []byte("v2")))

	value, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v2"), value)
}

func TestPutManifestThenGetManifestRoundTrips(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	m := Manifest{
		RunID:            "run-1",
		ScenarioPriority: []string{"high_gas", "low_gas"},
		RNGSeed:          0,
		RepPeriodMethod:  "k_medoids",
		RepPeriodCount:   12,
		InputContentHash: "deadbeef",
		ObjectiveValue:   1234.5,
		SolverStatus:     "optimal",
	}
	require.NoError(t, s.PutManifest(ctx, m))

	got, ok, err := s.GetManifest(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, m, got)
}

func TestGetManifestMissReturnsOkFalse(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := s.GetManifest(context.Background(), "no-such-run")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeyIsStableAndPositionSensitive(t *testing.T) {
	a := Key("kind", []byte("x"), []byte("y"))
	b := Key("kind", []byte("x"), []byte("y"))
	assert.Equal(t, a, b)

	c := Key("kind", []byte("y"), []byte("x"))
	assert.NotEqual(t, a, c)

	d := Key("otherkind", []byte("x"), []byte("y"))
	assert.NotEqual(t, a, d)
}
