package output

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/gridforge/internal/config"
	"github.com/aristath/gridforge/internal/system"
)

type fakeSink struct {
	lastRunID string
}

func (f *fakeSink) Write(_ context.Context, _ config.Config, runID string, _ *system.System) error {
	f.lastRunID = runID
	return nil
}

func TestRegisterSinkThenLookupSinkRoundTrips(t *testing.T) {
	f := &fakeSink{}
	RegisterSink("test-output-extras", f)

	got, ok := LookupSink("test-output-extras")
	require.True(t, ok)
	assert.Same(t, f, got)
}

func TestLookupSinkMissingReturnsFalse(t *testing.T) {
	_, ok := LookupSink("does-not-exist-sink")
	assert.False(t, ok)
}
