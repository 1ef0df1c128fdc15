// Package output is the seam a result writer plugs into. spec.md §1
// places "result CSV writers" out of core scope, alongside the
// spreadsheet ingestion layer and the MIP solver itself; ResultSink is
// its Go-interface representation, mirrored against
// internal/pipeline.Loader's ingestion-side seam (spec.md §6: a
// pluggable, project-owned writer, registered from an extras module's
// own init() rather than imported directly by cmd/gridforge).
package output

import (
	"context"

	"github.com/aristath/gridforge/internal/config"
	"github.com/aristath/gridforge/internal/system"
)

// ResultSink consumes a solved run's System (its components now
// carrying bound result attributes per internal/resultbinder) and an
// opaque RunID for correlation, and writes it wherever the caller's
// project wants results to land (CSV, a database, an object store).
// The core never implements one itself.
type ResultSink interface {
	Write(ctx context.Context, cfg config.Config, runID string, sys *system.System) error
}

// sinkRegistry mirrors pipeline.loaderRegistry: an extras module
// registers a concrete ResultSink by name from its own init(), so
// cmd/gridforge resolves one by a config-supplied name without ever
// importing a project-specific writer package.
var sinkRegistry = map[string]ResultSink{}

// RegisterSink makes s available under name for later lookup by
// LookupSink.
func RegisterSink(name string, s ResultSink) {
	sinkRegistry[name] = s
}

// LookupSink returns the ResultSink registered under name, if any.
func LookupSink(name string) (ResultSink, bool) {
	s, ok := sinkRegistry[name]
	return s, ok
}
