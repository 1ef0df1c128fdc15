package store

import (
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Manifest is the per-run record spec.md §8's "Scenario determinism"
// property needs to be checked against without re-running the solver:
// enough of a run's inputs to tell whether two runs over the same
// system should have produced byte-identical MILPs.
type Manifest struct {
	RunID            string
	ScenarioPriority []string
	RNGSeed          int64
	RepPeriodMethod  string
	RepPeriodCount   int
	InputContentHash string
	ObjectiveValue   float64
	SolverStatus     string
}

// PutManifest persists a run's manifest under its RunID, tagged "run.manifest"
// for observability alongside the reduction-cache entries in the same table.
func (s *Store) PutManifest(ctx context.Context, m Manifest) error {
	encoded, err := msgpack.Marshal(m)
	if err != nil {
		return fmt.Errorf("store: encoding manifest for run %s: %w", m.RunID, err)
	}
	return s.Put(ctx, Key("run.manifest", []byte(m.RunID)), "run.manifest", encoded)
}

// GetManifest retrieves a previously persisted manifest by RunID.
func (s *Store) GetManifest(ctx context.Context, runID string) (Manifest, bool, error) {
	value, ok, err := s.Get(ctx, Key("run.manifest", []byte(runID)))
	if err != nil || !ok {
		return Manifest{}, ok, err
	}
	var m Manifest
	if err := msgpack.Unmarshal(value, &m); err != nil {
		return Manifest{}, false, fmt.Errorf("store: decoding manifest for run %s: %w", runID, err)
	}
	return m, true, nil
}
