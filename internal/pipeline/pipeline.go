// Package pipeline runs the phased sequence spec.md §9 lays out end to
// end: load → link → revalidate → resolve policy targets → reduce →
// build → solve → bind. It is the one place that owns that ordering;
// cmd/gridforge only translates CLI flags into a config.Config and a
// Loader and calls Run.
//
// Grounded on the teacher's phased startup in cmd/server/main.go
// (config load -> db open -> module wiring -> server start, each phase
// aborting the whole run on error) and internal/modules/planning's
// accumulate-then-report validation style, generalized to this engine's
// own phase list.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/gridforge/internal/apperrors"
	"github.com/aristath/gridforge/internal/config"
	"github.com/aristath/gridforge/internal/customconstraint"
	"github.com/aristath/gridforge/internal/milp"
	"github.com/aristath/gridforge/internal/output"
	"github.com/aristath/gridforge/internal/perfmon"
	"github.com/aristath/gridforge/internal/resultbinder"
	"github.com/aristath/gridforge/internal/solver"
	"github.com/aristath/gridforge/internal/store"
	"github.com/aristath/gridforge/internal/system"
	"github.com/aristath/gridforge/internal/temporal"
)

// Input is everything a Loader must produce from the tabular sources
// spec.md §6 names (component folders, linkages.csv,
// systems/<name>/components.csv, the rep-period artifacts, and
// custom_constraints/). Reading those files is explicitly out of core
// scope (spec.md §1): Loader is the seam a CSV (or any other tabular)
// reader plugs into.
type Input struct {
	System            *system.System
	TemporalSettings  temporal.Settings
	Profiles          []temporal.Profile
	ChronoPeriods     []temporal.ChronoPeriod
	Timesteps         []time.Duration
	InterPeriodByYear map[int]bool
	CustomConstraints []customconstraint.Group
	ResultMappings    []resultbinder.Mapping
}

// Loader produces an Input from a config.Config. A concrete tabular
// reader (out of scope here) implements this against the file layout
// spec.md §6 documents.
type Loader interface {
	Load(ctx context.Context, cfg config.Config) (*Input, error)
}

// loaderRegistry lets an extras module (config.Config.ExtrasModule)
// register a concrete Loader by name from its own init(), so cmd/gridforge
// never needs to import a project-specific ingestion package directly.
var loaderRegistry = map[string]Loader{}

// RegisterLoader makes l available under name for later lookup by
// LookupLoader. Intended to be called from an extras module's init().
func RegisterLoader(name string, l Loader) {
	loaderRegistry[name] = l
}

// LookupLoader returns the Loader registered under name, if any.
func LookupLoader(name string) (Loader, bool) {
	l, ok := loaderRegistry[name]
	return l, ok
}

// Result is the outcome of one full run. RunID tags the run for log
// correlation (per-run, not per-component; distinct from any solver-
// side request id) — grounded on the teacher's recommendation records,
// each stamped with a fresh uuid at creation
// (internal/modules/planning/recommendation_repository.go) so that a
// later retry or diagnostic log line can be traced back to the run
// that produced it.
type Result struct {
	RunID    string
	System   *system.System
	Solution solver.Solution
}

// Pipeline wires a Loader and a Solver together under one logger.
type Pipeline struct {
	loader Loader
	solve  solver.Solver
	log    zerolog.Logger
	cache  *store.Store
	sink   output.ResultSink
}

// New constructs a Pipeline. log is scoped per phase internally via
// perfmon and the package-level components' own WithLogger hooks.
func New(loader Loader, sv solver.Solver, log zerolog.Logger) *Pipeline {
	return &Pipeline{loader: loader, solve: sv, log: log.With().Str("component", "pipeline").Logger()}
}

// WithCache enables the temporal-reduction cache: a reduction over the
// same settings, profiles, chronological periods, and timesteps is
// never recomputed twice. s may be nil to disable caching.
func (p *Pipeline) WithCache(s *store.Store) *Pipeline {
	p.cache = s
	return p
}

// WithSink registers the output.ResultSink a completed Run hands its
// bound System to (spec.md §1's "result CSV writers" external
// collaborator). s may be nil, the default, meaning Run only returns
// the bound System in-process and writes nothing out.
func (p *Pipeline) WithSink(s output.ResultSink) *Pipeline {
	p.sink = s
	return p
}

// built holds the state every phase from load through emit leaves
// behind, shared by Build and Run so the solve/bind tail doesn't
// duplicate the load-link-revalidate-reduce-emit head.
type built struct {
	in   *Input
	sets *milp.Sets
	temp *temporal.Result
	b    *milp.Builder
	prob *milp.LPProblem
}

// Build runs every phase through MILP emission and stops — spec.md §9's
// "build" half, useful for emitting an LP without requiring a solver.
func (p *Pipeline) Build(ctx context.Context, cfg config.Config) (*milp.LPProblem, error) {
	bd, err := p.buildPhases(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return bd.prob, nil
}

func (p *Pipeline) buildPhases(ctx context.Context, cfg config.Config) (*built, error) {
	in, err := p.loader.Load(ctx, cfg)
	if err != nil {
		return nil, err
	}

	linkCol := &apperrors.Collector{}
	in.System.LinkLinkages(linkCol)
	for _, w := range linkCol.Errors() {
		p.log.Warn().Str("entity", w.Entity).Str("category", w.Category).Msg(w.Reason)
	}

	col := &apperrors.Collector{}
	in.System.Revalidate(col, system.DefaultRevalidators())
	if col.Len() > 0 {
		return nil, col.Err()
	}

	if err := system.ResolveUpdateableTargets(in.System); err != nil {
		return nil, err
	}

	reduceTimer := perfmon.Start("temporal.Reduce", p.log)
	temp, err := p.reduceCached(ctx, in)
	reduceTimer.Stop()
	if err != nil {
		return nil, err
	}

	sets := milp.BuildSets(in.System, temp, in.InterPeriodByYear)

	builder := milp.NewBuilder(in.System, sets, temp).WithLogger(p.log).WithDiscountRate(discountRateOrDefault(cfg))
	builder.SetCustomConstraints(in.CustomConstraints)

	buildTimer := perfmon.Start("milp.Build", p.log)
	prob, err := builder.Emit(milp.EmitOptions{SymbolicLabels: false})
	buildTimer.Stop()
	if err != nil {
		return nil, err
	}

	return &built{in: in, sets: sets, temp: temp, b: builder, prob: prob}, nil
}

// Run executes one whole build-solve-bind pass for cfg. solverOpts are
// passed through to the configured Solver unchanged (spec.md §6:
// "solver-specific options are passed as typed key-value maps per
// solver name").
func (p *Pipeline) Run(ctx context.Context, cfg config.Config, solverOpts solver.Options) (*Result, error) {
	runID := uuid.New().String()
	runLog := p.log.With().Str("run_id", runID).Logger()

	bd, err := p.buildPhases(ctx, cfg)
	if err != nil {
		return nil, err
	}

	reEmit := func(opts solver.EmitOptions) (*milp.LPProblem, error) {
		runLog.Warn().Msg("retrying solve with symbolic labels for diagnostics")
		fresh := milp.NewBuilder(bd.in.System, bd.sets, bd.temp).WithLogger(p.log).WithDiscountRate(discountRateOrDefault(cfg))
		fresh.SetCustomConstraints(bd.in.CustomConstraints)
		return fresh.Emit(milp.EmitOptions{SymbolicLabels: opts.SymbolicLabels})
	}

	solveTimer := perfmon.Start("solver.Solve", runLog)
	sol, err := solver.Retry(ctx, p.solve, bd.prob, solverOpts, reEmit)
	solveTimer.Stop()
	if err != nil {
		return nil, &apperrors.SolverError{Reason: err.Error()}
	}

	switch sol.Status {
	case solver.StatusInfeasible:
		return nil, &apperrors.InfeasibleError{SolverStatus: sol.Status.String()}
	case solver.StatusError:
		return nil, &apperrors.SolverError{Reason: "solver reported an error status"}
	}

	binder := resultbinder.New(bd.in.System, bd.sets, bd.temp, discountRateOrDefault(cfg), runLog)
	if err := binder.Bind(sol, bd.in.ResultMappings); err != nil {
		return nil, fmt.Errorf("pipeline: binding results: %w", err)
	}

	runLog.Info().Float64("objective", sol.Objective).Msg("run complete")
	p.writeManifest(ctx, runID, cfg, bd, sol, runLog)

	if p.sink != nil {
		if err := p.sink.Write(ctx, cfg, runID, bd.in.System); err != nil {
			return nil, fmt.Errorf("pipeline: writing results: %w", err)
		}
	}

	return &Result{RunID: runID, System: bd.in.System, Solution: sol}, nil
}

// writeManifest persists a store.Manifest for this run when a cache is
// configured, so a later run over the same system can be compared
// against it for spec.md §8's "Scenario determinism... byte-identical
// across runs" property without re-running the solver. A nil cache (no
// GRIDFORGE_CACHE_DIR configured) simply means no manifest is kept —
// the run itself is unaffected either way.
func (p *Pipeline) writeManifest(ctx context.Context, runID string, cfg config.Config, bd *built, sol solver.Solution, log zerolog.Logger) {
	if p.cache == nil {
		return
	}

	keyInput, err := msgpack.Marshal(cacheKeyInput{
		Settings: bd.in.TemporalSettings, Profiles: bd.in.Profiles,
		Chrono: bd.in.ChronoPeriods, Timesteps: bd.in.Timesteps,
	})
	if err != nil {
		log.Warn().Err(err).Msg("run manifest: could not hash inputs, skipping")
		return
	}

	m := store.Manifest{
		RunID:            runID,
		ScenarioPriority: cfg.ScenarioPriority,
		RNGSeed:          cfg.RNGSeed,
		RepPeriodMethod:  bd.in.TemporalSettings.Method.String(),
		RepPeriodCount:   bd.in.TemporalSettings.NumClusters,
		InputContentHash: store.Key("pipeline.Input", keyInput),
		ObjectiveValue:   sol.Objective,
		SolverStatus:     sol.Status.String(),
	}
	if err := p.cache.PutManifest(ctx, m); err != nil {
		log.Warn().Err(err).Msg("run manifest: failed to persist")
	}
}

// cacheKeyInput is the msgpack-serialized content the reduction cache
// key is hashed from: identical settings, profiles, chronological
// periods, and timesteps always resolve to the same cached Result.
type cacheKeyInput struct {
	Settings  temporal.Settings
	Profiles  []temporal.Profile
	Chrono    []temporal.ChronoPeriod
	Timesteps []time.Duration
}

// reduceCached wraps temporal.Reduce with internal/store's content-hash
// cache when one is configured via WithCache. Any cache-layer failure
// (serialization, a corrupt stored blob) falls back to recomputing
// rather than failing the run — the cache is a speed optimization, not
// a correctness dependency.
func (p *Pipeline) reduceCached(ctx context.Context, in *Input) (*temporal.Result, error) {
	if p.cache == nil {
		return temporal.Reduce(in.TemporalSettings, in.Profiles, in.ChronoPeriods, in.Timesteps)
	}

	keyInput, err := msgpack.Marshal(cacheKeyInput{
		Settings: in.TemporalSettings, Profiles: in.Profiles,
		Chrono: in.ChronoPeriods, Timesteps: in.Timesteps,
	})
	if err == nil {
		key := store.Key("temporal.Result", keyInput)
		if cached, ok, getErr := p.cache.Get(ctx, key); getErr == nil && ok {
			var result temporal.Result
			if decErr := msgpack.Unmarshal(cached, &result); decErr == nil {
				p.log.Debug().Str("cache_key", key).Msg("temporal reduction cache hit")
				return &result, nil
			}
		}

		result, err := temporal.Reduce(in.TemporalSettings, in.Profiles, in.ChronoPeriods, in.Timesteps)
		if err != nil {
			return nil, err
		}
		if encoded, encErr := msgpack.Marshal(result); encErr == nil {
			_ = p.cache.Put(ctx, key, "temporal.Result", encoded)
		}
		return result, nil
	}

	return temporal.Reduce(in.TemporalSettings, in.Profiles, in.ChronoPeriods, in.Timesteps)
}

// discountRateOrDefault mirrors milp/objective.go's defaultDiscountRate
// since the binder must undiscount duals using the same rate the
// objective discounted them with.
func discountRateOrDefault(cfg config.Config) float64 {
	if cfg.DiscountRate > 0 {
		return cfg.DiscountRate
	}
	return 0.05
}
