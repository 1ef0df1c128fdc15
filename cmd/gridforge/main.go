// Command gridforge is the engine's entry point: a CLI over the phased
// build/solve/bind pipeline in internal/pipeline (spec.md §6, §9).
//
// Usage:
//
//	gridforge build --system <name>   emit the MILP without solving it
//	gridforge solve --system <name>   run the full pipeline once
//	gridforge batch --system <name> --cron "0 3 1 * *"   re-run on a schedule
//
// Grounded on santoshpalla27-real-cost/cmd/terracost/main.go's
// urfave/cli command-per-verb structure (the teacher's own cmd/server
// takes no CLI flags, being a long-running env-configured service with
// nothing to select between at startup).
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"

	"github.com/aristath/gridforge/internal/apperrors"
	"github.com/aristath/gridforge/internal/config"
	"github.com/aristath/gridforge/internal/logging"
	"github.com/aristath/gridforge/internal/output"
	"github.com/aristath/gridforge/internal/pipeline"
	"github.com/aristath/gridforge/internal/solver"
	"github.com/aristath/gridforge/internal/store"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	app := &cli.App{
		Name:    "gridforge",
		Usage:   "multi-year capacity-expansion and production-cost MILP engine",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "system",
				Aliases: []string{"s"},
				Usage:   "system name, overriding GRIDFORGE_SYSTEM_NAME",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "tabular input root, overriding GRIDFORGE_DATA_DIR",
			},
			&cli.StringFlag{
				Name:  "solver-cmd",
				Usage: "external solver executable to invoke over stdio",
			},
		},
		Commands: []*cli.Command{
			buildCommand(),
			solveCommand(),
			batchCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "gridforge: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps a returned error to spec.md §6's process exit
// status, falling back to apperrors.ExitCode's validation-error default
// for errors this CLI layer raised itself (e.g. "no loader configured").
func exitCodeFor(err error) int {
	return apperrors.ExitCode(err)
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if v := c.String("system"); v != "" {
		cfg.SystemName = v
	}
	if v := c.String("data-dir"); v != "" {
		cfg.DataDir = v
	}
	return cfg, nil
}

// newSolver resolves the configured solver command into a concrete
// solver.Solver. The engine ships no solver of its own (spec.md §1:
// "the MIP solver" is deliberately out of scope) — it only ships the
// subprocess adapter that speaks to one.
func newSolver(cfg config.Config, c *cli.Context) (solver.Solver, error) {
	command := c.String("solver-cmd")
	if command == "" {
		command = cfg.DefaultSolver
	}
	if command == "" {
		return nil, &apperrors.InputShapeError{Source: "solver-cmd", Reason: "no solver command configured (set GRIDFORGE_DEFAULT_SOLVER or pass --solver-cmd)"}
	}
	return &solver.SubprocessAdapter{Command: command}, nil
}

// newLoader resolves the tabular-input Loader. No concrete CSV reader
// ships with this module (spec.md §1 excludes "the spreadsheet
// ingestion layer, CSV readers" from core scope); a project's extras
// module (config.Config.ExtrasModule) is expected to register one.
// Without one, build/solve/batch fail fast with a clear InputShapeError
// rather than silently doing nothing.
func newLoader(cfg config.Config) (pipeline.Loader, error) {
	if l, ok := pipeline.LookupLoader(cfg.ExtrasModule); ok {
		return l, nil
	}
	return nil, &apperrors.InputShapeError{Source: cfg.DataDir, Reason: "no tabular-input loader registered; set GRIDFORGE_EXTRAS_MODULE to a module that calls pipeline.RegisterLoader"}
}

// newSink resolves an optional output.ResultSink by the same extras-
// module name newLoader uses. Unlike the loader, a missing sink is not
// an error: a run with no registered sink simply returns its bound
// System in-process and writes nothing out (spec.md §1 keeps "result
// CSV writers" out of core scope entirely, so having none configured
// is the default, not a failure).
func newSink(cfg config.Config) output.ResultSink {
	s, ok := output.LookupSink(cfg.ExtrasModule)
	if !ok {
		return nil
	}
	return s
}

// newCache opens the temporal-reduction cache when cfg.CacheDir is set.
// A disabled cache (nil, nil) is not an error: caching is a speed
// optimization, not a required collaborator.
func newCache(cfg config.Config) (*store.Store, error) {
	if cfg.CacheDir == "" {
		return nil, nil
	}
	return store.New(store.Config{Path: filepath.Join(cfg.CacheDir, "reduction_cache.db"), Profile: store.ProfileReadHeavy})
}

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "emit the MILP for a system without solving it",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			log := logging.New(logging.Config{Level: cfg.LogLevel})
			loader, err := newLoader(cfg)
			if err != nil {
				return err
			}
			cache, err := newCache(cfg)
			if err != nil {
				return err
			}
			if cache != nil {
				defer cache.Close()
			}

			p := pipeline.New(loader, nil, log).WithCache(cache)
			prob, err := p.Build(context.Background(), cfg)
			if err != nil {
				log.Error().Err(err).Msg("build failed")
				return err
			}

			log.Info().
				Str("system", cfg.SystemName).
				Int("vars", len(prob.Vars)).
				Int("constraints", len(prob.Constraints)).
				Int("objective_terms", len(prob.Objective.Terms)).
				Msg("MILP emitted")
			return nil
		},
	}
}

func solveCommand() *cli.Command {
	return &cli.Command{
		Name:  "solve",
		Usage: "run the full build-solve-bind pipeline once",
		Action: func(c *cli.Context) error {
			return runOnce(c)
		},
	}
}

func runOnce(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := logging.New(logging.Config{Level: cfg.LogLevel})

	loader, err := newLoader(cfg)
	if err != nil {
		return err
	}
	sv, err := newSolver(cfg, c)
	if err != nil {
		return err
	}
	cache, err := newCache(cfg)
	if err != nil {
		return err
	}
	if cache != nil {
		defer cache.Close()
	}

	p := pipeline.New(loader, sv, log).WithCache(cache).WithSink(newSink(cfg))
	result, err := p.Run(context.Background(), cfg, solver.Options{})
	if err != nil {
		log.Error().Err(err).Msg("pipeline run failed")
		return err
	}

	log.Info().
		Str("run_id", result.RunID).
		Float64("objective", result.Solution.Objective).
		Str("status", result.Solution.Status.String()).
		Msg("pipeline run complete")
	return nil
}

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "re-run the pipeline on a cron schedule",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "cron",
				Usage:    "standard 5-field cron expression",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			log := logging.New(logging.Config{Level: cfg.LogLevel})

			sched := cron.New()
			_, err = sched.AddFunc(c.String("cron"), func() {
				if err := runOnce(c); err != nil {
					log.Error().Err(err).Msg("scheduled run failed")
				}
			})
			if err != nil {
				return fmt.Errorf("batch: invalid cron expression: %w", err)
			}

			log.Info().Str("cron", c.String("cron")).Msg("batch scheduler started")
			sched.Run()
			return nil
		},
	}
}
