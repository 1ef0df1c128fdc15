// Package config loads the single environment configuration file named in
// spec.md §6: project name, data folder, default solver, and extras module
// name. No environment variable is required for the engine to start.
//
// Configuration loading order (later layers override earlier ones):
//  1. Load from a .env file, if present.
//  2. Load from process environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the engine's run configuration.
type Config struct {
	SystemName       string   // name of the System to build, per spec.md §6 systems/<name>/components.csv
	DataDir          string   // root folder containing the tabular inputs
	DefaultSolver    string   // solver name used when a run doesn't override it
	ExtrasModule     string   // name of an optional project-specific plugin module (domain add-ons, out of core scope)
	LogLevel         string   // debug, info, warn, error
	ScenarioPriority []string // highest to lowest priority scenario tags; "__base__" is always implicit lowest
	RNGSeed          int64    // seed for k-medoids/affinity-propagation initialization (spec.md §5 reproducibility requirement)
	DiscountRate     float64  // annual discount rate used to undiscount duals in the result binder; 0 means "use the objective's own default"
	CacheDir         string   // directory for the temporal-reduction cache (internal/store); empty disables caching
}

// Load reads GRIDFORGE_* environment variables, after first loading a
// .env file from the current directory if one exists.
func Load() (Config, error) {
	_ = godotenv.Load() // optional; absence is not an error

	cfg := Config{
		SystemName:    getEnv("GRIDFORGE_SYSTEM_NAME", "default"),
		DataDir:       getEnv("GRIDFORGE_DATA_DIR", "./data"),
		DefaultSolver: getEnv("GRIDFORGE_DEFAULT_SOLVER", ""),
		ExtrasModule:  getEnv("GRIDFORGE_EXTRAS_MODULE", ""),
		LogLevel:      getEnv("GRIDFORGE_LOG_LEVEL", "info"),
		CacheDir:      getEnv("GRIDFORGE_CACHE_DIR", ""),
	}

	if raw := os.Getenv("GRIDFORGE_SCENARIOS"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			tag = strings.TrimSpace(tag)
			if tag != "" {
				cfg.ScenarioPriority = append(cfg.ScenarioPriority, tag)
			}
		}
	}

	seed, err := strconv.ParseInt(getEnv("GRIDFORGE_RNG_SEED", "0"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("parsing GRIDFORGE_RNG_SEED: %w", err)
	}
	cfg.RNGSeed = seed

	if raw := os.Getenv("GRIDFORGE_DISCOUNT_RATE"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parsing GRIDFORGE_DISCOUNT_RATE: %w", err)
		}
		cfg.DiscountRate = rate
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
