// Package perfmon wraps a build or solve phase with a duration timer and
// a CPU/RAM snapshot, warning when a phase runs long or memory grows
// enough to suggest the model is too large for the host (SPEC_FULL.md
// B's gopsutil entry).
package perfmon

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Phase thresholds mirror the teacher's Timer: info above 10s, warn
// above 30s. There is nothing domain-specific about these numbers, so
// they are kept as-is rather than invented fresh.
const (
	infoThreshold = 10 * time.Second
	warnThreshold = 30 * time.Second
)

// Timer measures one named phase (e.g. "temporal.Reduce", "milp.Build",
// "solver.Solve") and logs its duration plus a CPU/RAM snapshot on Stop.
type Timer struct {
	start time.Time
	name  string
	log   zerolog.Logger
}

// Start begins timing name, scoped under log.
func Start(name string, log zerolog.Logger) *Timer {
	return &Timer{start: time.Now(), name: name, log: log.With().Str("phase", name).Logger()}
}

// Stop logs the phase duration and a CPU/RAM snapshot, warning if the
// phase ran long or memory usage is high enough to suggest the model
// is outgrowing the host.
func (t *Timer) Stop() time.Duration {
	duration := time.Since(t.start)
	cpuPct, ramPct := sample()

	t.log.Debug().
		Dur("duration_ms", duration).
		Float64("cpu_percent", cpuPct).
		Float64("ram_percent", ramPct).
		Msg("phase completed")

	switch {
	case duration > warnThreshold:
		t.log.Warn().Dur("duration", duration).Msg("slow phase (>30s)")
	case duration > infoThreshold:
		t.log.Info().Dur("duration", duration).Msg("phase took longer than expected (>10s)")
	}

	if ramPct > 90 {
		t.log.Warn().Float64("ram_percent", ramPct).Msg("high memory pressure; model may be too large for this host")
	}

	return duration
}

// sample takes a fast, non-blocking-ish CPU/RAM reading. Errors degrade
// to zero values rather than failing the phase they're observing.
func sample() (cpuPercent, ramPercent float64) {
	pcts, err := cpu.Percent(50*time.Millisecond, false)
	if err == nil && len(pcts) > 0 {
		cpuPercent = pcts[0]
	}
	if stat, err := mem.VirtualMemory(); err == nil {
		ramPercent = stat.UsedPercent
	}
	return cpuPercent, ramPercent
}
