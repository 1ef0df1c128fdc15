package component

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Row is one tabular input row per spec.md §4.2:
// (timestamp|"none", attribute, value, unit?, scenario?).
// Timestamp is nil for a "none" (file-reference) row.
type Row struct {
	Timestamp *time.Time
	Attribute string
	Value     string
	Unit      string
	Scenario  string
}

const implicitBaseScenario = "__base__"

// ResolveAttributeRows applies spec.md §4.2's scenario-precedence and
// mixed-timeseries rules to every row recorded for one (component,
// attribute) pair, returning the final row set to parse.
//
//   - Rows tagged with a scenario not present in priority are dropped.
//   - priority plus an implicit lowest-priority "__base__" ranks the
//     rest; for each (attribute, timestamp) pair, the highest-priority
//     row wins.
//   - If the highest-priority surviving row for the attribute as a
//     whole is a file reference (Timestamp == nil), it replaces every
//     timestamped row. Otherwise any file-reference rows are dropped.
func ResolveAttributeRows(rows []Row, priority []string) ([]Row, error) {
	rank := make(map[string]int, len(priority)+1)
	for i, tag := range priority {
		rank[tag] = i // lower index == higher priority
	}
	baseRank := len(priority)
	rank[implicitBaseScenario] = baseRank

	type keyed struct {
		key  string // timestamp key, or "" for file-reference rows sharing the attribute
		rank int
		row  Row
	}

	best := map[string]keyed{}
	var bestFileRefRank = math.MaxInt32
	var bestFileRef *Row

	for _, r := range rows {
		tag := r.Scenario
		if tag == "" {
			tag = implicitBaseScenario
		}
		rk, ok := rank[tag]
		if !ok {
			continue // unknown tag: dropped
		}

		if r.Timestamp == nil {
			if rk < bestFileRefRank {
				bestFileRefRank = rk
				row := r
				bestFileRef = &row
			}
			continue
		}

		k := r.Timestamp.Format(time.RFC3339)
		cur, exists := best[k]
		if !exists || rk < cur.rank {
			best[k] = keyed{key: k, rank: rk, row: r}
		}
	}

	// Determine whether the highest-priority entry for the attribute as
	// a whole (across both timestamped and file-reference candidates) is
	// a file reference.
	bestTimestampRank := math.MaxInt32
	for _, kv := range best {
		if kv.rank < bestTimestampRank {
			bestTimestampRank = kv.rank
		}
	}

	if bestFileRef != nil && bestFileRefRank <= bestTimestampRank {
		return []Row{*bestFileRef}, nil
	}

	if len(best) == 0 {
		return nil, fmt.Errorf("no rows survived scenario resolution")
	}

	out := make([]Row, 0, len(best))
	for _, kv := range best {
		out = append(out, kv.row)
	}
	return out, nil
}

// ParseFloat converts a row's raw string value to float64, converting
// units when both the declared and given unit are known (spec.md §4.2).
func ParseFloat(raw, declaredUnit, givenUnit string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %q as a number: %w", raw, err)
	}
	return ConvertUnit(f, declaredUnit, givenUnit)
}

// ParseInt coerces a row's raw string value to an integer, accepting
// numeric strings like "16.0" per spec.md §4.2.
func ParseInt(raw string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %q as an integer: %w", raw, err)
	}
	if math.Trunc(f) != f {
		return 0, fmt.Errorf("value %q is not integral", raw)
	}
	return int(f), nil
}

// ParseBool coerces a row's raw string value to a boolean.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("value %q is not a recognized boolean", raw)
	}
}
