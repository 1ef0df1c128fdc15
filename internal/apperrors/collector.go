package apperrors

import (
	"strconv"
	"strings"
)

// Collector accumulates ValidationErrors across a phase (e.g. one pass
// over every Component during System.Revalidate) so the phase can report
// every failure at once instead of failing on the first one (spec.md §7:
// "validation errors are collected per component then reported as a
// single exception listing all failures before aborting").
type Collector struct {
	errs []*ValidationError
}

// Add records a validation failure. It does not stop collection.
func (c *Collector) Add(entity, category, reason string) {
	c.errs = append(c.errs, &ValidationError{Entity: entity, Category: category, Reason: reason})
}

// Len reports how many failures have been collected.
func (c *Collector) Len() int {
	return len(c.errs)
}

// Errors returns the collected failures in insertion order.
func (c *Collector) Errors() []*ValidationError {
	return c.errs
}

// Err returns nil if nothing was collected, otherwise an aggregate error
// listing every failure. Call this once per phase, after every component
// has had a chance to validate.
func (c *Collector) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return &AggregateValidationError{Errs: c.errs}
}

// AggregateValidationError is the single exception spec.md §7 requires:
// one error value wrapping every ValidationError found in a phase.
type AggregateValidationError struct {
	Errs []*ValidationError
}

func (e *AggregateValidationError) Error() string {
	lines := make([]string, 0, len(e.Errs))
	for _, sub := range e.Errs {
		lines = append(lines, sub.Error())
	}
	return "validation failed (" + strconv.Itoa(len(e.Errs)) + " error(s)):\n" + strings.Join(lines, "\n")
}

// Unwrap lets errors.Is/As reach into individual ValidationErrors.
func (e *AggregateValidationError) Unwrap() []error {
	out := make([]error, len(e.Errs))
	for i, sub := range e.Errs {
		out[i] = sub
	}
	return out
}
