// Package system implements the container described in spec.md §4.4:
// it owns every Component and the linkage Registry, runs the
// per-component revalidation pass, and resolves policy targets declared
// relative to a linked load's resampled energy.
//
// Construction proceeds in the strict phases spec.md §9 lays out:
// validate components → build linkages → revalidate → resample
// timeseries → reduce temporal. System is the one piece of shared
// mutable state that crosses those phases; after Revalidate it is
// logically frozen except for the optimization-result attributes
// written back by the result binder once the solver returns.
package system

import (
	"fmt"

	"github.com/aristath/gridforge/internal/apperrors"
	"github.com/aristath/gridforge/internal/component"
	"github.com/aristath/gridforge/internal/linkage"
)

// System owns every Component (by name) and the linkage Registry that
// relates them.
type System struct {
	components map[string]*component.Component
	order      []string // insertion order, for deterministic iteration
	Linkages   *linkage.Registry
}

// New builds an empty System over the given linkage kind declarations.
func New(linkageKinds map[string]linkage.KindSpec) *System {
	return &System{
		components: map[string]*component.Component{},
		Linkages:   linkage.NewRegistry(linkageKinds),
	}
}

// AddComponent registers a component by name. Duplicate names are a
// caller error (component registries are built once, up front).
func (s *System) AddComponent(c *component.Component) error {
	if _, exists := s.components[c.Name]; exists {
		return fmt.Errorf("system: duplicate component name %q", c.Name)
	}
	s.components[c.Name] = c
	s.order = append(s.order, c.Name)
	return nil
}

// Component looks up a component by name.
func (s *System) Component(name string) (*component.Component, bool) {
	c, ok := s.components[name]
	return c, ok
}

// ComponentsOfKind returns every component of the given kind, in
// insertion order.
func (s *System) ComponentsOfKind(kind component.Kind) []*component.Component {
	var out []*component.Component
	for _, name := range s.order {
		c := s.components[name]
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Names returns every registered component name, in insertion order.
func (s *System) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// LinkLinkages publishes every linkage in the registry into its
// endpoints' per-kind maps (spec.md §4.3 step 4). Rows whose from/to
// name isn't a registered component are dropped with a collected
// warning rather than failing the whole pass, per §4.3 step 2
// ("if either is absent, warn and skip").
func (s *System) LinkLinkages(col *apperrors.Collector) {
	for _, kind := range s.Linkages.Kinds() {
		for _, l := range s.Linkages.All(kind) {
			from, fromOK := s.components[l.From]
			to, toOK := s.components[l.To]
			if !fromOK || !toOK {
				col.Add(l.Kind, "dangling-linkage", fmt.Sprintf("linkage %s: %s -> %s references an unknown component", l.Kind, l.From, l.To))
				continue
			}
			from.AttachLink(kind, l)
			to.AttachLink(kind, l)
		}
	}
}

// Revalidator is implemented by component kinds that need cross-entity
// checks beyond what Component.Set already enforces (spec.md §4.4: "a
// Plant must have at least one linked Zone; a PRM policy enforces §3
// invariants 5-6; ...").
type Revalidator interface {
	Revalidate(s *System) error
}

// Revalidate calls revalidate() on every component per spec.md §4.4,
// collecting every failure instead of stopping at the first (spec.md
// §7). Only components whose kind registers a Revalidator in reg are
// checked; kinds with no cross-entity invariants are skipped.
func (s *System) Revalidate(col *apperrors.Collector, reg map[component.Kind]func(*component.Component, *System) error) {
	for _, name := range s.order {
		c := s.components[name]
		check, ok := reg[c.Kind]
		if !ok {
			continue
		}
		if err := check(c, s); err != nil {
			col.Add(c.Name, "cross-entity", err.Error())
		}
	}
}
