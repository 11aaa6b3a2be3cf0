// Package registry resolves which entities run and in what order.
//
// A Registry is built from entity descriptors, configured from a flat
// key/value map (conventionally environment variables), then validated so
// that no enabled entity depends on a disabled one. Finally the enabled
// entities are partitioned into execution levels: every entity's
// dependencies live in a strictly earlier level, and entities within a level
// are independent of each other.
package registry

import (
	"fmt"
	"log/slog"

	"github.com/repovault/repovault/entity"
	"github.com/repovault/repovault/numspec"
)

// Entity wraps a descriptor with its resolved configuration state. The
// enabled flag is only ever lowered after configuration: the dependency
// cascade disables, never re-enables.
type Entity struct {
	Descriptor entity.Descriptor

	// Value is the parsed configuration outcome.
	Value numspec.Value

	// Enabled is derived from Value and may be lowered by the cascade.
	Enabled bool

	// DisabledReason is set when the cascade disables the entity.
	DisabledReason string

	// order is the discovery index, used for deterministic tie-breaking.
	order int
}

// Name returns the entity's unique name.
func (e *Entity) Name() string {
	return e.Descriptor.Name
}

// Registry holds the discovered entities and, once computed, their
// execution levels.
type Registry struct {
	entities []*Entity
	byName   map[string]*Entity
	levels   [][]*Entity
	logger   *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets a custom logger for the registry.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger.With("component", "registry")
	}
}

// Discover builds a Registry from the compiled-in entity catalog.
func Discover(opts ...Option) (*Registry, error) {
	return New(entity.Catalog(), opts...)
}

// New builds a Registry from the given descriptors, validating that every
// descriptor is well-formed, names are unique, all dependency references
// resolve, and the dependency graph is acyclic. Any violation is a
// ConfigurationError; nothing may execute after one.
func New(descriptors []entity.Descriptor, opts ...Option) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]*Entity, len(descriptors)),
		logger: slog.Default().With("component", "registry"),
	}
	for _, opt := range opts {
		opt(r)
	}

	for i, d := range descriptors {
		if d.Name == "" {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("descriptor %d has no name", i)}
		}
		if d.ConfigKey == "" {
			return nil, &ConfigurationError{Entity: d.Name, Reason: "missing config key"}
		}
		if _, exists := r.byName[d.Name]; exists {
			return nil, &ConfigurationError{Entity: d.Name, Reason: "duplicate entity name"}
		}

		e := &Entity{
			Descriptor: d,
			Value:      numspec.Bool(d.DefaultEnabled),
			Enabled:    d.DefaultEnabled,
			order:      i,
		}
		r.entities = append(r.entities, e)
		r.byName[d.Name] = e
	}

	for _, e := range r.entities {
		for _, dep := range e.Descriptor.Dependencies {
			if dep == e.Name() {
				return nil, &ConfigurationError{Entity: e.Name(), Reason: "depends on itself"}
			}
			if _, ok := r.byName[dep]; !ok {
				return nil, &ConfigurationError{
					Entity: e.Name(),
					Reason: fmt.Sprintf("depends on unknown entity %q", dep),
				}
			}
		}
	}

	if err := r.checkAcyclic(); err != nil {
		return nil, err
	}

	r.logger.Debug("registry discovered", "entity_count", len(r.entities))
	return r, nil
}

// Entities returns all registered entities in discovery order.
func (r *Registry) Entities() []*Entity {
	return r.entities
}

// Lookup returns the entity with the given name.
func (r *Registry) Lookup(name string) (*Entity, bool) {
	e, ok := r.byName[name]
	return e, ok
}

// ConfigureFrom resolves each entity's enabled state from the flat
// configuration map. Keys are descriptor ConfigKeys; absent keys fall back
// to the descriptor default. Calling ConfigureFrom again with the same input
// yields the same state: it fully resets enablement and cascade reasons.
func (r *Registry) ConfigureFrom(values map[string]string) error {
	for _, e := range r.entities {
		raw, present := values[e.Descriptor.ConfigKey]
		if !present {
			e.Value = numspec.Bool(e.Descriptor.DefaultEnabled)
			e.Enabled = e.Descriptor.DefaultEnabled
			e.DisabledReason = ""
			continue
		}

		var (
			value numspec.Value
			err   error
		)
		switch e.Descriptor.ValueKind {
		case entity.NumericSelection:
			value, err = numspec.Parse(raw)
		default:
			var b bool
			b, err = numspec.ParseBool(raw)
			value = numspec.Bool(b)
		}
		if err != nil {
			return &ValidationError{Entity: e.Name(), Raw: raw, Err: err}
		}

		e.Value = value
		e.Enabled = value.Enabled()
		e.DisabledReason = ""
		r.logger.Debug("entity configured",
			"entity", e.Name(), "value", value.String(), "enabled", e.Enabled)
	}

	// Configuration invalidates any previously computed schedule.
	r.levels = nil
	return nil
}

// ValidateDependencies enforces that no enabled entity depends on a disabled
// one. In strict mode the first violation (in discovery order) is a
// ConfigurationError naming both entities. Otherwise the dependent is
// disabled with a reason citing its dependency, and the scan repeats until a
// full pass produces no change, so transitive cascades converge.
//
// A numeric selection counts as enabled whenever it is non-empty; dependents
// are not required to intersect their dependency's selection.
func (r *Registry) ValidateDependencies(strict bool) error {
	for {
		changed := false
		for _, e := range r.entities {
			if !e.Enabled {
				continue
			}
			for _, depName := range e.Descriptor.Dependencies {
				dep := r.byName[depName]
				if dep.Enabled {
					continue
				}
				if strict {
					return &ConfigurationError{
						Entity: e.Name(),
						Reason: fmt.Sprintf("enabled but depends on disabled entity %q", depName),
					}
				}
				e.Enabled = false
				e.DisabledReason = fmt.Sprintf("dependency %q is disabled", depName)
				r.logger.Info("entity disabled by cascade",
					"entity", e.Name(), "dependency", depName)
				changed = true
				break
			}
		}
		if !changed {
			return nil
		}
	}
}

// EnabledEntities returns the currently enabled entities in discovery order.
func (r *Registry) EnabledEntities() []*Entity {
	var out []*Entity
	for _, e := range r.entities {
		if e.Enabled {
			out = append(out, e)
		}
	}
	return out
}
