package strategy

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/repovault/repovault/entity"
	"github.com/repovault/repovault/numspec"
	"github.com/repovault/repovault/registry"
)

// Deps carries the resolved services and shared inputs a strategy
// constructor receives. Only the services the entity declared are
// populated: a strategy never reaches services it did not ask for.
type Deps struct {
	Remote RemoteClient
	Git    GitClient
	Store  SnapshotStore
	Policy ConflictPolicy

	// Selection is the entity's resolved configuration value; selective
	// strategies use it to filter by number.
	Selection numspec.Value

	Logger *slog.Logger
}

// SaveBuilder constructs the save strategy for one entity type.
type SaveBuilder func(deps Deps) (SaveStrategy, error)

// RestoreBuilder constructs the restore strategy for one entity type.
type RestoreBuilder func(deps Deps) (RestoreStrategy, error)

// CreationError reports that a strategy could not be built because one or
// more required services are absent. It lists every missing service, not
// just the first, so the operator sees the complete gap in one report.
// It is local to the entity: the orchestrator skips the entity and the run
// continues.
type CreationError struct {
	Entity  string
	Missing []entity.Service
}

func (e *CreationError) Error() string {
	names := make([]string, len(e.Missing))
	for i, s := range e.Missing {
		names[i] = string(s)
	}
	return fmt.Sprintf("entity %q: missing services: %s", e.Entity, strings.Join(names, ", "))
}

// Factory builds strategies from explicit builder maps registered at init;
// there is no runtime lookup by name beyond these maps.
type Factory struct {
	save    map[string]SaveBuilder
	restore map[string]RestoreBuilder
	logger  *slog.Logger
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithLogger sets a custom logger for the factory and the strategies it builds.
func WithLogger(logger *slog.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// NewFactory creates a Factory over the given builder maps.
func NewFactory(save map[string]SaveBuilder, restore map[string]RestoreBuilder, opts ...FactoryOption) *Factory {
	f := &Factory{
		save:    save,
		restore: restore,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateSave validates the entity's save services against ctx and builds
// its save strategy. A missing service yields a *CreationError; a missing
// builder is a programming error and yields a plain error.
func (f *Factory) CreateSave(e *registry.Entity, ctx *Context) (SaveStrategy, error) {
	if err := f.checkServices(e, ctx, e.Descriptor.RequiredServicesSave); err != nil {
		return nil, err
	}
	builder, ok := f.save[e.Name()]
	if !ok {
		return nil, fmt.Errorf("no save strategy registered for entity %q", e.Name())
	}
	return builder(f.deps(e, ctx, e.Descriptor.RequiredServicesSave))
}

// CreateRestore mirrors CreateSave for the restore direction.
func (f *Factory) CreateRestore(e *registry.Entity, ctx *Context) (RestoreStrategy, error) {
	if err := f.checkServices(e, ctx, e.Descriptor.RequiredServicesRestore); err != nil {
		return nil, err
	}
	builder, ok := f.restore[e.Name()]
	if !ok {
		return nil, fmt.Errorf("no restore strategy registered for entity %q", e.Name())
	}
	return builder(f.deps(e, ctx, e.Descriptor.RequiredServicesRestore))
}

// checkServices collects every absent required service before reporting.
func (f *Factory) checkServices(e *registry.Entity, ctx *Context, required []entity.Service) error {
	var missing []entity.Service
	for _, service := range required {
		if !ctx.Has(service) {
			missing = append(missing, service)
		}
	}
	if len(missing) > 0 {
		return &CreationError{Entity: e.Name(), Missing: missing}
	}
	return nil
}

// deps populates exactly the declared services plus shared inputs.
func (f *Factory) deps(e *registry.Entity, ctx *Context, required []entity.Service) Deps {
	d := Deps{
		Selection: e.Value,
		Logger:    f.logger.With("entity", e.Name()),
	}
	for _, service := range required {
		switch service {
		case entity.ServiceRemote:
			d.Remote = ctx.remote
		case entity.ServiceGit:
			d.Git = ctx.git
		case entity.ServiceStorage:
			d.Store = ctx.store
		case entity.ServiceConflictPolicy:
			d.Policy = ctx.policy
		}
	}
	return d
}
