package strategy

import (
	"fmt"

	"github.com/repovault/repovault/entity"
)

// ServiceMissingError reports an accessor call for a service that was not
// provided. Callers never receive a nil service silently.
type ServiceMissingError struct {
	Service entity.Service
}

func (e *ServiceMissingError) Error() string {
	return fmt.Sprintf("service %q is not available", e.Service)
}

// Context holds the optional services a run has available. Entities whose
// required services are absent are skipped by the factory rather than
// failing the run.
type Context struct {
	remote RemoteClient
	git    GitClient
	store  SnapshotStore
	policy ConflictPolicy
}

// ContextOption populates one service slot.
type ContextOption func(*Context)

// WithRemote provides the forge API client.
func WithRemote(c RemoteClient) ContextOption {
	return func(ctx *Context) {
		ctx.remote = c
	}
}

// WithGit provides the git repository client.
func WithGit(c GitClient) ContextOption {
	return func(ctx *Context) {
		ctx.git = c
	}
}

// WithStore provides the local snapshot store.
func WithStore(s SnapshotStore) ContextOption {
	return func(ctx *Context) {
		ctx.store = s
	}
}

// WithConflictPolicy provides the restore conflict policy.
func WithConflictPolicy(p ConflictPolicy) ContextOption {
	return func(ctx *Context) {
		ctx.policy = p
	}
}

// NewContext builds a Context with whichever services the caller has.
func NewContext(opts ...ContextOption) *Context {
	ctx := &Context{}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

// Remote returns the forge API client or a ServiceMissingError.
func (c *Context) Remote() (RemoteClient, error) {
	if c.remote == nil {
		return nil, &ServiceMissingError{Service: entity.ServiceRemote}
	}
	return c.remote, nil
}

// Git returns the git client or a ServiceMissingError.
func (c *Context) Git() (GitClient, error) {
	if c.git == nil {
		return nil, &ServiceMissingError{Service: entity.ServiceGit}
	}
	return c.git, nil
}

// Store returns the snapshot store or a ServiceMissingError.
func (c *Context) Store() (SnapshotStore, error) {
	if c.store == nil {
		return nil, &ServiceMissingError{Service: entity.ServiceStorage}
	}
	return c.store, nil
}

// Policy returns the conflict policy or a ServiceMissingError.
func (c *Context) Policy() (ConflictPolicy, error) {
	if c.policy == nil {
		return nil, &ServiceMissingError{Service: entity.ServiceConflictPolicy}
	}
	return c.policy, nil
}

// Has reports whether the named service slot is populated.
func (c *Context) Has(service entity.Service) bool {
	switch service {
	case entity.ServiceRemote:
		return c.remote != nil
	case entity.ServiceGit:
		return c.git != nil
	case entity.ServiceStorage:
		return c.store != nil
	case entity.ServiceConflictPolicy:
		return c.policy != nil
	default:
		return false
	}
}
