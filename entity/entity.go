// Package entity defines the static metadata for every backup/restore-able
// entity type. Descriptors are plain data: the registry package interprets
// them and the strategies package implements their pipelines.
package entity

// ValueKind describes how an entity's configuration value is interpreted.
type ValueKind int

const (
	// Boolean entities are either fully included or fully excluded.
	Boolean ValueKind = iota

	// NumericSelection entities additionally accept an explicit set of
	// numbers ("1-3,5") restricting which items are processed.
	NumericSelection
)

// String returns a human-readable representation of the ValueKind.
func (k ValueKind) String() string {
	switch k {
	case Boolean:
		return "boolean"
	case NumericSelection:
		return "numeric_selection"
	default:
		return "unknown"
	}
}

// Service names an injectable collaborator a strategy may require.
type Service string

const (
	// ServiceRemote is the forge API client.
	ServiceRemote Service = "remote_client"

	// ServiceGit is the git repository client.
	ServiceGit Service = "git_client"

	// ServiceStorage is the local snapshot store.
	ServiceStorage Service = "storage"

	// ServiceConflictPolicy decides what to do when a restored item already
	// exists on the remote.
	ServiceConflictPolicy Service = "conflict_policy"
)

// Descriptor is the immutable metadata for one entity type. Descriptors are
// created once in the catalog and never mutated.
type Descriptor struct {
	// Name uniquely identifies the entity.
	Name string

	// ConfigKey is the external configuration lookup key, conventionally an
	// environment variable such as INCLUDE_ISSUES.
	ConfigKey string

	// DefaultEnabled applies when no configuration value is present.
	DefaultEnabled bool

	// ValueKind selects boolean or numeric-selection parsing.
	ValueKind ValueKind

	// Dependencies names the entities that must run before this one.
	Dependencies []string

	// RequiredServicesSave and RequiredServicesRestore list the services the
	// entity's strategies need in each direction.
	RequiredServicesSave    []Service
	RequiredServicesRestore []Service

	// Description is human text with no behavioral effect.
	Description string
}
