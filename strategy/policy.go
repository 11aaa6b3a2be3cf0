package strategy

// Decision is a conflict policy verdict for one item.
type Decision int

const (
	// Skip leaves the existing remote item untouched.
	Skip Decision = iota

	// Overwrite writes the saved item even though one already exists.
	Overwrite
)

// String returns a human-readable representation of the Decision.
func (d Decision) String() string {
	switch d {
	case Skip:
		return "skip"
	case Overwrite:
		return "overwrite"
	default:
		return "unknown"
	}
}

// ConflictPolicy decides what a restore strategy does when an item it is
// about to create already exists on the remote. key identifies the item
// within its entity type (a label name, a milestone title, ...).
type ConflictPolicy interface {
	Resolve(entityName, key string) Decision
}

// SkipExisting returns a policy that never overwrites remote items.
func SkipExisting() ConflictPolicy {
	return fixedPolicy(Skip)
}

// OverwriteExisting returns a policy that always writes saved items.
func OverwriteExisting() ConflictPolicy {
	return fixedPolicy(Overwrite)
}

type fixedPolicy Decision

func (p fixedPolicy) Resolve(entityName, key string) Decision {
	return Decision(p)
}
