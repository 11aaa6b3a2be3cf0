package registry

import "fmt"

// ConfigurationError reports a structural problem with the entity set:
// malformed or duplicate descriptors, unknown dependency references,
// dependency cycles, or strict-mode dependency violations. It is fatal and
// always raised before any entity executes.
type ConfigurationError struct {
	Entity string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error: entity %q: %s", e.Entity, e.Reason)
}

// ValidationError reports a malformed configuration value for a specific
// entity. It is fatal and always raised before any entity executes.
type ValidationError struct {
	Entity string
	Raw    string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value %q for entity %q: %v", e.Raw, e.Entity, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
