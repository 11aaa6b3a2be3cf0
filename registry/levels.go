package registry

import "fmt"

// ComputeLevels partitions the enabled entities into execution levels using
// Kahn's algorithm: level 0 holds enabled entities with no enabled
// dependencies, level k holds entities whose dependencies all sit in levels
// below k. Ties within a level keep discovery order, so the schedule is
// deterministic. The result is cached and returned by Levels.
//
// Discovery already rejected cycles over the full graph, so a cycle here in
// the enabled subgraph cannot happen; it is still checked and fatal.
func (r *Registry) ComputeLevels() ([][]*Entity, error) {
	enabled := r.EnabledEntities()

	inDegree := make(map[string]int, len(enabled))
	dependents := make(map[string][]*Entity, len(enabled))
	for _, e := range enabled {
		count := 0
		for _, depName := range e.Descriptor.Dependencies {
			dep := r.byName[depName]
			if !dep.Enabled {
				// Unreachable after ValidateDependencies; an enabled entity
				// never keeps a disabled dependency.
				continue
			}
			count++
			dependents[depName] = append(dependents[depName], e)
		}
		inDegree[e.Name()] = count
	}

	var levels [][]*Entity
	current := collectReady(enabled, inDegree, nil)
	processed := 0

	for len(current) > 0 {
		levels = append(levels, current)
		processed += len(current)

		next := make(map[string]bool)
		for _, e := range current {
			for _, dependent := range dependents[e.Name()] {
				inDegree[dependent.Name()]--
				if inDegree[dependent.Name()] == 0 {
					next[dependent.Name()] = true
				}
			}
		}
		current = collectReady(enabled, inDegree, next)
	}

	if processed != len(enabled) {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("dependency cycle among enabled entities: scheduled %d of %d", processed, len(enabled)),
		}
	}

	r.levels = levels
	r.logger.Debug("execution levels computed", "levels", len(levels), "entities", processed)
	return levels, nil
}

// Levels returns the cached level partition. ComputeLevels must have been
// called since the last ConfigureFrom.
func (r *Registry) Levels() [][]*Entity {
	return r.levels
}

// collectReady gathers entities whose in-degree reached zero, in discovery
// order. When ready is nil it selects every zero in-degree entity (the
// initial wave); afterwards only the names newly released in this wave.
func collectReady(enabled []*Entity, inDegree map[string]int, ready map[string]bool) []*Entity {
	var out []*Entity
	for _, e := range enabled {
		if ready == nil {
			if inDegree[e.Name()] == 0 {
				out = append(out, e)
			}
		} else if ready[e.Name()] {
			out = append(out, e)
		}
	}
	return out
}

// checkAcyclic verifies the full dependency graph (ignoring enablement) has
// no cycles. Used once at discovery time.
func (r *Registry) checkAcyclic() error {
	inDegree := make(map[string]int, len(r.entities))
	for _, e := range r.entities {
		inDegree[e.Name()] = len(e.Descriptor.Dependencies)
	}

	queue := make([]*Entity, 0, len(r.entities))
	for _, e := range r.entities {
		if inDegree[e.Name()] == 0 {
			queue = append(queue, e)
		}
	}

	processed := 0
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		processed++

		for _, e := range r.entities {
			for _, depName := range e.Descriptor.Dependencies {
				if depName != current.Name() {
					continue
				}
				inDegree[e.Name()]--
				if inDegree[e.Name()] == 0 {
					queue = append(queue, e)
				}
			}
		}
	}

	if processed != len(r.entities) {
		var stuck []string
		for name, deg := range inDegree {
			if deg > 0 {
				stuck = append(stuck, name)
			}
		}
		return &ConfigurationError{
			Reason: fmt.Sprintf("dependency cycle involving %v", stuck),
		}
	}
	return nil
}
