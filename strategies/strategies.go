// Package strategies contains the save and restore implementations for
// every built-in entity type, and the builder maps the factory resolves
// them from.
package strategies

import (
	"fmt"

	"github.com/repovault/repovault/strategy"
)

// Document names in the snapshot store, one per entity type.
const (
	docLabels     = "labels"
	docMilestones = "milestones"
	docIssues     = "issues"
	docComments   = "comments"
	docSubIssues  = "sub_issues"
	docPulls      = "pulls"
	docReviews    = "reviews"
	docReleases   = "releases"
)

// SaveBuilders returns the save strategy constructors keyed by entity name.
func SaveBuilders() map[string]strategy.SaveBuilder {
	return map[string]strategy.SaveBuilder{
		"repository": func(deps strategy.Deps) (strategy.SaveStrategy, error) {
			return &repositorySave{deps: deps}, nil
		},
		"labels": func(deps strategy.Deps) (strategy.SaveStrategy, error) {
			return &labelsSave{deps: deps}, nil
		},
		"milestones": func(deps strategy.Deps) (strategy.SaveStrategy, error) {
			return &milestonesSave{deps: deps}, nil
		},
		"issues": func(deps strategy.Deps) (strategy.SaveStrategy, error) {
			return &issuesSave{deps: deps}, nil
		},
		"comments": func(deps strategy.Deps) (strategy.SaveStrategy, error) {
			return &commentsSave{deps: deps}, nil
		},
		"sub_issues": func(deps strategy.Deps) (strategy.SaveStrategy, error) {
			return &subIssuesSave{deps: deps}, nil
		},
		"pulls": func(deps strategy.Deps) (strategy.SaveStrategy, error) {
			return &pullsSave{deps: deps}, nil
		},
		"reviews": func(deps strategy.Deps) (strategy.SaveStrategy, error) {
			return &reviewsSave{deps: deps}, nil
		},
		"releases": func(deps strategy.Deps) (strategy.SaveStrategy, error) {
			return &releasesSave{deps: deps}, nil
		},
	}
}

// RestoreBuilders returns the restore strategy constructors keyed by
// entity name.
func RestoreBuilders() map[string]strategy.RestoreBuilder {
	return map[string]strategy.RestoreBuilder{
		"repository": func(deps strategy.Deps) (strategy.RestoreStrategy, error) {
			return &repositoryRestore{deps: deps}, nil
		},
		"labels": func(deps strategy.Deps) (strategy.RestoreStrategy, error) {
			return &labelsRestore{deps: deps}, nil
		},
		"milestones": func(deps strategy.Deps) (strategy.RestoreStrategy, error) {
			return &milestonesRestore{deps: deps, mapping: make(map[int]int)}, nil
		},
		"issues": func(deps strategy.Deps) (strategy.RestoreStrategy, error) {
			return &issuesRestore{deps: deps, mapping: make(map[int]int)}, nil
		},
		"comments": func(deps strategy.Deps) (strategy.RestoreStrategy, error) {
			return &commentsRestore{deps: deps}, nil
		},
		"sub_issues": func(deps strategy.Deps) (strategy.RestoreStrategy, error) {
			return &subIssuesRestore{deps: deps}, nil
		},
		"pulls": func(deps strategy.Deps) (strategy.RestoreStrategy, error) {
			return &pullsRestore{deps: deps, mapping: make(map[int]int)}, nil
		},
		"reviews": func(deps strategy.Deps) (strategy.RestoreStrategy, error) {
			return &reviewsRestore{deps: deps}, nil
		},
		"releases": func(deps strategy.Deps) (strategy.RestoreStrategy, error) {
			return &releasesRestore{deps: deps}, nil
		},
	}
}

// toItems boxes a typed slice into pipeline items.
func toItems[T any](xs []T) []strategy.Item {
	items := make([]strategy.Item, len(xs))
	for i, x := range xs {
		items[i] = x
	}
	return items
}

// fromItems unboxes pipeline items back into a typed slice.
func fromItems[T any](items []strategy.Item) ([]T, error) {
	xs := make([]T, len(items))
	for i, it := range items {
		x, ok := it.(T)
		if !ok {
			return nil, fmt.Errorf("unexpected item type %T", it)
		}
		xs[i] = x
	}
	return xs, nil
}

// asItem unboxes a single pipeline item.
func asItem[T any](item strategy.Item) (T, error) {
	x, ok := item.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("unexpected item type %T", item)
	}
	return x, nil
}
