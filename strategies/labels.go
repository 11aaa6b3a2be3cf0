package strategies

import (
	"context"
	"fmt"

	"github.com/repovault/repovault/clients/hubclient"
	"github.com/repovault/repovault/runctx"
	"github.com/repovault/repovault/strategy"
)

type labelsSave struct {
	deps strategy.Deps
}

func (s *labelsSave) Collect(ctx context.Context) ([]strategy.Item, error) {
	labels, err := s.deps.Remote.ListLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	return toItems(labels), nil
}

func (s *labelsSave) Transform(ctx context.Context, items []strategy.Item, run *runctx.RunContext) ([]strategy.Item, error) {
	return items, nil
}

func (s *labelsSave) Persist(ctx context.Context, items []strategy.Item) (int, error) {
	labels, err := fromItems[hubclient.Label](items)
	if err != nil {
		return 0, err
	}
	if err := s.deps.Store.WriteDocument(docLabels, labels); err != nil {
		return 0, err
	}
	return len(labels), nil
}

// labelsRestore recreates saved labels, consulting the conflict policy for
// labels that already exist on the remote.
type labelsRestore struct {
	deps     strategy.Deps
	existing map[string]bool
}

func (s *labelsRestore) Read(ctx context.Context) ([]strategy.Item, error) {
	var labels []hubclient.Label
	if err := s.deps.Store.ReadDocument(docLabels, &labels); err != nil {
		return nil, err
	}
	remote, err := s.deps.Remote.ListLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	s.existing = make(map[string]bool, len(remote))
	for _, l := range remote {
		s.existing[l.Name] = true
	}
	return toItems(labels), nil
}

func (s *labelsRestore) Transform(ctx context.Context, item strategy.Item, run *runctx.RunContext) (strategy.Item, error) {
	label, err := asItem[hubclient.Label](item)
	if err != nil {
		return nil, err
	}
	if s.existing[label.Name] && s.deps.Policy.Resolve("labels", label.Name) == strategy.Skip {
		s.deps.Logger.Debug("label exists, skipping", "name", label.Name)
		return nil, strategy.ErrSkipItem
	}
	return label, nil
}

func (s *labelsRestore) Write(ctx context.Context, payload strategy.Item) (strategy.Item, error) {
	label, err := asItem[hubclient.Label](payload)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Remote.CreateLabel(ctx, label); err != nil {
		return nil, fmt.Errorf("create label %q: %w", label.Name, err)
	}
	return label, nil
}
