package strategies

import (
	"context"
	"fmt"

	"github.com/repovault/repovault/clients/hubclient"
	"github.com/repovault/repovault/runctx"
	"github.com/repovault/repovault/strategy"
)

// milestonesSave persists milestones and publishes the internal-ID to
// number mapping that issue and pull saves use to rewrite their milestone
// references.
type milestonesSave struct {
	deps strategy.Deps
	byID map[int]int
}

func (s *milestonesSave) Collect(ctx context.Context) ([]strategy.Item, error) {
	milestones, err := s.deps.Remote.ListMilestones(ctx)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	s.byID = make(map[int]int, len(milestones))
	for _, m := range milestones {
		s.byID[m.ID] = m.Number
	}
	return toItems(milestones), nil
}

func (s *milestonesSave) Transform(ctx context.Context, items []strategy.Item, run *runctx.RunContext) ([]strategy.Item, error) {
	return items, nil
}

func (s *milestonesSave) Persist(ctx context.Context, items []strategy.Item) (int, error) {
	milestones, err := fromItems[hubclient.Milestone](items)
	if err != nil {
		return 0, err
	}
	if err := s.deps.Store.WriteDocument(docMilestones, milestones); err != nil {
		return 0, err
	}
	return len(milestones), nil
}

func (s *milestonesSave) Publish(run *runctx.RunContext) error {
	return run.Put(runctx.KeyMilestonesByID, s.byID)
}

// milestonesRestore recreates milestones and publishes the saved-number to
// new-number mapping for downstream restores. A milestone whose title
// already exists on the remote is skipped under the skip policy but still
// contributes to the mapping, so issues referring to it restore correctly.
type milestonesRestore struct {
	deps            strategy.Deps
	existingByTitle map[string]int
	mapping         map[int]int
}

func (s *milestonesRestore) Read(ctx context.Context) ([]strategy.Item, error) {
	var milestones []hubclient.Milestone
	if err := s.deps.Store.ReadDocument(docMilestones, &milestones); err != nil {
		return nil, err
	}
	remote, err := s.deps.Remote.ListMilestones(ctx)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	s.existingByTitle = make(map[string]int, len(remote))
	for _, m := range remote {
		s.existingByTitle[m.Title] = m.Number
	}
	return toItems(milestones), nil
}

func (s *milestonesRestore) Transform(ctx context.Context, item strategy.Item, run *runctx.RunContext) (strategy.Item, error) {
	m, err := asItem[hubclient.Milestone](item)
	if err != nil {
		return nil, err
	}
	if num, ok := s.existingByTitle[m.Title]; ok && s.deps.Policy.Resolve("milestones", m.Title) == strategy.Skip {
		s.mapping[m.Number] = num
		s.deps.Logger.Debug("milestone exists, skipping", "title", m.Title, "number", num)
		return nil, strategy.ErrSkipItem
	}
	return m, nil
}

func (s *milestonesRestore) Write(ctx context.Context, payload strategy.Item) (strategy.Item, error) {
	m, err := asItem[hubclient.Milestone](payload)
	if err != nil {
		return nil, err
	}
	created, err := s.deps.Remote.CreateMilestone(ctx, hubclient.NewMilestone{
		Title:       m.Title,
		State:       m.State,
		Description: m.Description,
		DueOn:       m.DueOn,
	})
	if err != nil {
		return nil, fmt.Errorf("create milestone %q: %w", m.Title, err)
	}
	s.mapping[m.Number] = created.Number
	return created, nil
}

func (s *milestonesRestore) Publish(run *runctx.RunContext) error {
	return run.Put(runctx.KeyMilestoneNumbers, s.mapping)
}
