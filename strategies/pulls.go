package strategies

import (
	"context"
	"fmt"

	"github.com/repovault/repovault/clients/hubclient"
	"github.com/repovault/repovault/runctx"
	"github.com/repovault/repovault/strategy"
)

// pullsSave persists pull requests with milestone IDs rewritten to numbers,
// honoring a numeric selection, and publishes the saved pull numbers for
// the review save.
type pullsSave struct {
	deps  strategy.Deps
	saved []int
}

func (s *pullsSave) Collect(ctx context.Context) ([]strategy.Item, error) {
	pulls, err := s.deps.Remote.ListPulls(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pulls: %w", err)
	}
	if s.deps.Selection.Selective() {
		kept := pulls[:0]
		for _, p := range pulls {
			if s.deps.Selection.Contains(p.Number) {
				kept = append(kept, p)
			}
		}
		pulls = kept
	}
	return toItems(pulls), nil
}

func (s *pullsSave) Transform(ctx context.Context, items []strategy.Item, run *runctx.RunContext) ([]strategy.Item, error) {
	byID, err := runctx.NumberMap(run, runctx.KeyMilestonesByID)
	if err != nil {
		return nil, err
	}
	pulls, err := fromItems[hubclient.Pull](items)
	if err != nil {
		return nil, err
	}
	s.saved = make([]int, 0, len(pulls))
	for i := range pulls {
		if pulls[i].MilestoneID != 0 {
			pulls[i].MilestoneNumber = byID[pulls[i].MilestoneID]
		}
		pulls[i].MilestoneID = 0
		s.saved = append(s.saved, pulls[i].Number)
	}
	return toItems(pulls), nil
}

func (s *pullsSave) Persist(ctx context.Context, items []strategy.Item) (int, error) {
	pulls, err := fromItems[hubclient.Pull](items)
	if err != nil {
		return 0, err
	}
	if err := s.deps.Store.WriteDocument(docPulls, pulls); err != nil {
		return 0, err
	}
	return len(pulls), nil
}

func (s *pullsSave) Publish(run *runctx.RunContext) error {
	return run.Put(runctx.KeySavedPullNumbers, s.saved)
}

// pullsRestore recreates pull requests and publishes the saved-number to
// new-number mapping for the review restore. Creation requires the head and
// base refs to exist, so the repository restore runs first.
type pullsRestore struct {
	deps            strategy.Deps
	existingByTitle map[string]int
	mapping         map[int]int
}

func (s *pullsRestore) Read(ctx context.Context) ([]strategy.Item, error) {
	var pulls []hubclient.Pull
	if err := s.deps.Store.ReadDocument(docPulls, &pulls); err != nil {
		return nil, err
	}
	if s.deps.Selection.Selective() {
		kept := pulls[:0]
		for _, p := range pulls {
			if s.deps.Selection.Contains(p.Number) {
				kept = append(kept, p)
			}
		}
		pulls = kept
	}
	remote, err := s.deps.Remote.ListPulls(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pulls: %w", err)
	}
	s.existingByTitle = make(map[string]int, len(remote))
	for _, p := range remote {
		s.existingByTitle[p.Title] = p.Number
	}
	return toItems(pulls), nil
}

func (s *pullsRestore) Transform(ctx context.Context, item strategy.Item, run *runctx.RunContext) (strategy.Item, error) {
	pull, err := asItem[hubclient.Pull](item)
	if err != nil {
		return nil, err
	}
	if num, ok := s.existingByTitle[pull.Title]; ok && s.deps.Policy.Resolve("pulls", pull.Title) == strategy.Skip {
		s.mapping[pull.Number] = num
		s.deps.Logger.Debug("pull exists, skipping", "title", pull.Title, "number", num)
		return nil, strategy.ErrSkipItem
	}
	return pull, nil
}

func (s *pullsRestore) Write(ctx context.Context, payload strategy.Item) (strategy.Item, error) {
	pull, err := asItem[hubclient.Pull](payload)
	if err != nil {
		return nil, err
	}
	created, err := s.deps.Remote.CreatePull(ctx, hubclient.NewPull{
		Title:   pull.Title,
		Body:    pull.Body,
		HeadRef: pull.HeadRef,
		BaseRef: pull.BaseRef,
	})
	if err != nil {
		return nil, fmt.Errorf("create pull %q: %w", pull.Title, err)
	}
	s.mapping[pull.Number] = created.Number
	return created, nil
}

func (s *pullsRestore) Publish(run *runctx.RunContext) error {
	return run.Put(runctx.KeyPullNumbers, s.mapping)
}
