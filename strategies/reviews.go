package strategies

import (
	"context"
	"fmt"

	"github.com/repovault/repovault/clients/hubclient"
	"github.com/repovault/repovault/runctx"
	"github.com/repovault/repovault/strategy"
)

// reviewsSave persists reviews of the pulls the pull save kept. The remote
// only exposes reviews per pull, so collection happens in Transform where
// the saved pull numbers are available.
type reviewsSave struct {
	deps strategy.Deps
}

func (s *reviewsSave) Collect(ctx context.Context) ([]strategy.Item, error) {
	return nil, nil
}

func (s *reviewsSave) Transform(ctx context.Context, items []strategy.Item, run *runctx.RunContext) ([]strategy.Item, error) {
	saved, err := runctx.NumberList(run, runctx.KeySavedPullNumbers)
	if err != nil {
		return nil, err
	}
	var reviews []hubclient.Review
	for _, pull := range saved {
		rs, err := s.deps.Remote.ListReviews(ctx, pull)
		if err != nil {
			return nil, fmt.Errorf("list reviews of pull %d: %w", pull, err)
		}
		reviews = append(reviews, rs...)
	}
	return toItems(reviews), nil
}

func (s *reviewsSave) Persist(ctx context.Context, items []strategy.Item) (int, error) {
	reviews, err := fromItems[hubclient.Review](items)
	if err != nil {
		return 0, err
	}
	if err := s.deps.Store.WriteDocument(docReviews, reviews); err != nil {
		return 0, err
	}
	return len(reviews), nil
}

// reviewsRestore recreates reviews against the pull numbers the pull
// restore published. Reviews of unmapped pulls are dropped.
type reviewsRestore struct {
	deps  strategy.Deps
	pulls map[int]int
}

func (s *reviewsRestore) Read(ctx context.Context) ([]strategy.Item, error) {
	var reviews []hubclient.Review
	if err := s.deps.Store.ReadDocument(docReviews, &reviews); err != nil {
		return nil, err
	}
	return toItems(reviews), nil
}

func (s *reviewsRestore) Transform(ctx context.Context, item strategy.Item, run *runctx.RunContext) (strategy.Item, error) {
	if s.pulls == nil {
		m, err := runctx.NumberMap(run, runctx.KeyPullNumbers)
		if err != nil {
			return nil, err
		}
		s.pulls = m
	}
	review, err := asItem[hubclient.Review](item)
	if err != nil {
		return nil, err
	}
	num, ok := s.pulls[review.PullNumber]
	if !ok {
		s.deps.Logger.Debug("review's pull not restored, skipping", "pull", review.PullNumber)
		return nil, strategy.ErrSkipItem
	}
	review.PullNumber = num
	return review, nil
}

func (s *reviewsRestore) Write(ctx context.Context, payload strategy.Item) (strategy.Item, error) {
	review, err := asItem[hubclient.Review](payload)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Remote.CreateReview(ctx, review.PullNumber, review); err != nil {
		return nil, fmt.Errorf("create review on pull %d: %w", review.PullNumber, err)
	}
	return review, nil
}
