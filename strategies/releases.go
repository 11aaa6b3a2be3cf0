package strategies

import (
	"context"
	"fmt"

	"github.com/repovault/repovault/clients/hubclient"
	"github.com/repovault/repovault/runctx"
	"github.com/repovault/repovault/strategy"
)

type releasesSave struct {
	deps strategy.Deps
}

func (s *releasesSave) Collect(ctx context.Context) ([]strategy.Item, error) {
	releases, err := s.deps.Remote.ListReleases(ctx)
	if err != nil {
		return nil, fmt.Errorf("list releases: %w", err)
	}
	return toItems(releases), nil
}

func (s *releasesSave) Transform(ctx context.Context, items []strategy.Item, run *runctx.RunContext) ([]strategy.Item, error) {
	return items, nil
}

func (s *releasesSave) Persist(ctx context.Context, items []strategy.Item) (int, error) {
	releases, err := fromItems[hubclient.Release](items)
	if err != nil {
		return 0, err
	}
	if err := s.deps.Store.WriteDocument(docReleases, releases); err != nil {
		return 0, err
	}
	return len(releases), nil
}

// releasesRestore recreates releases. A tag can only carry one release, so
// releases whose tag already exists on the remote are always dropped. The
// tags themselves arrive with the repository restore's mirror push.
type releasesRestore struct {
	deps         strategy.Deps
	existingTags map[string]bool
}

func (s *releasesRestore) Read(ctx context.Context) ([]strategy.Item, error) {
	var releases []hubclient.Release
	if err := s.deps.Store.ReadDocument(docReleases, &releases); err != nil {
		return nil, err
	}
	remote, err := s.deps.Remote.ListReleases(ctx)
	if err != nil {
		return nil, fmt.Errorf("list releases: %w", err)
	}
	s.existingTags = make(map[string]bool, len(remote))
	for _, r := range remote {
		s.existingTags[r.TagName] = true
	}
	return toItems(releases), nil
}

func (s *releasesRestore) Transform(ctx context.Context, item strategy.Item, run *runctx.RunContext) (strategy.Item, error) {
	release, err := asItem[hubclient.Release](item)
	if err != nil {
		return nil, err
	}
	if s.existingTags[release.TagName] {
		s.deps.Logger.Debug("release tag exists, skipping", "tag", release.TagName)
		return nil, strategy.ErrSkipItem
	}
	return release, nil
}

func (s *releasesRestore) Write(ctx context.Context, payload strategy.Item) (strategy.Item, error) {
	release, err := asItem[hubclient.Release](payload)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Remote.CreateRelease(ctx, release); err != nil {
		return nil, fmt.Errorf("create release %q: %w", release.TagName, err)
	}
	return release, nil
}
