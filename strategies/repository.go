package strategies

import (
	"context"
	"fmt"
	"os"

	"github.com/repovault/repovault/runctx"
	"github.com/repovault/repovault/strategy"
)

// repositorySave mirrors the git repository into the snapshot directory.
// The item count is the number of refs in the mirror.
type repositorySave struct {
	deps strategy.Deps
}

func (s *repositorySave) Collect(ctx context.Context) ([]strategy.Item, error) {
	return nil, nil
}

func (s *repositorySave) Transform(ctx context.Context, items []strategy.Item, run *runctx.RunContext) ([]strategy.Item, error) {
	return items, nil
}

func (s *repositorySave) Persist(ctx context.Context, items []strategy.Item) (int, error) {
	dir := s.deps.Store.RepoDir()
	if err := s.deps.Git.MirrorClone(ctx, dir); err != nil {
		return 0, fmt.Errorf("mirror clone: %w", err)
	}
	refs, err := s.deps.Git.RefCount(ctx, dir)
	if err != nil {
		return 0, fmt.Errorf("count refs: %w", err)
	}
	s.deps.Logger.Info("repository mirrored", "dir", dir, "refs", refs)
	return refs, nil
}

// repositoryRestore pushes the saved mirror back to the remote.
type repositoryRestore struct {
	deps strategy.Deps
}

func (s *repositoryRestore) Read(ctx context.Context) ([]strategy.Item, error) {
	dir := s.deps.Store.RepoDir()
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("no repository mirror at %s: %w", dir, err)
	}
	return []strategy.Item{dir}, nil
}

func (s *repositoryRestore) Transform(ctx context.Context, item strategy.Item, run *runctx.RunContext) (strategy.Item, error) {
	return item, nil
}

func (s *repositoryRestore) Write(ctx context.Context, payload strategy.Item) (strategy.Item, error) {
	dir, err := asItem[string](payload)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Git.MirrorPush(ctx, dir); err != nil {
		return nil, fmt.Errorf("mirror push: %w", err)
	}
	return dir, nil
}
