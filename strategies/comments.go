package strategies

import (
	"context"
	"fmt"

	"github.com/repovault/repovault/clients/hubclient"
	"github.com/repovault/repovault/runctx"
	"github.com/repovault/repovault/strategy"
)

// commentsSave persists comments belonging to the issues the issue save
// actually kept, so a selective issue save does not drag along comments of
// unselected issues.
type commentsSave struct {
	deps strategy.Deps
}

func (s *commentsSave) Collect(ctx context.Context) ([]strategy.Item, error) {
	comments, err := s.deps.Remote.ListComments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return toItems(comments), nil
}

func (s *commentsSave) Transform(ctx context.Context, items []strategy.Item, run *runctx.RunContext) ([]strategy.Item, error) {
	saved, err := runctx.NumberList(run, runctx.KeySavedIssueNumbers)
	if err != nil {
		return nil, err
	}
	keep := make(map[int]bool, len(saved))
	for _, n := range saved {
		keep[n] = true
	}
	comments, err := fromItems[hubclient.Comment](items)
	if err != nil {
		return nil, err
	}
	kept := comments[:0]
	for _, c := range comments {
		if keep[c.IssueNumber] {
			kept = append(kept, c)
		}
	}
	return toItems(kept), nil
}

func (s *commentsSave) Persist(ctx context.Context, items []strategy.Item) (int, error) {
	comments, err := fromItems[hubclient.Comment](items)
	if err != nil {
		return 0, err
	}
	if err := s.deps.Store.WriteDocument(docComments, comments); err != nil {
		return 0, err
	}
	return len(comments), nil
}

// commentsRestore recreates comments against the issue numbers the issue
// restore published. A comment whose issue has no mapping (skipped by
// selection, for instance) is dropped.
type commentsRestore struct {
	deps   strategy.Deps
	issues map[int]int
}

func (s *commentsRestore) Read(ctx context.Context) ([]strategy.Item, error) {
	var comments []hubclient.Comment
	if err := s.deps.Store.ReadDocument(docComments, &comments); err != nil {
		return nil, err
	}
	return toItems(comments), nil
}

func (s *commentsRestore) Transform(ctx context.Context, item strategy.Item, run *runctx.RunContext) (strategy.Item, error) {
	if s.issues == nil {
		m, err := runctx.NumberMap(run, runctx.KeyIssueNumbers)
		if err != nil {
			return nil, err
		}
		s.issues = m
	}
	comment, err := asItem[hubclient.Comment](item)
	if err != nil {
		return nil, err
	}
	num, ok := s.issues[comment.IssueNumber]
	if !ok {
		s.deps.Logger.Debug("comment's issue not restored, skipping", "issue", comment.IssueNumber)
		return nil, strategy.ErrSkipItem
	}
	comment.IssueNumber = num
	return comment, nil
}

func (s *commentsRestore) Write(ctx context.Context, payload strategy.Item) (strategy.Item, error) {
	comment, err := asItem[hubclient.Comment](payload)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Remote.CreateComment(ctx, comment.IssueNumber, comment); err != nil {
		return nil, fmt.Errorf("create comment on issue %d: %w", comment.IssueNumber, err)
	}
	return comment, nil
}
