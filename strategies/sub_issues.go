package strategies

import (
	"context"
	"fmt"

	"github.com/repovault/repovault/clients/hubclient"
	"github.com/repovault/repovault/runctx"
	"github.com/repovault/repovault/strategy"
)

// subIssuesSave persists parent/child issue relationships. The remote only
// exposes sub-issues per parent, so collection happens in Transform where
// the saved issue numbers are available from the run context.
type subIssuesSave struct {
	deps strategy.Deps
}

func (s *subIssuesSave) Collect(ctx context.Context) ([]strategy.Item, error) {
	return nil, nil
}

func (s *subIssuesSave) Transform(ctx context.Context, items []strategy.Item, run *runctx.RunContext) ([]strategy.Item, error) {
	saved, err := runctx.NumberList(run, runctx.KeySavedIssueNumbers)
	if err != nil {
		return nil, err
	}
	keep := make(map[int]bool, len(saved))
	for _, n := range saved {
		keep[n] = true
	}
	var links []hubclient.SubIssue
	for _, parent := range saved {
		subs, err := s.deps.Remote.ListSubIssues(ctx, parent)
		if err != nil {
			return nil, fmt.Errorf("list sub-issues of %d: %w", parent, err)
		}
		for _, link := range subs {
			if keep[link.ChildNumber] {
				links = append(links, link)
			}
		}
	}
	return toItems(links), nil
}

func (s *subIssuesSave) Persist(ctx context.Context, items []strategy.Item) (int, error) {
	links, err := fromItems[hubclient.SubIssue](items)
	if err != nil {
		return 0, err
	}
	if err := s.deps.Store.WriteDocument(docSubIssues, links); err != nil {
		return 0, err
	}
	return len(links), nil
}

// subIssuesRestore relinks parents and children through the issue numbers
// the issue restore published. Links with either end unmapped are dropped.
type subIssuesRestore struct {
	deps   strategy.Deps
	issues map[int]int
}

func (s *subIssuesRestore) Read(ctx context.Context) ([]strategy.Item, error) {
	var links []hubclient.SubIssue
	if err := s.deps.Store.ReadDocument(docSubIssues, &links); err != nil {
		return nil, err
	}
	return toItems(links), nil
}

func (s *subIssuesRestore) Transform(ctx context.Context, item strategy.Item, run *runctx.RunContext) (strategy.Item, error) {
	if s.issues == nil {
		m, err := runctx.NumberMap(run, runctx.KeyIssueNumbers)
		if err != nil {
			return nil, err
		}
		s.issues = m
	}
	link, err := asItem[hubclient.SubIssue](item)
	if err != nil {
		return nil, err
	}
	parent, ok := s.issues[link.ParentNumber]
	if !ok {
		return nil, strategy.ErrSkipItem
	}
	child, ok := s.issues[link.ChildNumber]
	if !ok {
		return nil, strategy.ErrSkipItem
	}
	return hubclient.SubIssue{ParentNumber: parent, ChildNumber: child}, nil
}

func (s *subIssuesRestore) Write(ctx context.Context, payload strategy.Item) (strategy.Item, error) {
	link, err := asItem[hubclient.SubIssue](payload)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Remote.AddSubIssue(ctx, link.ParentNumber, link.ChildNumber); err != nil {
		return nil, fmt.Errorf("link issue %d under %d: %w", link.ChildNumber, link.ParentNumber, err)
	}
	return link, nil
}
