package strategies

import (
	"context"
	"fmt"

	"github.com/repovault/repovault/clients/hubclient"
	"github.com/repovault/repovault/runctx"
	"github.com/repovault/repovault/strategy"
)

// issuesSave persists issues, rewriting the remote's internal milestone ID
// into the user-visible milestone number so the snapshot stays portable.
// A numeric selection restricts it to the named issue numbers.
type issuesSave struct {
	deps  strategy.Deps
	saved []int
}

func (s *issuesSave) Collect(ctx context.Context) ([]strategy.Item, error) {
	issues, err := s.deps.Remote.ListIssues(ctx)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	if s.deps.Selection.Selective() {
		kept := issues[:0]
		for _, i := range issues {
			if s.deps.Selection.Contains(i.Number) {
				kept = append(kept, i)
			}
		}
		issues = kept
	}
	return toItems(issues), nil
}

func (s *issuesSave) Transform(ctx context.Context, items []strategy.Item, run *runctx.RunContext) ([]strategy.Item, error) {
	byID, err := runctx.NumberMap(run, runctx.KeyMilestonesByID)
	if err != nil {
		return nil, err
	}
	issues, err := fromItems[hubclient.Issue](items)
	if err != nil {
		return nil, err
	}
	s.saved = make([]int, 0, len(issues))
	for i := range issues {
		if issues[i].MilestoneID != 0 {
			issues[i].MilestoneNumber = byID[issues[i].MilestoneID]
		}
		issues[i].MilestoneID = 0
		s.saved = append(s.saved, issues[i].Number)
	}
	return toItems(issues), nil
}

func (s *issuesSave) Persist(ctx context.Context, items []strategy.Item) (int, error) {
	issues, err := fromItems[hubclient.Issue](items)
	if err != nil {
		return 0, err
	}
	if err := s.deps.Store.WriteDocument(docIssues, issues); err != nil {
		return 0, err
	}
	return len(issues), nil
}

func (s *issuesSave) Publish(run *runctx.RunContext) error {
	return run.Put(runctx.KeySavedIssueNumbers, s.saved)
}

// issuesRestore recreates issues and publishes the saved-number to
// new-number mapping. Milestone references are remapped through the numbers
// the milestone restore published. An issue whose title already exists is
// skipped under the skip policy; the existing issue then stands in for the
// saved one in the mapping so comments and sub-issue links still attach.
type issuesRestore struct {
	deps            strategy.Deps
	existingByTitle map[string]int
	milestones      map[int]int
	mapping         map[int]int
}

func (s *issuesRestore) Read(ctx context.Context) ([]strategy.Item, error) {
	var issues []hubclient.Issue
	if err := s.deps.Store.ReadDocument(docIssues, &issues); err != nil {
		return nil, err
	}
	if s.deps.Selection.Selective() {
		kept := issues[:0]
		for _, i := range issues {
			if s.deps.Selection.Contains(i.Number) {
				kept = append(kept, i)
			}
		}
		issues = kept
	}
	remote, err := s.deps.Remote.ListIssues(ctx)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	s.existingByTitle = make(map[string]int, len(remote))
	for _, i := range remote {
		s.existingByTitle[i.Title] = i.Number
	}
	return toItems(issues), nil
}

func (s *issuesRestore) Transform(ctx context.Context, item strategy.Item, run *runctx.RunContext) (strategy.Item, error) {
	if s.milestones == nil {
		m, err := runctx.NumberMap(run, runctx.KeyMilestoneNumbers)
		if err != nil {
			return nil, err
		}
		s.milestones = m
	}
	issue, err := asItem[hubclient.Issue](item)
	if err != nil {
		return nil, err
	}
	if num, ok := s.existingByTitle[issue.Title]; ok && s.deps.Policy.Resolve("issues", issue.Title) == strategy.Skip {
		s.mapping[issue.Number] = num
		s.deps.Logger.Debug("issue exists, skipping", "title", issue.Title, "number", num)
		return nil, strategy.ErrSkipItem
	}
	if issue.MilestoneNumber != 0 {
		issue.MilestoneNumber = s.milestones[issue.MilestoneNumber]
	}
	return issue, nil
}

func (s *issuesRestore) Write(ctx context.Context, payload strategy.Item) (strategy.Item, error) {
	issue, err := asItem[hubclient.Issue](payload)
	if err != nil {
		return nil, err
	}
	created, err := s.deps.Remote.CreateIssue(ctx, hubclient.NewIssue{
		Title:           issue.Title,
		Body:            issue.Body,
		Labels:          issue.Labels,
		Assignees:       issue.Assignees,
		MilestoneNumber: issue.MilestoneNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("create issue %q: %w", issue.Title, err)
	}
	s.mapping[issue.Number] = created.Number
	return created, nil
}

func (s *issuesRestore) Publish(run *runctx.RunContext) error {
	return run.Put(runctx.KeyIssueNumbers, s.mapping)
}
