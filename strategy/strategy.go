// Package strategy defines the save/restore pipeline contracts, the typed
// service context strategies are built from, and the factory that
// constructs a strategy for an entity after verifying its required services
// are present.
package strategy

import (
	"context"
	"errors"

	"github.com/repovault/repovault/clients/hubclient"
	"github.com/repovault/repovault/runctx"
)

// Item is one raw entity payload flowing through a pipeline. Each strategy
// knows the concrete type of its own items.
type Item any

// ErrSkipItem is returned from a restore Transform or Write to drop a
// single item without failing the entity. The item is not counted.
var ErrSkipItem = errors.New("skip item")

// SaveStrategy saves one entity type: collect from the remote, transform
// with values shared by earlier levels, persist to local storage.
type SaveStrategy interface {
	// Collect fetches the raw items from the remote.
	Collect(ctx context.Context) ([]Item, error)

	// Transform prepares items for persistence. It may read values that
	// earlier levels published into the run context.
	Transform(ctx context.Context, items []Item, run *runctx.RunContext) ([]Item, error)

	// Persist writes the items to local storage and returns the item count.
	Persist(ctx context.Context, items []Item) (int, error)
}

// RestoreStrategy restores one entity type: read from local storage,
// transform each saved item into a creation payload, write to the remote.
type RestoreStrategy interface {
	// Read loads the saved items from local storage.
	Read(ctx context.Context) ([]Item, error)

	// Transform converts one saved item into its creation payload. It may
	// read values that earlier levels published into the run context.
	Transform(ctx context.Context, item Item, run *runctx.RunContext) (Item, error)

	// Write creates the item on the remote and returns the created form.
	Write(ctx context.Context, payload Item) (Item, error)
}

// Publisher is implemented by strategies that export values for later
// levels. Publish is called once, after the pipeline succeeds; each key may
// be written only once per run.
type Publisher interface {
	Publish(run *runctx.RunContext) error
}

// RemoteClient is the forge API surface the strategies consume.
// *hubclient.Client implements it.
type RemoteClient interface {
	ListLabels(ctx context.Context) ([]hubclient.Label, error)
	CreateLabel(ctx context.Context, label hubclient.Label) error

	ListMilestones(ctx context.Context) ([]hubclient.Milestone, error)
	CreateMilestone(ctx context.Context, m hubclient.NewMilestone) (hubclient.Milestone, error)

	ListIssues(ctx context.Context) ([]hubclient.Issue, error)
	CreateIssue(ctx context.Context, issue hubclient.NewIssue) (hubclient.Issue, error)

	ListComments(ctx context.Context) ([]hubclient.Comment, error)
	CreateComment(ctx context.Context, issueNumber int, comment hubclient.Comment) error

	ListSubIssues(ctx context.Context, parentNumber int) ([]hubclient.SubIssue, error)
	AddSubIssue(ctx context.Context, parentNumber, childNumber int) error

	ListPulls(ctx context.Context) ([]hubclient.Pull, error)
	CreatePull(ctx context.Context, pull hubclient.NewPull) (hubclient.Pull, error)

	ListReviews(ctx context.Context, pullNumber int) ([]hubclient.Review, error)
	CreateReview(ctx context.Context, pullNumber int, review hubclient.Review) error

	ListReleases(ctx context.Context) ([]hubclient.Release, error)
	CreateRelease(ctx context.Context, release hubclient.Release) error
}

// GitClient mirrors the git repository. *gitclient.Client implements it.
type GitClient interface {
	MirrorClone(ctx context.Context, dir string) error
	MirrorPush(ctx context.Context, dir string) error
	RefCount(ctx context.Context, dir string) (int, error)
}

// SnapshotStore persists entity documents. *storage.Store implements it.
type SnapshotStore interface {
	WriteDocument(name string, v any) error
	ReadDocument(name string, v any) error
	RepoDir() string
}
