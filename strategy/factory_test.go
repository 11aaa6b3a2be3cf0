package strategy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repovault/repovault/entity"
	"github.com/repovault/repovault/numspec"
	"github.com/repovault/repovault/registry"
	"github.com/repovault/repovault/runctx"
)

type fakeSave struct {
	deps Deps
}

func (s *fakeSave) Collect(ctx context.Context) ([]Item, error) { return nil, nil }

func (s *fakeSave) Transform(ctx context.Context, items []Item, run *runctx.RunContext) ([]Item, error) {
	return items, nil
}

func (s *fakeSave) Persist(ctx context.Context, items []Item) (int, error) { return len(items), nil }

func testEntity(t *testing.T, desc entity.Descriptor) *registry.Entity {
	t.Helper()
	reg, err := registry.New([]entity.Descriptor{desc})
	require.NoError(t, err)
	require.NoError(t, reg.ConfigureFrom(nil))
	entities := reg.Entities()
	require.Len(t, entities, 1)
	return entities[0]
}

func TestFactoryCreateSave(t *testing.T) {
	var built *fakeSave
	factory := NewFactory(map[string]SaveBuilder{
		"labels": func(deps Deps) (SaveStrategy, error) {
			built = &fakeSave{deps: deps}
			return built, nil
		},
	}, nil)

	e := testEntity(t, entity.Descriptor{
		Name:                 "labels",
		ConfigKey:            "INCLUDE_LABELS",
		DefaultEnabled:       true,
		ValueKind:            entity.Boolean,
		RequiredServicesSave: []entity.Service{entity.ServiceRemote},
	})

	remote := &stubRemote{}
	ctx := NewContext(WithRemote(remote), WithGit(&stubGit{}))

	strat, err := factory.CreateSave(e, ctx)
	require.NoError(t, err)
	require.Same(t, built, strat)

	// Only the declared service is handed over.
	assert.Same(t, remote, built.deps.Remote)
	assert.Nil(t, built.deps.Git)
	assert.Nil(t, built.deps.Store)
	assert.NotNil(t, built.deps.Logger)
}

func TestFactoryMissingServices(t *testing.T) {
	factory := NewFactory(map[string]SaveBuilder{
		"repository": func(deps Deps) (SaveStrategy, error) {
			t.Fatal("builder must not run when services are missing")
			return nil, nil
		},
	}, nil)

	e := testEntity(t, entity.Descriptor{
		Name:                 "repository",
		ConfigKey:            "INCLUDE_REPOSITORY",
		DefaultEnabled:       true,
		ValueKind:            entity.Boolean,
		RequiredServicesSave: []entity.Service{entity.ServiceGit, entity.ServiceStorage},
	})

	// Remote present, git and storage absent.
	_, err := factory.CreateSave(e, NewContext(WithRemote(&stubRemote{})))
	require.Error(t, err)

	var creation *CreationError
	require.True(t, errors.As(err, &creation))
	assert.Equal(t, "repository", creation.Entity)
	assert.Equal(t, []entity.Service{entity.ServiceGit, entity.ServiceStorage}, creation.Missing)
	assert.Contains(t, creation.Error(), "git_client")
	assert.Contains(t, creation.Error(), "storage")
}

func TestFactoryUnknownEntity(t *testing.T) {
	factory := NewFactory(nil, nil)

	e := testEntity(t, entity.Descriptor{
		Name:           "ghosts",
		ConfigKey:      "INCLUDE_GHOSTS",
		DefaultEnabled: true,
		ValueKind:      entity.Boolean,
	})

	_, err := factory.CreateSave(e, NewContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghosts")

	_, err = factory.CreateRestore(e, NewContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghosts")
}

func TestFactoryDepsSelection(t *testing.T) {
	var got Deps
	factory := NewFactory(map[string]SaveBuilder{
		"issues": func(deps Deps) (SaveStrategy, error) {
			got = deps
			return &fakeSave{}, nil
		},
	}, nil)

	e := testEntity(t, entity.Descriptor{
		Name:                 "issues",
		ConfigKey:            "INCLUDE_ISSUES",
		DefaultEnabled:       true,
		ValueKind:            entity.NumericSelection,
		RequiredServicesSave: []entity.Service{entity.ServiceRemote},
	})
	value, err := numspec.Parse("1,3-5")
	require.NoError(t, err)
	e.Value = value
	e.Enabled = true

	_, err = factory.CreateSave(e, NewContext(WithRemote(&stubRemote{})))
	require.NoError(t, err)
	assert.True(t, got.Selection.Selective())
	assert.True(t, got.Selection.Contains(4))
	assert.False(t, got.Selection.Contains(2))
}
