package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repovault/repovault/config"
	"github.com/repovault/repovault/orchestrator"
	"github.com/repovault/repovault/storage"
)

func TestSnapshotManifestCountsSucceededEntities(t *testing.T) {
	cfg := config.Config{}
	cfg.Remote.Owner = "octo"
	cfg.Remote.Repo = "widgets"

	ended := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	rep := &orchestrator.Report{
		Operation: orchestrator.OperationSave,
		EndedAt:   ended,
		Results: []orchestrator.ExecutionResult{
			{Entity: "labels", Status: orchestrator.Succeeded, Items: 4},
			{Entity: "issues", Status: orchestrator.Succeeded, Items: 12},
			{Entity: "comments", Status: orchestrator.Failed, Items: 0},
			{Entity: "sub_issues", Status: orchestrator.SkippedUpstreamFailure},
		},
	}

	m := snapshotManifest(cfg, rep)

	assert.Equal(t, "octo", m.Owner)
	assert.Equal(t, "widgets", m.Repo)
	assert.Equal(t, ended, m.CreatedAt)
	assert.Equal(t, map[string]int{"labels": 4, "issues": 12}, m.Counts)
	assert.NotContains(t, m.Counts, "comments")
}

func TestSnapshotManifestRoundTripsThroughStore(t *testing.T) {
	store, err := storage.Open(t.TempDir())
	require.NoError(t, err)

	cfg := config.Config{}
	cfg.Remote.Owner = "octo"
	cfg.Remote.Repo = "widgets"
	rep := &orchestrator.Report{
		Operation: orchestrator.OperationSave,
		Success:   true,
		EndedAt:   time.Now().UTC().Truncate(time.Second),
		Results: []orchestrator.ExecutionResult{
			{Entity: "milestones", Status: orchestrator.Succeeded, Items: 3},
		},
	}

	require.NoError(t, store.WriteManifest(snapshotManifest(cfg, rep)))

	got, err := store.ReadManifest()
	require.NoError(t, err)
	assert.Equal(t, "octo", got.Owner)
	assert.Equal(t, "widgets", got.Repo)
	assert.Equal(t, map[string]int{"milestones": 3}, got.Counts)
	assert.True(t, got.CreatedAt.Equal(rep.EndedAt))
}
