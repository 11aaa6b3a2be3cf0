package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repovault/repovault/orchestrator"
)

func TestRender(t *testing.T) {
	now := time.Now()
	r := &orchestrator.Report{
		Operation: orchestrator.OperationSave,
		Results: []orchestrator.ExecutionResult{
			{Entity: "labels", Status: orchestrator.Succeeded, Items: 12, Duration: 80 * time.Millisecond},
			{Entity: "milestones", Status: orchestrator.Failed, Detail: "list milestones: boom"},
			{Entity: "issues", Status: orchestrator.SkippedUpstreamFailure, Detail: `dependency "milestones" finished with status failed`},
		},
		Success:   false,
		StartedAt: now,
		EndedAt:   now.Add(time.Second),
	}

	var b strings.Builder
	require.NoError(t, Render(&b, r))
	out := b.String()

	assert.Contains(t, out, "labels")
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "skipped (upstream)")
	assert.Contains(t, out, "save failed in 1s: 1/3 entities succeeded")
}

func TestRenderSuccess(t *testing.T) {
	now := time.Now()
	r := &orchestrator.Report{
		Operation: orchestrator.OperationRestore,
		Results: []orchestrator.ExecutionResult{
			{Entity: "labels", Status: orchestrator.Succeeded, Items: 3},
		},
		Success:   true,
		StartedAt: now,
		EndedAt:   now.Add(250 * time.Millisecond),
	}

	var b strings.Builder
	require.NoError(t, Render(&b, r))
	assert.Contains(t, b.String(), "restore succeeded in 250ms: 1/1 entities succeeded")
}
