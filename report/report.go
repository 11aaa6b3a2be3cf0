// Package report renders run reports for terminal output.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/repovault/repovault/orchestrator"
)

// Render writes a human-readable table of the run's per-entity results
// followed by a summary line.
func Render(w io.Writer, r *orchestrator.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTITY\tSTATUS\tITEMS\tDURATION\tDETAIL")
	for _, res := range r.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			res.Entity, statusLabel(res.Status), itemsLabel(res), res.Duration.Round(time.Millisecond), res.Detail)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s %s in %s: %d/%d entities succeeded\n",
		r.Operation, outcome(r.Success), r.Duration().Round(time.Millisecond), succeeded(r), len(r.Results))
	return nil
}

func statusLabel(s orchestrator.Status) string {
	switch s {
	case orchestrator.Succeeded:
		return "ok"
	case orchestrator.Failed:
		return "FAILED"
	case orchestrator.SkippedUpstreamFailure:
		return "skipped (upstream)"
	case orchestrator.SkippedMissingService:
		return "skipped (no service)"
	default:
		return string(s)
	}
}

func itemsLabel(res orchestrator.ExecutionResult) string {
	if res.Status != orchestrator.Succeeded {
		return "-"
	}
	return fmt.Sprintf("%d", res.Items)
}

func outcome(success bool) string {
	if success {
		return "succeeded"
	}
	return "failed"
}

func succeeded(r *orchestrator.Report) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == orchestrator.Succeeded {
			n++
		}
	}
	return n
}
