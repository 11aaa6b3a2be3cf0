package runner

// StateStore manages persistence of run history.
type StateStore interface {
	// History returns run summaries, most recent first.
	History() []RunSummary
	// Record returns the full record for one run.
	Record(id string) (RunRecord, bool)
	// Save persists a completed run.
	Save(record RunRecord) error
}
