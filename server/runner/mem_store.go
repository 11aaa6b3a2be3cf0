package runner

import "sync"

// MemoryStore keeps run history in memory only.
type MemoryStore struct {
	mu       sync.Mutex
	records  []RunRecord
	maxCount int
}

// NewMemoryStore creates an in-memory store bounded to maxCount runs.
func NewMemoryStore(maxCount int) *MemoryStore {
	return &MemoryStore{maxCount: maxCount}
}

// History returns all runs as summaries, most recent first.
func (s *MemoryStore) History() []RunSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]RunSummary, len(s.records))
	for i, r := range s.records {
		result[i] = r.RunSummary
	}
	return result
}

// Record returns the full record for a specific run.
func (s *MemoryStore) Record(id string) (RunRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return RunRecord{}, false
}

// Save stores a run in memory, most recent first.
func (s *MemoryStore) Save(record RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == "" {
		record.ID = record.CalculateID()
	}
	s.records = append([]RunRecord{record}, s.records...)
	if s.maxCount > 0 && len(s.records) > s.maxCount {
		s.records = s.records[:s.maxCount]
	}
	return nil
}
