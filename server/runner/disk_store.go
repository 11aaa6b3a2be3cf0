package runner

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// DiskStore persists run history to disk as one JSON file per run.
type DiskStore struct {
	dir      string
	logger   *slog.Logger
	maxCount int

	mu      sync.Mutex
	records []RunRecord
}

// NewDiskStore creates a disk-backed store. The directory is created if it
// does not exist and existing runs are loaded, most recent first.
func NewDiskStore(dir string, maxCount int, logger *slog.Logger) (*DiskStore, error) {
	s := &DiskStore{
		dir:      dir,
		logger:   logger,
		maxCount: maxCount,
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	records, err := s.load()
	if err != nil {
		// A corrupt history never blocks the server.
		logger.Warn("failed to load run history", "error", err)
	} else {
		s.records = records
	}

	return s, nil
}

// History returns all runs as summaries, most recent first.
func (s *DiskStore) History() []RunSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]RunSummary, len(s.records))
	for i, r := range s.records {
		result[i] = r.RunSummary
	}
	return result
}

// Record returns the full record for a specific run.
func (s *DiskStore) Record(id string) (RunRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return RunRecord{}, false
}

// Save persists a run to disk and updates the in-memory view.
func (s *DiskStore) Save(record RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.StartedAt == nil {
		return fmt.Errorf("cannot save run without start time")
	}
	if record.ID == "" {
		record.ID = record.CalculateID()
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}

	path := filepath.Join(s.dir, record.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write run record: %w", err)
	}

	s.records = append([]RunRecord{record}, s.records...)
	if s.maxCount > 0 && len(s.records) > s.maxCount {
		for _, old := range s.records[s.maxCount:] {
			if err := os.Remove(filepath.Join(s.dir, old.ID+".json")); err != nil {
				s.logger.Warn("failed to remove old run record", "id", old.ID, "error", err)
			}
		}
		s.records = s.records[:s.maxCount]
	}

	s.logger.Debug("saved run record", "path", path)
	return nil
}

// load reads all run records from disk, skipping unreadable files.
func (s *DiskStore) load() ([]RunRecord, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read history directory: %w", err)
	}

	var records []RunRecord
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.dir, file.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("failed to read run record", "file", path, "error", err)
			continue
		}
		var record RunRecord
		if err := json.Unmarshal(data, &record); err != nil {
			s.logger.Warn("failed to parse run record", "file", path, "error", err)
			continue
		}
		if record.ID == "" {
			record.ID = record.CalculateID()
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].StartedAt == nil {
			return false
		}
		if records[j].StartedAt == nil {
			return true
		}
		return records[i].StartedAt.After(*records[j].StartedAt)
	})
	if s.maxCount > 0 && len(records) > s.maxCount {
		records = records[:s.maxCount]
	}

	s.logger.Info("loaded run history", "count", len(records))
	return records, nil
}
