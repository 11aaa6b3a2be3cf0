package logging

import (
	"sync"
	"time"
)

// LogEntry represents a single log record with structured data.
type LogEntry struct {
	Time       time.Time              `json:"time"`
	Level      string                 `json:"level"`
	Message    string                 `json:"message"`
	Attributes map[string]interface{} `json:"attributes"`
}

// LogCollector provides thread-safe storage for per-entity run logs.
type LogCollector struct {
	mu   sync.RWMutex
	logs map[string][]LogEntry
}

// NewLogCollector creates a new LogCollector.
func NewLogCollector() *LogCollector {
	return &LogCollector{
		logs: make(map[string][]LogEntry),
	}
}

// Add appends a log entry for the named entity.
func (c *LogCollector) Add(entityName string, entry LogEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logs[entityName] = append(c.logs[entityName], entry)
}

// Logs returns a copy of the entries recorded for one entity.
func (c *LogCollector) Logs(entityName string) []LogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	logs, exists := c.logs[entityName]
	if !exists {
		return nil
	}

	result := make([]LogEntry, len(logs))
	copy(result, logs)
	return result
}

// AllLogs returns a deep copy of all entries grouped by entity name.
func (c *LogCollector) AllLogs() map[string][]LogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string][]LogEntry, len(c.logs))
	for entityName, logs := range c.logs {
		logsCopy := make([]LogEntry, len(logs))
		copy(logsCopy, logs)
		result[entityName] = logsCopy
	}
	return result
}

// Clear removes all stored logs, typically between runs.
func (c *LogCollector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logs = make(map[string][]LogEntry)
}
