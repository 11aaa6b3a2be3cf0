package logging

import (
	"log/slog"
)

// LoggerHook creates entity-specific loggers by wrapping a base logger.
// The server installs a capturing implementation so run logs can be served
// per entity; the CLI leaves it unset.
type LoggerHook interface {
	// LoggerForEntity wraps the base logger into an entity-specific logger.
	LoggerForEntity(baseLogger *slog.Logger, entityName string) *slog.Logger
}

// CapturingLoggerHook creates loggers that capture records via CapturingHandler.
type CapturingLoggerHook struct {
	collector *LogCollector
}

// NewCapturingLoggerHook creates a hook that captures all entity logs.
func NewCapturingLoggerHook(collector *LogCollector) LoggerHook {
	return &CapturingLoggerHook{
		collector: collector,
	}
}

// LoggerForEntity wraps the base logger with a CapturingHandler tagged
// with the entity name.
func (p *CapturingLoggerHook) LoggerForEntity(baseLogger *slog.Logger, entityName string) *slog.Logger {
	capturingHandler := NewCapturingHandler(
		baseLogger.Handler(),
		p.collector,
		entityName,
	)
	return slog.New(capturingHandler)
}
