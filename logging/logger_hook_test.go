package logging

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapturingLoggerHook_LoggerForEntity_ReturnsLogger(t *testing.T) {
	baseLogger := slog.New(slog.NewJSONHandler(bytes.NewBuffer(nil), nil))
	collector := NewLogCollector()
	hook := NewCapturingLoggerHook(collector)
	require.NotNil(t, hook)

	logger := hook.LoggerForEntity(baseLogger, "issues")
	require.NotNil(t, logger)
}

func TestCapturingLoggerHook_LoggerForEntity_Unique(t *testing.T) {
	baseLogger := slog.New(slog.NewJSONHandler(bytes.NewBuffer(nil), nil))
	collector := NewLogCollector()
	hook := NewCapturingLoggerHook(collector)

	logger1 := hook.LoggerForEntity(baseLogger, "issues")
	logger2 := hook.LoggerForEntity(baseLogger, "labels")

	assert.NotSame(t, logger1, logger2, "each entity should get its own logger instance")

	logger1.Info("log from issues")
	logger2.Info("log from labels")

	logs1 := collector.Logs("issues")
	logs2 := collector.Logs("labels")

	require.Len(t, logs1, 1)
	require.Len(t, logs2, 1)

	assert.Equal(t, "log from issues", logs1[0].Message)
	assert.Equal(t, "log from labels", logs2[0].Message)

	allLogs := collector.AllLogs()
	require.Len(t, allLogs, 2)

	assert.Contains(t, allLogs, "issues")
	assert.Contains(t, allLogs, "labels")
}

func TestCapturingLoggerHook_ConcurrentLogging(t *testing.T) {
	baseLogger := slog.New(slog.NewJSONHandler(bytes.NewBuffer(nil), nil))
	collector := NewLogCollector()
	hook := NewCapturingLoggerHook(collector)

	const numEntities = 10
	const logsPerEntity = 50

	var wg sync.WaitGroup
	wg.Add(numEntities)

	for i := 0; i < numEntities; i++ {
		go func(entityNum int) {
			defer wg.Done()
			entityName := fmt.Sprintf("entity_%d", entityNum)
			logger := hook.LoggerForEntity(baseLogger, entityName)

			for j := 0; j < logsPerEntity; j++ {
				logger.Info("concurrent message", "entity", entityNum, "log", j)
			}
		}(i)
	}

	wg.Wait()

	allLogs := collector.AllLogs()
	assert.Len(t, allLogs, numEntities)

	for entityName, logs := range allLogs {
		assert.Len(t, logs, logsPerEntity, "entity %s should have %d logs", entityName, logsPerEntity)
	}
}

func TestCapturingLoggerHook_WithAttributes(t *testing.T) {
	baseLogger := slog.New(slog.NewJSONHandler(bytes.NewBuffer(nil), nil))
	collector := NewLogCollector()
	hook := NewCapturingLoggerHook(collector)

	logger := hook.LoggerForEntity(baseLogger, "issues")

	contextLogger := logger.With("component", "strategy", "direction", "save")
	contextLogger.Info("test message", "extra", "data")

	logs := collector.Logs("issues")
	require.Len(t, logs, 1)

	log := logs[0]
	assert.Equal(t, "test message", log.Message)
	assert.Equal(t, "strategy", log.Attributes["component"])
	assert.Equal(t, "save", log.Attributes["direction"])
	assert.Equal(t, "data", log.Attributes["extra"])
}

func TestCapturingLoggerHook_MultipleLogLevels(t *testing.T) {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	baseLogger := slog.New(slog.NewJSONHandler(bytes.NewBuffer(nil), opts))
	collector := NewLogCollector()
	hook := NewCapturingLoggerHook(collector)

	logger := hook.LoggerForEntity(baseLogger, "issues")

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	logs := collector.Logs("issues")
	require.Len(t, logs, 4)

	assert.Equal(t, "DEBUG", logs[0].Level)
	assert.Equal(t, "INFO", logs[1].Level)
	assert.Equal(t, "WARN", logs[2].Level)
	assert.Equal(t, "ERROR", logs[3].Level)
}

func TestCapturingLoggerHook_ReuseEntityName(t *testing.T) {
	baseLogger := slog.New(slog.NewJSONHandler(bytes.NewBuffer(nil), nil))
	collector := NewLogCollector()
	hook := NewCapturingLoggerHook(collector)

	logger1 := hook.LoggerForEntity(baseLogger, "issues")
	logger2 := hook.LoggerForEntity(baseLogger, "issues")

	logger1.Info("first message")
	logger2.Info("second message")

	logs := collector.Logs("issues")
	require.Len(t, logs, 2)
	assert.Equal(t, "first message", logs[0].Message)
	assert.Equal(t, "second message", logs[1].Message)
}
