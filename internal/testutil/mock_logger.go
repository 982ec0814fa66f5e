// Package testutil provides shared helpers for atlas unit tests.
package testutil

import (
	"sync"

	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
)

// MockLogger implements logging.Logger and records every entry.
// Children created by With/Named share the parent's record.
type MockLogger struct {
	store  *logStore
	name   string
	fields []logging.Field
}

type logStore struct {
	mu       sync.Mutex
	messages []LogMessage
}

// LogMessage represents a single log entry captured by MockLogger.
type LogMessage struct {
	Logger  string
	Level   string
	Message string
	Fields  []logging.Field
}

// Field returns the value of the named field and whether it was present.
func (m LogMessage) Field(key string) (interface{}, bool) {
	for _, f := range m.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// NewMockLogger creates a new MockLogger instance.
func NewMockLogger() *MockLogger {
	return &MockLogger{store: &logStore{}}
}

func (m *MockLogger) log(level, msg string, fields []logging.Field) {
	all := make([]logging.Field, 0, len(m.fields)+len(fields))
	all = append(all, m.fields...)
	all = append(all, fields...)

	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.messages = append(m.store.messages, LogMessage{
		Logger:  m.name,
		Level:   level,
		Message: msg,
		Fields:  all,
	})
}

func (m *MockLogger) Debug(msg string, fields ...logging.Field) { m.log("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...logging.Field)  { m.log("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...logging.Field)  { m.log("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...logging.Field) { m.log("error", msg, fields) }
func (m *MockLogger) Fatal(msg string, fields ...logging.Field) { m.log("fatal", msg, fields) }

func (m *MockLogger) With(fields ...logging.Field) logging.Logger {
	child := &MockLogger{store: m.store, name: m.name}
	child.fields = append(append(child.fields, m.fields...), fields...)
	return child
}

func (m *MockLogger) Named(name string) logging.Logger {
	full := name
	if m.name != "" {
		full = m.name + "." + name
	}
	return &MockLogger{store: m.store, name: full, fields: m.fields}
}

// GetMessages returns a copy of all logged messages.
func (m *MockLogger) GetMessages() []LogMessage {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	result := make([]LogMessage, len(m.store.messages))
	copy(result, m.store.messages)
	return result
}

// Clear removes all logged messages.
func (m *MockLogger) Clear() {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.messages = m.store.messages[:0]
}

// HasMessage checks if a message with the given level and content was logged.
func (m *MockLogger) HasMessage(level, msg string) bool {
	_, ok := m.Find(level, msg)
	return ok
}

// Find returns the first entry matching level and message.
func (m *MockLogger) Find(level, msg string) (LogMessage, bool) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, logged := range m.store.messages {
		if logged.Level == level && logged.Message == msg {
			return logged, true
		}
	}
	return LogMessage{}, false
}

// CountLevel returns how many entries were logged at level.
func (m *MockLogger) CountLevel(level string) int {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	n := 0
	for _, logged := range m.store.messages {
		if logged.Level == level {
			n++
		}
	}
	return n
}

//Personal.AI order the ending
