package logger

import (
	"fmt"
	"maps"
	"sync"
)

type testLoggerStorage struct {
	mu      sync.RWMutex
	entries []TestLogEntry
}

// TestLogger keeps every entry in memory for assertions. Loggers derived
// with WithField(s) share the parent's storage.
type TestLogger struct {
	storage *testLoggerStorage
	fields  Fields
}

type TestLogEntry struct {
	Level   string
	Message string
	Fields  Fields
}

func NewTestLogger() *TestLogger {
	return &TestLogger{
		storage: &testLoggerStorage{},
		fields:  make(Fields),
	}
}

func (l *TestLogger) addEntry(level, message string) {
	l.storage.mu.Lock()
	defer l.storage.mu.Unlock()

	l.storage.entries = append(l.storage.entries, TestLogEntry{
		Level:   level,
		Message: message,
		Fields:  maps.Clone(l.fields),
	})
}

func (l *TestLogger) Trace(args ...any) { l.addEntry("trace", fmt.Sprint(args...)) }
func (l *TestLogger) Debug(args ...any) { l.addEntry("debug", fmt.Sprint(args...)) }
func (l *TestLogger) Info(args ...any)  { l.addEntry("info", fmt.Sprint(args...)) }
func (l *TestLogger) Warn(args ...any)  { l.addEntry("warn", fmt.Sprint(args...)) }
func (l *TestLogger) Error(args ...any) { l.addEntry("error", fmt.Sprint(args...)) }
func (l *TestLogger) Fatal(args ...any) { l.addEntry("fatal", fmt.Sprint(args...)) }

func (l *TestLogger) Debugf(format string, args ...any) {
	l.addEntry("debug", fmt.Sprintf(format, args...))
}

func (l *TestLogger) Warnf(format string, args ...any) {
	l.addEntry("warn", fmt.Sprintf(format, args...))
}

func (l *TestLogger) WithFields(fields Fields) Logger {
	merged := maps.Clone(l.fields)
	maps.Copy(merged, fields)

	return &TestLogger{
		storage: l.storage,
		fields:  merged,
	}
}

func (l *TestLogger) WithField(key string, value any) Logger {
	return l.WithFields(Fields{key: value})
}

func (l *TestLogger) WithError(err error) Logger {
	return l.WithFields(Fields{"error": err})
}

// Methods for testing

func (l *TestLogger) GetEntries() []TestLogEntry {
	l.storage.mu.RLock()
	defer l.storage.mu.RUnlock()
	return append([]TestLogEntry{}, l.storage.entries...)
}

func (l *TestLogger) HasEntry(level, message string) bool {
	_, ok := l.FindEntry(level, message)
	return ok
}

// FindEntry returns the first entry with the given level and message.
func (l *TestLogger) FindEntry(level, message string) (TestLogEntry, bool) {
	for _, entry := range l.GetEntries() {
		if entry.Level == level && entry.Message == message {
			return entry, true
		}
	}
	return TestLogEntry{}, false
}

func (l *TestLogger) CountEntries() int {
	l.storage.mu.RLock()
	defer l.storage.mu.RUnlock()
	return len(l.storage.entries)
}
