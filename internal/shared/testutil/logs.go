package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// LogRecord represents a captured log record for testing
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

type recorderState struct {
	mu      sync.Mutex
	records []LogRecord
}

// LogRecorder is a slog.Handler that keeps every record in memory.
// Handlers derived with WithAttrs share the same records. Attributes added
// through WithAttrs are qualified by the groups open at that point.
type LogRecorder struct {
	state *recorderState
	attrs []slog.Attr
	group string
}

// NewTestLogger creates a logger backed by a LogRecorder
func NewTestLogger() (*slog.Logger, *LogRecorder) {
	rec := &LogRecorder{state: &recorderState{}}
	return slog.New(rec), rec
}

// Enabled implements slog.Handler. All levels are recorded.
func (h *LogRecorder) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle implements slog.Handler
func (h *LogRecorder) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[h.key(a.Key)] = a.Value.Any()
		return true
	})

	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	h.state.records = append(h.state.records, LogRecord{
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	return nil
}

// WithAttrs implements slog.Handler
func (h *LogRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, slog.Attr{Key: h.key(a.Key), Value: a.Value})
	}
	return &next
}

// WithGroup implements slog.Handler. Group names prefix attribute keys.
func (h *LogRecorder) WithGroup(name string) slog.Handler {
	next := *h
	next.group = h.key(name)
	return &next
}

func (h *LogRecorder) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

// Records returns a copy of the captured records
func (h *LogRecorder) Records() []LogRecord {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	return append([]LogRecord(nil), h.state.records...)
}

// Find returns the first record at level whose message contains message.
func (h *LogRecorder) Find(level slog.Level, message string) (LogRecord, bool) {
	for _, r := range h.Records() {
		if r.Level == level && strings.Contains(r.Message, message) {
			return r, true
		}
	}
	return LogRecord{}, false
}

// AssertLogContains fails t unless a record at level contains message.
func AssertLogContains(t *testing.T, h *LogRecorder, level slog.Level, message string) LogRecord {
	t.Helper()

	r, ok := h.Find(level, message)
	if !ok {
		t.Errorf("Expected log message not found at level %s: %q", level, message)
		for _, r := range h.Records() {
			t.Logf("  - [%s] %s %v", r.Level, r.Message, r.Attrs)
		}
	}
	return r
}

// AssertNoErrors checks that no error-level logs were recorded
func AssertNoErrors(t *testing.T, h *LogRecorder) {
	t.Helper()

	for _, r := range h.Records() {
		if r.Level >= slog.LevelError {
			t.Errorf("Unexpected error log: %s %v", r.Message, r.Attrs)
		}
	}
}
