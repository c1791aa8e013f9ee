package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogRecorder(t *testing.T) {
	logger, rec := NewTestLogger()

	logger.With("component", "loader").WithGroup("input").Warn("slow read", "rows", 3)
	logger.Info("done")

	records := rec.Records()
	if assert.Len(t, records, 2) {
		assert.Equal(t, slog.LevelWarn, records[0].Level)
		assert.Equal(t, "loader", records[0].Attrs["component"])
		assert.Equal(t, int64(3), records[0].Attrs["input.rows"])
	}

	r := AssertLogContains(t, rec, slog.LevelWarn, "slow")
	assert.Equal(t, "slow read", r.Message)

	_, found := rec.Find(slog.LevelError, "done")
	assert.False(t, found)
	AssertNoErrors(t, rec)
}

func TestLogRecorder_GroupQualifiesLaterAttrsOnly(t *testing.T) {
	logger, rec := NewTestLogger()

	logger.With("run", "r1").
		WithGroup("input").With("path", "a.csv").
		WithGroup("csv").Info("parsed", "rows", 2)

	records := rec.Records()
	if assert.Len(t, records, 1) {
		attrs := records[0].Attrs
		assert.Equal(t, "r1", attrs["run"])
		assert.Equal(t, "a.csv", attrs["input.path"])
		assert.Equal(t, int64(2), attrs["input.csv.rows"])
		assert.NotContains(t, attrs, "input.csv.path")
		assert.NotContains(t, attrs, "input.csv.run")
	}
}

func TestWriteInput(t *testing.T) {
	path := WriteInput(t, "decisoes.csv", []byte(SampleDecisionsCSV))
	assert.FileExists(t, path)
}
