package metadata

import (
	"bytes"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func newBufferedRecorder(runId string) (*Recorder, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	recorder := NewRecorderWithLogger(runId, logger)
	return &recorder, &buf
}

func TestRecorder_RecordError(t *testing.T) {
	recorder, buf := newBufferedRecorder("run-1")

	recorder.RecordError(
		time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC),
		"robots",
		"Resolver.fetchRobots",
		CauseNetworkFailure,
		"connection refused",
		[]Attribute{NewAttr(AttrURL, "https://example.com/")},
	)

	out := buf.String()
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "Resolver.fetchRobots")
	assert.Contains(t, out, string(CauseNetworkFailure))
	assert.Contains(t, out, "https://example.com/")
}

func TestRecorder_RecordRobotsFetch(t *testing.T) {
	recorder, buf := newBufferedRecorder("run-2")

	recorder.RecordRobotsFetch(
		"https://example.com/robots.txt",
		200,
		120*time.Millisecond,
		"text/plain",
		"abc123",
	)

	out := buf.String()
	assert.Contains(t, out, "run-2")
	assert.Contains(t, out, "https://example.com/robots.txt")
	assert.Contains(t, out, "200")
	assert.Contains(t, out, "abc123")
}

func TestRecorder_RecordResolution(t *testing.T) {
	recorder, buf := newBufferedRecorder("run-3")

	recorder.RecordResolution("https:example.com:443", TierSuccess, OutcomeCacheHit)

	out := buf.String()
	assert.Contains(t, out, "https:example.com:443")
	assert.Contains(t, out, string(TierSuccess))
	assert.Contains(t, out, string(OutcomeCacheHit))
}
