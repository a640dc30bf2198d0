package metadata

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// MetadataSink is the write-only port resolution components record events to.
// Implementations must not influence control flow.
type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	RecordRobotsFetch(
		fetchURL string,
		httpStatus int,
		duration time.Duration,
		contentType string,
		contentHash string,
	)

	RecordResolution(
		originKey string,
		tier CacheTier,
		outcome ResolutionOutcome,
	)
}

/*
Recorder captures structured resolution events.
It must not:
- perform I/O decisions
- affect control flow
Ordering guarantees:
- Events are recorded synchronously in the order they are received by a single worker.
- No global ordering across workers is guaranteed.
- Ordering is provided for debuggability, not causality.
*/
type Recorder struct {
	runId  string
	logger *log.Logger
}

// NewRecorder creates a Recorder writing structured events to stderr.
// runId correlates all events of a single resolver run.
func NewRecorder(runId string) Recorder {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "robots",
	})
	return Recorder{
		runId:  runId,
		logger: logger,
	}
}

// NewRecorderWithLogger creates a Recorder with a caller-supplied logger.
// This is useful for testing.
func NewRecorderWithLogger(runId string, logger *log.Logger) Recorder {
	return Recorder{
		runId:  runId,
		logger: logger,
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
	kv := []interface{}{
		"run_id", r.runId,
		"observed_at", observedAt.Format(time.RFC3339),
		"package", packageName,
		"action", action,
		"cause", string(cause),
		"details", details,
	}
	for _, attr := range attrs {
		kv = append(kv, string(attr.Key()), attr.Value())
	}
	r.logger.Warn("error", kv...)
}

func (r *Recorder) RecordRobotsFetch(
	fetchURL string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	contentHash string,
) {
	r.logger.Debug("robots fetch",
		"run_id", r.runId,
		"url", fetchURL,
		"status", httpStatus,
		"duration_ms", duration.Milliseconds(),
		"content_type", contentType,
		"content_hash", contentHash,
	)
}

func (r *Recorder) RecordResolution(
	originKey string,
	tier CacheTier,
	outcome ResolutionOutcome,
) {
	r.logger.Debug("resolution",
		"run_id", r.runId,
		"origin_key", originKey,
		"tier", string(tier),
		"outcome", string(outcome),
	)
}
