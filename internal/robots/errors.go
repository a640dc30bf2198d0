package robots

import (
	"fmt"

	"github.com/rohmanhakim/robots-resolver/internal/metadata"
	"github.com/rohmanhakim/robots-resolver/pkg/failure"
)

type RobotsErrorCause string

const (
	ErrCauseNetworkFailure    RobotsErrorCause = "fetch failed"
	ErrCauseMalformedRedirect RobotsErrorCause = "malformed redirect target"
	ErrCauseParseFailure      RobotsErrorCause = "malformed robots.txt"
)

// RobotsError is the fault value used inside the fetch-and-redirect step.
// It never escapes Resolve: every cause degrades to the default-empty,
// non-cacheable policy before the orchestrator returns.
type RobotsError struct {
	Message   string
	Retryable bool
	Cause     RobotsErrorCause
}

func (e *RobotsError) Error() string {
	return fmt.Sprintf("robots error: %s", e.Cause)
}

func (e *RobotsError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapRobotsErrorToMetadataCause maps robots-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapRobotsErrorToMetadataCause(err *RobotsError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseNetworkFailure:
		return metadata.CauseNetworkFailure
	case ErrCauseMalformedRedirect:
		return metadata.CauseProtocolFailure
	case ErrCauseParseFailure:
		return metadata.CauseParseFailure
	default:
		return metadata.CauseUnknown
	}
}
