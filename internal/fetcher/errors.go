package fetcher

import (
	"fmt"

	"github.com/rohmanhakim/robots-resolver/pkg/failure"
)

type FetchErrorCause string

const (
	ErrCauseInvalidRequest FetchErrorCause = "invalid request"
	ErrCauseTimeout        FetchErrorCause = "timeout"
	ErrCauseNetworkFailure FetchErrorCause = "network issues"
	ErrCauseReadBody       FetchErrorCause = "failed to read response body"
)

type FetchError struct {
	Message   string
	Retryable bool
	Cause     FetchErrorCause
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetcher error: %s", e.Cause)
}

func (e *FetchError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// IsRetryable returns whether this error is retryable
func (e *FetchError) IsRetryable() bool {
	return e.Retryable
}
