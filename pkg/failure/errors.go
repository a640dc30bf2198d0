package failure

type Severity int

// resolver control flow
const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

func (s Severity) String() string {
	switch s {
	case SeverityRecoverable:
		return "recoverable"
	default:
		return "fatal"
	}
}

// ClassifiedError is an error carrying a severity classification.
// Recoverable errors may be retried or degraded; fatal errors may not.
type ClassifiedError interface {
	error
	Severity() Severity
}
