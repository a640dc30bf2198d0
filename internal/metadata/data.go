package metadata

/*
Metadata Collected
- Resolution outcomes (cache tier, hit/miss)
- HTTP status codes of robots.txt fetches
- Content hashes of fetched robots.txt bodies
- Fetch durations

Logging Goals
- Debuggable resolution behavior
- Post-run auditability
- Failure diagnostics

Structured logging is preferred.

Determinism guarantees:
 - Metadata does not affect control flow
 - Recorded events never feed back into cache or fetch decisions

Metadata is write-only.
No component may read metadata to influence resolution decisions.
*/

// ErrorCause is the canonical cause table for recorded errors.
// Package-local error semantics are mapped onto this table by each package.
type ErrorCause string

const (
	CauseNetworkFailure  ErrorCause = "network_failure"
	CauseProtocolFailure ErrorCause = "protocol_failure"
	CauseParseFailure    ErrorCause = "parse_failure"
	CauseUnknown         ErrorCause = "unknown"
)

// CacheTier identifies which of the two robots caches an event refers to.
type CacheTier string

const (
	TierSuccess CacheTier = "success"
	TierError   CacheTier = "error"
)

// ResolutionOutcome describes how a resolve call was satisfied.
type ResolutionOutcome string

const (
	OutcomeCacheHit ResolutionOutcome = "cache_hit"
	OutcomeFetched  ResolutionOutcome = "fetched"
)

type AttributeKey string

const (
	AttrURL       AttributeKey = "url"
	AttrOriginKey AttributeKey = "origin_key"
	AttrRedirect  AttributeKey = "redirect"
)

// Attribute is a single structured key-value pair attached to an event.
// Values are primitives rendered as strings; no behavior-carrying objects.
type Attribute struct {
	key   AttributeKey
	value string
}

func NewAttr(key AttributeKey, value string) Attribute {
	return Attribute{key: key, value: value}
}

func (a Attribute) Key() AttributeKey {
	return a.key
}

func (a Attribute) Value() string {
	return a.value
}
