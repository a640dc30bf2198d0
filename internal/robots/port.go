package robots

import (
	"context"
	"strings"
)

// Response is the transport-level outcome of a single GET, as produced by a
// Fetcher adapter. Headers hold the first value of each response header.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// Header returns the value of the named response header, matched
// case-insensitively, or "" when absent.
func (r Response) Header(name string) string {
	if value, ok := r.Headers[name]; ok {
		return value
	}
	for key, value := range r.Headers {
		if strings.EqualFold(key, name) {
			return value
		}
	}
	return ""
}

// Fetcher is the transport capability the resolver is polymorphic over.
// Concrete transports (plain HTTP, instrumented clients, test doubles)
// implement this interface; the resolver never constructs its own client.
//
// GetResponse performs one request with no request metadata and returns the
// raw response. It must not follow redirects itself: the resolver performs
// its own single redirect hop. Timeouts and cancellation are the adapter's
// responsibility, surfaced as a returned error.
type Fetcher interface {
	GetResponse(ctx context.Context, fetchURL string) (Response, error)
}

// Parser turns raw robots.txt bytes into a Policy for the configured agent
// names (in order of preference). A fault on malformed input is treated as
// a fetch fault upstream: the resolver degrades to the default-empty policy.
type Parser interface {
	Parse(robotsURL string, body []byte, contentType string, agentNames []string) (Policy, error)
}
