package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rohmanhakim/robots-resolver/internal/robots"
)

/*
HTTPFetcher

Responsibilities:
- Perform a single GET using net/http and return the raw response
- Enforce the per-request timeout and the response body size cap
- Surface transport faults as typed FetchError values

HTTPFetcher deliberately does not follow redirects: the robots resolver
performs its own single redirect hop, so the raw 3xx response (with its
Location header) must reach the caller untouched.
*/

// maxBodySize caps how much of a response body is read (500 KiB).
// Bodies beyond the cap are truncated, matching the limit crawlers
// conventionally apply to robots.txt.
const maxBodySize = 500 * 1024

// HTTPFetcher is the default robots.Fetcher adapter over net/http.
type HTTPFetcher struct {
	httpClient *http.Client
	userAgent  string
}

// NewHTTPFetcher creates an HTTPFetcher with its own client configured for
// the given timeout and with redirect following disabled.
func NewHTTPFetcher(userAgent string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: userAgent,
	}
}

// NewHTTPFetcherWithClient creates an HTTPFetcher with a custom HTTP client.
// This is useful for testing. The client must not follow redirects if the
// resolver's one-hop semantics are to hold.
func NewHTTPFetcherWithClient(userAgent string, httpClient *http.Client) *HTTPFetcher {
	return &HTTPFetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// GetResponse performs one GET against fetchURL and returns status, headers,
// and the (size-capped) body. It implements the robots.Fetcher port.
func (f *HTTPFetcher) GetResponse(ctx context.Context, fetchURL string) (robots.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return robots.Response{}, &FetchError{
			Message:   fmt.Sprintf("failed to create request for %s: %v", fetchURL, err),
			Retryable: false,
			Cause:     ErrCauseInvalidRequest,
		}
	}

	// Set browser-like headers
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/plain,text/html,*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		cause := ErrCauseNetworkFailure
		if errors.Is(err, context.DeadlineExceeded) {
			cause = ErrCauseTimeout
		}
		return robots.Response{}, &FetchError{
			Message:   fmt.Sprintf("failed to fetch %s: %v", fetchURL, err),
			Retryable: true,
			Cause:     cause,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return robots.Response{}, &FetchError{
			Message:   fmt.Sprintf("failed to read body of %s: %v", fetchURL, err),
			Retryable: true,
			Cause:     ErrCauseReadBody,
		}
	}
	if len(body) > maxBodySize {
		body = body[:maxBodySize]
	}

	headers := make(map[string]string, len(resp.Header))
	for name := range resp.Header {
		headers[name] = resp.Header.Get(name)
	}

	return robots.Response{
		StatusCode: resp.StatusCode,
		Headers:    headers,
		Body:       body,
	}, nil
}

func (f *HTTPFetcher) UserAgent() string {
	return f.userAgent
}

func (f *HTTPFetcher) HttpClient() *http.Client {
	return f.httpClient
}
