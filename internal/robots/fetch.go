package robots

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rohmanhakim/robots-resolver/internal/metadata"
	"github.com/rohmanhakim/robots-resolver/pkg/hashutil"
)

// fetchOutcome is the typed result of one fetch-and-redirect attempt.
// Faults never propagate past this value: a failed attempt is expressed as
// the default-empty policy marked non-cacheable.
type fetchOutcome struct {
	policy    Policy
	cacheable bool

	// redirect is the resolved redirect target when the first response was a
	// redirect, nil otherwise. It is set even when the second fetch fails,
	// so the orchestrator can populate the redirect host's cache entry.
	redirect *url.URL
}

// isRedirectStatus reports whether code is one of the redirect statuses the
// resolver follows for robots.txt.
func isRedirectStatus(code int) bool {
	switch code {
	case 301, 302, 307, 308:
		return true
	}
	return false
}

// fetchRobots retrieves and classifies /robots.txt for the origin of target.
//
// Protocol:
//  1. GET {scheme}://{host}:{port}/robots.txt via the fetcher port.
//  2. On 301/302/307/308, resolve the Location header (relative targets are
//     resolved against the robots URL) and re-issue exactly one fetch.
//     Further redirects are not followed; one hop bounds latency and rules
//     out redirect loops.
//  3. Classify the final status:
//     200            -> parsed policy, cacheable
//     403 (strict)   -> forbid-all, cacheable
//     >= 500         -> default-empty, NOT cacheable (transient)
//     anything else  -> default-empty, cacheable
//     Any fault in either fetch or in parsing degrades to default-empty,
//     not cacheable.
func (r *Resolver) fetchRobots(ctx context.Context, fetcher Fetcher, target url.URL) fetchOutcome {
	robotsURL := target.ResolveReference(&url.URL{Path: "/robots.txt"})

	start := time.Now()

	resp, err := fetcher.GetResponse(ctx, robotsURL.String())
	if err != nil {
		r.recordFault(&RobotsError{
			Message:   fmt.Sprintf("failed to fetch %s: %v", robotsURL, err),
			Retryable: true,
			Cause:     ErrCauseNetworkFailure,
		}, "Resolver.fetchRobots", target)
		return fetchOutcome{policy: EmptyPolicy(), cacheable: false}
	}

	code := resp.StatusCode
	var redirect *url.URL

	if isRedirectStatus(code) {
		location := strings.TrimSpace(resp.Header("Location"))
		if location != "" {
			if strings.HasPrefix(location, "http") {
				redirect, err = url.Parse(location)
			} else {
				// RFC says Location should be absolute, but relative targets
				// show up in the wild
				var relative *url.URL
				relative, err = url.Parse(location)
				if err == nil {
					redirect = robotsURL.ResolveReference(relative)
				}
			}
			if err != nil {
				r.recordFault(&RobotsError{
					Message:   fmt.Sprintf("unusable Location %q from %s: %v", location, robotsURL, err),
					Retryable: false,
					Cause:     ErrCauseMalformedRedirect,
				}, "Resolver.fetchRobots", target)
				return fetchOutcome{policy: EmptyPolicy(), cacheable: false}
			}

			resp, err = fetcher.GetResponse(ctx, redirect.String())
			if err != nil {
				r.recordFault(&RobotsError{
					Message:   fmt.Sprintf("failed to fetch redirect target %s: %v", redirect, err),
					Retryable: true,
					Cause:     ErrCauseNetworkFailure,
				}, "Resolver.fetchRobots", target)
				// The redirect target is still known: the orchestrator caches
				// the failure under both origin keys
				return fetchOutcome{policy: EmptyPolicy(), cacheable: false, redirect: redirect}
			}
			code = resp.StatusCode
		}
	}

	contentType := resp.Header("Content-Type")
	r.metadataSink.RecordRobotsFetch(
		robotsURL.String(),
		code,
		time.Since(start),
		contentType,
		hashutil.ContentHash(resp.Body),
	)

	switch {
	case code == 200:
		policy, perr := r.parser.Parse(robotsURL.String(), resp.Body, contentType, r.agentNames)
		if perr != nil {
			robotsErr, ok := perr.(*RobotsError)
			if !ok {
				robotsErr = &RobotsError{
					Message:   perr.Error(),
					Retryable: false,
					Cause:     ErrCauseParseFailure,
				}
			}
			r.recordFault(robotsErr, "Resolver.fetchRobots", target)
			return fetchOutcome{policy: EmptyPolicy(), cacheable: false, redirect: redirect}
		}
		return fetchOutcome{policy: policy, cacheable: true, redirect: redirect}

	case code == 403 && !r.allowForbidden:
		return fetchOutcome{policy: ForbidAllPolicy(), cacheable: true, redirect: redirect}

	case code >= 500:
		// Transient server failure: keep it out of the success tier so the
		// shorter error TTL governs the retry cadence
		return fetchOutcome{policy: EmptyPolicy(), cacheable: false, redirect: redirect}

	default:
		// 4xx (including 403 under permissive configuration) and unexpected
		// codes mean "no explicit rules": a stable decision worth caching
		return fetchOutcome{policy: EmptyPolicy(), cacheable: true, redirect: redirect}
	}
}

func (r *Resolver) recordFault(err *RobotsError, action string, target url.URL) {
	r.metadataSink.RecordError(
		time.Now(),
		"robots",
		action,
		mapRobotsErrorToMetadataCause(err),
		err.Message,
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, target.String()),
		},
	)
}
