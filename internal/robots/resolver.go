package robots

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/rohmanhakim/robots-resolver/internal/metadata"
	"github.com/rohmanhakim/robots-resolver/internal/robots/cache"
)

/*
Resolver

Responsibilities:
- Derive the origin key for a URL and check both cache tiers
- Delegate cache misses to the fetch-and-redirect step
- Write results back into the matching tier (success vs error), including
  the redirect target's origin on a cross-host redirect
- Never fail outward: every fault degrades to a permissive default policy

The error tier is consulted before the success tier. A very recent failure
short-circuits without re-incurring a request even if an older success
entry is technically still live: recent failure signals instability that
should suppress optimistic reuse.

Concurrency: Resolve is safe for concurrent use. Two calls racing on a
cold origin may both fetch; both write back and the last write wins. No
per-origin single-flight lock is imposed.
*/
type Resolver struct {
	successCache cache.Cache
	errorCache   cache.Cache

	parser Parser

	// Agent names to resolve rules against, in order of preference
	agentNames []string

	// Whether HTTP 403 on robots.txt means "no rules" rather than
	// "forbid all"
	allowForbidden bool

	metadataSink metadata.MetadataSink
}

// NewResolver creates a Resolver owning the two injected cache tiers.
// successCache holds confirmed resolutions; errorCache holds transient
// failures and is conventionally configured with a much shorter TTL.
func NewResolver(
	successCache cache.Cache,
	errorCache cache.Cache,
	parser Parser,
	agentNames []string,
	allowForbidden bool,
	metadataSink metadata.MetadataSink,
) *Resolver {
	return &Resolver{
		successCache:   successCache,
		errorCache:     errorCache,
		parser:         parser,
		agentNames:     agentNames,
		allowForbidden: allowForbidden,
		metadataSink:   metadataSink,
	}
}

// Resolve returns the crawl-permission rule set applying to target.
//
// Cached resolutions are returned with FromCache() == true. On a miss the
// robots.txt is fetched, classified, written into the matching cache tier,
// and returned with FromCache() == false to signal it was just resolved.
//
// Resolve never returns an error: a robots.txt fetch failure must not
// block crawling, so the worst outcome is the permissive default policy.
func (r *Resolver) Resolve(ctx context.Context, fetcher Fetcher, target url.URL) RuleSet {
	key := OriginKey(target)

	// Error tier first (see the type comment above)
	if cached, found := r.errorCache.Get(key); found {
		if ruleSet, err := deserializeRuleSet(cached); err == nil {
			r.metadataSink.RecordResolution(key, metadata.TierError, metadata.OutcomeCacheHit)
			return ruleSet
		}
		// Undecodable entry: treat as a miss and re-fetch
	}

	if cached, found := r.successCache.Get(key); found {
		if ruleSet, err := deserializeRuleSet(cached); err == nil {
			r.metadataSink.RecordResolution(key, metadata.TierSuccess, metadata.OutcomeCacheHit)
			return ruleSet
		}
	}

	outcome := r.fetchRobots(ctx, fetcher, target)

	targetCache := r.successCache
	tier := metadata.TierSuccess
	if !outcome.cacheable {
		targetCache = r.errorCache
		tier = metadata.TierError
	}

	if serialized, err := serializeRuleSet(NewRuleSet(outcome.policy, true)); err == nil {
		targetCache.Put(key, serialized)

		// A redirect to a different host resolves that host's robots too:
		// cache under its origin key to avoid a second fetch later
		if outcome.redirect != nil && !strings.EqualFold(outcome.redirect.Hostname(), target.Hostname()) {
			targetCache.Put(OriginKey(*outcome.redirect), serialized)
		}
	}

	r.metadataSink.RecordResolution(key, tier, metadata.OutcomeFetched)

	return NewRuleSet(outcome.policy, false)
}

// cachedRuleSet is the serializable representation of a cache entry.
// Cached entries always read back with fromCache true.
type cachedRuleSet struct {
	Policy   cachedPolicy `json:"policy"`
	StoredAt time.Time    `json:"stored_at"`
}

type cachedPolicy struct {
	Kind         string   `json:"kind"`
	Host         string   `json:"host,omitempty"`
	Agent        string   `json:"agent,omitempty"`
	Allows       []string `json:"allows,omitempty"`
	Disallows    []string `json:"disallows,omitempty"`
	CrawlDelayMs *int64   `json:"crawl_delay_ms,omitempty"`
	Sitemaps     []string `json:"sitemaps,omitempty"`
}

// serializeRuleSet converts a RuleSet to a JSON string for cache storage.
func serializeRuleSet(ruleSet RuleSet) (string, error) {
	policy := ruleSet.policy

	dto := cachedPolicy{
		Kind:     string(policy.kind),
		Host:     policy.host,
		Agent:    policy.agent,
		Sitemaps: policy.sitemaps,
	}
	for _, rule := range policy.allowRules {
		dto.Allows = append(dto.Allows, rule.prefix)
	}
	for _, rule := range policy.disallowRules {
		dto.Disallows = append(dto.Disallows, rule.prefix)
	}
	if policy.crawlDelay != nil {
		ms := policy.crawlDelay.Milliseconds()
		dto.CrawlDelayMs = &ms
	}

	data, err := json.Marshal(cachedRuleSet{
		Policy:   dto,
		StoredAt: time.Now(),
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// deserializeRuleSet converts a JSON string from the cache back into a
// RuleSet carrying fromCache=true.
func deserializeRuleSet(data string) (RuleSet, error) {
	var cached cachedRuleSet
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		return RuleSet{}, err
	}

	dto := cached.Policy
	policy := Policy{
		host:     dto.Host,
		agent:    dto.Agent,
		sitemaps: dto.Sitemaps,
	}

	switch policyKind(dto.Kind) {
	case policyKindParsed, policyKindAllowAll, policyKindForbidAll, policyKindEmpty:
		policy.kind = policyKind(dto.Kind)
	default:
		return RuleSet{}, &RobotsError{
			Message:   "unknown cached policy kind: " + dto.Kind,
			Retryable: false,
			Cause:     ErrCauseParseFailure,
		}
	}

	for _, prefix := range dto.Allows {
		policy.allowRules = append(policy.allowRules, pathRule{prefix: prefix})
	}
	for _, prefix := range dto.Disallows {
		policy.disallowRules = append(policy.disallowRules, pathRule{prefix: prefix})
	}
	if dto.CrawlDelayMs != nil {
		delay := time.Duration(*dto.CrawlDelayMs) * time.Millisecond
		policy.crawlDelay = &delay
	}

	return NewRuleSet(policy, true), nil
}
