package robots

import (
	"strings"
	"time"
)

// Permission modeling

type policyKind string

const (
	policyKindParsed    policyKind = "parsed"
	policyKindAllowAll  policyKind = "allow_all"
	policyKindForbidAll policyKind = "forbid_all"
	policyKindEmpty     policyKind = "empty"
)

type pathRule struct {
	prefix string
}

// Prefix returns the path prefix for this rule.
func (p pathRule) Prefix() string {
	return p.prefix
}

// Policy is the resolved crawl-permission policy for one origin.
// It is either the result of parsing a fetched robots.txt, or one of three
// sentinel policies used when no real content is available:
//
//   - allow-all: everything is permitted
//   - forbid-all: nothing is permitted (403 under strict configuration)
//   - default-empty: no explicit rules; permissive
//
// Immutable once constructed.
type Policy struct {
	kind policyKind

	host string

	// The user-agent these rules apply to (resolved, not raw)
	agent string

	// Path-based rules, evaluated by longest matching prefix
	allowRules    []pathRule
	disallowRules []pathRule

	// Optional crawl delay from robots.txt; exposed, never scheduled here
	crawlDelay *time.Duration

	// Sitemap URLs listed in robots.txt; exposed for callers
	sitemaps []string
}

// AllowAllPolicy returns the sentinel policy permitting every path.
func AllowAllPolicy() Policy {
	return Policy{kind: policyKindAllowAll}
}

// ForbidAllPolicy returns the sentinel policy denying every path.
func ForbidAllPolicy() Policy {
	return Policy{kind: policyKindForbidAll}
}

// EmptyPolicy returns the default-empty sentinel: no explicit rules,
// permissive. Used whenever no usable robots.txt content is available.
func EmptyPolicy() Policy {
	return Policy{kind: policyKindEmpty}
}

// IsAllowed reports whether the given URL path may be fetched under this
// policy. Matching is by longest prefix across allow and disallow rules;
// when an allow and a disallow rule match with equal length, allow wins.
// A path matching no rule is permitted.
func (p Policy) IsAllowed(path string) bool {
	switch p.kind {
	case policyKindForbidAll:
		return false
	case policyKindAllowAll, policyKindEmpty:
		return true
	}

	path = normalizePath(path)

	bestAllow := -1
	for _, rule := range p.allowRules {
		if strings.HasPrefix(path, rule.prefix) && len(rule.prefix) > bestAllow {
			bestAllow = len(rule.prefix)
		}
	}
	bestDisallow := -1
	for _, rule := range p.disallowRules {
		if strings.HasPrefix(path, rule.prefix) && len(rule.prefix) > bestDisallow {
			bestDisallow = len(rule.prefix)
		}
	}

	if bestDisallow == -1 {
		return true
	}
	return bestAllow >= bestDisallow
}

// IsForbidAll reports whether this is the forbid-all sentinel.
func (p Policy) IsForbidAll() bool {
	return p.kind == policyKindForbidAll
}

// IsAllowAll reports whether this is the allow-all sentinel.
func (p Policy) IsAllowAll() bool {
	return p.kind == policyKindAllowAll
}

// IsEmpty reports whether this is the default-empty sentinel.
func (p Policy) IsEmpty() bool {
	return p.kind == policyKindEmpty
}

// Host returns the host the policy was parsed for, or "" for sentinels.
func (p Policy) Host() string {
	return p.host
}

// Agent returns the user-agent the rules were resolved against.
func (p Policy) Agent() string {
	return p.agent
}

// CrawlDelay returns the crawl delay if specified, or nil.
func (p Policy) CrawlDelay() *time.Duration {
	if p.crawlDelay == nil {
		return nil
	}
	delay := *p.crawlDelay
	return &delay
}

// Sitemaps returns a copy of the sitemap URLs listed in robots.txt.
func (p Policy) Sitemaps() []string {
	result := make([]string, len(p.sitemaps))
	copy(result, p.sitemaps)
	return result
}

// AllowRules returns a copy of the allow rules.
func (p Policy) AllowRules() []pathRule {
	result := make([]pathRule, len(p.allowRules))
	copy(result, p.allowRules)
	return result
}

// DisallowRules returns a copy of the disallow rules.
func (p Policy) DisallowRules() []pathRule {
	result := make([]pathRule, len(p.disallowRules))
	copy(result, p.disallowRules)
	return result
}

// normalizePath ensures the path starts with "/" and handles special cases.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// RuleSet is the value handed to callers of Resolve: the resolved policy for
// an origin plus a freshness flag. fromCache is false on the value returned
// synchronously by a fresh fetch; entries stored in either cache tier always
// carry fromCache true.
// Immutable once constructed.
type RuleSet struct {
	policy    Policy
	fromCache bool
}

func NewRuleSet(policy Policy, fromCache bool) RuleSet {
	return RuleSet{
		policy:    policy,
		fromCache: fromCache,
	}
}

// Policy returns the resolved policy.
func (r RuleSet) Policy() Policy {
	return r.policy
}

// FromCache reports whether this value was served from a cache tier rather
// than freshly resolved.
func (r RuleSet) FromCache() bool {
	return r.fromCache
}

// IsAllowed delegates the permission check to the resolved policy.
func (r RuleSet) IsAllowed(path string) bool {
	return r.policy.IsAllowed(path)
}
