package robots

import (
	"bufio"
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"
)

/*
RobotsTxtParser

Responsibilities:
- Parse raw robots.txt bytes into user-agent groups
- Select the group matching the configured agent names
- Produce an immutable Policy for permission checks

The parser does not fetch and does not cache. It is the default adapter
behind the Parser port; the resolver works against the port only.
*/

// RobotsTxtParser is the built-in Parser implementation.
type RobotsTxtParser struct{}

func NewRobotsTxtParser() RobotsTxtParser {
	return RobotsTxtParser{}
}

// agentGroup holds the raw rules of one user-agent block before selection.
type agentGroup struct {
	agents     []string
	allows     []string
	disallows  []string
	crawlDelay *time.Duration
}

// Parse parses robots.txt content and resolves it against agentNames,
// which are tried in order of preference. The most specific matching group
// wins: an exact agent match beats a prefix match, which beats the
// wildcard group. A file with no matching group yields a permissive policy
// with no rules.
func (RobotsTxtParser) Parse(robotsURL string, body []byte, contentType string, agentNames []string) (Policy, error) {
	// Binary payloads (misconfigured servers returning images or gzip under
	// a robots.txt path) are malformed input, not an empty rule file.
	if bytes.IndexByte(body, 0) != -1 {
		return Policy{}, &RobotsError{
			Message:   fmt.Sprintf("binary content served for %s (content-type %q)", robotsURL, contentType),
			Retryable: false,
			Cause:     ErrCauseParseFailure,
		}
	}

	groups, sitemaps := scanGroups(body)

	host := ""
	if parsed, err := url.Parse(robotsURL); err == nil {
		host = parsed.Hostname()
	}

	agent, group := selectGroup(groups, agentNames)

	policy := Policy{
		kind:     policyKindParsed,
		host:     host,
		agent:    agent,
		sitemaps: sitemaps,
	}

	if group != nil {
		policy.allowRules = make([]pathRule, 0, len(group.allows))
		for _, path := range group.allows {
			if path != "" {
				policy.allowRules = append(policy.allowRules, pathRule{prefix: normalizePath(path)})
			}
		}

		// An empty Disallow value means "allow everything" and adds no rule
		policy.disallowRules = make([]pathRule, 0, len(group.disallows))
		for _, path := range group.disallows {
			if path != "" {
				policy.disallowRules = append(policy.disallowRules, pathRule{prefix: normalizePath(path)})
			}
		}

		if group.crawlDelay != nil {
			delay := *group.crawlDelay
			policy.crawlDelay = &delay
		}
	}

	return policy, nil
}

// scanGroups splits robots.txt content into user-agent groups plus the
// global sitemap list. Consecutive user-agent lines share one group;
// rules appearing before any user-agent line form an implicit wildcard
// group.
func scanGroups(body []byte) ([]agentGroup, []string) {
	var groups []agentGroup
	var sitemaps []string

	var current *agentGroup
	var implicit agentGroup
	hasImplicit := false

	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()

		// Comments run from # to end of line
		if idx := strings.Index(line, "#"); idx != -1 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		colonIdx := strings.Index(line, ":")
		if colonIdx == -1 {
			continue // not a field:value line, skip
		}
		field := strings.ToLower(strings.TrimSpace(line[:colonIdx]))
		value := strings.TrimSpace(line[colonIdx+1:])

		switch field {
		case "user-agent":
			if current == nil {
				current = &agentGroup{agents: []string{value}}
			} else if len(current.allows) == 0 && len(current.disallows) == 0 && current.crawlDelay == nil {
				// No rules yet: this agent shares the upcoming rules
				current.agents = append(current.agents, value)
			} else {
				groups = append(groups, *current)
				current = &agentGroup{agents: []string{value}}
			}

		case "allow":
			if current != nil {
				current.allows = append(current.allows, value)
			} else {
				implicit.allows = append(implicit.allows, value)
				hasImplicit = true
			}

		case "disallow":
			if current != nil {
				current.disallows = append(current.disallows, value)
			} else {
				implicit.disallows = append(implicit.disallows, value)
				hasImplicit = true
			}

		case "crawl-delay":
			if current != nil {
				var seconds float64
				if _, err := fmt.Sscanf(value, "%f", &seconds); err == nil && seconds >= 0 {
					delay := time.Duration(seconds * float64(time.Second))
					current.crawlDelay = &delay
				}
			}

		case "sitemap":
			// Sitemaps are global and not tied to any user-agent
			if value != "" {
				sitemaps = append(sitemaps, value)
			}
		}
	}

	if current != nil {
		groups = append(groups, *current)
	}
	if hasImplicit {
		implicit.agents = []string{"*"}
		groups = append([]agentGroup{implicit}, groups...)
	}

	return groups, sitemaps
}

// selectGroup finds the group to apply for the configured agent names.
// Names are tried in order; the first name with an exact or prefix match
// wins. The wildcard group is the fallback when no name matches directly.
// Returns the resolved agent label and the group, or ("*", nil) when the
// file has no applicable group at all.
func selectGroup(groups []agentGroup, agentNames []string) (string, *agentGroup) {
	var wildcard *agentGroup
	for i := range groups {
		for _, agent := range groups[i].agents {
			if agent == "*" && wildcard == nil {
				wildcard = &groups[i]
			}
		}
	}

	for _, name := range agentNames {
		nameLower := strings.ToLower(name)

		var best *agentGroup
		bestLength := 0
		for i := range groups {
			for _, agent := range groups[i].agents {
				agentLower := strings.ToLower(agent)
				if agentLower == nameLower {
					return name, &groups[i] // exact match is the best possible
				}
				if agent == "*" {
					continue
				}
				// "Googlebot" matches "Googlebot-Image" (case-insensitive)
				if strings.HasPrefix(nameLower, agentLower) && len(agentLower) > bestLength {
					best = &groups[i]
					bestLength = len(agentLower)
				}
			}
		}
		if best != nil {
			return name, best
		}
	}

	if wildcard != nil {
		return "*", wildcard
	}
	return "*", nil
}
