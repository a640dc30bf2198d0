package robots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeRuleSet_RoundTrip(t *testing.T) {
	delay := 1500 * time.Millisecond
	policy := Policy{
		kind:  policyKindParsed,
		host:  "example.com",
		agent: "mybot",
		allowRules: []pathRule{
			{prefix: "/private/faq"},
		},
		disallowRules: []pathRule{
			{prefix: "/private/"},
			{prefix: "/admin/"},
		},
		crawlDelay: &delay,
		sitemaps:   []string{"https://example.com/sitemap.xml"},
	}

	serialized, err := serializeRuleSet(NewRuleSet(policy, false))
	require.NoError(t, err)

	restored, err := deserializeRuleSet(serialized)
	require.NoError(t, err)

	assert.True(t, restored.FromCache(), "deserialized entries always report fromCache")
	assert.Equal(t, "example.com", restored.Policy().Host())
	assert.Equal(t, "mybot", restored.Policy().Agent())
	require.NotNil(t, restored.Policy().CrawlDelay())
	assert.Equal(t, delay, *restored.Policy().CrawlDelay())
	assert.Equal(t, policy.Sitemaps(), restored.Policy().Sitemaps())

	// Rule semantics survive the trip
	assert.False(t, restored.IsAllowed("/private/data"))
	assert.True(t, restored.IsAllowed("/private/faq"))
	assert.False(t, restored.IsAllowed("/admin/panel"))
	assert.True(t, restored.IsAllowed("/public"))
}

func TestSerializeRuleSet_Sentinels(t *testing.T) {
	for _, policy := range []Policy{ForbidAllPolicy(), AllowAllPolicy(), EmptyPolicy()} {
		serialized, err := serializeRuleSet(NewRuleSet(policy, false))
		require.NoError(t, err)

		restored, err := deserializeRuleSet(serialized)
		require.NoError(t, err)
		assert.Equal(t, policy.kind, restored.Policy().kind)
	}
}

func TestDeserializeRuleSet_RejectsUnknownKind(t *testing.T) {
	_, err := deserializeRuleSet(`{"policy":{"kind":"mystery"}}`)

	require.Error(t, err)
	var robotsErr *RobotsError
	require.ErrorAs(t, err, &robotsErr)
	assert.Equal(t, ErrCauseParseFailure, robotsErr.Cause)
}

func TestDeserializeRuleSet_RejectsMalformedJSON(t *testing.T) {
	_, err := deserializeRuleSet("{truncated")
	assert.Error(t, err)
}
