package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neos-Metaverse/WebApiThrottle/internal/core/domain"
)

func newTestProvider(t *testing.T) (*Provider, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewWithClient(client), client
}

func TestProvider_ReadSettings(t *testing.T) {
	provider, client := newTestProvider(t)
	ctx := context.Background()

	require.NoError(t, client.HSet(ctx, settingsKey,
		"ip_throttling", "true",
		"client_throttling", "false",
		"endpoint_throttling", "true",
		"stack_blocked_requests", "true",
		"limit_per_minute", "60",
		"limit_per_week", "100000",
	).Err())

	settings, err := provider.ReadSettings(ctx)
	require.NoError(t, err)

	assert.True(t, settings.IPThrottling)
	assert.False(t, settings.ClientThrottling)
	assert.True(t, settings.EndpointThrottling)
	assert.True(t, settings.StackBlockedRequests)

	require.NotNil(t, settings.LimitPerMinute)
	assert.EqualValues(t, 60, *settings.LimitPerMinute)
	require.NotNil(t, settings.LimitPerWeek)
	assert.EqualValues(t, 100000, *settings.LimitPerWeek)
	assert.Nil(t, settings.LimitPerSecond)
	assert.Nil(t, settings.LimitPerHour)
	assert.Nil(t, settings.LimitPerDay)
}

func TestProvider_ReadSettingsMissingHash(t *testing.T) {
	provider, _ := newTestProvider(t)

	settings, err := provider.ReadSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PolicySettings{}, settings)
}

func TestProvider_ReadSettingsRejectsMalformedLimit(t *testing.T) {
	provider, client := newTestProvider(t)
	ctx := context.Background()
	require.NoError(t, client.HSet(ctx, settingsKey, "limit_per_second", "not-a-number").Err())

	_, err := provider.ReadSettings(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit_per_second")
}

func TestProvider_AllRulesKeepsListOrder(t *testing.T) {
	provider, client := newTestProvider(t)
	ctx := context.Background()

	records := []string{
		`{"dimension":"endpoint","entry":"^/api/.*$","limit_per_second":5}`,
		`{"dimension":"ip","entry":"10.0.0.1","limit_per_minute":30}`,
		`{"dimension":"client","entry":"api-key-1","limit_per_day":1000}`,
	}
	for _, record := range records {
		require.NoError(t, client.RPush(ctx, rulesKey, record).Err())
	}

	rules, err := provider.AllRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 3)

	assert.Equal(t, domain.EndpointThrottling, rules[0].Dimension)
	assert.Equal(t, "^/api/.*$", rules[0].Entry)
	require.NotNil(t, rules[0].LimitPerSecond)
	assert.EqualValues(t, 5, *rules[0].LimitPerSecond)

	assert.Equal(t, domain.IPThrottling, rules[1].Dimension)
	assert.Equal(t, "10.0.0.1", rules[1].Entry)

	assert.Equal(t, domain.ClientThrottling, rules[2].Dimension)
	require.NotNil(t, rules[2].LimitPerDay)
	assert.EqualValues(t, 1000, *rules[2].LimitPerDay)
}

func TestProvider_AllRulesRejectsUnknownDimension(t *testing.T) {
	provider, client := newTestProvider(t)
	ctx := context.Background()
	require.NoError(t, client.RPush(ctx, rulesKey, `{"dimension":"tenant","entry":"x"}`).Err())

	_, err := provider.AllRules(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tenant")
}

func TestProvider_AllRulesRejectsMalformedJSON(t *testing.T) {
	provider, client := newTestProvider(t)
	ctx := context.Background()
	require.NoError(t, client.RPush(ctx, rulesKey, `{not json`).Err())

	_, err := provider.AllRules(ctx)
	require.Error(t, err)
}

func TestProvider_AllWhitelists(t *testing.T) {
	provider, client := newTestProvider(t)
	ctx := context.Background()

	for _, record := range []string{
		`{"dimension":"ip","entry":"127.0.0.1"}`,
		`{"dimension":"endpoint","entry":"/health"}`,
	} {
		require.NoError(t, client.RPush(ctx, whitelistKey, record).Err())
	}

	entries, err := provider.AllWhitelists(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.PolicyWhitelist{Dimension: domain.IPThrottling, Entry: "127.0.0.1"}, entries[0])
	assert.Equal(t, domain.PolicyWhitelist{Dimension: domain.EndpointThrottling, Entry: "/health"}, entries[1])
}

func TestProvider_AllWhitelistsMissingListIsEmpty(t *testing.T) {
	provider, _ := newTestProvider(t)

	entries, err := provider.AllWhitelists(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
