// Package redis implements the policy provider backed by Redis.
//
// Layout: global settings live in a hash, rule and whitelist records are
// JSON documents in lists so that provider order survives round trips.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/Neos-Metaverse/WebApiThrottle/internal/core/domain"
	"github.com/Neos-Metaverse/WebApiThrottle/internal/core/ports"
)

const (
	settingsKey  = "throttle:policy:settings"
	rulesKey     = "throttle:policy:rules"
	whitelistKey = "throttle:policy:whitelist"
)

type Provider struct {
	client *redis.Client
}

var _ ports.PolicyProvider = (*Provider)(nil)

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config) (*Provider, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Provider{client: client}, nil
}

// NewWithClient wraps an existing client; the caller keeps ownership.
func NewWithClient(client *redis.Client) *Provider {
	return &Provider{client: client}
}

func (p *Provider) Close() error {
	return p.client.Close()
}

// ReadSettings reads the global settings hash. A missing hash yields zero
// settings: everything disabled, no global rates.
func (p *Provider) ReadSettings(ctx context.Context) (domain.PolicySettings, error) {
	fields, err := p.client.HGetAll(ctx, settingsKey).Result()
	if err != nil {
		return domain.PolicySettings{}, fmt.Errorf("read settings hash: %w", err)
	}

	var settings domain.PolicySettings
	if settings.IPThrottling, err = parseBoolField(fields, "ip_throttling"); err != nil {
		return domain.PolicySettings{}, err
	}
	if settings.ClientThrottling, err = parseBoolField(fields, "client_throttling"); err != nil {
		return domain.PolicySettings{}, err
	}
	if settings.EndpointThrottling, err = parseBoolField(fields, "endpoint_throttling"); err != nil {
		return domain.PolicySettings{}, err
	}
	if settings.StackBlockedRequests, err = parseBoolField(fields, "stack_blocked_requests"); err != nil {
		return domain.PolicySettings{}, err
	}

	if settings.LimitPerSecond, err = parseLimitField(fields, "limit_per_second"); err != nil {
		return domain.PolicySettings{}, err
	}
	if settings.LimitPerMinute, err = parseLimitField(fields, "limit_per_minute"); err != nil {
		return domain.PolicySettings{}, err
	}
	if settings.LimitPerHour, err = parseLimitField(fields, "limit_per_hour"); err != nil {
		return domain.PolicySettings{}, err
	}
	if settings.LimitPerDay, err = parseLimitField(fields, "limit_per_day"); err != nil {
		return domain.PolicySettings{}, err
	}
	if settings.LimitPerWeek, err = parseLimitField(fields, "limit_per_week"); err != nil {
		return domain.PolicySettings{}, err
	}

	return settings, nil
}

// AllRules returns the rule records in list order.
func (p *Provider) AllRules(ctx context.Context) ([]domain.PolicyRule, error) {
	items, err := p.client.LRange(ctx, rulesKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read rules list: %w", err)
	}

	rules := make([]domain.PolicyRule, 0, len(items))
	for i, item := range items {
		var record ruleRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			return nil, fmt.Errorf("decode rule record %d: %w", i, err)
		}
		rule, err := record.toDomain()
		if err != nil {
			return nil, fmt.Errorf("rule record %d: %w", i, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// AllWhitelists returns the whitelist records in list order. A missing list
// means no exemptions, not an error.
func (p *Provider) AllWhitelists(ctx context.Context) ([]domain.PolicyWhitelist, error) {
	items, err := p.client.LRange(ctx, whitelistKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read whitelist: %w", err)
	}

	entries := make([]domain.PolicyWhitelist, 0, len(items))
	for i, item := range items {
		var record whitelistRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			return nil, fmt.Errorf("decode whitelist record %d: %w", i, err)
		}
		dimension, err := domain.ParseDimension(record.Dimension)
		if err != nil {
			return nil, fmt.Errorf("whitelist record %d: %w", i, err)
		}
		entries = append(entries, domain.PolicyWhitelist{Dimension: dimension, Entry: record.Entry})
	}
	return entries, nil
}

type ruleRecord struct {
	Dimension      string `json:"dimension"`
	Entry          string `json:"entry"`
	LimitPerSecond *int64 `json:"limit_per_second,omitempty"`
	LimitPerMinute *int64 `json:"limit_per_minute,omitempty"`
	LimitPerHour   *int64 `json:"limit_per_hour,omitempty"`
	LimitPerDay    *int64 `json:"limit_per_day,omitempty"`
	LimitPerWeek   *int64 `json:"limit_per_week,omitempty"`
}

func (r ruleRecord) toDomain() (domain.PolicyRule, error) {
	dimension, err := domain.ParseDimension(r.Dimension)
	if err != nil {
		return domain.PolicyRule{}, err
	}
	return domain.PolicyRule{
		Dimension:      dimension,
		Entry:          r.Entry,
		LimitPerSecond: r.LimitPerSecond,
		LimitPerMinute: r.LimitPerMinute,
		LimitPerHour:   r.LimitPerHour,
		LimitPerDay:    r.LimitPerDay,
		LimitPerWeek:   r.LimitPerWeek,
	}, nil
}

type whitelistRecord struct {
	Dimension string `json:"dimension"`
	Entry     string `json:"entry"`
}

func parseBoolField(fields map[string]string, name string) (bool, error) {
	raw, ok := fields[name]
	if !ok || raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", name, err)
	}
	return value, nil
}

func parseLimitField(fields map[string]string, name string) (*int64, error) {
	raw, ok := fields[name]
	if !ok || raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return &value, nil
}
