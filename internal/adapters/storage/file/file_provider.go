// Package file implements the policy provider backed by a YAML document.
package file

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Neos-Metaverse/WebApiThrottle/internal/core/domain"
	"github.com/Neos-Metaverse/WebApiThrottle/internal/core/ports"
)

type Provider struct {
	document policyDocument
}

var _ ports.PolicyProvider = (*Provider)(nil)

// New reads and parses the policy document at path. The file is read once;
// reloading policy means constructing a new provider and reassembling.
func New(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}

	var document policyDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("parse policy yaml: %w", err)
	}

	return &Provider{document: document}, nil
}

func (p *Provider) ReadSettings(_ context.Context) (domain.PolicySettings, error) {
	s := p.document.Settings
	return domain.PolicySettings{
		IPThrottling:         s.IPThrottling,
		ClientThrottling:     s.ClientThrottling,
		EndpointThrottling:   s.EndpointThrottling,
		StackBlockedRequests: s.StackBlockedRequests,
		LimitPerSecond:       s.LimitPerSecond,
		LimitPerMinute:       s.LimitPerMinute,
		LimitPerHour:         s.LimitPerHour,
		LimitPerDay:          s.LimitPerDay,
		LimitPerWeek:         s.LimitPerWeek,
	}, nil
}

// AllRules returns the rule records in document order.
func (p *Provider) AllRules(_ context.Context) ([]domain.PolicyRule, error) {
	rules := make([]domain.PolicyRule, 0, len(p.document.Rules))
	for i, record := range p.document.Rules {
		dimension, err := domain.ParseDimension(record.Dimension)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, domain.PolicyRule{
			Dimension:      dimension,
			Entry:          record.Entry,
			LimitPerSecond: record.LimitPerSecond,
			LimitPerMinute: record.LimitPerMinute,
			LimitPerHour:   record.LimitPerHour,
			LimitPerDay:    record.LimitPerDay,
			LimitPerWeek:   record.LimitPerWeek,
		})
	}
	return rules, nil
}

// AllWhitelists returns the whitelist records in document order. An absent
// whitelist section means no exemptions.
func (p *Provider) AllWhitelists(_ context.Context) ([]domain.PolicyWhitelist, error) {
	entries := make([]domain.PolicyWhitelist, 0, len(p.document.Whitelist))
	for i, record := range p.document.Whitelist {
		dimension, err := domain.ParseDimension(record.Dimension)
		if err != nil {
			return nil, fmt.Errorf("whitelist entry %d: %w", i, err)
		}
		entries = append(entries, domain.PolicyWhitelist{Dimension: dimension, Entry: record.Entry})
	}
	return entries, nil
}

type policyDocument struct {
	Settings  settingsSection  `yaml:"settings"`
	Rules     []ruleSection    `yaml:"rules"`
	Whitelist []whitelistEntry `yaml:"whitelist"`
}

type settingsSection struct {
	IPThrottling         bool   `yaml:"ip_throttling"`
	ClientThrottling     bool   `yaml:"client_throttling"`
	EndpointThrottling   bool   `yaml:"endpoint_throttling"`
	StackBlockedRequests bool   `yaml:"stack_blocked_requests"`
	LimitPerSecond       *int64 `yaml:"limit_per_second"`
	LimitPerMinute       *int64 `yaml:"limit_per_minute"`
	LimitPerHour         *int64 `yaml:"limit_per_hour"`
	LimitPerDay          *int64 `yaml:"limit_per_day"`
	LimitPerWeek         *int64 `yaml:"limit_per_week"`
}

type ruleSection struct {
	Dimension      string `yaml:"dimension"`
	Entry          string `yaml:"entry"`
	LimitPerSecond *int64 `yaml:"limit_per_second"`
	LimitPerMinute *int64 `yaml:"limit_per_minute"`
	LimitPerHour   *int64 `yaml:"limit_per_hour"`
	LimitPerDay    *int64 `yaml:"limit_per_day"`
	LimitPerWeek   *int64 `yaml:"limit_per_week"`
}

type whitelistEntry struct {
	Dimension string `yaml:"dimension"`
	Entry     string `yaml:"entry"`
}
