// Package services implements the policy assembly logic of the throttling core.
package services

import (
	"context"
	"fmt"

	"github.com/Neos-Metaverse/WebApiThrottle/internal/core/domain"
	"github.com/Neos-Metaverse/WebApiThrottle/internal/core/ports"
)

// Config tunes the assembly behavior.
type Config struct {
	// OverwriteDuplicates switches duplicate (dimension, entry) handling
	// for IP and client rules from fail-fast to last-write-wins. The
	// default rejects duplicates with a *domain.DuplicateEntryError.
	OverwriteDuplicates bool
}

// PolicyAssembler builds ThrottlePolicy snapshots from a provider.
type PolicyAssembler struct {
	provider ports.PolicyProvider
	config   Config
}

// NewPolicyAssembler creates a new assembler over the given provider.
func NewPolicyAssembler(provider ports.PolicyProvider, cfg Config) (*PolicyAssembler, error) {
	if provider == nil {
		return nil, fmt.Errorf("policy provider is required")
	}
	return &PolicyAssembler{provider: provider, config: cfg}, nil
}

// Assemble reads settings, rules, and whitelists from the provider and
// returns the fully assembled policy. Assembly is deterministic and one-shot:
// any provider error or entry conflict aborts without a partial policy.
func (a *PolicyAssembler) Assemble(ctx context.Context) (*domain.ThrottlePolicy, error) {
	settings, err := a.provider.ReadSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	policy := domain.NewThrottlePolicy(settings.Rates())
	policy.IPThrottlingEnabled = settings.IPThrottling
	policy.ClientThrottlingEnabled = settings.ClientThrottling
	policy.EndpointThrottlingEnabled = settings.EndpointThrottling
	policy.StackBlockedRequests = settings.StackBlockedRequests

	rules, err := a.provider.AllRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}

	for _, rule := range rules {
		switch rule.Dimension {
		case domain.IPThrottling:
			if err := a.insert(policy.IPRules, rule); err != nil {
				return nil, err
			}
		case domain.ClientThrottling:
			if err := a.insert(policy.ClientRules, rule); err != nil {
				return nil, err
			}
		case domain.EndpointThrottling:
			// The store format carries no method dimension; endpoint
			// rules from a provider match every method.
			endpointRule, err := domain.NewEndpointRule(rule.Entry, "", rule.Limits())
			if err != nil {
				return nil, err
			}
			policy.EndpointRules = append(policy.EndpointRules, endpointRule)
		default:
			return nil, fmt.Errorf("rule entry %q has unknown dimension %d", rule.Entry, rule.Dimension)
		}
	}

	whitelists, err := a.provider.AllWhitelists(ctx)
	if err != nil {
		return nil, fmt.Errorf("read whitelists: %w", err)
	}

	for _, entry := range whitelists {
		switch entry.Dimension {
		case domain.IPThrottling:
			policy.IPWhitelist = append(policy.IPWhitelist, entry.Entry)
		case domain.ClientThrottling:
			policy.ClientWhitelist = append(policy.ClientWhitelist, entry.Entry)
		case domain.EndpointThrottling:
			policy.EndpointWhitelist = append(policy.EndpointWhitelist, entry.Entry)
		default:
			return nil, fmt.Errorf("whitelist entry %q has unknown dimension %d", entry.Entry, entry.Dimension)
		}
	}

	return policy, nil
}

func (a *PolicyAssembler) insert(rules map[string]domain.RateLimits, rule domain.PolicyRule) error {
	if _, exists := rules[rule.Entry]; exists && !a.config.OverwriteDuplicates {
		return &domain.DuplicateEntryError{Dimension: rule.Dimension, Entry: rule.Entry}
	}
	rules[rule.Entry] = rule.Limits()
	return nil
}
