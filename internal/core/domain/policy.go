package domain

import "fmt"

// Dimension is an axis along which separate rate limits can be configured.
type Dimension int

const (
	IPThrottling Dimension = iota
	ClientThrottling
	EndpointThrottling
)

func (d Dimension) String() string {
	switch d {
	case IPThrottling:
		return "ip"
	case ClientThrottling:
		return "client"
	case EndpointThrottling:
		return "endpoint"
	default:
		return "unknown"
	}
}

// ParseDimension maps the wire spelling of a dimension to its enum value.
func ParseDimension(s string) (Dimension, error) {
	switch s {
	case "ip":
		return IPThrottling, nil
	case "client":
		return ClientThrottling, nil
	case "endpoint":
		return EndpointThrottling, nil
	default:
		return 0, fmt.Errorf("unknown throttling dimension %q", s)
	}
}

// ThrottlePolicy is the assembled throttling policy: global default rates,
// per-dimension rule collections, whitelists, and behavioral flags.
//
// A policy is built once, either directly or by services.PolicyAssembler,
// and then shared read-only across request-handling paths. Reloading means
// building a new policy and swapping the reference atomically; nothing here
// is mutated after assembly.
type ThrottlePolicy struct {
	IPThrottlingEnabled       bool
	ClientThrottlingEnabled   bool
	EndpointThrottlingEnabled bool

	// StackBlockedRequests tells the enforcement engine to keep counting
	// rejected requests, walking periods in StackOrder. Carried here as
	// declarative policy only.
	StackBlockedRequests bool

	// Rates holds the global default ceiling per period, applied when no
	// per-key or per-endpoint rule is more specific.
	Rates map[Period]int64

	// IPRules and ClientRules map an exact-match key to its override.
	// Keys are unique per dimension; assembly rejects duplicates.
	IPRules     map[string]RateLimits
	ClientRules map[string]RateLimits

	// EndpointRules keeps provider order. The core guarantees only the
	// per-rule predicate; iteration policy belongs to the caller.
	EndpointRules []EndpointRule

	IPWhitelist       []string
	ClientWhitelist   []string
	EndpointWhitelist []string
}

// NewThrottlePolicy builds a policy from global rates. All collections start
// empty but non-nil and every flag starts disabled.
func NewThrottlePolicy(rates map[Period]int64) *ThrottlePolicy {
	p := &ThrottlePolicy{
		Rates:             make(map[Period]int64, len(rates)),
		IPRules:           make(map[string]RateLimits),
		ClientRules:       make(map[string]RateLimits),
		EndpointRules:     []EndpointRule{},
		IPWhitelist:       []string{},
		ClientWhitelist:   []string{},
		EndpointWhitelist: []string{},
	}
	for period, ceiling := range rates {
		p.Rates[period] = ceiling
	}
	return p
}

// IPWhitelisted reports whether the address is exempt from IP throttling.
func (p *ThrottlePolicy) IPWhitelisted(ip string) bool {
	return containsExact(p.IPWhitelist, ip)
}

// ClientWhitelisted reports whether the client key is exempt from client throttling.
func (p *ThrottlePolicy) ClientWhitelisted(key string) bool {
	return containsExact(p.ClientWhitelist, key)
}

// EndpointWhitelisted reports whether the endpoint path is exempt from endpoint throttling.
func (p *ThrottlePolicy) EndpointWhitelisted(endpoint string) bool {
	return containsExact(p.EndpointWhitelist, endpoint)
}

// IPLimits returns the per-IP override for the address, if configured.
func (p *ThrottlePolicy) IPLimits(ip string) (RateLimits, bool) {
	limits, ok := p.IPRules[ip]
	return limits, ok
}

// ClientLimits returns the per-client override for the key, if configured.
func (p *ThrottlePolicy) ClientLimits(key string) (RateLimits, bool) {
	limits, ok := p.ClientRules[key]
	return limits, ok
}

// GlobalLimits projects the global rates onto a RateLimits value.
func (p *ThrottlePolicy) GlobalLimits() RateLimits {
	var limits RateLimits
	for period, ceiling := range p.Rates {
		switch period {
		case PeriodSecond:
			limits.PerSecond = Limit(ceiling)
		case PeriodMinute:
			limits.PerMinute = Limit(ceiling)
		case PeriodHour:
			limits.PerHour = Limit(ceiling)
		case PeriodDay:
			limits.PerDay = Limit(ceiling)
		case PeriodWeek:
			limits.PerWeek = Limit(ceiling)
		}
	}
	return limits
}

// MatchingEndpointRules returns every rule whose predicate accepts the
// request, in provider order.
func (p *ThrottlePolicy) MatchingEndpointRules(req RequestIdentity) []EndpointRule {
	matched := []EndpointRule{}
	for _, rule := range p.EndpointRules {
		if rule.Matches(req) {
			matched = append(matched, rule)
		}
	}
	return matched
}

// FirstMatchingEndpointRule returns the first rule, in provider order, whose
// predicate accepts the request.
func (p *ThrottlePolicy) FirstMatchingEndpointRule(req RequestIdentity) (EndpointRule, bool) {
	for _, rule := range p.EndpointRules {
		if rule.Matches(req) {
			return rule, true
		}
	}
	return EndpointRule{}, false
}

func containsExact(entries []string, value string) bool {
	for _, entry := range entries {
		if entry == value {
			return true
		}
	}
	return false
}
