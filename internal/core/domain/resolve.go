package domain

// RuleMatch names one throttling dimension that applies to a request: the
// counter key the engine should track and the limits bound to it.
type RuleMatch struct {
	Dimension Dimension
	Key       string
	Limits    RateLimits
}

// Decision is the outcome an enforcement engine reports back for a request.
type Decision struct {
	Allowed bool
	// Match identifies the dimension that denied the request when Allowed
	// is false.
	Match RuleMatch
}

// Resolve walks the enabled dimensions and returns the limits that apply to
// the request, skipping whitelisted identities. Per-key overrides win over
// the global rates; the endpoint dimension takes the first matching rule in
// provider order and falls back to the global rates when no rule matches.
// Resolution is pure policy logic; counting stays with the engine.
func (p *ThrottlePolicy) Resolve(req RequestIdentity) []RuleMatch {
	matches := make([]RuleMatch, 0, 3)

	if p.IPThrottlingEnabled && req.ClientIP != "" && !p.IPWhitelisted(req.ClientIP) {
		limits, ok := p.IPLimits(req.ClientIP)
		if !ok {
			limits = p.GlobalLimits()
		}
		if !limits.IsZero() {
			matches = append(matches, RuleMatch{Dimension: IPThrottling, Key: req.ClientIP, Limits: limits})
		}
	}

	if p.ClientThrottlingEnabled && req.ClientKey != "" && !p.ClientWhitelisted(req.ClientKey) {
		limits, ok := p.ClientLimits(req.ClientKey)
		if !ok {
			limits = p.GlobalLimits()
		}
		if !limits.IsZero() {
			matches = append(matches, RuleMatch{Dimension: ClientThrottling, Key: req.ClientKey, Limits: limits})
		}
	}

	if p.EndpointThrottlingEnabled && req.Endpoint != "" && !p.EndpointWhitelisted(req.Endpoint) {
		limits := p.GlobalLimits()
		if rule, ok := p.FirstMatchingEndpointRule(req); ok {
			limits = rule.Limits()
		}
		if !limits.IsZero() {
			matches = append(matches, RuleMatch{Dimension: EndpointThrottling, Key: req.Endpoint, Limits: limits})
		}
	}

	return matches
}
