package domain

// PolicySettings is the raw global configuration a policy provider returns:
// the enable flags plus the global default ceilings. Nil limits mean the
// period carries no global ceiling.
type PolicySettings struct {
	IPThrottling         bool
	ClientThrottling     bool
	EndpointThrottling   bool
	StackBlockedRequests bool

	LimitPerSecond *int64
	LimitPerMinute *int64
	LimitPerHour   *int64
	LimitPerDay    *int64
	LimitPerWeek   *int64
}

// Rates projects the configured global ceilings onto a period map.
func (s PolicySettings) Rates() map[Period]int64 {
	rates := make(map[Period]int64)
	if s.LimitPerSecond != nil {
		rates[PeriodSecond] = *s.LimitPerSecond
	}
	if s.LimitPerMinute != nil {
		rates[PeriodMinute] = *s.LimitPerMinute
	}
	if s.LimitPerHour != nil {
		rates[PeriodHour] = *s.LimitPerHour
	}
	if s.LimitPerDay != nil {
		rates[PeriodDay] = *s.LimitPerDay
	}
	if s.LimitPerWeek != nil {
		rates[PeriodWeek] = *s.LimitPerWeek
	}
	return rates
}

// PolicyRule is one raw rule record from a provider: a throttling dimension,
// the key or pattern it applies to, and its per-period ceilings.
type PolicyRule struct {
	Dimension Dimension
	Entry     string

	LimitPerSecond *int64
	LimitPerMinute *int64
	LimitPerHour   *int64
	LimitPerDay    *int64
	LimitPerWeek   *int64
}

// Limits builds the RateLimits value carried by the record.
func (r PolicyRule) Limits() RateLimits {
	return RateLimits{
		PerSecond: r.LimitPerSecond,
		PerMinute: r.LimitPerMinute,
		PerHour:   r.LimitPerHour,
		PerDay:    r.LimitPerDay,
		PerWeek:   r.LimitPerWeek,
	}
}

// PolicyWhitelist is one raw whitelist record from a provider.
type PolicyWhitelist struct {
	Dimension Dimension
	Entry     string
}
