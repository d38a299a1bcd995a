// Package domain holds the value types and the policy aggregate of the
// throttling model.
package domain

// Period identifies a rate limit window.
type Period int

const (
	PeriodSecond Period = iota
	PeriodMinute
	PeriodHour
	PeriodDay
	PeriodWeek
)

func (p Period) String() string {
	switch p {
	case PeriodSecond:
		return "second"
	case PeriodMinute:
		return "minute"
	case PeriodHour:
		return "hour"
	case PeriodDay:
		return "day"
	case PeriodWeek:
		return "week"
	default:
		return "unknown"
	}
}

// StackOrder is the order in which an enforcement engine re-counts blocked
// requests when ThrottlePolicy.StackBlockedRequests is set.
var StackOrder = []Period{PeriodDay, PeriodHour, PeriodMinute, PeriodSecond}

// RateLimits holds an optional request ceiling for each supported period.
// A nil field means the period is unconstrained; a zero value means at most
// zero requests. The two are never conflated through sentinels.
type RateLimits struct {
	PerSecond *int64
	PerMinute *int64
	PerHour   *int64
	PerDay    *int64
	PerWeek   *int64
}

// Limit returns a pointer suitable for the optional RateLimits fields.
func Limit(v int64) *int64 {
	return &v
}

// Ceiling returns the configured ceiling for a period, if any.
func (l RateLimits) Ceiling(p Period) (int64, bool) {
	var v *int64
	switch p {
	case PeriodSecond:
		v = l.PerSecond
	case PeriodMinute:
		v = l.PerMinute
	case PeriodHour:
		v = l.PerHour
	case PeriodDay:
		v = l.PerDay
	case PeriodWeek:
		v = l.PerWeek
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// IsZero reports whether no period carries a ceiling.
func (l RateLimits) IsZero() bool {
	return l.PerSecond == nil && l.PerMinute == nil && l.PerHour == nil &&
		l.PerDay == nil && l.PerWeek == nil
}
