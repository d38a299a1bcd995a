package domain

import "regexp"

// EndpointRule binds a compiled path pattern and an optional method to a
// RateLimits value. Rules are immutable once constructed; callers keep them
// in an ordered sequence and decide the iteration policy themselves.
type EndpointRule struct {
	pattern *regexp.Regexp
	method  string
	limits  RateLimits
}

// NewEndpointRule compiles pattern and returns the rule. An empty method
// means the rule applies to every method. A malformed pattern fails fast
// with a *PatternError.
func NewEndpointRule(pattern, method string, limits RateLimits) (EndpointRule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return EndpointRule{}, &PatternError{Pattern: pattern, Err: err}
	}
	return EndpointRule{pattern: re, method: method, limits: limits}, nil
}

// Pattern returns the source text of the path pattern.
func (r EndpointRule) Pattern() string {
	return r.pattern.String()
}

// Method returns the pinned HTTP method, or "" when the rule matches any.
func (r EndpointRule) Method() string {
	return r.method
}

// Limits returns the rate limits the rule carries.
func (r EndpointRule) Limits() RateLimits {
	return r.limits
}

// Matches reports whether the rule applies to the request. The path pattern
// is checked first; when the rule pins a method the comparison is exact and
// case-sensitive. Pure predicate, no side effects.
func (r EndpointRule) Matches(req RequestIdentity) bool {
	if !r.pattern.MatchString(req.Endpoint) {
		return false
	}
	return r.method == "" || r.method == req.Method
}
