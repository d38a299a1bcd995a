package domain

import "testing"

func TestEndpointRule_MatchesPatternAndMethod(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		method  string
		req     RequestIdentity
		want    bool
	}{
		{
			name:    "anchored prefix matches",
			pattern: "^/api/.*$",
			req:     RequestIdentity{Endpoint: "/api/users", Method: "GET"},
			want:    true,
		},
		{
			name:    "path outside pattern does not match",
			pattern: "^/api/.*$",
			req:     RequestIdentity{Endpoint: "/health", Method: "GET"},
			want:    false,
		},
		{
			name:    "partial match without anchors",
			pattern: "users",
			req:     RequestIdentity{Endpoint: "/api/users/42", Method: "GET"},
			want:    true,
		},
		{
			name:    "pinned method must match exactly",
			pattern: "^/api/users$",
			method:  "POST",
			req:     RequestIdentity{Endpoint: "/api/users", Method: "POST"},
			want:    true,
		},
		{
			name:    "pinned method rejects other methods",
			pattern: "^/api/users$",
			method:  "POST",
			req:     RequestIdentity{Endpoint: "/api/users", Method: "GET"},
			want:    false,
		},
		{
			name:    "method comparison is case-sensitive",
			pattern: "^/api/users$",
			method:  "POST",
			req:     RequestIdentity{Endpoint: "/api/users", Method: "post"},
			want:    false,
		},
		{
			name:    "pattern failure wins over matching method",
			pattern: "^/admin/.*$",
			method:  "GET",
			req:     RequestIdentity{Endpoint: "/api/users", Method: "GET"},
			want:    false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rule, err := NewEndpointRule(tc.pattern, tc.method, RateLimits{})
			if err != nil {
				t.Fatalf("failed to build rule: %v", err)
			}
			if got := rule.Matches(tc.req); got != tc.want {
				t.Fatalf("Matches(%+v) = %v, want %v", tc.req, got, tc.want)
			}
		})
	}
}

func TestEndpointRule_UnsetMethodMatchesEveryMethod(t *testing.T) {
	rule, err := NewEndpointRule("^/api/.*$", "", RateLimits{PerSecond: Limit(5)})
	if err != nil {
		t.Fatalf("failed to build rule: %v", err)
	}

	for _, method := range []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"} {
		if !rule.Matches(RequestIdentity{Endpoint: "/api/orders", Method: method}) {
			t.Fatalf("expected rule without a method to match %s", method)
		}
	}
}

func TestNewEndpointRule_FailsFastOnMalformedPattern(t *testing.T) {
	_, err := NewEndpointRule("^/api/(", "GET", RateLimits{})
	if err == nil {
		t.Fatal("expected pattern compilation to fail")
	}
	if !IsPatternError(err) {
		t.Fatalf("expected *PatternError, got %T: %v", err, err)
	}
}
