package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Neos-Metaverse/WebApiThrottle/internal/core/domain"
	"github.com/Neos-Metaverse/WebApiThrottle/internal/core/services"
)

func TestPolicyInspector_NoSnapshot(t *testing.T) {
	handler := NewPolicyInspector(services.NewPolicyHolder(nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/policy", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a snapshot, got %d", rec.Code)
	}
}

func TestPolicyInspector_DescribesSnapshotAndMatches(t *testing.T) {
	policy := domain.NewThrottlePolicy(map[domain.Period]int64{domain.PeriodMinute: 60})
	policy.IPThrottlingEnabled = true
	rule, err := domain.NewEndpointRule("^/api/.*$", "", domain.RateLimits{PerSecond: domain.Limit(5)})
	if err != nil {
		t.Fatalf("failed to build rule: %v", err)
	}
	policy.EndpointRules = append(policy.EndpointRules, rule)

	handler := NewPolicyInspector(services.NewPolicyHolder(policy))

	req := httptest.NewRequest(http.MethodGet, "/policy", nil)
	req.RemoteAddr = "10.0.0.1:52000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var view struct {
		IPThrottling      bool             `json:"ip_throttling"`
		Rates             map[string]int64 `json:"rates"`
		EndpointRuleCount int              `json:"endpoint_rule_count"`
		Matches           []struct {
			Dimension string           `json:"dimension"`
			Key       string           `json:"key"`
			Limits    map[string]int64 `json:"limits"`
		} `json:"matches"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if !view.IPThrottling || view.Rates["minute"] != 60 || view.EndpointRuleCount != 1 {
		t.Fatalf("unexpected view: %+v", view)
	}
	if len(view.Matches) != 1 || view.Matches[0].Dimension != "ip" || view.Matches[0].Key != "10.0.0.1" {
		t.Fatalf("unexpected matches: %+v", view.Matches)
	}
	if view.Matches[0].Limits["minute"] != 60 {
		t.Fatalf("expected global per-minute ceiling in match, got %+v", view.Matches[0].Limits)
	}
}
