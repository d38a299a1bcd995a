// Package handlers exposes inspection handlers over the assembled policy.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Neos-Metaverse/WebApiThrottle/internal/adapters/http/middleware"
	"github.com/Neos-Metaverse/WebApiThrottle/internal/core/domain"
	"github.com/Neos-Metaverse/WebApiThrottle/internal/core/services"
)

// StatusHandler responds with a simple message; useful for exercising the
// throttle middleware.
func StatusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "request allowed"})
}

type ruleMatchView struct {
	Dimension string           `json:"dimension"`
	Key       string           `json:"key"`
	Limits    map[string]int64 `json:"limits"`
}

type policyView struct {
	IPThrottling         bool             `json:"ip_throttling"`
	ClientThrottling     bool             `json:"client_throttling"`
	EndpointThrottling   bool             `json:"endpoint_throttling"`
	StackBlockedRequests bool             `json:"stack_blocked_requests"`
	Rates                map[string]int64 `json:"rates"`
	EndpointRuleCount    int              `json:"endpoint_rule_count"`
	Matches              []ruleMatchView  `json:"matches"`
}

// NewPolicyInspector returns a handler describing the current policy
// snapshot and the rule matches that apply to the calling request.
func NewPolicyInspector(holder *services.PolicyHolder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		policy := holder.Current()
		if policy == nil {
			http.Error(w, "no policy snapshot published", http.StatusServiceUnavailable)
			return
		}

		view := policyView{
			IPThrottling:         policy.IPThrottlingEnabled,
			ClientThrottling:     policy.ClientThrottlingEnabled,
			EndpointThrottling:   policy.EndpointThrottlingEnabled,
			StackBlockedRequests: policy.StackBlockedRequests,
			Rates:                make(map[string]int64, len(policy.Rates)),
			EndpointRuleCount:    len(policy.EndpointRules),
			Matches:              []ruleMatchView{},
		}
		for period, ceiling := range policy.Rates {
			view.Rates[period.String()] = ceiling
		}

		identity := middleware.ExtractIdentity(r)
		for _, match := range policy.Resolve(identity) {
			view.Matches = append(view.Matches, ruleMatchView{
				Dimension: match.Dimension.String(),
				Key:       match.Key,
				Limits:    limitsView(match.Limits),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(view)
	}
}

func limitsView(limits domain.RateLimits) map[string]int64 {
	view := make(map[string]int64)
	for _, period := range []domain.Period{
		domain.PeriodSecond, domain.PeriodMinute, domain.PeriodHour,
		domain.PeriodDay, domain.PeriodWeek,
	} {
		if ceiling, ok := limits.Ceiling(period); ok {
			view[period.String()] = ceiling
		}
	}
	return view
}
