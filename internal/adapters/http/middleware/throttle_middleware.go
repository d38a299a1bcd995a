// Package middleware provides the HTTP glue between the policy core and an
// enforcement engine.
package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/Neos-Metaverse/WebApiThrottle/internal/core/domain"
	"github.com/Neos-Metaverse/WebApiThrottle/internal/core/ports"
	"github.com/Neos-Metaverse/WebApiThrottle/internal/core/services"
	"github.com/Neos-Metaverse/WebApiThrottle/internal/observability"
)

const rateLimitExceededMessage = "you have reached the maximum number of requests allowed within the configured time frame"

// clientKeyHeader carries the caller identity used by the client dimension.
const clientKeyHeader = "API_KEY"

// NewThrottleMiddleware extracts the request identity, resolves the policy
// snapshot against it, and delegates the allow/deny decision to the
// enforcement engine. Requests that resolve to no rule match pass through
// untouched, as do all requests when no policy snapshot is published yet.
func NewThrottleMiddleware(holder *services.PolicyHolder, limiter ports.RateLimiter, logger *observability.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = observability.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			policy := holder.Current()
			if policy == nil || limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			identity := ExtractIdentity(r)
			matches := policy.Resolve(identity)
			if len(matches) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			decision, err := limiter.Allow(r.Context(), identity, matches)
			if err != nil {
				logger.Errorw("rate limiter failed", "err", err, "endpoint", identity.Endpoint)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			if !decision.Allowed {
				logger.Infow("request throttled",
					"dimension", decision.Match.Dimension.String(),
					"key", decision.Match.Key,
					"endpoint", identity.Endpoint,
				)
				writeTooManyRequests(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ExtractIdentity builds the RequestIdentity the policy core matches on.
func ExtractIdentity(r *http.Request) domain.RequestIdentity {
	return domain.RequestIdentity{
		Endpoint:  r.URL.Path,
		Method:    r.Method,
		ClientIP:  extractIP(r),
		ClientKey: strings.TrimSpace(r.Header.Get(clientKeyHeader)),
	}
}

func extractIP(r *http.Request) string {
	xForwardedFor := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if xForwardedFor != "" {
		parts := strings.Split(xForwardedFor, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}

	xRealIP := strings.TrimSpace(r.Header.Get("X-Real-IP"))
	if xRealIP != "" {
		return xRealIP
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}

	return host
}

func writeTooManyRequests(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(rateLimitExceededMessage))
}
