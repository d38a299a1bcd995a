// Package ports defines the contracts that connect the policy core to
// external collaborators.
package ports

import (
	"context"

	"github.com/Neos-Metaverse/WebApiThrottle/internal/core/domain"
)

// RateLimiter is the enforcement engine contract. The engine receives the
// resolved rule matches for a request and owns all counting and rejection
// semantics; the policy core never tracks request rates itself.
type RateLimiter interface {
	Allow(ctx context.Context, req domain.RequestIdentity, matches []domain.RuleMatch) (domain.Decision, error)
}
