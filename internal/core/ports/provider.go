// Package ports defines the contracts that connect the policy core to
// external collaborators.
package ports

import (
	"context"

	"github.com/Neos-Metaverse/WebApiThrottle/internal/core/domain"
)

// PolicyProvider supplies the raw settings, rule records, and whitelist
// entries a policy is assembled from. Implementations own their persistence
// format; the core depends only on this read surface. Errors propagate to
// the assembler unmodified.
type PolicyProvider interface {
	ReadSettings(ctx context.Context) (domain.PolicySettings, error)
	AllRules(ctx context.Context) ([]domain.PolicyRule, error)
	AllWhitelists(ctx context.Context) ([]domain.PolicyWhitelist, error)
}
