package services

import (
	"sync/atomic"

	"github.com/Neos-Metaverse/WebApiThrottle/internal/core/domain"
)

// PolicyHolder publishes the current policy snapshot to concurrent readers.
// Swapping is atomic, so in-flight matches always observe one fully-formed
// policy, never a partially-built one.
type PolicyHolder struct {
	current atomic.Pointer[domain.ThrottlePolicy]
}

// NewPolicyHolder creates a holder with an initial snapshot, which may be nil.
func NewPolicyHolder(policy *domain.ThrottlePolicy) *PolicyHolder {
	h := &PolicyHolder{}
	if policy != nil {
		h.current.Store(policy)
	}
	return h
}

// Current returns the snapshot in effect, or nil when none is published.
func (h *PolicyHolder) Current() *domain.ThrottlePolicy {
	return h.current.Load()
}

// Swap publishes a new snapshot.
func (h *PolicyHolder) Swap(policy *domain.ThrottlePolicy) {
	h.current.Store(policy)
}
