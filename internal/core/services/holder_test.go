package services

import (
	"sync"
	"testing"

	"github.com/Neos-Metaverse/WebApiThrottle/internal/core/domain"
)

func TestPolicyHolder_SwapPublishesNewSnapshot(t *testing.T) {
	first := domain.NewThrottlePolicy(map[domain.Period]int64{domain.PeriodMinute: 10})
	holder := NewPolicyHolder(first)

	if holder.Current() != first {
		t.Fatal("expected initial snapshot")
	}

	second := domain.NewThrottlePolicy(map[domain.Period]int64{domain.PeriodMinute: 20})
	holder.Swap(second)

	if holder.Current() != second {
		t.Fatal("expected swapped snapshot")
	}
}

func TestPolicyHolder_NilInitialSnapshot(t *testing.T) {
	holder := NewPolicyHolder(nil)
	if holder.Current() != nil {
		t.Fatal("expected nil snapshot before first swap")
	}
}

func TestPolicyHolder_ConcurrentReadersObserveWholeSnapshots(t *testing.T) {
	holder := NewPolicyHolder(domain.NewThrottlePolicy(nil))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				policy := holder.Current()
				if policy == nil || policy.IPRules == nil {
					t.Error("reader observed an incomplete snapshot")
					return
				}
			}
		}()
	}

	for i := 0; i < 100; i++ {
		holder.Swap(domain.NewThrottlePolicy(map[domain.Period]int64{domain.PeriodSecond: int64(i)}))
	}
	wg.Wait()
}
