package repository

import (
	"context"
	"sync"
	"time"

	quotaDomain "github.com/secureai/gateway/internal/quota/domain"
)

type memoryCounter struct {
	windowStart time.Time
	used        int64
}

// MemoryQuotaRepository implements quota counters in memory.
// A single mutex serializes all check-and-increment operations, giving the
// same no-oversubscription guarantee as the SQL implementations.
type MemoryQuotaRepository struct {
	mu       sync.Mutex
	counters map[string]map[string]*memoryCounter
	now      func() time.Time
}

// CheckAndIncrement enforces the request rate limit for the subject.
func (m *MemoryQuotaRepository) CheckAndIncrement(_ context.Context, subject string, limit int64, window time.Duration) error {
	return m.advance(subject, quotaDomain.DimensionRequests, 1, limit, window, quotaDomain.ErrRateLimitExceeded)
}

// Consume enforces the token budget for the subject.
func (m *MemoryQuotaRepository) Consume(_ context.Context, subject string, tokens int64, capacity int64, window time.Duration) error {
	return m.advance(subject, quotaDomain.DimensionTokens, tokens, capacity, window, quotaDomain.ErrTokenBudgetExceeded)
}

func (m *MemoryQuotaRepository) advance(subject, dimension string, amount, limit int64, window time.Duration, limitErr error) error {
	windowStart := quotaDomain.WindowStart(m.now(), window)

	m.mu.Lock()
	defer m.mu.Unlock()

	dims, ok := m.counters[subject]
	if !ok {
		dims = make(map[string]*memoryCounter)
		m.counters[subject] = dims
	}

	counter, ok := dims[dimension]
	if !ok || counter.windowStart.Before(windowStart) {
		counter = &memoryCounter{windowStart: windowStart}
		dims[dimension] = counter
	}

	if counter.used+amount > limit {
		return limitErr
	}

	counter.used += amount
	return nil
}

// Reset clears all counters for the subject.
func (m *MemoryQuotaRepository) Reset(_ context.Context, subject string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.counters, subject)
	return nil
}

// NewMemoryQuotaRepository creates a new in-memory quota repository.
func NewMemoryQuotaRepository() *MemoryQuotaRepository {
	return &MemoryQuotaRepository{
		counters: make(map[string]map[string]*memoryCounter),
		now:      time.Now,
	}
}
