package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	authDomain "github.com/secureai/gateway/internal/auth/domain"
)

// MemoryUserRepository implements User persistence in memory.
// Safe for concurrent use. Intended for tests and single-node deployments
// where durability is not required.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*authDomain.User
	byName map[string]*authDomain.User
}

// Create stores a new User in memory.
func (m *MemoryUserRepository) Create(_ context.Context, user *authDomain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byName[user.Username]; exists {
		return authDomain.ErrUserExists
	}

	stored := *user
	m.byID[stored.ID] = &stored
	m.byName[stored.Username] = &stored
	return nil
}

// Get retrieves a User by ID.
func (m *MemoryUserRepository) Get(_ context.Context, userID uuid.UUID) (*authDomain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byID[userID]
	if !ok {
		return nil, authDomain.ErrUserNotFound
	}

	copied := *user
	return &copied, nil
}

// GetByUsername retrieves a User by username.
func (m *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*authDomain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byName[username]
	if !ok {
		return nil, authDomain.ErrUserNotFound
	}

	copied := *user
	return &copied, nil
}

// NewMemoryUserRepository creates a new in-memory User repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:   make(map[uuid.UUID]*authDomain.User),
		byName: make(map[string]*authDomain.User),
	}
}
