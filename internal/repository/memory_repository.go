package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"signaldesk/internal/domain"
)

// MemoryStore keeps signals, settings and users in process memory.
// It backs the service when DATABASE_URL is unset.
type MemoryStore struct {
	mu       sync.RWMutex
	signals  []*domain.IssuedSignal
	settings map[string]*domain.Setting
	users    map[string]*domain.User
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		settings: make(map[string]*domain.Setting),
		users:    make(map[string]*domain.User),
	}
}

// Save stores a newly issued signal
func (s *MemoryStore) Save(_ context.Context, signal *domain.IssuedSignal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *signal
	s.signals = append(s.signals, &cp)
	return nil
}

// GetRecent returns up to limit signals, newest first
func (s *MemoryStore) GetRecent(_ context.Context, limit int) ([]*domain.IssuedSignal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.IssuedSignal, len(s.signals))
	copy(out, s.signals)
	sort.SliceStable(out, func(i, j int) bool { return out[i].IssuedAt.After(out[j].IssuedAt) })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountSince counts signals issued at or after since, grouped by direction
func (s *MemoryStore) CountSince(_ context.Context, since time.Time) (map[domain.Direction]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[domain.Direction]int)
	for _, sig := range s.signals {
		if !sig.IssuedAt.Before(since) {
			counts[sig.Direction]++
		}
	}
	return counts, nil
}

// Get retrieves a setting by key
func (s *MemoryStore) Get(_ context.Context, key string) (*domain.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	setting, ok := s.settings[key]
	if !ok {
		return nil, fmt.Errorf("setting %s: %w", key, domain.ErrNotFound)
	}
	cp := *setting
	return &cp, nil
}

// Set updates or creates a setting
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = &domain.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	return nil
}

// GetAll returns settings ordered by key
func (s *MemoryStore) GetAll(_ context.Context) ([]*domain.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Setting, 0, len(s.settings))
	for _, setting := range s.settings {
		cp := *setting
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Users exposes the store's account table as a domain.UserRepository
func (s *MemoryStore) Users() domain.UserRepository {
	return memoryUsers{s}
}

type memoryUsers struct{ s *MemoryStore }

func (m memoryUsers) Create(_ context.Context, user *domain.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, exists := m.s.users[user.Username]; exists {
		return fmt.Errorf("user %s already exists", user.Username)
	}
	cp := *user
	m.s.users[user.Username] = &cp
	return nil
}

func (m memoryUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	user, ok := m.s.users[username]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", username, domain.ErrNotFound)
	}
	cp := *user
	return &cp, nil
}

func (m memoryUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, user := range m.s.users {
		if user.ID == id {
			cp := *user
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
}

func (m memoryUsers) Count(_ context.Context) (int, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return len(m.s.users), nil
}
