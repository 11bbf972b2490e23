package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories when no row matches
var ErrNotFound = errors.New("not found")

// SignalRepository defines the interface for issued signal storage
type SignalRepository interface {
	// Save stores a newly issued signal
	Save(ctx context.Context, signal *IssuedSignal) error

	// GetRecent retrieves the most recently issued signals
	GetRecent(ctx context.Context, limit int) ([]*IssuedSignal, error)

	// CountSince counts signals issued at or after the given time, grouped by direction
	CountSince(ctx context.Context, since time.Time) (map[Direction]int, error)
}

// UserRepository defines the interface for admin account operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// Count returns the number of accounts
	Count(ctx context.Context) (int, error)
}

// SettingsRepository stores runtime-tunable key/value settings
type SettingsRepository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	Set(ctx context.Context, key, value string) error
	GetAll(ctx context.Context) ([]*Setting, error)
}

// Setting represents a system configuration entry
type Setting struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Setting keys
const (
	SettingEnforceMarketHours = "enforce_market_hours"
)
