package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an operator account for the admin API
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose password hash in JSON
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRole constants
const (
	RoleAdmin  = "ADMIN"
	RoleViewer = "VIEWER"
)
