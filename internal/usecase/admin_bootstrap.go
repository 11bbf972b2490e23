package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"signaldesk/internal/domain"
)

// EnsureAdmin creates the operator account on first start. An empty password
// skips creation; with no account to resolve, every admin token is refused.
func EnsureAdmin(ctx context.Context, users domain.UserRepository, username, password string) error {
	existing, err := users.GetByUsername(ctx, username)
	if err == nil {
		log.WithField("user", existing.Username).Info("using existing admin account")
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}

	if password == "" {
		log.Warn("ADMIN_PASSWORD not set, admin account not created")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, user); err != nil {
		return err
	}

	log.WithField("user", username).Info("created admin account")
	return nil
}
