package services

import (
	"context"
	"fmt"

	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/logging"
	"github.com/prof-ashleyevans/os-strength-checkin-app/internal/models"
	"github.com/prof-ashleyevans/os-strength-checkin-app/pkg/utils"
	"go.uber.org/zap"
)

type adminAccountStore interface {
	EmailTaken(ctx context.Context, email string) (bool, error)
	CreateAdmin(ctx context.Context, email, passwordHash string) (*models.User, error)
}

// EnsureDefaultAdmin creates the configured admin account on first boot.
// An existing account is left untouched, password included.
func EnsureDefaultAdmin(
	ctx context.Context,
	users adminAccountStore,
	email string,
	password string,
	logger *zap.Logger,
) error {
	logger = logging.OrNop(logger)
	if email == "" || password == "" {
		return nil
	}

	taken, err := users.EmailTaken(ctx, email)
	if err != nil {
		return fmt.Errorf("look up default admin: %w", err)
	}
	if taken {
		return nil
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash default admin password: %w", err)
	}

	admin, err := users.CreateAdmin(ctx, email, hashed)
	if err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}

	logger.Info("default admin account created", zap.Int64("user_id", admin.ID))
	return nil
}
