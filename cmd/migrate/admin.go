package main

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/internal/users"
	"github.com/angelmondragon/babydeals-backend/pkg/config"
	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	"github.com/angelmondragon/babydeals-backend/pkg/security"
)

const minAdminPasswordLen = 12

type adminUserRepo interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

// createAdmin inserts a console operator. Admins never self-register and
// carry no profile row.
func createAdmin(ctx context.Context, repo adminUserRepo, pwCfg config.PasswordConfig, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid admin email %q", email)
	}
	if len(password) < minAdminPasswordLen {
		return nil, fmt.Errorf("admin password must be at least %d characters", minAdminPasswordLen)
	}

	existing, err := repo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("user %s already exists", email)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := security.HashPassword(password, pwCfg)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := enums.SystemRoleAdmin
	return repo.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: hash,
		SystemRole:   &role,
	})
}
