package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/unidesk/crmbot/internal/crm/domain"
	"github.com/unidesk/crmbot/internal/crm/store"
	"github.com/unidesk/crmbot/pkg/cryptox"
	"github.com/unidesk/crmbot/pkg/idx"
	"github.com/unidesk/crmbot/pkg/slogx"
)

// BootstrapService provisions the first ADMIN account on an empty store. All
// user-management endpoints require an ADMIN token, so without a seed a fresh
// deployment has no in-band way to create one.
type BootstrapService struct {
	Store store.Store
}

// SeedAdmin creates an ADMIN account when no users exist yet. It reports
// whether an account was created; a store that already has users is a no-op,
// so the seed can run unconditionally on every boot.
func (s *BootstrapService) SeedAdmin(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, ErrMissingUsername
	}
	if password == "" {
		return false, ErrMissingPassword
	}

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	if !empty {
		return false, nil
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return false, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: hash,
		Roles:        []string{domain.RoleAdmin},
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		// Two instances racing on first boot: the loser still starts with a
		// seeded admin in place.
		if errors.Is(err, store.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}

	slogx.FromContext(ctx).Info("seeded initial admin account",
		slog.String("username", username),
	)
	return true, nil
}
