package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/unidesk/crmbot/internal/crm/domain"
	"github.com/unidesk/crmbot/internal/crm/session"
	"github.com/unidesk/crmbot/internal/crm/store"
	"github.com/unidesk/crmbot/pkg/cryptox"
	"github.com/unidesk/crmbot/pkg/idx"
	"github.com/unidesk/crmbot/pkg/slogx"
)

var (
	ErrMissingPassword = errors.New("missing_password")
	ErrUnknownRole     = errors.New("unknown_role")
	ErrUserExists      = errors.New("user_exists")
)

// UserService manages accounts. Destructive operations also clear the user's
// registered sessions so deleted accounts cannot keep using live tokens.
type UserService struct {
	Store    store.Store
	Registry session.Registry
}

// Register creates a new user. When no roles are given the default role is
// assigned; the first listed role becomes the user's primary role.
func (s *UserService) Register(ctx context.Context, username, password string, roles []string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, ErrMissingUsername
	}
	if password == "" {
		return domain.User{}, ErrMissingPassword
	}

	if len(roles) == 0 {
		roles = []string{domain.DefaultRole}
	}
	for _, role := range roles {
		if _, err := s.Store.Roles().GetRoleByName(ctx, role); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.User{}, ErrUnknownRole
			}
			return domain.User{}, err
		}
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: hash,
		Roles:        roles,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUserExists
		}
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user registered",
		slog.String("username", username),
		slog.String("role", user.PrimaryRole()),
	)
	return user, nil
}

// List returns all accounts.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// Delete removes the account and revokes every session it holds.
func (s *UserService) Delete(ctx context.Context, username string) error {
	if err := s.Store.Users().DeleteUserByUsername(ctx, username); err != nil {
		return err
	}
	if err := s.Registry.ClearUser(ctx, username); err != nil {
		slogx.FromContext(ctx).Error("failed to clear sessions for deleted user",
			slog.String("username", username), slog.Any("err", err))
	}
	slogx.FromContext(ctx).Info("user deleted", slog.String("username", username))
	return nil
}

// ChangePassword replaces the stored hash and revokes the user's sessions so
// stolen tokens die with the old password.
func (s *UserService) ChangePassword(ctx context.Context, username, newPassword string) error {
	if newPassword == "" {
		return ErrMissingPassword
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, username, hash); err != nil {
		return err
	}
	return s.Registry.ClearUser(ctx, username)
}
