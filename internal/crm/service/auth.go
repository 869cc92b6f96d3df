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
	"github.com/unidesk/crmbot/pkg/jwtx"
	"github.com/unidesk/crmbot/pkg/slogx"
)

var (
	ErrMissingUsername = errors.New("missing_username")
	ErrUserNotFound    = errors.New("user_not_found")
	ErrBadCredentials  = errors.New("bad_credentials")
)

// AuthService issues and revokes tokens. Login failures come back as one of
// the sentinel errors above; the HTTP layer collapses ErrUserNotFound and
// ErrBadCredentials into a single response so the wire never reveals which
// usernames exist.
type AuthService struct {
	Store    store.Store
	Codec    *jwtx.Codec
	Registry session.Registry
}

// Login authenticates the user and issues a fresh access/refresh token pair.
// Each successful login adds another concurrent session; earlier tokens stay
// valid until revoked or expired.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.TokenGrant, error) {
	l := slogx.FromContext(ctx)

	username = strings.TrimSpace(username)
	if username == "" {
		return domain.TokenGrant{}, ErrMissingUsername
	}

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("login failed: unknown user", slog.String("username", username))
			return domain.TokenGrant{}, ErrUserNotFound
		}
		return domain.TokenGrant{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("login failed: bad password", slog.String("username", username))
		return domain.TokenGrant{}, ErrBadCredentials
	}

	accessToken, err := s.Codec.IssueAccess(user.ID, user.Username, user.Roles)
	if err != nil {
		return domain.TokenGrant{}, err
	}
	refreshToken, err := s.Codec.IssueRefresh(user.Username)
	if err != nil {
		return domain.TokenGrant{}, err
	}

	if err := s.Registry.RegisterAccess(ctx, user.Username, accessToken); err != nil {
		return domain.TokenGrant{}, err
	}
	if err := s.Registry.RegisterRefresh(ctx, user.Username, refreshToken); err != nil {
		return domain.TokenGrant{}, err
	}

	l.Info("login succeeded",
		slog.String("username", user.Username),
		slog.String("role", user.PrimaryRole()),
	)

	return domain.TokenGrant{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Role:         user.PrimaryRole(),
	}, nil
}

// Revoke withdraws one access token. It reports whether the token was
// honoured at the time of the call: revoking an unknown, expired, forged or
// already-revoked token returns false rather than an error, so callers can
// retry freely.
func (s *AuthService) Revoke(ctx context.Context, accessToken string) bool {
	l := slogx.FromContext(ctx)

	claims, err := s.Codec.Verify(accessToken, jwtx.ClassAccess)
	if err != nil {
		l.Info("revoke ignored: token failed verification", slog.Any("err", err))
		return false
	}

	revoked, err := s.Registry.RevokeAccess(ctx, claims.Subject, accessToken)
	if err != nil {
		l.Error("revoke failed: registry error", slog.Any("err", err))
		return false
	}
	if revoked {
		l.Info("session revoked", slog.String("username", claims.Subject))
	}
	return revoked
}
