// Package session tracks which issued tokens the service still honours.
//
// Verification of a token's signature and expiry is stateless (pkg/jwtx);
// the registry adds the stateful half: a token that verified fine but was
// revoked, or that this process never issued, is no longer honoured.
package session

import "context"

// Registry records issued tokens per username. A user may hold several
// concurrent access tokens (one per device or chat session) but only one
// refresh token, the most recently issued.
type Registry interface {
	// RegisterAccess appends an access token to the user's active set.
	RegisterAccess(ctx context.Context, username, token string) error

	// RegisterRefresh stores the user's refresh token, replacing any
	// previous one.
	RegisterRefresh(ctx context.Context, username, token string) error

	// RevokeAccess removes one access token and reports whether it was
	// present. Revoking an already-revoked or unknown token returns false.
	RevokeAccess(ctx context.Context, username, token string) (bool, error)

	// IsHonoredAccess reports whether the access token is currently
	// registered for the user.
	IsHonoredAccess(ctx context.Context, username, token string) (bool, error)

	// ClearUser drops every token registered for the user. Used when an
	// account is deleted or its password changes.
	ClearUser(ctx context.Context, username string) error

	// ActiveCount reports how many access tokens the user currently holds.
	ActiveCount(ctx context.Context, username string) (int, error)
}
