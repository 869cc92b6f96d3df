package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants. Access tokens are deliberately long-lived for
// the chat-bot client (it cannot refresh mid-conversation); refresh tokens
// are measured in days. Both can be overridden per-deployment via config.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 24 * time.Hour

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// MinSecretLength is the minimum accepted HMAC secret size in bytes.
// Anything shorter than the HS256 block makes brute force too cheap.
const MinSecretLength = 32

// Class selects which signing secret a token belongs to. Access and refresh
// tokens are signed with independent secrets so a captured token of one class
// can never pass verification as the other.
type Class string

const (
	ClassAccess  Class = "access"
	ClassRefresh Class = "refresh"
)

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrBadSignature = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrUnsupported  = errors.New("jwtx: unsupported token")
)

// Claims are the decoded token payload. Access tokens carry the user id and
// role set captured at issuance time; refresh tokens carry the subject only.
type Claims struct {
	jwt.RegisteredClaims

	// UserID is the stable id of the authenticated user (access tokens only).
	UserID string `json:"userId,omitempty"`

	// Roles is the role set at issuance time (access tokens only). A token's
	// roles can go stale if an admin edits the user; callers that care
	// re-read the credential store.
	Roles []string `json:"roles,omitempty"`
}

// Config carries the two signing secrets and token lifetimes for a Codec.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	// Now is the clock used for issuance and expiry checks. Defaults to
	// time.Now; tests inject a fixed clock to exercise expiry.
	Now func() time.Time
}

// Codec issues and verifies signed tokens. It is the sole authority on
// cryptographic validity; whether a structurally valid token is still
// honoured is the session registry's call, not ours.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewCodec validates the config and returns a ready Codec. Missing or short
// secrets are a startup misconfiguration and fail here, before any traffic.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.AccessSecret) < MinSecretLength {
		return nil, fmt.Errorf("jwtx: access secret must be at least %d bytes", MinSecretLength)
	}
	if len(cfg.RefreshSecret) < MinSecretLength {
		return nil, fmt.Errorf("jwtx: refresh secret must be at least %d bytes", MinSecretLength)
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, errors.New("jwtx: access and refresh secrets must differ")
	}

	c := &Codec{
		accessSecret:  cfg.AccessSecret,
		refreshSecret: cfg.RefreshSecret,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           cfg.Now,
	}
	if c.accessTTL <= 0 {
		c.accessTTL = DefaultAccessTokenTTL
	}
	if c.refreshTTL <= 0 {
		c.refreshTTL = DefaultRefreshTokenTTL
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// AccessTTL reports the configured access token lifetime.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL reports the configured refresh token lifetime.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// IssueAccess signs a new access token for the given user.
func (c *Codec) IssueAccess(userID, username string, roles []string) (string, error) {
	now := c.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
		},
		UserID: userID,
		Roles:  roles,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.accessSecret)
}

// IssueRefresh signs a new refresh token carrying the subject only.
func (c *Codec) IssueRefresh(username string) (string, error) {
	now := c.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.refreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.refreshSecret)
}

// Verify checks the token's signature against the secret for the given class
// and its expiry against the codec clock. Failures map onto the sentinel
// errors so callers can tell "expired" apart from "tampered"; both are
// recoverable (re-authenticate).
func (c *Codec) Verify(token string, class Class) (Claims, error) {
	secret := c.accessSecret
	if class == ClassRefresh {
		secret = c.refreshSecret
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, mapParseError(err)
	}
	return claims, nil
}

// Decode parses the claims without verifying the signature. Only for trusted
// internal callers after Verify has already succeeded, or for read-only
// inspection where staleness is acceptable.
func (c *Codec) Decode(token string) (Claims, error) {
	var claims Claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return Claims{}, mapParseError(err)
	}
	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return ErrUnsupported
	}
}
