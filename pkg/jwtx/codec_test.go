package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testSecrets() ([]byte, []byte) {
	return []byte(strings.Repeat("a", 32)), []byte(strings.Repeat("b", 32))
}

func newTestCodec(t *testing.T, now func() time.Time) *Codec {
	t.Helper()

	access, refresh := testSecrets()
	c, err := NewCodec(Config{
		AccessSecret:  access,
		RefreshSecret: refresh,
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		Now:           now,
	})
	require.NoError(t, err)
	return c
}

func TestNewCodecValidatesSecrets(t *testing.T) {
	t.Parallel()

	access, refresh := testSecrets()

	t.Run("rejects short access secret", func(t *testing.T) {
		_, err := NewCodec(Config{AccessSecret: []byte("short"), RefreshSecret: refresh})
		require.Error(t, err)
	})

	t.Run("rejects short refresh secret", func(t *testing.T) {
		_, err := NewCodec(Config{AccessSecret: access, RefreshSecret: []byte("short")})
		require.Error(t, err)
	})

	t.Run("rejects identical secrets", func(t *testing.T) {
		_, err := NewCodec(Config{AccessSecret: access, RefreshSecret: access})
		require.Error(t, err)
	})

	t.Run("applies TTL defaults", func(t *testing.T) {
		c, err := NewCodec(Config{AccessSecret: access, RefreshSecret: refresh})
		require.NoError(t, err)
		require.Equal(t, DefaultAccessTokenTTL, c.AccessTTL())
		require.Equal(t, DefaultRefreshTokenTTL, c.RefreshTTL())
	})
}

func TestIssueAndVerifyAccess(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, nil)

	token, err := c.IssueAccess("01ARZ3NDEKTSV4RRFFQ69G5FAV", "alice", []string{"ADMIN", "USER"})
	require.NoError(t, err)

	claims, err := c.Verify(token, ClassAccess)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
	require.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", claims.UserID)
	require.Equal(t, []string{"ADMIN", "USER"}, claims.Roles)
}

func TestIssueAndVerifyRefresh(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, nil)

	token, err := c.IssueRefresh("alice")
	require.NoError(t, err)

	claims, err := c.Verify(token, ClassRefresh)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
	require.Empty(t, claims.UserID)
	require.Empty(t, claims.Roles)
}

func TestClassesAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, nil)

	access, err := c.IssueAccess("u1", "alice", []string{"USER"})
	require.NoError(t, err)
	refresh, err := c.IssueRefresh("alice")
	require.NoError(t, err)

	_, err = c.Verify(access, ClassRefresh)
	require.ErrorIs(t, err, ErrBadSignature)

	_, err = c.Verify(refresh, ClassAccess)
	require.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyDistinguishesFailures(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, nil)

	t.Run("malformed", func(t *testing.T) {
		_, err := c.Verify("not.a.token", ClassAccess)
		require.ErrorIs(t, err, ErrMalformed)

		_, err = c.Verify("", ClassAccess)
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("tampered payload", func(t *testing.T) {
		token, err := c.IssueAccess("u1", "alice", nil)
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + ".eyJzdWIiOiJtYWxsb3J5In0." + parts[2]

		_, err = c.Verify(tampered, ClassAccess)
		require.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("foreign secret", func(t *testing.T) {
		other := newTestCodec(t, nil)
		// Same construction, but swap the secrets around.
		access, refresh := testSecrets()
		swapped, err := NewCodec(Config{AccessSecret: refresh, RefreshSecret: access})
		require.NoError(t, err)

		token, err := other.IssueAccess("u1", "alice", nil)
		require.NoError(t, err)

		_, err = swapped.Verify(token, ClassAccess)
		require.ErrorIs(t, err, ErrBadSignature)
	})
}

func TestVerifyExpiry(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := issued
	c := newTestCodec(t, func() time.Time { return clock })

	token, err := c.IssueAccess("u1", "alice", []string{"USER"})
	require.NoError(t, err)

	// Fresh token verifies.
	_, err = c.Verify(token, ClassAccess)
	require.NoError(t, err)

	// Just inside the lifetime.
	clock = issued.Add(59 * time.Minute)
	_, err = c.Verify(token, ClassAccess)
	require.NoError(t, err)

	// Past expiry fails with ErrExpired specifically.
	clock = issued.Add(time.Hour + time.Second)
	_, err = c.Verify(token, ClassAccess)
	require.ErrorIs(t, err, ErrExpired)
}

func TestDecodeSkipsSignatureCheck(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, nil)

	token, err := c.IssueAccess("u1", "alice", []string{"ADMIN"})
	require.NoError(t, err)

	// Break the signature; Decode should still read the payload.
	broken := token[:len(token)-4] + "AAAA"
	claims, err := c.Decode(broken)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
	require.Equal(t, []string{"ADMIN"}, claims.Roles)

	_, err = c.Decode("garbage")
	require.ErrorIs(t, err, ErrMalformed)
}
