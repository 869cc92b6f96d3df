package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// testRegistry runs the behaviour shared by every backend.
func testRegistry(t *testing.T, newRegistry func(t *testing.T) Registry) {
	ctx := context.Background()

	t.Run("register then honoured", func(t *testing.T) {
		r := newRegistry(t)

		require.NoError(t, r.RegisterAccess(ctx, "alice", "tok-1"))

		honoured, err := r.IsHonoredAccess(ctx, "alice", "tok-1")
		require.NoError(t, err)
		require.True(t, honoured)

		honoured, err = r.IsHonoredAccess(ctx, "alice", "tok-2")
		require.NoError(t, err)
		require.False(t, honoured)

		honoured, err = r.IsHonoredAccess(ctx, "bob", "tok-1")
		require.NoError(t, err)
		require.False(t, honoured)
	})

	t.Run("repeated logins accumulate sessions", func(t *testing.T) {
		r := newRegistry(t)

		for i := 0; i < 3; i++ {
			require.NoError(t, r.RegisterAccess(ctx, "alice", fmt.Sprintf("tok-%d", i)))
		}

		n, err := r.ActiveCount(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, 3, n)
	})

	t.Run("revoke is idempotent", func(t *testing.T) {
		r := newRegistry(t)

		require.NoError(t, r.RegisterAccess(ctx, "alice", "tok-1"))

		revoked, err := r.RevokeAccess(ctx, "alice", "tok-1")
		require.NoError(t, err)
		require.True(t, revoked)

		revoked, err = r.RevokeAccess(ctx, "alice", "tok-1")
		require.NoError(t, err)
		require.False(t, revoked)

		revoked, err = r.RevokeAccess(ctx, "nobody", "tok-1")
		require.NoError(t, err)
		require.False(t, revoked)
	})

	t.Run("revoke removes one session of many", func(t *testing.T) {
		r := newRegistry(t)

		require.NoError(t, r.RegisterAccess(ctx, "alice", "tok-1"))
		require.NoError(t, r.RegisterAccess(ctx, "alice", "tok-2"))

		revoked, err := r.RevokeAccess(ctx, "alice", "tok-1")
		require.NoError(t, err)
		require.True(t, revoked)

		honoured, err := r.IsHonoredAccess(ctx, "alice", "tok-2")
		require.NoError(t, err)
		require.True(t, honoured)

		n, err := r.ActiveCount(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})

	t.Run("refresh registration replaces", func(t *testing.T) {
		r := newRegistry(t)

		require.NoError(t, r.RegisterRefresh(ctx, "alice", "refresh-1"))
		require.NoError(t, r.RegisterRefresh(ctx, "alice", "refresh-2"))

		// Access sessions are untouched by refresh replacement.
		n, err := r.ActiveCount(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, 0, n)
	})

	t.Run("clear drops all state", func(t *testing.T) {
		r := newRegistry(t)

		require.NoError(t, r.RegisterAccess(ctx, "alice", "tok-1"))
		require.NoError(t, r.RegisterRefresh(ctx, "alice", "refresh-1"))
		require.NoError(t, r.ClearUser(ctx, "alice"))

		honoured, err := r.IsHonoredAccess(ctx, "alice", "tok-1")
		require.NoError(t, err)
		require.False(t, honoured)

		n, err := r.ActiveCount(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, 0, n)
	})

	t.Run("concurrent logins all register", func(t *testing.T) {
		r := newRegistry(t)

		const logins = 50
		var wg sync.WaitGroup
		for i := 0; i < logins; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_ = r.RegisterAccess(ctx, "alice", fmt.Sprintf("tok-%d", i))
			}(i)
		}
		wg.Wait()

		n, err := r.ActiveCount(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, logins, n)
	})
}

func TestMemoryRegistry(t *testing.T) {
	t.Parallel()

	testRegistry(t, func(t *testing.T) Registry {
		return NewMemoryRegistry()
	})
}

func TestRedisRegistry(t *testing.T) {
	t.Parallel()

	testRegistry(t, func(t *testing.T) Registry {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		return NewRedisRegistry(client, 24*time.Hour)
	})
}

func TestMemoryRegistryShardIsolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewMemoryRegistry()

	// Different usernames never see each other's sessions regardless of
	// which shard they hash to.
	for i := 0; i < 100; i++ {
		user := fmt.Sprintf("user-%d", i)
		require.NoError(t, r.RegisterAccess(ctx, user, "tok"))
	}
	for i := 0; i < 100; i++ {
		user := fmt.Sprintf("user-%d", i)
		n, err := r.ActiveCount(ctx, user)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	}
}
