package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/unidesk/crmbot/internal/crm/domain"
)

func TestSeedAdmin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("provisions admin on empty store", func(t *testing.T) {
		auth, _ := newAuthFixture(t)
		boot := &BootstrapService{Store: auth.Store}

		created, err := boot.SeedAdmin(ctx, "root", "changeme1")
		require.NoError(t, err)
		require.True(t, created)

		u, err := auth.Store.Users().GetUserByUsername(ctx, "root")
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, u.PrimaryRole())

		// The seeded account can log in and gets the ADMIN role on its grant.
		grant, err := auth.Login(ctx, "root", "changeme1")
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, grant.Role)
	})

	t.Run("no-op when users already exist", func(t *testing.T) {
		auth, users := newAuthFixture(t)
		boot := &BootstrapService{Store: auth.Store}

		_, err := users.Register(ctx, "existing", "pass1234", nil)
		require.NoError(t, err)

		created, err := boot.SeedAdmin(ctx, "root", "changeme1")
		require.NoError(t, err)
		require.False(t, created)

		_, err = auth.Store.Users().GetUserByUsername(ctx, "root")
		require.Error(t, err)
	})

	t.Run("running twice seeds once", func(t *testing.T) {
		auth, _ := newAuthFixture(t)
		boot := &BootstrapService{Store: auth.Store}

		created, err := boot.SeedAdmin(ctx, "root", "changeme1")
		require.NoError(t, err)
		require.True(t, created)

		created, err = boot.SeedAdmin(ctx, "root", "changeme1")
		require.NoError(t, err)
		require.False(t, created)
	})

	t.Run("rejects blank input", func(t *testing.T) {
		auth, _ := newAuthFixture(t)
		boot := &BootstrapService{Store: auth.Store}

		_, err := boot.SeedAdmin(ctx, "  ", "changeme1")
		require.ErrorIs(t, err, ErrMissingUsername)

		_, err = boot.SeedAdmin(ctx, "root", "")
		require.ErrorIs(t, err, ErrMissingPassword)
	})
}
