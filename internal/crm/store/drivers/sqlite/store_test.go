package sqlite

import (
	"context"
	"testing"

	"github.com/unidesk/crmbot/internal/crm/domain"
	"github.com/unidesk/crmbot/internal/crm/store"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestUsersRepo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("create and fetch preserves role order", func(t *testing.T) {
		s := newTestStore(t)

		err := s.Users().CreateUser(ctx, domain.User{
			ID:           "user_1",
			Username:     "operator",
			PasswordHash: "argon-hash",
			Roles:        []string{"ADMIN", "USER"},
		})
		require.NoError(t, err)

		u, err := s.Users().GetUserByUsername(ctx, "operator")
		require.NoError(t, err)
		require.Equal(t, "user_1", u.ID)
		require.Equal(t, []string{"ADMIN", "USER"}, u.Roles)
		require.Equal(t, "ADMIN", u.PrimaryRole())
		require.False(t, u.CreatedAt.IsZero())
	})

	t.Run("is empty tracks the user table", func(t *testing.T) {
		s := newTestStore(t)

		empty, err := s.Users().IsEmpty(ctx)
		require.NoError(t, err)
		require.True(t, empty)

		require.NoError(t, s.Users().CreateUser(ctx, domain.User{
			ID: "user_1", Username: "first", PasswordHash: "h",
		}))

		empty, err = s.Users().IsEmpty(ctx)
		require.NoError(t, err)
		require.False(t, empty)
	})

	t.Run("duplicate username", func(t *testing.T) {
		s := newTestStore(t)

		u := domain.User{ID: "user_1", Username: "dup", PasswordHash: "h"}
		require.NoError(t, s.Users().CreateUser(ctx, u))

		u.ID = "user_2"
		err := s.Users().CreateUser(ctx, u)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("unknown username", func(t *testing.T) {
		s := newTestStore(t)

		_, err := s.Users().GetUserByUsername(ctx, "ghost")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update password hash", func(t *testing.T) {
		s := newTestStore(t)

		require.NoError(t, s.Users().CreateUser(ctx, domain.User{
			ID: "user_1", Username: "rotating", PasswordHash: "old",
		}))
		require.NoError(t, s.Users().UpdatePasswordHash(ctx, "rotating", "new"))

		u, err := s.Users().GetUserByUsername(ctx, "rotating")
		require.NoError(t, err)
		require.Equal(t, "new", u.PasswordHash)

		err = s.Users().UpdatePasswordHash(ctx, "ghost", "x")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete cascades role assignments", func(t *testing.T) {
		s := newTestStore(t)

		require.NoError(t, s.Users().CreateUser(ctx, domain.User{
			ID: "user_1", Username: "leaver", PasswordHash: "h",
			Roles: []string{"USER"},
		}))
		require.NoError(t, s.Users().DeleteUserByUsername(ctx, "leaver"))

		_, err := s.Users().GetUserByUsername(ctx, "leaver")
		require.ErrorIs(t, err, store.ErrNotFound)

		err = s.Users().DeleteUserByUsername(ctx, "leaver")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("list returns creation order", func(t *testing.T) {
		s := newTestStore(t)

		for _, name := range []string{"alpha", "bravo", "charlie"} {
			require.NoError(t, s.Users().CreateUser(ctx, domain.User{
				ID: "user_" + name, Username: name, PasswordHash: "h",
			}))
		}

		users, err := s.Users().ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 3)
	})
}

func TestRolesRepo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	t.Run("seeded roles exist", func(t *testing.T) {
		role, err := s.Roles().GetRoleByName(ctx, domain.DefaultRole)
		require.NoError(t, err)
		require.Equal(t, "USER", role.Name)

		_, err = s.Roles().GetRoleByName(ctx, domain.RoleAdmin)
		require.NoError(t, err)
	})

	t.Run("create and list", func(t *testing.T) {
		require.NoError(t, s.Roles().CreateRole(ctx, domain.Role{
			ID: "role_dean", Name: "DEAN",
		}))

		roles, err := s.Roles().ListRoles(ctx)
		require.NoError(t, err)
		require.Len(t, roles, 3)

		err = s.Roles().CreateRole(ctx, domain.Role{ID: "role_dup", Name: "DEAN"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestStatementsRepo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	seed := func(t *testing.T, s *Store, id, name, faculty string, status domain.StatementStatus) {
		t.Helper()
		require.NoError(t, s.Statements().CreateStatement(ctx, domain.Statement{
			ID: id, FullName: name, Faculty: faculty, Status: status,
		}))
	}

	t.Run("defaults to pending", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.Statements().CreateStatement(ctx, domain.Statement{
			ID: "st_1", FullName: "Ivan Petrov",
		}))

		st, err := s.Statements().GetStatementByID(ctx, "st_1")
		require.NoError(t, err)
		require.Equal(t, domain.StatusPending, st.Status)
	})

	t.Run("filter by status and faculty", func(t *testing.T) {
		s := newTestStore(t)
		seed(t, s, "st_1", "A", "FCS", domain.StatusPending)
		seed(t, s, "st_2", "B", "FCS", domain.StatusReady)
		seed(t, s, "st_3", "C", "LAW", domain.StatusPending)

		pending, err := s.Statements().ListStatementsByStatus(ctx, domain.StatusPending)
		require.NoError(t, err)
		require.Len(t, pending, 2)

		fcs, err := s.Statements().ListStatementsByStatusAndFaculty(ctx, domain.StatusPending, "FCS")
		require.NoError(t, err)
		require.Len(t, fcs, 1)
		require.Equal(t, "st_1", fcs[0].ID)

		// Empty faculty means any faculty.
		all, err := s.Statements().ListStatementsByStatusAndFaculty(ctx, domain.StatusPending, "")
		require.NoError(t, err)
		require.Len(t, all, 2)
	})

	t.Run("status transitions", func(t *testing.T) {
		s := newTestStore(t)
		seed(t, s, "st_1", "A", "FCS", domain.StatusPending)

		require.NoError(t, s.Statements().UpdateStatementStatus(ctx, "st_1", domain.StatusInProgress))

		st, err := s.Statements().GetStatementByID(ctx, "st_1")
		require.NoError(t, err)
		require.Equal(t, domain.StatusInProgress, st.Status)

		err = s.Statements().UpdateStatementStatus(ctx, "missing", domain.StatusReady)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete only when ready", func(t *testing.T) {
		s := newTestStore(t)
		seed(t, s, "st_1", "A", "FCS", domain.StatusPending)
		seed(t, s, "st_2", "B", "FCS", domain.StatusReady)

		deleted, err := s.Statements().DeleteStatementIfReady(ctx, "st_1")
		require.NoError(t, err)
		require.False(t, deleted)

		deleted, err = s.Statements().DeleteStatementIfReady(ctx, "st_2")
		require.NoError(t, err)
		require.True(t, deleted)

		_, err = s.Statements().GetStatementByID(ctx, "st_2")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("search by name substring", func(t *testing.T) {
		s := newTestStore(t)
		seed(t, s, "st_1", "Ivan Petrov", "FCS", domain.StatusPending)
		seed(t, s, "st_2", "Petro Ivanenko", "FCS", domain.StatusPending)
		seed(t, s, "st_3", "Olena Koval", "FCS", domain.StatusPending)

		found, err := s.Statements().SearchStatementsByName(ctx, "Petro")
		require.NoError(t, err)
		require.Len(t, found, 2)
	})
}

func TestFilesRepo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Statements().CreateStatement(ctx, domain.Statement{
		ID: "st_1", FullName: "Ivan Petrov",
	}))

	payload := []byte("%PDF-1.7 fake body")
	require.NoError(t, s.Files().CreateFile(ctx, domain.FileInfo{
		ID:          "file_1",
		StatementID: "st_1",
		Name:        "passport.pdf",
		ContentType: "application/pdf",
	}, payload))

	t.Run("list reports size without loading blob", func(t *testing.T) {
		infos, err := s.Files().ListFilesByStatement(ctx, "st_1")
		require.NoError(t, err)
		require.Len(t, infos, 1)
		require.Equal(t, "passport.pdf", infos[0].Name)
		require.Equal(t, int64(len(payload)), infos[0].Size)
	})

	t.Run("fetch blob", func(t *testing.T) {
		info, data, err := s.Files().GetFileData(ctx, "file_1")
		require.NoError(t, err)
		require.Equal(t, "application/pdf", info.ContentType)
		require.Equal(t, payload, data)

		_, _, err = s.Files().GetFileData(ctx, "file_missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("deleting the statement cascades", func(t *testing.T) {
		require.NoError(t, s.Statements().UpdateStatementStatus(ctx, "st_1", domain.StatusReady))
		deleted, err := s.Statements().DeleteStatementIfReady(ctx, "st_1")
		require.NoError(t, err)
		require.True(t, deleted)

		infos, err := s.Files().ListFilesByStatement(ctx, "st_1")
		require.NoError(t, err)
		require.Empty(t, infos)
	})
}

func TestWithTx(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("rolls back on error", func(t *testing.T) {
		s := newTestStore(t)

		err := s.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().CreateUser(ctx, domain.User{
				ID: "user_1", Username: "txuser", PasswordHash: "h",
			}); err != nil {
				return err
			}
			return context.Canceled
		})
		require.ErrorIs(t, err, context.Canceled)

		_, err = s.Users().GetUserByUsername(ctx, "txuser")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("commits on success", func(t *testing.T) {
		s := newTestStore(t)

		err := s.WithTx(ctx, func(tx store.Tx) error {
			return tx.Users().CreateUser(ctx, domain.User{
				ID: "user_1", Username: "txuser", PasswordHash: "h",
			})
		})
		require.NoError(t, err)

		_, err = s.Users().GetUserByUsername(ctx, "txuser")
		require.NoError(t, err)
	})
}
