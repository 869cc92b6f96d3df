package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInspector(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := issued
	c := newTestCodec(t, func() time.Time { return clock })
	insp := Inspector{Codec: c}

	token, err := c.IssueAccess("u1", "alice", []string{"ADMIN"})
	require.NoError(t, err)

	t.Run("username and roles", func(t *testing.T) {
		require.Equal(t, "alice", insp.Username(token))
		require.Equal(t, []string{"ADMIN"}, insp.Roles(token))
	})

	t.Run("garbage token", func(t *testing.T) {
		require.Empty(t, insp.Username("garbage"))
		require.Nil(t, insp.Roles("garbage"))
		require.True(t, insp.Expired("garbage"))
	})

	t.Run("expiry follows the clock", func(t *testing.T) {
		require.False(t, insp.Expired(token))
		clock = issued.Add(2 * time.Hour)
		require.True(t, insp.Expired(token))
		clock = issued
	})
}
