package repos_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"verdantshop/internal/repos"
)

func TestStockAlertClaim_WinsOnlyOnce(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	alerts := repos.NewStockAlertRepo(db)
	created, err := alerts.Create("al-1", "u-alice", "brush-bamboo", 0)
	require.NoError(t, err)
	require.True(t, created)

	// First claim takes the alert, every later claim loses.
	got, err := alerts.Claim("al-1")
	require.NoError(t, err)
	require.True(t, got)

	got, err = alerts.Claim("al-1")
	require.NoError(t, err)
	require.False(t, got)

	// Release puts it back in play.
	require.NoError(t, alerts.Release("al-1"))
	got, err = alerts.Claim("al-1")
	require.NoError(t, err)
	require.True(t, got)
}

func TestStockAlertCreate_AllowsNewAlertAfterFulfilled(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	alerts := repos.NewStockAlertRepo(db)
	created, err := alerts.Create("al-1", "u-alice", "brush-bamboo", 0)
	require.NoError(t, err)
	require.True(t, created)

	// Duplicate while pending is swallowed by the partial unique index.
	created, err = alerts.Create("al-2", "u-alice", "brush-bamboo", 0)
	require.NoError(t, err)
	require.False(t, created)

	_, err = alerts.Claim("al-1")
	require.NoError(t, err)

	// Once fulfilled, the user may subscribe again.
	created, err = alerts.Create("al-3", "u-alice", "brush-bamboo", 0)
	require.NoError(t, err)
	require.True(t, created)
}
