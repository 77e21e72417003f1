package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"verdantshop/internal/domain"
	"verdantshop/internal/repos"
)

func TestNotifications_ListAndMarkRead(t *testing.T) {
	db := testDB(t)
	svc := notifyService(db)

	for i := 0; i < 3; i++ {
		_, err := svc.Create("u-alice", domain.NotifSustainability, "Milestone", "You saved 1kg of CO2.", "", "")
		require.NoError(t, err)
	}

	n, err := svc.UnreadCount("u-alice")
	require.NoError(t, err)
	require.Equal(t, 3, n)

	rows, err := svc.List("u-alice", 1, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	marked, err := svc.MarkRead("u-alice", []string{rows[0].ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), marked)

	// Empty ids means mark everything.
	_, err = svc.MarkRead("u-alice", nil)
	require.NoError(t, err)
	n, err = svc.UnreadCount("u-alice")
	require.NoError(t, err)
	require.Equal(t, 0, n)

	// Bob cannot mark Alice's rows.
	n, err = svc.UnreadCount("u-bob")
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestNotifications_PriceDropReachesWishlistOwners(t *testing.T) {
	db := testDB(t)
	userRepo := repos.NewUserRepo(db)
	wishRepo := repos.NewWishlistRepo(db)
	prodRepo := repos.NewProductRepo(db)
	svc := notifyService(db)

	// Alice wishlists the tee while logged in; an anonymous session does too.
	require.NoError(t, userRepo.BindSession("alice-session", "u-alice"))
	wid, err := wishRepo.Ensure("alice-session")
	require.NoError(t, err)
	require.NoError(t, wishRepo.Add(wid, "tee-organic"))

	anonWid, err := wishRepo.Ensure("anon-session")
	require.NoError(t, err)
	require.NoError(t, wishRepo.Add(anonWid, "tee-organic"))

	p, err := prodRepo.Get("tee-organic")
	require.NoError(t, err)

	created, err := svc.PriceDrop(p, p.Price, p.Price-5)
	require.NoError(t, err)
	require.Equal(t, 1, created, "only the logged-in wishlist owner is notified")

	rows, err := svc.List("u-alice", 1, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, domain.NotifPriceDrop, rows[0].Type)
	require.Contains(t, rows[0].Message, "dropped")
}
