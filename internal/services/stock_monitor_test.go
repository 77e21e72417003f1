package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"verdantshop/internal/repos"
	"verdantshop/internal/services"
)

func TestStockMonitor_RestockNotifiesEachSubscriberOnce(t *testing.T) {
	db := testDB(t)
	prodRepo := repos.NewProductRepo(db)
	alertRepo := repos.NewStockAlertRepo(db)
	notifRepo := repos.NewNotificationRepo(db)
	mon := services.NewStockMonitor(prodRepo, alertRepo, notifyService(db))

	// brush-bamboo is seeded out of stock; both users ask to be told.
	for _, uid := range []string{"u-alice", "u-bob"} {
		created, err := alertRepo.Create(uuid.NewString(), uid, "brush-bamboo", 0)
		require.NoError(t, err)
		require.True(t, created)
	}

	// Nothing in stock yet, nothing fires.
	rep, err := mon.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, rep.NotificationsSent)

	require.NoError(t, prodRepo.SetStock("brush-bamboo", 5))

	rep, err = mon.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, rep.NotificationsSent)
	require.Empty(t, rep.Errors)

	// Restock also restores availability.
	p, err := prodRepo.Get("brush-bamboo")
	require.NoError(t, err)
	require.True(t, p.Available)

	for _, uid := range []string{"u-alice", "u-bob"} {
		n, err := notifRepo.UnreadCount(uid)
		require.NoError(t, err)
		require.Equal(t, 1, n, "user %s", uid)
	}

	// A second pass must not re-send: the alerts are fulfilled.
	rep, err = mon.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, rep.NotificationsSent)
}

func TestStockMonitor_AvailabilityReconciliation(t *testing.T) {
	db := testDB(t)
	prodRepo := repos.NewProductRepo(db)
	mon := services.NewStockMonitor(prodRepo, repos.NewStockAlertRepo(db), notifyService(db))

	require.NoError(t, prodRepo.SetStock("lamp-solar", 0))

	rep, err := mon.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, rep.MarkedUnavailable)

	p, err := prodRepo.Get("lamp-solar")
	require.NoError(t, err)
	require.False(t, p.Available)

	require.NoError(t, prodRepo.SetStock("lamp-solar", 3))

	rep, err = mon.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, rep.MarkedAvailable)

	p, err = prodRepo.Get("lamp-solar")
	require.NoError(t, err)
	require.True(t, p.Available)
}

func TestStockMonitor_RestockNotifiesWishlistOwners(t *testing.T) {
	db := testDB(t)
	prodRepo := repos.NewProductRepo(db)
	wishRepo := repos.NewWishlistRepo(db)
	userRepo := repos.NewUserRepo(db)
	notifRepo := repos.NewNotificationRepo(db)
	mon := services.NewStockMonitor(prodRepo, repos.NewStockAlertRepo(db), notifyService(db))

	require.NoError(t, userRepo.BindSession("bob-session", "u-bob"))
	wid, err := wishRepo.Ensure("bob-session")
	require.NoError(t, err)
	require.NoError(t, wishRepo.Add(wid, "brush-bamboo"))

	require.NoError(t, prodRepo.SetStock("brush-bamboo", 4))

	rep, err := mon.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, rep.WishlistNotified)

	n, err := notifRepo.UnreadCount("u-bob")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// The flip already happened; a second run stays quiet.
	rep, err = mon.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, rep.WishlistNotified)
}

func TestStockMonitor_ThresholdHoldsAlertBack(t *testing.T) {
	db := testDB(t)
	prodRepo := repos.NewProductRepo(db)
	alertRepo := repos.NewStockAlertRepo(db)
	mon := services.NewStockMonitor(prodRepo, alertRepo, notifyService(db))

	created, err := alertRepo.Create(uuid.NewString(), "u-alice", "brush-bamboo", 10)
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, prodRepo.SetStock("brush-bamboo", 5))
	rep, err := mon.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, rep.NotificationsSent, "threshold 10 must not fire at stock 5")

	require.NoError(t, prodRepo.SetStock("brush-bamboo", 10))
	rep, err = mon.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, rep.NotificationsSent)
}

func TestStockMonitor_DryRunMutatesNothing(t *testing.T) {
	db := testDB(t)
	prodRepo := repos.NewProductRepo(db)
	alertRepo := repos.NewStockAlertRepo(db)
	mon := services.NewStockMonitor(prodRepo, alertRepo, notifyService(db))
	mon.DryRun = true

	_, err := alertRepo.Create(uuid.NewString(), "u-alice", "brush-bamboo", 0)
	require.NoError(t, err)
	require.NoError(t, prodRepo.SetStock("brush-bamboo", 5))

	rep, err := mon.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, rep.AlertsEligible)
	require.Equal(t, 0, rep.NotificationsSent)

	alerts, err := alertRepo.ListByUser("u-alice")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	require.False(t, alerts[0].Fulfilled)
}

func TestStockAlertService_OnePendingAlertPerProduct(t *testing.T) {
	db := testDB(t)
	prodRepo := repos.NewProductRepo(db)
	alertRepo := repos.NewStockAlertRepo(db)
	svc := services.NewStockAlertService(alertRepo, prodRepo)

	created, err := svc.Subscribe("u-alice", "brush-bamboo", 0)
	require.NoError(t, err)
	require.True(t, created)

	// Second subscription while the first is pending is a no-op.
	created, err = svc.Subscribe("u-alice", "brush-bamboo", 0)
	require.NoError(t, err)
	require.False(t, created)

	// A product already in stock rejects the subscription.
	_, err = svc.Subscribe("u-alice", "lamp-solar", 0)
	require.ErrorIs(t, err, services.ErrAlertInStock)
}
