package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"verdantshop/internal/domain"
	"verdantshop/internal/repos"
	"verdantshop/internal/services"
)

func TestOrderFlow_AddCartCheckout(t *testing.T) {
	db := testDB(t)
	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(orderRepo, cartRepo, prodRepo, notifyService(db))

	sid := "test-session"
	require.NoError(t, cartSvc.Add(sid, "lamp-solar", 2))

	cv, err := cartSvc.View(sid)
	require.NoError(t, err)
	require.Len(t, cv.Items, 1)
	require.InDelta(t, 69.98, cv.Total, 0.001)

	oid, total, err := orderSvc.Place(sid, "Tester", "tester@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, oid)
	require.InDelta(t, 69.98, total, 0.001)

	// Stock decremented from 12 to 10, cart emptied.
	p, err := prodRepo.Get("lamp-solar")
	require.NoError(t, err)
	require.Equal(t, 10, p.StockQty)

	cv, err = cartSvc.View(sid)
	require.NoError(t, err)
	require.Empty(t, cv.Items)

	o, items, err := orderSvc.Get(oid)
	require.NoError(t, err)
	require.Equal(t, domain.OrderPending, o.Status)
	require.Len(t, items, 1)
}

func TestOrderFlow_RejectsOversell(t *testing.T) {
	db := testDB(t)
	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(repos.NewOrderRepo(db), cartRepo, prodRepo, notifyService(db))

	sid := "greedy-session"
	require.NoError(t, cartSvc.Add(sid, "notebook-recycled", 9)) // only 8 in stock

	_, _, err := orderSvc.Place(sid, "Tester", "tester@example.com")
	require.Error(t, err)

	p, err := prodRepo.Get("notebook-recycled")
	require.NoError(t, err)
	require.Equal(t, 8, p.StockQty, "failed checkout must not eat stock")
}

func TestOrderFlow_EmptyCart(t *testing.T) {
	db := testDB(t)
	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderSvc := services.NewOrderService(repos.NewOrderRepo(db), cartRepo, prodRepo, notifyService(db))

	_, _, err := orderSvc.Place("empty-session", "Tester", "tester@example.com")
	require.ErrorIs(t, err, services.ErrEmptyCart)
}

func TestOrderLifecycle_StatusStampsAndNotifies(t *testing.T) {
	db := testDB(t)
	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)
	notifRepo := repos.NewNotificationRepo(db)
	orderSvc := services.NewOrderService(orderRepo, cartRepo, prodRepo, notifyService(db))
	cartSvc := services.NewCartService(cartRepo, prodRepo)

	sid := "alice-session"
	require.NoError(t, userRepo.BindSession(sid, "u-alice"))
	require.NoError(t, cartSvc.Add(sid, "tee-organic", 1))
	oid, _, err := orderSvc.Place(sid, "Alice", "alice@verdantshop.test")
	require.NoError(t, err)

	// PENDING cannot jump straight to DELIVERED.
	_, err = orderSvc.UpdateStatus(oid, domain.OrderDelivered)
	require.ErrorIs(t, err, services.ErrBadTransition)

	o, err := orderSvc.UpdateStatus(oid, domain.OrderProcessing)
	require.NoError(t, err)
	require.Equal(t, domain.OrderProcessing, o.Status)

	o, err = orderSvc.Ship(oid, "TRK-12345", "GreenPost", "2026-09-02")
	require.NoError(t, err)
	require.Equal(t, domain.OrderShipped, o.Status)
	require.Equal(t, "TRK-12345", o.TrackingNumber)
	require.NotEmpty(t, o.ShippedAt)

	o, err = orderSvc.UpdateStatus(oid, domain.OrderDelivered)
	require.NoError(t, err)
	require.NotEmpty(t, o.DeliveredAt)

	// One notification per status change: PROCESSING, SHIPPED, DELIVERED.
	n, err := notifRepo.CountByTypeForUser("u-alice", domain.NotifOrderUpdate)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	// Delivery also triggers the carbon-savings milestone.
	n, err = notifRepo.CountByTypeForUser("u-alice", domain.NotifSustainability)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
