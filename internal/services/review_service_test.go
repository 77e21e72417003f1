package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"verdantshop/internal/domain"
	"verdantshop/internal/repos"
	"verdantshop/internal/services"
)

// deliverOrder pushes an order for one product all the way to DELIVERED for
// the given user.
func deliverOrder(t *testing.T, svc *services.OrderService, cartSvc *services.CartService, users *repos.UserRepo, sid, userID, productID string) {
	t.Helper()
	require.NoError(t, users.BindSession(sid, userID))
	require.NoError(t, cartSvc.Add(sid, productID, 1))
	oid, _, err := svc.Place(sid, "Tester", "tester@example.com")
	require.NoError(t, err)
	for _, st := range []string{domain.OrderProcessing, domain.OrderShipped, domain.OrderDelivered} {
		_, err = svc.UpdateStatus(oid, st)
		require.NoError(t, err)
	}
}

func TestReview_VerifiedOnlyAfterDelivery(t *testing.T) {
	db := testDB(t)
	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(orderRepo, cartRepo, prodRepo, notifyService(db))
	reviewSvc := services.NewReviewService(repos.NewReviewRepo(db), orderRepo, prodRepo)

	// Bob never bought the lamp.
	rv, err := reviewSvc.Create("u-bob", "lamp-solar", 4, "Nice lamp", "Bright enough for a desk.")
	require.NoError(t, err)
	require.False(t, rv.VerifiedPurchase)

	// Alice bought it and had it delivered.
	deliverOrder(t, orderSvc, cartSvc, userRepo, "alice-session", "u-alice", "lamp-solar")
	rv, err = reviewSvc.Create("u-alice", "lamp-solar", 5, "Love it", "Charges on my windowsill.")
	require.NoError(t, err)
	require.True(t, rv.VerifiedPurchase)

	out, err := reviewSvc.ListForProduct("lamp-solar", 1, 10)
	require.NoError(t, err)
	require.Len(t, out.Reviews, 2)
	require.InDelta(t, 4.5, out.AverageRating, 0.001)
}

func TestReview_HelpfulVoteCountsOncePerUser(t *testing.T) {
	db := testDB(t)
	prodRepo := repos.NewProductRepo(db)
	reviewSvc := services.NewReviewService(repos.NewReviewRepo(db), repos.NewOrderRepo(db), prodRepo)

	rv, err := reviewSvc.Create("u-alice", "tee-organic", 5, "Soft", "Holds up after many washes.")
	require.NoError(t, err)

	count, counted, err := reviewSvc.VoteHelpful(rv.ID, "u-bob")
	require.NoError(t, err)
	require.True(t, counted)
	require.Equal(t, 1, count)

	count, counted, err = reviewSvc.VoteHelpful(rv.ID, "u-bob")
	require.NoError(t, err)
	require.False(t, counted)
	require.Equal(t, 1, count)
}
