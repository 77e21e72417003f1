package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"verdantshop/internal/mail"
	"verdantshop/internal/repos"
	"verdantshop/internal/services"
)

// testDB opens a seeded in-memory database. The seed catalog includes
// brush-bamboo at zero stock (unavailable) and the users u-alice, u-bob
// and u-admin.
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func notifyService(db *sqlx.DB) *services.NotificationService {
	return services.NewNotificationService(
		repos.NewNotificationRepo(db),
		repos.NewUserRepo(db),
		repos.NewWishlistRepo(db),
		mail.New("console", "", ""),
	)
}
