package repos

import (
	"verdantshop/internal/domain"

	"github.com/jmoiron/sqlx"
)

type StockAlertRepo struct{ db *sqlx.DB }

func NewStockAlertRepo(db *sqlx.DB) *StockAlertRepo { return &StockAlertRepo{db: db} }

// Create registers an alert. The partial unique index keeps one unfulfilled
// alert per (user, product); re-registering while one is pending is a no-op.
func (r *StockAlertRepo) Create(id, userID, productID string, threshold int) (bool, error) {
	res, err := r.db.Exec(`
	  INSERT INTO stock_alerts(id, user_id, product_id, threshold, fulfilled, created_at)
	  VALUES(?, ?, ?, ?, 0, CURRENT_TIMESTAMP)
	  ON CONFLICT DO NOTHING
	`, id, userID, productID, threshold)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *StockAlertRepo) ListByUser(userID string) ([]domain.StockAlert, error) {
	var out []domain.StockAlert
	err := r.db.Select(&out, `
	  SELECT id, user_id, product_id, threshold, fulfilled, created_at
	  FROM stock_alerts
	  WHERE user_id = ?
	  ORDER BY datetime(created_at) DESC
	`, userID)
	return out, err
}

// EligibleRow is an unfulfilled alert whose product has enough stock to fire:
// stock above zero and at or past the alert threshold.
type EligibleRow struct {
	AlertID     string `db:"alert_id"`
	UserID      string `db:"user_id"`
	ProductID   string `db:"product_id"`
	ProductName string `db:"product_name"`
	StockQty    int    `db:"stock_qty"`
	Threshold   int    `db:"threshold"`
}

func (r *StockAlertRepo) Eligible() ([]EligibleRow, error) {
	var out []EligibleRow
	err := r.db.Select(&out, `
	  SELECT a.id AS alert_id, a.user_id, a.product_id, p.name AS product_name,
	         p.stock_qty, a.threshold
	  FROM stock_alerts a
	  JOIN products p ON p.id = a.product_id
	  WHERE a.fulfilled = 0
	    AND p.stock_qty > 0
	    AND p.stock_qty >= MAX(a.threshold, 1)
	  ORDER BY a.product_id, a.created_at
	`)
	return out, err
}

// Claim marks an alert fulfilled if and only if it is still unfulfilled.
// The conditional update is what keeps concurrent monitor runs from sending
// duplicate notifications for the same alert.
func (r *StockAlertRepo) Claim(alertID string) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE stock_alerts SET fulfilled = 1 WHERE id = ? AND fulfilled = 0
	`, alertID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Release undoes a claim when the follow-up notification insert fails, so the
// next run retries the alert.
func (r *StockAlertRepo) Release(alertID string) error {
	_, err := r.db.Exec(`UPDATE stock_alerts SET fulfilled = 0 WHERE id = ?`, alertID)
	return err
}
