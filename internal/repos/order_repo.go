package repos

import (
	"verdantshop/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type OrderSummary struct {
	ID            string  `db:"id" json:"id"`
	CustomerName  string  `db:"customer_name" json:"customer_name"`
	CustomerEmail string  `db:"customer_email" json:"customer_email"`
	Total         float64 `db:"total" json:"total"`
	Status        string  `db:"status" json:"status"`
	CreatedAt     string  `db:"created_at" json:"created_at"`
}

const orderCols = `
  o.id, o.session_id, COALESCE(s.user_id,'') AS user_id, o.customer_name,
  o.customer_email, o.total, o.status, o.tracking_number, o.courier_service,
  o.estimated_delivery, o.shipped_at, o.delivered_at, o.created_at`

// Create inserts a new order header.
func (r *OrderRepo) Create(orderID, sessionID, name, email string, total float64) error {
	_, err := r.db.Exec(`
	  INSERT INTO orders(id, session_id, customer_name, customer_email, total, status, created_at)
	  VALUES(?, ?, ?, ?, ?, 'PENDING', CURRENT_TIMESTAMP)
	`, orderID, sessionID, name, email, total)
	return err
}

func (r *OrderRepo) InsertItem(orderID, productID string, qty int, price float64) error {
	_, err := r.db.Exec(`
	  INSERT INTO order_items(order_id, product_id, qty, price)
	  VALUES(?, ?, ?, ?)
	`, orderID, productID, qty, price)
	return err
}

func (r *OrderRepo) Get(orderID string) (domain.Order, []domain.OrderItem, error) {
	var o domain.Order
	if err := r.db.Get(&o, `
	  SELECT `+orderCols+`
	  FROM orders o
	  LEFT JOIN sessions s ON s.id = o.session_id
	  WHERE o.id = ?
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}

	var items []domain.OrderItem
	if err := r.db.Select(&items, `
	  SELECT oi.product_id, p.name, oi.qty, oi.price, (oi.qty * oi.price) AS subtotal
	  FROM order_items oi
	  JOIN products p ON p.id = oi.product_id
	  WHERE oi.order_id = ?
	  ORDER BY p.name
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}

	return o, items, nil
}

func (r *OrderRepo) ListLatest(limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []OrderSummary
	err := r.db.Select(&out, `
	  SELECT id, customer_name, customer_email, total, status, created_at
	  FROM orders
	  ORDER BY datetime(created_at) DESC
	  LIMIT ?
	`, limit)
	return out, err
}

// ListByUser returns orders for a given user via session linkage.
func (r *OrderRepo) ListByUser(userID string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := r.db.Select(&out, `
	  SELECT o.id, o.customer_name, o.customer_email, o.total, o.status, o.created_at
	  FROM orders o
	  JOIN sessions s ON s.id = o.session_id
	  WHERE s.user_id = ?
	  ORDER BY datetime(o.created_at) DESC
	`, userID)
	return out, err
}

func (r *OrderRepo) ListBySession(sessionID string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := r.db.Select(&out, `
	  SELECT id, customer_name, customer_email, total, status, created_at
	  FROM orders
	  WHERE session_id = ?
	  ORDER BY datetime(created_at) DESC
	`, sessionID)
	return out, err
}

func (r *OrderRepo) SetStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return err
}

// SetShipment records tracking details for an order.
func (r *OrderRepo) SetShipment(id, tracking, courier, estimatedDelivery string) error {
	_, err := r.db.Exec(`
	  UPDATE orders
	  SET tracking_number = ?, courier_service = ?, estimated_delivery = ?
	  WHERE id = ?
	`, tracking, courier, estimatedDelivery, id)
	return err
}

// StampShipped sets shipped_at once; later transitions keep the first value.
func (r *OrderRepo) StampShipped(id string) error {
	_, err := r.db.Exec(`
	  UPDATE orders SET shipped_at = CURRENT_TIMESTAMP WHERE id = ? AND shipped_at = ''
	`, id)
	return err
}

// StampDelivered sets delivered_at once.
func (r *OrderRepo) StampDelivered(id string) error {
	_, err := r.db.Exec(`
	  UPDATE orders SET delivered_at = CURRENT_TIMESTAMP WHERE id = ? AND delivered_at = ''
	`, id)
	return err
}

// UserHasDeliveredProduct reports whether the user has a delivered order
// containing the product (verified-purchase check).
func (r *OrderRepo) UserHasDeliveredProduct(userID, productID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `
	  SELECT COUNT(*)
	  FROM orders o
	  JOIN sessions s ON s.id = o.session_id
	  JOIN order_items oi ON oi.order_id = o.id
	  WHERE s.user_id = ? AND oi.product_id = ? AND o.status = 'DELIVERED'
	`, userID, productID)
	return n > 0, err
}
