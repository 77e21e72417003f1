package repos

import (
	"verdantshop/internal/domain"

	"github.com/jmoiron/sqlx"
)

type NotificationRepo struct{ db *sqlx.DB }

func NewNotificationRepo(db *sqlx.DB) *NotificationRepo { return &NotificationRepo{db: db} }

func (r *NotificationRepo) Insert(n domain.Notification) error {
	_, err := r.db.Exec(`
	  INSERT INTO notifications(id, user_id, type, title, message, related_product_id, related_order_id, read, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, 0, CURRENT_TIMESTAMP)
	`, n.ID, n.UserID, n.Type, n.Title, n.Message, n.RelatedProductID, n.RelatedOrderID)
	return err
}

// ListByUser returns the user's notifications most recent first.
func (r *NotificationRepo) ListByUser(userID string, limit, offset int) ([]domain.Notification, error) {
	var out []domain.Notification
	err := r.db.Select(&out, `
	  SELECT id, user_id, type, title, message, related_product_id, related_order_id, read, created_at
	  FROM notifications
	  WHERE user_id = ?
	  ORDER BY datetime(created_at) DESC, id DESC
	  LIMIT ? OFFSET ?
	`, userID, limit, offset)
	return out, err
}

func (r *NotificationRepo) UnreadCount(userID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM notifications WHERE user_id = ? AND read = 0`, userID)
	return n, err
}

// MarkRead flips the read flag for the owner's notifications. With no ids it
// marks everything unread as read. Returns the number of rows flipped.
func (r *NotificationRepo) MarkRead(userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		res, err := r.db.Exec(`UPDATE notifications SET read = 1 WHERE user_id = ? AND read = 0`, userID)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	}
	query, args, err := sqlx.In(`UPDATE notifications SET read = 1 WHERE user_id = ? AND read = 0 AND id IN (?)`, userID, ids)
	if err != nil {
		return 0, err
	}
	res, err := r.db.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *NotificationRepo) CountByTypeForUser(userID, typ string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM notifications WHERE user_id = ? AND type = ?`, userID, typ)
	return n, err
}
