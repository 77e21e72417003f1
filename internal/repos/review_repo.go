package repos

import (
	"verdantshop/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

func (r *ReviewRepo) Insert(rv domain.Review) error {
	_, err := r.db.Exec(`
	  INSERT INTO product_reviews(id, product_id, user_id, rating, title, body, verified_purchase, helpful_count, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, 0, CURRENT_TIMESTAMP)
	`, rv.ID, rv.ProductID, rv.UserID, rv.Rating, rv.Title, rv.Body, rv.VerifiedPurchase)
	return err
}

func (r *ReviewRepo) Get(id string) (domain.Review, error) {
	var rv domain.Review
	err := r.db.Get(&rv, `
	  SELECT r.id, r.product_id, r.user_id, u.name AS user_name, r.rating, r.title,
	         r.body, r.verified_purchase, r.helpful_count, r.created_at
	  FROM product_reviews r
	  JOIN users u ON u.id = r.user_id
	  WHERE r.id = ?
	`, id)
	return rv, err
}

func (r *ReviewRepo) ListByProduct(productID string, limit, offset int) ([]domain.Review, error) {
	var out []domain.Review
	err := r.db.Select(&out, `
	  SELECT r.id, r.product_id, r.user_id, u.name AS user_name, r.rating, r.title,
	         r.body, r.verified_purchase, r.helpful_count, r.created_at
	  FROM product_reviews r
	  JOIN users u ON u.id = r.user_id
	  WHERE r.product_id = ?
	  ORDER BY r.helpful_count DESC, datetime(r.created_at) DESC
	  LIMIT ? OFFSET ?
	`, productID, limit, offset)
	return out, err
}

func (r *ReviewRepo) AverageRating(productID string) (float64, error) {
	var avg float64
	err := r.db.Get(&avg, `
	  SELECT COALESCE(AVG(rating), 0) FROM product_reviews WHERE product_id = ?
	`, productID)
	return avg, err
}

// VoteHelpful counts one helpful vote per (review, user). Returns false when
// the user already voted.
func (r *ReviewRepo) VoteHelpful(reviewID, userID string) (bool, error) {
	res, err := r.db.Exec(`
	  INSERT INTO review_votes(review_id, user_id, created_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(review_id, user_id) DO NOTHING
	`, reviewID, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return false, nil
	}
	_, err = r.db.Exec(`UPDATE product_reviews SET helpful_count = helpful_count + 1 WHERE id = ?`, reviewID)
	return true, err
}
