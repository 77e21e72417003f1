package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
)

type SyncStateRepo struct{ db *sqlx.DB }

func NewSyncStateRepo(db *sqlx.DB) *SyncStateRepo { return &SyncStateRepo{db: db} }

// Hash returns the recorded content hash for a product, or "" when the
// product has never been synced.
func (r *SyncStateRepo) Hash(productID string) (string, error) {
	var h string
	err := r.db.Get(&h, `SELECT content_hash FROM product_sync_state WHERE product_id = ?`, productID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return h, err
}

func (r *SyncStateRepo) Record(productID, hash string) error {
	_, err := r.db.Exec(`
	  INSERT INTO product_sync_state(product_id, content_hash, synced_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(product_id) DO UPDATE SET content_hash = excluded.content_hash, synced_at = CURRENT_TIMESTAMP
	`, productID, hash)
	return err
}
