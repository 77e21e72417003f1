package repos

import (
	"fmt"
	"strings"

	"verdantshop/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, category_id, name, slug, description, price, stock_qty, available,
  carbon_grams, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) ListByCategory(catID string, limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE category_id = ? AND available = 1
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?
	`, catID, limit, offset)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE id = ?
	`, id)
	return p, err
}

func (r *ProductRepo) All() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products ORDER BY id`)
	return out, err
}

func (r *ProductRepo) Search(q, catID string, limit, offset int) ([]domain.Product, error) {
	where := `available = 1`
	args := []any{}
	if q != "" {
		needle := "%" + strings.ToLower(q) + "%"
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		args = append(args, needle, needle)
	}
	if catID != "" {
		where += ` AND category_id = ?`
		args = append(args, catID)
	}

	sql := `
	  SELECT ` + productCols + `
	  FROM products
	  WHERE ` + where + `
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var out []domain.Product
	err := r.db.Select(&out, sql, args...)
	return out, err
}

// DecrementStock atomically subtracts "by" units if enough stock exists.
func (r *ProductRepo) DecrementStock(productID string, by int) error {
	res, err := r.db.Exec(`
	  UPDATE products
	  SET stock_qty = stock_qty - ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND stock_qty >= ?
	`, by, productID, by)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("insufficient stock for %s", productID)
	}
	return nil
}

// SetStock replaces the stock level (admin restock).
func (r *ProductRepo) SetStock(productID string, qty int) error {
	res, err := r.db.Exec(`
	  UPDATE products SET stock_qty = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, qty, productID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("unknown product %s", productID)
	}
	return nil
}

func (r *ProductRepo) SetPrice(productID string, price float64) error {
	_, err := r.db.Exec(`
	  UPDATE products SET price = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, price, productID)
	return err
}

// OutOfStockAvailable lists products still flagged available with zero stock.
func (r *ProductRepo) OutOfStockAvailable() ([]string, error) {
	var ids []string
	err := r.db.Select(&ids, `SELECT id FROM products WHERE stock_qty = 0 AND available = 1`)
	return ids, err
}

// RestockedUnavailable lists products with stock that are still flagged
// unavailable.
func (r *ProductRepo) RestockedUnavailable() ([]string, error) {
	var ids []string
	err := r.db.Select(&ids, `SELECT id FROM products WHERE stock_qty > 0 AND available = 0`)
	return ids, err
}

func (r *ProductRepo) SetAvailable(productID string, available bool) error {
	_, err := r.db.Exec(`
	  UPDATE products SET available = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, available, productID)
	return err
}

func (r *ProductRepo) ListLowStock(threshold int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE stock_qty <= ? AND stock_qty > 0 AND available = 1
	  ORDER BY stock_qty
	`, threshold)
	return out, err
}

type StockReport struct {
	TotalProducts  int     `db:"total_products" json:"total_products"`
	InStock        int     `db:"in_stock" json:"in_stock"`
	OutOfStock     int     `db:"out_of_stock" json:"out_of_stock"`
	LowStock       int     `db:"low_stock" json:"low_stock"`
	InventoryValue float64 `db:"inventory_value" json:"inventory_value"`
}

func (r *ProductRepo) StockReport() (StockReport, error) {
	var rep StockReport
	err := r.db.Get(&rep, `
	  SELECT
	    COUNT(*) AS total_products,
	    SUM(CASE WHEN stock_qty > 0 THEN 1 ELSE 0 END) AS in_stock,
	    SUM(CASE WHEN stock_qty = 0 THEN 1 ELSE 0 END) AS out_of_stock,
	    SUM(CASE WHEN stock_qty <= 10 AND stock_qty > 0 THEN 1 ELSE 0 END) AS low_stock,
	    COALESCE(SUM(price * stock_qty), 0) AS inventory_value
	  FROM products
	`)
	return rep, err
}
