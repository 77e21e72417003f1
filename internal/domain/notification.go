package domain

// Notification types. Rows are created by the notification service, the
// owner may flip the read flag, nothing deletes them automatically.
const (
	NotifStockAlert     = "stock_alert"
	NotifOrderUpdate    = "order_update"
	NotifPriceDrop      = "price_drop"
	NotifSustainability = "sustainability"
	NotifNewProduct     = "new_product"
)

type Notification struct {
	ID               string `db:"id" json:"id"`
	UserID           string `db:"user_id" json:"-"`
	Type             string `db:"type" json:"type"`
	Title            string `db:"title" json:"title"`
	Message          string `db:"message" json:"message"`
	RelatedProductID string `db:"related_product_id" json:"related_product_id,omitempty"`
	RelatedOrderID   string `db:"related_order_id" json:"related_order_id,omitempty"`
	Read             bool   `db:"read" json:"read"`
	CreatedAt        string `db:"created_at" json:"created_at"`
}

// StockAlert is a user subscription asking to be notified when a product is
// purchasable again. Threshold 0 means "any stock"; otherwise the alert fires
// once stock reaches the threshold. At most one unfulfilled alert exists per
// (user, product) pair.
type StockAlert struct {
	ID        string `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"-"`
	ProductID string `db:"product_id" json:"product_id"`
	Threshold int    `db:"threshold" json:"threshold,omitempty"`
	Fulfilled bool   `db:"fulfilled" json:"fulfilled"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

type Review struct {
	ID               string `db:"id" json:"id"`
	ProductID        string `db:"product_id" json:"product_id"`
	UserID           string `db:"user_id" json:"-"`
	UserName         string `db:"user_name" json:"user_name,omitempty"`
	Rating           int    `db:"rating" json:"rating"`
	Title            string `db:"title" json:"title"`
	Body             string `db:"body" json:"body"`
	VerifiedPurchase bool   `db:"verified_purchase" json:"verified_purchase"`
	HelpfulCount     int    `db:"helpful_count" json:"helpful_count"`
	CreatedAt        string `db:"created_at" json:"created_at"`
}
