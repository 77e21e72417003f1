package domain

type Category struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Slug        string `db:"slug" json:"slug"`
	Description string `db:"description" json:"description,omitempty"`
	CreatedAt   string `db:"created_at" json:"created_at"`
	UpdatedAt   string `db:"updated_at" json:"updated_at,omitempty"`
}

type Product struct {
	ID          string  `db:"id" json:"id"`
	CategoryID  string  `db:"category_id" json:"category_id"`
	Name        string  `db:"name" json:"name"`
	Slug        string  `db:"slug" json:"slug"`
	Description string  `db:"description" json:"description"`
	Price       float64 `db:"price" json:"price"`
	StockQty    int     `db:"stock_qty" json:"stock_qty"`
	Available   bool    `db:"available" json:"available"`
	CarbonGrams int     `db:"carbon_grams" json:"carbon_grams"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
	UpdatedAt   string  `db:"updated_at" json:"updated_at,omitempty"`
}

// Order statuses. DELIVERED is terminal; delivered_at is set only on the
// transition into it.
const (
	OrderPending        = "PENDING"
	OrderProcessing     = "PROCESSING"
	OrderShipped        = "SHIPPED"
	OrderOutForDelivery = "OUT_FOR_DELIVERY"
	OrderDelivered      = "DELIVERED"
	OrderCancelled      = "CANCELLED"
)

type Order struct {
	ID                string  `db:"id" json:"id"`
	SessionID         string  `db:"session_id" json:"-"`
	UserID            string  `db:"user_id" json:"user_id,omitempty"`
	CustomerName      string  `db:"customer_name" json:"customer_name"`
	CustomerEmail     string  `db:"customer_email" json:"customer_email"`
	Total             float64 `db:"total" json:"total"`
	Status            string  `db:"status" json:"status"`
	TrackingNumber    string  `db:"tracking_number" json:"tracking_number,omitempty"`
	CourierService    string  `db:"courier_service" json:"courier_service,omitempty"`
	EstimatedDelivery string  `db:"estimated_delivery" json:"estimated_delivery,omitempty"`
	ShippedAt         string  `db:"shipped_at" json:"shipped_at,omitempty"`
	DeliveredAt       string  `db:"delivered_at" json:"delivered_at,omitempty"`
	CreatedAt         string  `db:"created_at" json:"created_at"`
}

type OrderItem struct {
	ProductID string  `db:"product_id" json:"product_id"`
	Name      string  `db:"name" json:"name"`
	Qty       int     `db:"qty" json:"qty"`
	Price     float64 `db:"price" json:"price"`
	Subtotal  float64 `db:"subtotal" json:"subtotal"`
}
