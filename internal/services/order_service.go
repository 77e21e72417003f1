package services

import (
	"errors"
	"fmt"

	"verdantshop/internal/domain"
	applog "verdantshop/internal/log"
	"verdantshop/internal/repos"

	"github.com/google/uuid"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrBadTransition = errors.New("invalid status transition")
)

type OrderService struct {
	Orders   *repos.OrderRepo
	Carts    *repos.CartRepo
	Products *repos.ProductRepo
	Notify   *NotificationService
}

func NewOrderService(orders *repos.OrderRepo, carts *repos.CartRepo, products *repos.ProductRepo, notify *NotificationService) *OrderService {
	return &OrderService{Orders: orders, Carts: carts, Products: products, Notify: notify}
}

// Place turns the session's cart into a PENDING order. Stock is checked and
// decremented per line before the order row exists, so a failure midway can
// leave earlier lines decremented; the guarded UPDATE at least guarantees no
// line ever oversells.
func (s *OrderService) Place(sessionID, name, email string) (string, float64, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return "", 0, err
	}
	items, err := s.Carts.Items(cartID)
	if err != nil {
		return "", 0, err
	}
	if len(items) == 0 {
		return "", 0, ErrEmptyCart
	}

	for _, it := range items {
		p, err := s.Products.Get(it.ProductID)
		if err != nil {
			return "", 0, err
		}
		if !p.Available || p.StockQty < it.Qty {
			return "", 0, fmt.Errorf("%q: insufficient stock", p.Name)
		}
	}

	total := 0.0
	for _, it := range items {
		if err := s.Products.DecrementStock(it.ProductID, it.Qty); err != nil {
			return "", 0, fmt.Errorf("%q: %w", it.Name, err)
		}
		total += float64(it.Qty) * it.Price
	}

	orderID := uuid.NewString()
	if err := s.Orders.Create(orderID, sessionID, name, email, total); err != nil {
		return "", 0, err
	}
	for _, it := range items {
		if err := s.Orders.InsertItem(orderID, it.ProductID, it.Qty, it.Price); err != nil {
			return "", 0, err
		}
	}
	if err := s.Carts.Clear(cartID); err != nil {
		return "", 0, err
	}
	return orderID, total, nil
}

func (s *OrderService) Get(orderID string) (domain.Order, []domain.OrderItem, error) {
	return s.Orders.Get(orderID)
}

func (s *OrderService) ListForUser(userID string) ([]repos.OrderSummary, error) {
	return s.Orders.ListByUser(userID)
}

func (s *OrderService) ListForSession(sessionID string) ([]repos.OrderSummary, error) {
	return s.Orders.ListBySession(sessionID)
}

// forward lists the statuses an order may move to from each state. DELIVERED
// and CANCELLED are terminal.
var forward = map[string][]string{
	domain.OrderPending:        {domain.OrderProcessing, domain.OrderCancelled},
	domain.OrderProcessing:     {domain.OrderShipped, domain.OrderCancelled},
	domain.OrderShipped:        {domain.OrderOutForDelivery, domain.OrderDelivered},
	domain.OrderOutForDelivery: {domain.OrderDelivered},
}

func canTransition(from, to string) bool {
	for _, next := range forward[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdateStatus moves an order along the lifecycle, stamps shipped_at and
// delivered_at on first entry into those states, and notifies the owner.
// A notification failure is logged, not surfaced; the status change stands.
func (s *OrderService) UpdateStatus(orderID, status string) (domain.Order, error) {
	o, _, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !canTransition(o.Status, status) {
		return domain.Order{}, fmt.Errorf("%w: %s -> %s", ErrBadTransition, o.Status, status)
	}
	if err := s.Orders.SetStatus(orderID, status); err != nil {
		return domain.Order{}, err
	}
	switch status {
	case domain.OrderShipped:
		if err := s.Orders.StampShipped(orderID); err != nil {
			return domain.Order{}, err
		}
	case domain.OrderDelivered:
		if err := s.Orders.StampDelivered(orderID); err != nil {
			return domain.Order{}, err
		}
	}
	o, items, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if s.Notify != nil {
		if err := s.Notify.OrderUpdate(o); err != nil {
			applog.JobError("order.notify.fail", err, map[string]any{"order": orderID})
		}
		if status == domain.OrderDelivered {
			s.congratulate(o, items)
		}
	}
	return o, nil
}

// congratulate sends a sustainability milestone once an order lands, based
// on the carbon footprint the chosen products avoid. Best-effort.
func (s *OrderService) congratulate(o domain.Order, items []domain.OrderItem) {
	if o.UserID == "" {
		return
	}
	grams := 0
	for _, it := range items {
		p, err := s.Products.Get(it.ProductID)
		if err != nil {
			continue
		}
		grams += p.CarbonGrams * it.Qty
	}
	if grams == 0 {
		return
	}
	msg := fmt.Sprintf("Your delivered order avoided an estimated %.1f kg of CO2 compared to conventional alternatives. Thank you for shopping sustainably!", float64(grams)/1000)
	if err := s.Notify.Sustainability(o.UserID, msg); err != nil {
		applog.JobError("order.sustainability.fail", err, map[string]any{"order": o.ID})
	}
}

// Ship records tracking details and moves the order to SHIPPED in one step.
func (s *OrderService) Ship(orderID, tracking, courier, estimatedDelivery string) (domain.Order, error) {
	if err := s.Orders.SetShipment(orderID, tracking, courier, estimatedDelivery); err != nil {
		return domain.Order{}, err
	}
	return s.UpdateStatus(orderID, domain.OrderShipped)
}
