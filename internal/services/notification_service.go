package services

import (
	"fmt"

	"verdantshop/internal/domain"
	applog "verdantshop/internal/log"
	"verdantshop/internal/mail"
	"verdantshop/internal/repos"

	"github.com/google/uuid"
)

// NotificationService is the single choke point for creating notification
// rows. Every call inserts a distinct unread notification; dedup, where it
// matters, is the caller's job (the stock monitor claims the alert first).
type NotificationService struct {
	Repo   *repos.NotificationRepo
	Users  *repos.UserRepo
	Wish   *repos.WishlistRepo
	Mailer mail.Mailer
}

func NewNotificationService(repo *repos.NotificationRepo, users *repos.UserRepo, wish *repos.WishlistRepo, m mail.Mailer) *NotificationService {
	return &NotificationService{Repo: repo, Users: users, Wish: wish, Mailer: m}
}

func (s *NotificationService) Create(userID, typ, title, message, productID, orderID string) (domain.Notification, error) {
	n := domain.Notification{
		ID:               uuid.NewString(),
		UserID:           userID,
		Type:             typ,
		Title:            title,
		Message:          message,
		RelatedProductID: productID,
		RelatedOrderID:   orderID,
	}
	if err := s.Repo.Insert(n); err != nil {
		return domain.Notification{}, err
	}
	s.email(userID, title, message)
	return n, nil
}

// email delivers a copy best-effort; a mail failure never fails the insert.
func (s *NotificationService) email(userID, subject, body string) {
	if s.Mailer == nil || s.Users == nil {
		return
	}
	u, err := s.Users.ByID(userID)
	if err != nil {
		return
	}
	if err := s.Mailer.Send(u.Email, subject, body); err != nil {
		applog.JobError("notify.mail.fail", err, map[string]any{"user": userID})
	}
}

func (s *NotificationService) UnreadCount(userID string) (int, error) {
	return s.Repo.UnreadCount(userID)
}

func (s *NotificationService) List(userID string, page, pageSize int) ([]domain.Notification, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return s.Repo.ListByUser(userID, pageSize, (page-1)*pageSize)
}

func (s *NotificationService) MarkRead(userID string, ids []string) (int64, error) {
	return s.Repo.MarkRead(userID, ids)
}

// StockAlert notifies one alert owner that a product is purchasable again.
func (s *NotificationService) StockAlert(userID string, product string, productName string, stock int) (domain.Notification, error) {
	title := "Back in Stock: " + productName
	msg := fmt.Sprintf("Good news! %q is back in stock with %d units available. Get yours now!", productName, stock)
	return s.Create(userID, domain.NotifStockAlert, title, msg, product, "")
}

// BackInStock notifies logged-in wishlist owners that a product they saved
// is purchasable again. Alert subscribers are handled separately through
// their claimed alerts.
func (s *NotificationService) BackInStock(p domain.Product) (int, error) {
	userIDs, err := s.Wish.UsersWithProduct(p.ID)
	if err != nil {
		return 0, err
	}
	title := "Back in Stock: " + p.Name
	msg := fmt.Sprintf("An item on your wishlist, %q, is back in stock with %d units available.", p.Name, p.StockQty)
	created := 0
	for _, uid := range userIDs {
		if _, err := s.Create(uid, domain.NotifStockAlert, title, msg, p.ID, ""); err != nil {
			applog.JobError("notify.backinstock.fail", err, map[string]any{"user": uid, "product": p.ID})
			continue
		}
		created++
	}
	return created, nil
}

// PriceDrop notifies every logged-in user who wishlisted the product.
func (s *NotificationService) PriceDrop(p domain.Product, oldPrice, newPrice float64) (int, error) {
	userIDs, err := s.Wish.UsersWithProduct(p.ID)
	if err != nil {
		return 0, err
	}
	title := "Price Drop: " + p.Name
	msg := fmt.Sprintf("Great news! The price of %q has dropped from $%.2f to $%.2f.", p.Name, oldPrice, newPrice)
	created := 0
	for _, uid := range userIDs {
		if _, err := s.Create(uid, domain.NotifPriceDrop, title, msg, p.ID, ""); err != nil {
			applog.JobError("notify.pricedrop.fail", err, map[string]any{"user": uid, "product": p.ID})
			continue
		}
		created++
	}
	return created, nil
}

var orderStatusMessages = map[string]string{
	domain.OrderProcessing:     "Your order is being processed.",
	domain.OrderOutForDelivery: "Your order is out for delivery and will arrive soon!",
	domain.OrderDelivered:      "Your order has been delivered. Thank you for shopping with us!",
	domain.OrderCancelled:      "Your order has been cancelled. If you have any questions, please contact support.",
}

// OrderUpdate notifies the order owner of a status change. Orders placed
// anonymously (no user bound to the session) get no notification row.
func (s *NotificationService) OrderUpdate(o domain.Order) error {
	if o.UserID == "" {
		return nil
	}
	msg, ok := orderStatusMessages[o.Status]
	if !ok {
		if o.Status == domain.OrderShipped {
			tracking := o.TrackingNumber
			if tracking == "" {
				tracking = "will be provided soon"
			}
			msg = "Your order has been shipped! Tracking number: " + tracking
		} else {
			msg = "Your order status has been updated to: " + o.Status
		}
	}
	_, err := s.Create(o.UserID, domain.NotifOrderUpdate, fmt.Sprintf("Order %s Update", o.ID), msg, "", o.ID)
	return err
}

// Sustainability creates a milestone notification.
func (s *NotificationService) Sustainability(userID, message string) error {
	_, err := s.Create(userID, domain.NotifSustainability, "Sustainability Achievement!", message, "", "")
	return err
}
