package services

import (
	"errors"

	"verdantshop/internal/domain"
	"verdantshop/internal/repos"

	"github.com/google/uuid"
)

var ErrAlertInStock = errors.New("product is in stock")

type StockAlertService struct {
	Alerts   *repos.StockAlertRepo
	Products *repos.ProductRepo
}

func NewStockAlertService(alerts *repos.StockAlertRepo, products *repos.ProductRepo) *StockAlertService {
	return &StockAlertService{Alerts: alerts, Products: products}
}

// Subscribe registers a back-in-stock alert. The partial unique index keeps
// one unfulfilled alert per (user, product); re-subscribing while one is
// pending returns created=false and is not an error. Threshold 0 fires on
// any stock.
func (s *StockAlertService) Subscribe(userID, productID string, threshold int) (bool, error) {
	p, err := s.Products.Get(productID)
	if err != nil {
		return false, err
	}
	if p.StockQty > 0 && p.StockQty >= max(threshold, 1) {
		return false, ErrAlertInStock
	}
	return s.Alerts.Create(uuid.NewString(), userID, productID, threshold)
}

func (s *StockAlertService) List(userID string) ([]domain.StockAlert, error) {
	return s.Alerts.ListByUser(userID)
}
