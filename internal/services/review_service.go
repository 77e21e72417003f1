package services

import (
	"verdantshop/internal/domain"
	"verdantshop/internal/repos"

	"github.com/google/uuid"
)

type ReviewService struct {
	Reviews  *repos.ReviewRepo
	Orders   *repos.OrderRepo
	Products *repos.ProductRepo
}

func NewReviewService(reviews *repos.ReviewRepo, orders *repos.OrderRepo, products *repos.ProductRepo) *ReviewService {
	return &ReviewService{Reviews: reviews, Orders: orders, Products: products}
}

// Create stores a review. verified_purchase is derived, never client supplied:
// it is set only when the user has a DELIVERED order containing the product.
func (s *ReviewService) Create(userID, productID string, rating int, title, body string) (domain.Review, error) {
	if _, err := s.Products.Get(productID); err != nil {
		return domain.Review{}, err
	}
	verified, err := s.Orders.UserHasDeliveredProduct(userID, productID)
	if err != nil {
		return domain.Review{}, err
	}
	rv := domain.Review{
		ID:               uuid.NewString(),
		ProductID:        productID,
		UserID:           userID,
		Rating:           rating,
		Title:            title,
		Body:             body,
		VerifiedPurchase: verified,
	}
	if err := s.Reviews.Insert(rv); err != nil {
		return domain.Review{}, err
	}
	return s.Reviews.Get(rv.ID)
}

type ProductReviews struct {
	Reviews       []domain.Review `json:"reviews"`
	AverageRating float64         `json:"average_rating"`
}

func (s *ReviewService) ListForProduct(productID string, page, pageSize int) (ProductReviews, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 10
	}
	rows, err := s.Reviews.ListByProduct(productID, pageSize, (page-1)*pageSize)
	if err != nil {
		return ProductReviews{}, err
	}
	avg, err := s.Reviews.AverageRating(productID)
	if err != nil {
		return ProductReviews{}, err
	}
	return ProductReviews{Reviews: rows, AverageRating: avg}, nil
}

// VoteHelpful returns the updated count and whether this vote was counted.
func (s *ReviewService) VoteHelpful(reviewID, userID string) (int, bool, error) {
	counted, err := s.Reviews.VoteHelpful(reviewID, userID)
	if err != nil {
		return 0, false, err
	}
	rv, err := s.Reviews.Get(reviewID)
	if err != nil {
		return 0, counted, err
	}
	return rv.HelpfulCount, counted, nil
}
