package services

import "verdantshop/internal/repos"

type WishlistService struct {
	Wish     *repos.WishlistRepo
	Products *repos.ProductRepo
}

func NewWishlistService(wish *repos.WishlistRepo, products *repos.ProductRepo) *WishlistService {
	return &WishlistService{Wish: wish, Products: products}
}

func (s *WishlistService) Add(sessionID, productID string) error {
	if _, err := s.Products.Get(productID); err != nil {
		return err
	}
	wid, err := s.Wish.Ensure(sessionID)
	if err != nil {
		return err
	}
	return s.Wish.Add(wid, productID)
}

func (s *WishlistService) Remove(sessionID, productID string) error {
	wid, err := s.Wish.Ensure(sessionID)
	if err != nil {
		return err
	}
	return s.Wish.Remove(wid, productID)
}

func (s *WishlistService) List(sessionID string) ([]repos.WishlistRow, error) {
	wid, err := s.Wish.Ensure(sessionID)
	if err != nil {
		return nil, err
	}
	return s.Wish.List(wid)
}
