package service

import (
	"context"
	"errors"

	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/apperr"
	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/entity"
	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/repository"
)

type CartService struct {
	carts       *repository.CartStore
	productRepo repository.ProductRepository
}

// NewCartService creates a new instance of CartService.
func NewCartService(carts *repository.CartStore, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		carts:       carts,
		productRepo: productRepo,
	}
}

func resolveUser(userID string) string {
	if userID == "" {
		return defaultUserID
	}
	return userID
}

// Add puts quantity of a product into the user's cart, merging with an
// existing line. The merged quantity is validated against current stock.
func (s *CartService) Add(ctx context.Context, userID string, productID, quantity int) ([]entity.CartLine, error) {
	userID = resolveUser(userID)
	if quantity <= 0 {
		return nil, apperr.Validation("quantity must be greater than zero")
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		logger.Error().Err(err).Msgf("Error getting product by ID %d", productID)
		return nil, apperr.Persistence("failed to add item to cart", err)
	}

	lines, err := s.carts.Add(userID, productID, quantity, product.Stock)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, apperr.Conflict("insufficient stock")
		}
		return nil, apperr.Persistence("failed to add item to cart", err)
	}

	return lines, nil
}

// UpdateQuantity sets a line's quantity; zero or negative removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, productID, quantity int) ([]entity.CartLine, error) {
	userID = resolveUser(userID)

	lines, err := s.carts.SetQuantity(userID, productID, quantity)
	if err != nil {
		if errors.Is(err, repository.ErrCartLineNotFound) {
			return nil, apperr.NotFound("item not found in cart")
		}
		return nil, apperr.Persistence("failed to update cart", err)
	}

	return lines, nil
}

func (s *CartService) Remove(userID string, productID int) []entity.CartLine {
	return s.carts.Remove(resolveUser(userID), productID)
}

func (s *CartService) Clear(userID string) {
	s.carts.Clear(resolveUser(userID))
}

// List joins the cart lines against the current catalog. Lines whose
// product no longer exists are dropped silently.
func (s *CartService) List(ctx context.Context, userID string) ([]entity.CartItem, error) {
	userID = resolveUser(userID)

	lines := s.carts.Lines(userID)
	if len(lines) == 0 {
		return []entity.CartItem{}, nil
	}

	ids := make([]int, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	products, err := s.productRepo.GetProductsByIDs(ctx, ids)
	if err != nil {
		logger.Error().Err(err).Msgf("Error loading cart products for user %s", userID)
		return nil, apperr.Persistence("failed to fetch cart", err)
	}

	items := make([]entity.CartItem, 0, len(lines))
	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			continue
		}
		items = append(items, entity.CartItem{
			Product:  *product,
			Quantity: line.Quantity,
			Total:    product.Price * float64(line.Quantity),
		})
	}

	return items, nil
}
