package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/apperr"
	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/entity"
	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const (
	productCacheTTL  = 1 * time.Minute
	placeholderImage = "https://via.placeholder.com/500?text=No+Image"
)

type ProductService struct {
	productRepo repository.ProductRepository
	rdb         *redis.Client
}

// NewProductService creates a new instance of ProductService.
func NewProductService(productRepo repository.ProductRepository, rdb *redis.Client) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		rdb:         rdb,
	}
}

// ProductInput is a full product payload for creation.
type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
}

// ProductPatch is a partial update. Nil means "leave unchanged"; a pointer
// to a zero value (empty description, price 0) is an explicit value and is
// applied.
type ProductPatch struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Image       *string  `json:"image"`
}

func (s *ProductService) SearchProducts(ctx context.Context, search, category string) ([]*entity.Product, error) {
	products, err := s.productRepo.SearchProducts(ctx, search, category)
	if err != nil {
		logger.Error().Err(err).Msg("Error searching products")
		return nil, apperr.Persistence("failed to fetch products", err)
	}
	if products == nil {
		products = []*entity.Product{}
	}
	return products, nil
}

// GetProduct retrieves a product, reading through the cache.
func (s *ProductService) GetProduct(ctx context.Context, id int) (*entity.Product, error) {
	key := fmt.Sprintf("product:%d", id)

	if os.Getenv("ENV") != "test" {
		productCache, err := s.rdb.Get(ctx, key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			logger.Error().Err(err).Msgf("Error getting product %d from cache", id)
		}
		if productCache != "" {
			var product entity.Product
			if err := json.Unmarshal([]byte(productCache), &product); err == nil {
				return &product, nil
			}
			logger.Error().Err(err).Msgf("Error unmarshalling cached product %d", id)
		}
	}

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		logger.Error().Err(err).Msgf("Error getting product by ID %d", id)
		return nil, apperr.Persistence("failed to fetch product", err)
	}

	s.cacheProduct(ctx, product)
	return product, nil
}

func (s *ProductService) GetCategories(ctx context.Context) ([]string, error) {
	categories, err := s.productRepo.GetCategories(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting categories")
		return nil, apperr.Persistence("failed to fetch categories", err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// CreateProduct creates a new catalog entry (admin surface).
func (s *ProductService) CreateProduct(ctx context.Context, in ProductInput) (*entity.Product, error) {
	if in.Name == "" || in.Category == "" {
		return nil, apperr.Validation("name, price, and category are required")
	}
	if in.Price < 0 {
		return nil, apperr.Validation("price must be >= 0")
	}
	if in.Stock < 0 {
		return nil, apperr.Validation("stock must be >= 0")
	}
	if in.Image == "" {
		in.Image = placeholderImage
	}

	product := &entity.Product{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Stock:       in.Stock,
		Image:       in.Image,
	}

	created, err := s.productRepo.CreateProduct(ctx, product)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating product")
		return nil, apperr.Persistence("failed to create product", err)
	}

	s.cacheProduct(ctx, created)
	return created, nil
}

// UpdateProduct applies a partial update to an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id int, patch ProductPatch) (*entity.Product, error) {
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		logger.Error().Err(err).Msgf("Error getting product by ID %d", id)
		return nil, apperr.Persistence("failed to fetch product", err)
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Stock != nil {
		product.Stock = *patch.Stock
	}
	if patch.Image != nil {
		product.Image = *patch.Image
	}

	if product.Name == "" || product.Category == "" {
		return nil, apperr.Validation("name and category must not be empty")
	}
	if product.Price < 0 {
		return nil, apperr.Validation("price must be >= 0")
	}
	if product.Stock < 0 {
		return nil, apperr.Validation("stock must be >= 0")
	}

	updated, err := s.productRepo.UpdateProduct(ctx, product)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		logger.Error().Err(err).Msgf("Error updating product %d", id)
		return nil, apperr.Persistence("failed to update product", err)
	}

	s.cacheProduct(ctx, updated)
	return updated, nil
}

// DeleteProduct removes a product (admin surface).
func (s *ProductService) DeleteProduct(ctx context.Context, id int) (*entity.Product, error) {
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		logger.Error().Err(err).Msgf("Error getting product by ID %d", id)
		return nil, apperr.Persistence("failed to fetch product", err)
	}

	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		logger.Error().Err(err).Msgf("Error deleting product %d", id)
		return nil, apperr.Persistence("failed to delete product", err)
	}

	if os.Getenv("ENV") != "test" {
		key := fmt.Sprintf("product:%d", id)
		if err := s.rdb.Del(ctx, key).Err(); err != nil {
			logger.Error().Err(err).Msgf("Error deleting product %d from cache", id)
		}
	}

	return product, nil
}

// SetStock overwrites a product's stock level (admin surface).
func (s *ProductService) SetStock(ctx context.Context, id, stock int) error {
	if stock < 0 {
		return apperr.Validation("stock must be >= 0")
	}

	err := s.productRepo.UpdateStock(ctx, id, stock)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return apperr.NotFound("product not found")
		}
		logger.Error().Err(err).Msgf("Error updating stock for product %d", id)
		return apperr.Persistence("failed to update stock", err)
	}

	if os.Getenv("ENV") != "test" {
		key := fmt.Sprintf("product:%d", id)
		if err := s.rdb.Del(ctx, key).Err(); err != nil {
			logger.Error().Err(err).Msgf("Error deleting product %d from cache", id)
		}
	}

	return nil
}

func (s *ProductService) cacheProduct(ctx context.Context, product *entity.Product) {
	if os.Getenv("ENV") == "test" {
		return
	}
	key := fmt.Sprintf("product:%d", product.ID)
	data, err := json.Marshal(product)
	if err != nil {
		logger.Error().Err(err).Msgf("Error marshalling product %d", product.ID)
		return
	}
	if err := s.rdb.Set(ctx, key, data, productCacheTTL).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error setting product %d in cache", product.ID)
	}
}
