package repository

import (
	"context"
	"errors"

	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/entity"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type ProductRepository interface {
	GetProducts(ctx context.Context) ([]*entity.Product, error)
	SearchProducts(ctx context.Context, search, category string) ([]*entity.Product, error)
	GetProductByID(ctx context.Context, id int) (*entity.Product, error)
	GetProductsByIDs(ctx context.Context, ids []int) (map[int]*entity.Product, error)
	GetCategories(ctx context.Context) ([]string, error)
	CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id int) error
	UpdateStock(ctx context.Context, id, stock int) error
}

type OrderRepository interface {
	// CreateOrder decrements stock for every product in decrements and
	// appends the order in a single transaction. The assigned id is
	// max(existing)+1.
	CreateOrder(ctx context.Context, order *entity.Order, decrements map[int]int) (*entity.Order, error)
	GetOrders(ctx context.Context) ([]*entity.Order, error)
	GetOrdersByUser(ctx context.Context, userID string) ([]*entity.Order, error)
	GetOrderByID(ctx context.Context, id int) (*entity.Order, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	GetUserByID(ctx context.Context, id int) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error)
}
