package repository

import (
	"errors"
	"sync"

	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/entity"
)

var ErrCartLineNotFound = errors.New("item not found in cart")

// CartStore is the process-wide cart state: userID -> cart lines. It lives
// and dies with the process and is injected where needed instead of being a
// package-level singleton.
type CartStore struct {
	carts sync.Map // map[string]*userCart
}

// userCart owns the line list for one user; its mutex keeps concurrent
// mutations of the same cart from corrupting the slice. Different users
// never contend.
type userCart struct {
	mu    sync.Mutex
	lines []entity.CartLine
}

func NewCartStore() *CartStore {
	return &CartStore{}
}

func (s *CartStore) cart(userID string) *userCart {
	if v, ok := s.carts.Load(userID); ok {
		return v.(*userCart)
	}
	v, _ := s.carts.LoadOrStore(userID, &userCart{})
	return v.(*userCart)
}

// Add merges quantity into an existing line for the product, or appends a
// new one. maxStock caps the merged quantity; exceeding it returns
// ErrInsufficientStock and leaves the cart unchanged.
func (s *CartStore) Add(userID string, productID, quantity, maxStock int) ([]entity.CartLine, error) {
	c := s.cart(userID)
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			merged := c.lines[i].Quantity + quantity
			if merged > maxStock {
				return nil, ErrInsufficientStock
			}
			c.lines[i].Quantity = merged
			return copyLines(c.lines), nil
		}
	}

	if quantity > maxStock {
		return nil, ErrInsufficientStock
	}
	c.lines = append(c.lines, entity.CartLine{ProductID: productID, Quantity: quantity})
	return copyLines(c.lines), nil
}

// SetQuantity replaces a line's quantity; zero or negative removes the line.
func (s *CartStore) SetQuantity(userID string, productID, quantity int) ([]entity.CartLine, error) {
	c := s.cart(userID)
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			if quantity <= 0 {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
			} else {
				c.lines[i].Quantity = quantity
			}
			return copyLines(c.lines), nil
		}
	}

	return nil, ErrCartLineNotFound
}

func (s *CartStore) Remove(userID string, productID int) []entity.CartLine {
	c := s.cart(userID)
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			break
		}
	}
	return copyLines(c.lines)
}

func (s *CartStore) Clear(userID string) {
	c := s.cart(userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

func (s *CartStore) Lines(userID string) []entity.CartLine {
	c := s.cart(userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyLines(c.lines)
}

func copyLines(lines []entity.CartLine) []entity.CartLine {
	out := make([]entity.CartLine, len(lines))
	copy(out, lines)
	return out
}
