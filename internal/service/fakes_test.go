package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/entity"
	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/repository"
)

// ---- in-memory repositories honoring the same contracts as the MySQL ones ----

type memProductRepo struct {
	mu       sync.Mutex
	products map[int]*entity.Product
	failWith error
}

func newMemProductRepo(products ...*entity.Product) *memProductRepo {
	r := &memProductRepo{products: make(map[int]*entity.Product)}
	for _, p := range products {
		cp := *p
		r.products[p.ID] = &cp
	}
	return r
}

func (r *memProductRepo) GetProducts(ctx context.Context) ([]*entity.Product, error) {
	return r.SearchProducts(ctx, "", "")
}

func (r *memProductRepo) SearchProducts(_ context.Context, search, category string) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}

	var out []*entity.Product
	for _, p := range r.products {
		if search != "" {
			s := strings.ToLower(search)
			if !strings.Contains(strings.ToLower(p.Name), s) && !strings.Contains(strings.ToLower(p.Description), s) {
				continue
			}
		}
		if category != "" && !strings.EqualFold(category, "all") && !strings.EqualFold(p.Category, category) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memProductRepo) GetProductByID(_ context.Context, id int) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetProductsByIDs(_ context.Context, ids []int) (map[int]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := make(map[int]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *memProductRepo) GetCategories(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, p := range r.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *memProductRepo) CreateProduct(_ context.Context, product *entity.Product) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := 0
	for existing := range r.products {
		if existing > id {
			id = existing
		}
	}
	product.ID = id + 1
	cp := *product
	r.products[cp.ID] = &cp
	return product, nil
}

func (r *memProductRepo) UpdateProduct(_ context.Context, product *entity.Product) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *product
	r.products[cp.ID] = &cp
	return product, nil
}

func (r *memProductRepo) DeleteProduct(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) UpdateStock(_ context.Context, id, stock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.Stock = stock
	return nil
}

// applyDecrements atomically checks and applies every decrement, the same
// all-or-nothing guarantee the MySQL transaction gives.
func (r *memProductRepo) applyDecrements(decrements map[int]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, qty := range decrements {
		p, ok := r.products[id]
		if !ok || p.Stock < qty {
			return repository.ErrInsufficientStock
		}
	}
	for id, qty := range decrements {
		r.products[id].Stock -= qty
	}
	return nil
}

func (r *memProductRepo) stockOf(id int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return -1
	}
	return p.Stock
}

type memOrderRepo struct {
	mu         sync.Mutex
	products   *memProductRepo
	orders     map[int]*entity.Order
	failCreate error
}

func newMemOrderRepo(products *memProductRepo) *memOrderRepo {
	return &memOrderRepo{products: products, orders: make(map[int]*entity.Order)}
}

func (r *memOrderRepo) CreateOrder(_ context.Context, order *entity.Order, decrements map[int]int) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return nil, r.failCreate
	}
	if err := r.products.applyDecrements(decrements); err != nil {
		return nil, err
	}

	id := 0
	for existing := range r.orders {
		if existing > id {
			id = existing
		}
	}
	order.ID = id + 1
	cp := *order
	r.orders[cp.ID] = &cp
	return order, nil
}

func (r *memOrderRepo) list(filter func(*entity.Order) bool) []*entity.Order {
	var out []*entity.Order
	for _, o := range r.orders {
		if filter == nil || filter(o) {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memOrderRepo) GetOrders(_ context.Context) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(nil), nil
}

func (r *memOrderRepo) GetOrdersByUser(_ context.Context, userID string) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(o *entity.Order) bool { return o.UserID == userID }), nil
}

func (r *memOrderRepo) GetOrderByID(_ context.Context, id int) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) deleteOrder(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[int]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int]*entity.User)}
}

func (r *memUserRepo) CreateUser(_ context.Context, user *entity.User) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := 0
	for existing := range r.users {
		if existing > id {
			id = existing
		}
	}
	user.ID = id + 1
	cp := *user
	r.users[cp.ID] = &cp
	return user, nil
}

func (r *memUserRepo) GetUserByID(_ context.Context, id int) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) GetUserByEmailOrUsername(_ context.Context, email, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email || u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}
