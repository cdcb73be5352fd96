package repository

import (
	"context"
	"database/sql"
	"sort"

	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/entity"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db}
}

// CreateOrder commits a checkout: every stock decrement and the order rows
// happen in one transaction, so stock never moves without an order existing
// and vice versa. Products are locked in ascending id order to avoid
// deadlocks between concurrent checkouts.
func (r *MySQLOrderRepository) CreateOrder(ctx context.Context, order *entity.Order, decrements map[int]int) (*entity.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	productIDs := make([]int, 0, len(decrements))
	for id := range decrements {
		productIDs = append(productIDs, id)
	}
	sort.Ints(productIDs)

	for _, productID := range productIDs {
		quantity := decrements[productID]
		res, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?`,
			quantity, productID, quantity)
		if err != nil {
			return nil, err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			// the product vanished or another writer beat us to the stock
			return nil, ErrInsufficientStock
		}
	}

	// max(existing)+1 so deleted ids are reused
	var orderID int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM orders FOR UPDATE`).Scan(&orderID)
	if err != nil {
		return nil, err
	}

	orderQuery := `INSERT INTO orders (id, user_id, customer_name, customer_email, customer_address, total_amount, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, orderQuery, orderID, order.UserID, order.CustomerInfo.Name, order.CustomerInfo.Email, order.CustomerInfo.Address, order.TotalAmount, order.Status, order.CreatedAt)
	if err != nil {
		return nil, err
	}

	// Insert order items with batch
	itemQuery := `INSERT INTO order_items (order_id, product_id, name, price, quantity, line_total) VALUES `

	var values []interface{}
	for _, item := range order.Items {
		itemQuery += "(?, ?, ?, ?, ?, ?),"
		values = append(values, orderID, item.ProductID, item.Name, item.Price, item.Quantity, item.Total)
	}

	// Remove the trailing comma
	itemQuery = itemQuery[:len(itemQuery)-1]

	_, err = tx.ExecContext(ctx, itemQuery, values...)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	order.ID = orderID
	return order, nil
}

const orderColumns = `id, user_id, customer_name, customer_email, customer_address, total_amount, status, created_at`

func (r *MySQLOrderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		var o entity.Order
		err := rows.Scan(&o.ID, &o.UserID, &o.CustomerInfo.Name, &o.CustomerInfo.Email, &o.CustomerInfo.Address, &o.TotalAmount, &o.Status, &o.CreatedAt)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (r *MySQLOrderRepository) loadItems(ctx context.Context, order *entity.Order) error {
	query := `SELECT product_id, name, price, quantity, line_total FROM order_items WHERE order_id = ?`
	rows, err := r.db.QueryContext(ctx, query, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item entity.OrderItem
		err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.Total)
		if err != nil {
			return err
		}
		order.Items = append(order.Items, item)
	}

	return rows.Err()
}

func (r *MySQLOrderRepository) GetOrders(ctx context.Context) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.queryOrders(ctx, query)
}

func (r *MySQLOrderRepository) GetOrdersByUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = ? ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, userID)
}

func (r *MySQLOrderRepository) GetOrderByID(ctx context.Context, id int) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`

	var o entity.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(&o.ID, &o.UserID, &o.CustomerInfo.Name, &o.CustomerInfo.Email, &o.CustomerInfo.Address, &o.TotalAmount, &o.Status, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}

	return &o, nil
}
