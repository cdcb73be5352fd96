package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/entity"
)

type MySQLProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *MySQLProductRepository {
	return &MySQLProductRepository{db}
}

const productColumns = `id, name, description, category, price, stock, image`

func scanProduct(row interface{ Scan(...interface{}) error }) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Stock, &p.Image)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MySQLProductRepository) GetProducts(ctx context.Context) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *MySQLProductRepository) SearchProducts(ctx context.Context, search, category string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`

	var conds []string
	var args []interface{}
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		conds = append(conds, `(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`)
		args = append(args, pattern, pattern)
	}
	if category != "" && !strings.EqualFold(category, "all") {
		conds = append(conds, `LOWER(category) = ?`)
		args = append(args, strings.ToLower(category))
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *MySQLProductRepository) GetProductByID(ctx context.Context, id int) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *MySQLProductRepository) GetProductsByIDs(ctx context.Context, ids []int) (map[int]*entity.Product, error) {
	products := make(map[int]*entity.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id IN (?` + strings.Repeat(",?", len(ids)-1) + `)`
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products[p.ID] = p
	}

	return products, rows.Err()
}

func (r *MySQLProductRepository) GetCategories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT category FROM products ORDER BY category`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (r *MySQLProductRepository) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// max(existing)+1 so deleted ids are reused
	var id int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM products FOR UPDATE`).Scan(&id)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO products (id, name, description, category, price, stock, image) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query, id, product.Name, product.Description, product.Category, product.Price, product.Stock, product.Image)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	product.ID = id
	return product, nil
}

func (r *MySQLProductRepository) UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	query := `UPDATE products SET name = ?, description = ?, category = ?, price = ?, stock = ?, image = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, product.Name, product.Description, product.Category, product.Price, product.Stock, product.Image, product.ID)
	if err != nil {
		return nil, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrProductNotFound
	}

	return product, nil
}

func (r *MySQLProductRepository) DeleteProduct(ctx context.Context, id int) error {
	query := `DELETE FROM products WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *MySQLProductRepository) UpdateStock(ctx context.Context, id, stock int) error {
	query := `UPDATE products SET stock = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, stock, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProductNotFound
	}

	return nil
}
