package migrations

import (
	"database/sql"
	"time"
)

func execWithRetry(db *sql.DB, query string, retries int) error {
	_, err := db.Exec(query)
	for i := 0; err != nil && i < retries; i++ {
		time.Sleep(1 * time.Second)
		_, err = db.Exec(query)
	}
	return err
}

// AutoMigrateProducts creates the products table if it does not exist.
func AutoMigrateProducts(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS products (
			id INT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			category VARCHAR(100) NOT NULL,
			price DOUBLE NOT NULL,
			stock INT NOT NULL,
			image VARCHAR(512) NOT NULL
		);
	`
	return execWithRetry(db, query, retries)
}

// AutoMigrateUsers creates the users table if it does not exist.
func AutoMigrateUsers(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS users (
			id INT PRIMARY KEY,
			username VARCHAR(50) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(10) NOT NULL,
			created_at DATETIME NOT NULL
		);
	`
	return execWithRetry(db, query, retries)
}

// AutoMigrateOrders creates the orders table if it does not exist.
func AutoMigrateOrders(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS orders (
			id INT PRIMARY KEY,
			user_id VARCHAR(100) NOT NULL,
			customer_name VARCHAR(255) NOT NULL,
			customer_email VARCHAR(255) NOT NULL,
			customer_address TEXT NOT NULL,
			total_amount DOUBLE NOT NULL,
			status VARCHAR(20) NOT NULL,
			created_at DATETIME NOT NULL
		);
	`
	return execWithRetry(db, query, retries)
}

// AutoMigrateOrderItems creates the order_items table if it does not exist.
func AutoMigrateOrderItems(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS order_items (
			id INT AUTO_INCREMENT PRIMARY KEY,
			order_id INT NOT NULL,
			product_id INT NOT NULL,
			name VARCHAR(255) NOT NULL,
			price DOUBLE NOT NULL,
			quantity INT NOT NULL,
			line_total DOUBLE NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
		);
	`
	return execWithRetry(db, query, retries)
}

// SeedProducts inserts starter catalog rows when the table is empty.
func SeedProducts(db *sql.DB) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seed := []struct {
		name, description, category, image string
		price                              float64
		stock                              int
	}{
		{"Wireless Headphones", "Over-ear Bluetooth headphones with noise cancellation", "audio", "https://via.placeholder.com/500?text=Headphones", 129.99, 25},
		{"Mechanical Keyboard", "Tenkeyless keyboard with hot-swappable switches", "accessories", "https://via.placeholder.com/500?text=Keyboard", 89.50, 40},
		{"4K Monitor", "27-inch IPS display with USB-C input", "displays", "https://via.placeholder.com/500?text=Monitor", 349.00, 12},
		{"USB-C Hub", "7-in-1 hub with HDMI and card reader", "accessories", "https://via.placeholder.com/500?text=Hub", 39.99, 60},
		{"Smart Speaker", "Voice-controlled speaker with multi-room audio", "audio", "https://via.placeholder.com/500?text=Speaker", 59.00, 30},
	}

	for i, p := range seed {
		_, err := db.Exec(
			`INSERT INTO products (id, name, description, category, price, stock, image) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			i+1, p.name, p.description, p.category, p.price, p.stock, p.image,
		)
		if err != nil {
			return err
		}
	}

	return nil
}
