package entity

import "time"

type Order struct {
	ID           int          `json:"id"`
	UserID       string       `json:"userId"`
	Items        []OrderItem  `json:"items"`
	CustomerInfo CustomerInfo `json:"customerInfo"`
	TotalAmount  float64      `json:"totalAmount"`
	Status       string       `json:"status"` // e.g., "pending"
	CreatedAt    time.Time    `json:"createdAt"`
}

type OrderItem struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
}

type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

/*
Mysql Schema:

CREATE TABLE orders (
	id INT PRIMARY KEY,
	user_id VARCHAR(100) NOT NULL,
	customer_name VARCHAR(255) NOT NULL,
	customer_email VARCHAR(255) NOT NULL,
	customer_address TEXT NOT NULL,
	total_amount DOUBLE NOT NULL,
	status VARCHAR(20) NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE order_items (
	id INT AUTO_INCREMENT PRIMARY KEY,
	order_id INT NOT NULL,
	product_id INT NOT NULL,
	name VARCHAR(255) NOT NULL,
	price DOUBLE NOT NULL,
	quantity INT NOT NULL,
	line_total DOUBLE NOT NULL,
	FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
);
*/
