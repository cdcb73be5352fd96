package entity

type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
}

/*
Mysql Schema:

CREATE TABLE products (
	id INT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	description TEXT NOT NULL,
	category VARCHAR(100) NOT NULL,
	price DOUBLE NOT NULL,
	stock INT NOT NULL,
	image VARCHAR(512) NOT NULL
);

Ids are assigned by the application as max(existing)+1, not AUTO_INCREMENT,
so a deleted id becomes available again.
*/
