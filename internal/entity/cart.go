package entity

// CartLine is what the cart actually stores: a desired quantity of a product.
type CartLine struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// CartItem is a cart line joined against the current catalog row.
type CartItem struct {
	Product
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"`
}
