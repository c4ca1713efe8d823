package catalog

import "github.com/shopspring/decimal"

// DemoProducts is the catalog inserted into an empty store at startup.
func DemoProducts() []NewProduct {
	return []NewProduct{
		demo("Wireless Headphones", "79.99", "Premium noise-cancelling headphones", "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=300&h=300&fit=crop"),
		demo("Smart Watch", "199.99", "Feature-rich smartwatch with health tracking", "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=300&h=300&fit=crop"),
		demo("Laptop Stand", "49.99", "Ergonomic aluminum laptop stand", "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=300&h=300&fit=crop"),
		demo("Mechanical Keyboard", "129.99", "RGB mechanical gaming keyboard", "https://images.unsplash.com/photo-1587829741301-dc798b83add3?w=300&h=300&fit=crop"),
		demo("USB-C Hub", "39.99", "Multi-port USB-C hub adapter", "https://images.unsplash.com/photo-1625842268584-8f3296236761?w=300&h=300&fit=crop"),
		demo("Wireless Mouse", "29.99", "Ergonomic wireless mouse", "https://images.unsplash.com/photo-1527814050087-3793815479db?w=300&h=300&fit=crop"),
		demo("Monitor Stand", "59.99", "Adjustable dual monitor stand", "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=300&h=300&fit=crop"),
		demo("Desk Lamp", "34.99", "LED desk lamp with adjustable brightness", "https://images.unsplash.com/photo-1507473885765-e6c2c5678e42?w=300&h=300&fit=crop"),
	}
}

func demo(name, price, description, image string) NewProduct {
	return NewProduct{
		Name:        name,
		Price:       decimal.RequireFromString(price),
		Description: description,
		Image:       image,
	}
}
