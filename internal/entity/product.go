package entity

type Product struct {
	ID             int           `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	ImageURL       string        `json:"image_url"`
	Currency       string        `json:"currency"`
	BasePricePaise int64         `json:"base_price_paise"`
	OutOfStock     bool          `json:"out_of_stock"`
	Active         bool          `json:"active"`
	Sizes          []SizeVariant `json:"sizes,omitempty"`
}

type SizeVariant struct {
	ID                 int    `json:"id"`
	ProductID          int    `json:"product_id"`
	Label              string `json:"label"`
	Stock              int    `json:"stock"`
	PriceOverridePaise *int64 `json:"price_override_paise"`
	IsActive           bool   `json:"is_active"`
}

/*
Mysql Tables

CREATE TABLE products (
	id INT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	description TEXT NOT NULL,
	image_url VARCHAR(512) NOT NULL DEFAULT '',
	currency VARCHAR(3) NOT NULL DEFAULT 'INR',
	base_price_paise BIGINT NOT NULL,
	out_of_stock BOOLEAN NOT NULL DEFAULT FALSE,
	active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE product_sizes (
	id INT AUTO_INCREMENT PRIMARY KEY,
	product_id INT NOT NULL REFERENCES products(id),
	label VARCHAR(50) NOT NULL,
	stock INT NOT NULL DEFAULT 0,
	price_override_paise BIGINT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE
);

*/
