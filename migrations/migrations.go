package migrations

import (
	"database/sql"
	"time"
)

// AutoMigrateProducts creates the products table if it does not exist.
func AutoMigrateProducts(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS products (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			image_url VARCHAR(512) NOT NULL DEFAULT '',
			currency VARCHAR(3) NOT NULL DEFAULT 'INR',
			base_price_paise BIGINT NOT NULL,
			out_of_stock BOOLEAN NOT NULL DEFAULT FALSE,
			active BOOLEAN NOT NULL DEFAULT TRUE
		);
	`
	return execWithRetry(retries, db, query)
}

// AutoMigrateProductSizes creates the product_sizes table if it does not exist.
func AutoMigrateProductSizes(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS product_sizes (
			id INT AUTO_INCREMENT PRIMARY KEY,
			product_id INT NOT NULL,
			label VARCHAR(50) NOT NULL,
			stock INT NOT NULL DEFAULT 0,
			price_override_paise BIGINT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
		);
	`
	return execWithRetry(retries, db, query)
}

// AutoMigrateCoupons creates the coupons table if it does not exist.
func AutoMigrateCoupons(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS coupons (
			id INT AUTO_INCREMENT PRIMARY KEY,
			code VARCHAR(50) NOT NULL UNIQUE,
			kind VARCHAR(10) NOT NULL,
			value BIGINT NOT NULL,
			min_amount_paise BIGINT NOT NULL DEFAULT 0,
			valid_from DATETIME NULL,
			valid_to DATETIME NULL,
			usage_limit INT NULL,
			used_count INT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		);
	`
	return execWithRetry(retries, db, query)
}

// AutoMigrateOrders creates the orders table if it does not exist. The
// UNIQUE index on order_number backs the checkout coordinator's retry on
// duplicate numbers.
func AutoMigrateOrders(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS orders (
			id INT AUTO_INCREMENT PRIMARY KEY,
			order_number VARCHAR(20) NOT NULL UNIQUE,
			user_email VARCHAR(255) NOT NULL,
			customer_name VARCHAR(255) NOT NULL,
			phone VARCHAR(20) NOT NULL,
			address_line1 VARCHAR(255) NOT NULL,
			address_line2 VARCHAR(255) NULL,
			city VARCHAR(100) NOT NULL,
			state VARCHAR(100) NOT NULL,
			pincode VARCHAR(10) NOT NULL,
			product_id INT NOT NULL,
			size_label VARCHAR(50) NOT NULL,
			quantity INT NOT NULL,
			unit_price_paise BIGINT NOT NULL,
			discount_paise BIGINT NOT NULL DEFAULT 0,
			total_paise BIGINT NOT NULL,
			coupon_code VARCHAR(50) NULL,
			payment_status VARCHAR(20) NOT NULL,
			payment_provider VARCHAR(50) NOT NULL,
			admin_note TEXT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			INDEX idx_orders_created_at (created_at),
			INDEX idx_orders_user_email (user_email)
		);
	`
	return execWithRetry(retries, db, query)
}

func execWithRetry(retries int, db *sql.DB, query string) error {
	_, err := db.Exec(query)
	for i := 0; i < retries && err != nil; i++ {
		time.Sleep(1 * time.Second)
		_, err = db.Exec(query)
	}
	return err
}
