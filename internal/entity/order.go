package entity

import "time"

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

type Order struct {
	ID              int       `json:"id"`
	OrderNumber     string    `json:"order_number"`
	UserEmail       string    `json:"user_email"`
	CustomerName    string    `json:"customer_name"`
	Phone           string    `json:"phone"`
	AddressLine1    string    `json:"address_line1"`
	AddressLine2    string    `json:"address_line2,omitempty"`
	City            string    `json:"city"`
	State           string    `json:"state"`
	Pincode         string    `json:"pincode"`
	ProductID       int       `json:"product_id"`
	SizeLabel       string    `json:"size_label"` // copied at purchase time, not a FK
	Quantity        int       `json:"quantity"`
	UnitPricePaise  int64     `json:"unit_price_paise"`
	DiscountPaise   int64     `json:"discount_paise"`
	TotalPaise      int64     `json:"total_paise"`
	CouponCode      string    `json:"coupon_code,omitempty"` // copied at purchase time, not a FK
	PaymentStatus   string    `json:"payment_status"`
	PaymentProvider string    `json:"payment_provider"`
	AdminNote       string    `json:"admin_note,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CheckoutRequest is the checkout form payload as bound from the client.
type CheckoutRequest struct {
	ProductID     int    `json:"product_id"`
	SizeLabel     string `json:"size_label"`
	Quantity      int    `json:"quantity"`
	CouponCode    string `json:"coupon_code"`
	UserEmail     string `json:"user_email"`
	CustomerName  string `json:"customer_name"`
	Phone         string `json:"phone"`
	AddressLine1  string `json:"address_line1"`
	AddressLine2  string `json:"address_line2"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
	IdempotentKey string `json:"-"`
}

/*
Mysql Table

CREATE TABLE orders (
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
	updated_at DATETIME NOT NULL
);

*/
