package entity

import "time"

const (
	CouponKindPercent = "PERCENT"
	CouponKindAmount  = "AMOUNT"
)

type Coupon struct {
	ID             int        `json:"id"`
	Code           string     `json:"code"`
	Kind           string     `json:"kind"` // PERCENT or AMOUNT
	Value          int64      `json:"value"`
	MinAmountPaise int64      `json:"min_amount_paise"`
	ValidFrom      *time.Time `json:"valid_from"`
	ValidTo        *time.Time `json:"valid_to"`
	UsageLimit     *int       `json:"usage_limit"`
	UsedCount      int        `json:"used_count"`
	IsActive       bool       `json:"is_active"`
}

/*
Mysql Table

CREATE TABLE coupons (
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

*/
