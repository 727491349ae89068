package pricing

import (
	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/entity"
)

// UnitPrice returns the price of one unit in paise. A size-level override
// wins over the product base price.
func UnitPrice(product *entity.Product, size *entity.SizeVariant) int64 {
	if size != nil && size.PriceOverridePaise != nil {
		return *size.PriceOverridePaise
	}
	return product.BasePricePaise
}

// Subtotal returns unit × qty. The caller clamps qty to a minimum of 1
// before calling.
func Subtotal(unitPaise int64, qty int) int64 {
	return unitPaise * int64(qty)
}

// ApplyDiscount computes the discount a coupon grants on a subtotal and the
// resulting total, both in paise. A nil coupon means no discount.
//
// PERCENT discounts round down (floor), so the customer never receives more
// than the nominal percentage. AMOUNT discounts are capped at the subtotal so
// the total can never go negative.
func ApplyDiscount(subtotalPaise int64, coupon *entity.Coupon) (discount, total int64) {
	if coupon == nil {
		return 0, subtotalPaise
	}

	switch coupon.Kind {
	case entity.CouponKindPercent:
		pct := coupon.Value
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		discount = subtotalPaise * pct / 100
	case entity.CouponKindAmount:
		discount = coupon.Value
		if discount < 0 {
			discount = 0
		}
		if discount > subtotalPaise {
			discount = subtotalPaise
		}
	}

	total = subtotalPaise - discount
	if total < 0 {
		total = 0
	}
	return discount, total
}
