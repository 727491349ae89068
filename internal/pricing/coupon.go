package pricing

import (
	"time"

	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/entity"
)

// IsApplicable reports whether a coupon may be applied to a subtotal at the
// given instant. All conditions must hold: the coupon is active, the instant
// falls inside the validity window (nil bounds are open-ended), the subtotal
// meets the minimum spend, and the usage limit is not exhausted (nil limit is
// unlimited).
//
// Called twice per checkout: once for the non-authoritative preview, once
// inside the checkout transaction with the coupon row read under lock.
func IsApplicable(coupon *entity.Coupon, now time.Time, subtotalPaise int64) bool {
	if coupon == nil || !coupon.IsActive {
		return false
	}
	if coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom) {
		return false
	}
	if coupon.ValidTo != nil && now.After(*coupon.ValidTo) {
		return false
	}
	if subtotalPaise < coupon.MinAmountPaise {
		return false
	}
	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return false
	}
	return true
}
