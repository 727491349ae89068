package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/entity"
	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/repository"
)

var (
	ErrCouponCodeRequired = errors.New("coupon code is required")
	ErrCouponKindInvalid  = errors.New("coupon kind must be PERCENT or AMOUNT")
	ErrCouponValueInvalid = errors.New("coupon value out of range")
)

// CouponService is the admin-facing side of coupons. Checkout reads coupons
// through its own transaction, never through here.
type CouponService struct {
	couponRepo repository.CouponRepository
}

// NewCouponService creates a new instance of CouponService.
func NewCouponService(couponRepo repository.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo}
}

func (s *CouponService) GetCoupons(ctx context.Context) ([]*entity.Coupon, error) {
	coupons, err := s.couponRepo.GetCoupons(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting coupons")
		return nil, err
	}
	return coupons, nil
}

func (s *CouponService) CreateCoupon(ctx context.Context, coupon *entity.Coupon) (*entity.Coupon, error) {
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	coupon.Kind = strings.ToUpper(strings.TrimSpace(coupon.Kind))
	if coupon.Code == "" {
		return nil, ErrCouponCodeRequired
	}
	if err := validateCouponValue(coupon); err != nil {
		return nil, err
	}

	created, err := s.couponRepo.CreateCoupon(ctx, coupon)
	if err != nil {
		logger.Error().Err(err).Str("code", coupon.Code).Msg("Error creating coupon")
		return nil, err
	}
	return created, nil
}

func (s *CouponService) UpdateCoupon(ctx context.Context, coupon *entity.Coupon) (*entity.Coupon, error) {
	coupon.Kind = strings.ToUpper(strings.TrimSpace(coupon.Kind))
	if err := validateCouponValue(coupon); err != nil {
		return nil, err
	}

	updated, err := s.couponRepo.UpdateCoupon(ctx, coupon)
	if err != nil {
		logger.Error().Err(err).Int("id", coupon.ID).Msg("Error updating coupon")
		return nil, err
	}
	return updated, nil
}

func (s *CouponService) DeleteCoupon(ctx context.Context, id int) error {
	if err := s.couponRepo.DeleteCoupon(ctx, id); err != nil {
		logger.Error().Err(err).Int("id", id).Msg("Error deleting coupon")
		return err
	}
	return nil
}

// validateCouponValue enforces the creation-time value rules: PERCENT must
// lie in [1,100], AMOUNT must be non-negative paise. The pricing engine
// still clamps defensively at apply time.
func validateCouponValue(coupon *entity.Coupon) error {
	switch coupon.Kind {
	case entity.CouponKindPercent:
		if coupon.Value < 1 || coupon.Value > 100 {
			return ErrCouponValueInvalid
		}
	case entity.CouponKindAmount:
		if coupon.Value < 0 {
			return ErrCouponValueInvalid
		}
	default:
		return ErrCouponKindInvalid
	}
	if coupon.MinAmountPaise < 0 {
		return ErrCouponValueInvalid
	}
	return nil
}
