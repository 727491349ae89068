package repository

import (
	"context"
	"database/sql"

	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/entity"
)

type CouponRepository struct {
	db *sql.DB
}

func NewCouponRepository(db *sql.DB) *CouponRepository {
	return &CouponRepository{db}
}

// GetCouponByCode is the plain (unlocked) read used by the checkout preview.
// The authoritative read happens inside the checkout transaction.
func (r *CouponRepository) GetCouponByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	query := `SELECT id, code, kind, value, min_amount_paise, valid_from, valid_to, usage_limit, used_count, is_active FROM coupons WHERE code = ?`

	coupon := &entity.Coupon{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&coupon.ID, &coupon.Code, &coupon.Kind, &coupon.Value, &coupon.MinAmountPaise,
		&coupon.ValidFrom, &coupon.ValidTo, &coupon.UsageLimit, &coupon.UsedCount, &coupon.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return coupon, nil
}

func (r *CouponRepository) GetCoupons(ctx context.Context) ([]*entity.Coupon, error) {
	query := `SELECT id, code, kind, value, min_amount_paise, valid_from, valid_to, usage_limit, used_count, is_active FROM coupons ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []*entity.Coupon
	for rows.Next() {
		coupon := &entity.Coupon{}
		err := rows.Scan(
			&coupon.ID, &coupon.Code, &coupon.Kind, &coupon.Value, &coupon.MinAmountPaise,
			&coupon.ValidFrom, &coupon.ValidTo, &coupon.UsageLimit, &coupon.UsedCount, &coupon.IsActive,
		)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, coupon)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return coupons, nil
}

func (r *CouponRepository) CreateCoupon(ctx context.Context, coupon *entity.Coupon) (*entity.Coupon, error) {
	query := `INSERT INTO coupons (code, kind, value, min_amount_paise, valid_from, valid_to, usage_limit, used_count, is_active) VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)`
	res, err := r.db.ExecContext(ctx, query, coupon.Code, coupon.Kind, coupon.Value, coupon.MinAmountPaise, coupon.ValidFrom, coupon.ValidTo, coupon.UsageLimit, coupon.IsActive)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	coupon.ID = int(id)
	return coupon, nil
}

func (r *CouponRepository) UpdateCoupon(ctx context.Context, coupon *entity.Coupon) (*entity.Coupon, error) {
	query := `UPDATE coupons SET kind = ?, value = ?, min_amount_paise = ?, valid_from = ?, valid_to = ?, usage_limit = ?, is_active = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, coupon.Kind, coupon.Value, coupon.MinAmountPaise, coupon.ValidFrom, coupon.ValidTo, coupon.UsageLimit, coupon.IsActive, coupon.ID)
	if err != nil {
		return nil, err
	}
	return coupon, nil
}

func (r *CouponRepository) DeleteCoupon(ctx context.Context, id int) error {
	query := `DELETE FROM coupons WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
