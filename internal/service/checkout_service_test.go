package service

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/entity"
	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/repository"
)

const (
	productQueryPattern = `SELECT id, name, description, image_url, currency, base_price_paise, out_of_stock, active FROM products WHERE id = \? AND active = TRUE`
	sizeQueryPattern    = `SELECT id, product_id, label, stock, price_override_paise, is_active FROM product_sizes WHERE product_id = \? AND is_active = TRUE`
	decrementPattern    = `UPDATE product_sizes SET stock = stock - \? WHERE id = \? AND stock >= \?`
	couponLockPattern   = `SELECT id, code, kind, value, min_amount_paise, valid_from, valid_to, usage_limit, used_count, is_active FROM coupons WHERE code = \? FOR UPDATE`
	countPattern        = `SELECT COUNT\(\*\) FROM orders WHERE created_at >= \? AND created_at < \?`
	insertOrderPattern  = `INSERT INTO orders`
	bumpCouponPattern   = `UPDATE coupons SET used_count = used_count \+ 1 WHERE id = \?`
)

func newCheckoutServiceForTest(t *testing.T) (*CheckoutService, sqlmock.Sqlmock) {
	t.Helper()
	t.Setenv("ENV", "test")

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewCheckoutService(*repository.NewCheckoutRepository(db), *repository.NewCouponRepository(db), nil, nil)
	return svc, mock
}

func checkoutRequest() *entity.CheckoutRequest {
	return &entity.CheckoutRequest{
		ProductID:    1,
		SizeLabel:    "250g",
		Quantity:     2,
		UserEmail:    "buyer@example.com",
		CustomerName: "A Buyer",
		Phone:        "9999999999",
		AddressLine1: "12 Some Street",
		City:         "Hyderabad",
		State:        "Telangana",
		Pincode:      "500001",
	}
}

func expectProductLoad(mock sqlmock.Sqlmock, outOfStock bool, stock int) {
	mock.ExpectQuery(productQueryPattern).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "image_url", "currency", "base_price_paise", "out_of_stock", "active"}).
			AddRow(1, "Single Origin 250", "Whole bean coffee", "", "INR", 50000, outOfStock, true))
	mock.ExpectQuery(sizeQueryPattern).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "label", "stock", "price_override_paise", "is_active"}).
			AddRow(11, 1, "250G", stock, nil, true))
}

func welcomeCouponRow(usedCount int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "code", "kind", "value", "min_amount_paise", "valid_from", "valid_to", "usage_limit", "used_count", "is_active"}).
		AddRow(5, "WELCOME10", "PERCENT", 10, 0, nil, nil, 5, usedCount, true)
}

func TestPlaceOrderHappyPathWithCoupon(t *testing.T) {
	svc, mock := newCheckoutServiceForTest(t)

	mock.ExpectBegin()
	expectProductLoad(mock, false, 10)
	mock.ExpectExec(decrementPattern).WithArgs(2, 11, 2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(couponLockPattern).WithArgs("WELCOME10").WillReturnRows(welcomeCouponRow(0))
	mock.ExpectQuery(countPattern).WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(0))
	mock.ExpectExec(insertOrderPattern).WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(bumpCouponPattern).WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req := checkoutRequest()
	req.CouponCode = "welcome10"

	order, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 42, order.ID)
	assert.Equal(t, fmt.Sprintf("ORD-%d-0001", time.Now().UTC().Year()), order.OrderNumber)
	assert.Equal(t, int64(50000), order.UnitPricePaise)
	assert.Equal(t, int64(10000), order.DiscountPaise)
	assert.Equal(t, int64(90000), order.TotalPaise)
	assert.Equal(t, "WELCOME10", order.CouponCode)
	assert.Equal(t, "250G", order.SizeLabel)
	assert.Equal(t, entity.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, "manual", order.PaymentProvider)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	svc, mock := newCheckoutServiceForTest(t)

	mock.ExpectBegin()
	expectProductLoad(mock, false, 1)
	mock.ExpectExec(decrementPattern).WithArgs(2, 11, 2).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.PlaceOrder(context.Background(), checkoutRequest())
	assert.ErrorIs(t, err, ErrInsufficientStock)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderInvalidCouponRollsBackDecrement(t *testing.T) {
	svc, mock := newCheckoutServiceForTest(t)

	// the decrement already happened; the failed coupon must take it down too
	mock.ExpectBegin()
	expectProductLoad(mock, false, 10)
	mock.ExpectExec(decrementPattern).WithArgs(2, 11, 2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(couponLockPattern).WithArgs("EXPIRED").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "kind", "value", "min_amount_paise", "valid_from", "valid_to", "usage_limit", "used_count", "is_active"}).
			AddRow(6, "EXPIRED", "PERCENT", 10, 0, nil, nil, nil, 0, false))
	mock.ExpectRollback()

	req := checkoutRequest()
	req.CouponCode = "EXPIRED"

	_, err := svc.PlaceOrder(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidCoupon)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderCouponUsageLimitReached(t *testing.T) {
	svc, mock := newCheckoutServiceForTest(t)

	mock.ExpectBegin()
	expectProductLoad(mock, false, 10)
	mock.ExpectExec(decrementPattern).WithArgs(2, 11, 2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(couponLockPattern).WithArgs("WELCOME10").WillReturnRows(welcomeCouponRow(5))
	mock.ExpectRollback()

	req := checkoutRequest()
	req.CouponCode = "WELCOME10"

	_, err := svc.PlaceOrder(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidCoupon)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderUnknownCoupon(t *testing.T) {
	svc, mock := newCheckoutServiceForTest(t)

	mock.ExpectBegin()
	expectProductLoad(mock, false, 10)
	mock.ExpectExec(decrementPattern).WithArgs(2, 11, 2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(couponLockPattern).WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	req := checkoutRequest()
	req.CouponCode = "NOPE"

	_, err := svc.PlaceOrder(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidCoupon)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderOutOfStockProduct(t *testing.T) {
	svc, mock := newCheckoutServiceForTest(t)

	mock.ExpectBegin()
	expectProductLoad(mock, true, 10)
	mock.ExpectRollback()

	_, err := svc.PlaceOrder(context.Background(), checkoutRequest())
	assert.ErrorIs(t, err, ErrProductUnavailable)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderUnknownSize(t *testing.T) {
	svc, mock := newCheckoutServiceForTest(t)

	mock.ExpectBegin()
	expectProductLoad(mock, false, 10)
	mock.ExpectRollback()

	req := checkoutRequest()
	req.SizeLabel = "1KG"

	_, err := svc.PlaceOrder(context.Background(), req)
	assert.ErrorIs(t, err, ErrSizeUnavailable)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderMissingFields(t *testing.T) {
	svc, mock := newCheckoutServiceForTest(t)

	req := checkoutRequest()
	req.UserEmail = ""

	_, err := svc.PlaceOrder(context.Background(), req)
	assert.ErrorIs(t, err, ErrMissingFields)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderClampsQuantityToOne(t *testing.T) {
	svc, mock := newCheckoutServiceForTest(t)

	mock.ExpectBegin()
	expectProductLoad(mock, false, 10)
	mock.ExpectExec(decrementPattern).WithArgs(1, 11, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(countPattern).WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(0))
	mock.ExpectExec(insertOrderPattern).WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	req := checkoutRequest()
	req.Quantity = 0

	order, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, order.Quantity)
	assert.Equal(t, int64(50000), order.TotalPaise)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderRetriesOnDuplicateOrderNumber(t *testing.T) {
	svc, mock := newCheckoutServiceForTest(t)

	// first attempt loses the order-number race on the UNIQUE index
	mock.ExpectBegin()
	expectProductLoad(mock, false, 10)
	mock.ExpectExec(decrementPattern).WithArgs(2, 11, 2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(countPattern).WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(3))
	mock.ExpectExec(insertOrderPattern).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ORD-2026-0004' for key 'order_number'"})
	mock.ExpectRollback()

	// second attempt sees the committed competitor and takes the next slot
	mock.ExpectBegin()
	expectProductLoad(mock, false, 10)
	mock.ExpectExec(decrementPattern).WithArgs(2, 11, 2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(countPattern).WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(4))
	mock.ExpectExec(insertOrderPattern).WillReturnResult(sqlmock.NewResult(43, 1))
	mock.ExpectCommit()

	order, err := svc.PlaceOrder(context.Background(), checkoutRequest())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ORD-%d-0005", time.Now().UTC().Year()), order.OrderNumber)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPreviewAppliesCoupon(t *testing.T) {
	svc, mock := newCheckoutServiceForTest(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, code, kind, value, min_amount_paise, valid_from, valid_to, usage_limit, used_count, is_active FROM coupons WHERE code = ?`)).
		WithArgs("WELCOME10").
		WillReturnRows(welcomeCouponRow(0))

	override := int64(40000)
	product := &entity.Product{
		ID:             1,
		BasePricePaise: 50000,
		Sizes: []entity.SizeVariant{
			{ID: 11, Label: "250G", Stock: 10},
			{ID: 12, Label: "500G", Stock: 4, PriceOverridePaise: &override},
		},
	}

	preview, err := svc.Preview(context.Background(), product, "250g", 2, "welcome10")
	require.NoError(t, err)

	assert.Equal(t, int64(50000), preview.UnitPricePaise)
	assert.Equal(t, int64(100000), preview.SubtotalPaise)
	assert.Equal(t, int64(10000), preview.DiscountPaise)
	assert.Equal(t, int64(90000), preview.TotalPaise)
	assert.True(t, preview.CouponApplied)
	assert.Equal(t, "₹900.00", preview.TotalDisplay)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPreviewIgnoresUnknownCoupon(t *testing.T) {
	svc, mock := newCheckoutServiceForTest(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, code, kind, value, min_amount_paise, valid_from, valid_to, usage_limit, used_count, is_active FROM coupons WHERE code = ?`)).
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	product := &entity.Product{
		ID:             1,
		BasePricePaise: 50000,
		Sizes:          []entity.SizeVariant{{ID: 11, Label: "250G", Stock: 10}},
	}

	preview, err := svc.Preview(context.Background(), product, "250G", 1, "NOPE")
	require.NoError(t, err)

	assert.False(t, preview.CouponApplied)
	assert.Equal(t, int64(0), preview.DiscountPaise)
	assert.Equal(t, int64(50000), preview.TotalPaise)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPreviewUsesSizeOverride(t *testing.T) {
	svc, mock := newCheckoutServiceForTest(t)

	override := int64(7500)
	product := &entity.Product{
		ID:             1,
		BasePricePaise: 10000,
		Sizes:          []entity.SizeVariant{{ID: 12, Label: "500G", Stock: 4, PriceOverridePaise: &override}},
	}

	preview, err := svc.Preview(context.Background(), product, "500G", 1, "")
	require.NoError(t, err)
	assert.Equal(t, int64(7500), preview.UnitPricePaise)

	require.NoError(t, mock.ExpectationsWereMet())
}
