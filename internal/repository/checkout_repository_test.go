package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecrementStockSucceedsWhenEnoughStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE product_sizes SET stock = stock - ? WHERE id = ? AND stock >= ?`)).
		WithArgs(2, 11, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewCheckoutRepository(db)
	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)

	ok, err := repo.DecrementStock(context.Background(), tx, 11, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementStockReportsZeroRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE product_sizes SET stock = stock - ? WHERE id = ? AND stock >= ?`)).
		WithArgs(5, 11, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewCheckoutRepository(db)
	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)

	ok, err := repo.DecrementStock(context.Background(), tx, 11, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNextOrderNumberFirstOfYear(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM orders WHERE created_at >= ? AND created_at < ?`)).
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(0))

	repo := NewCheckoutRepository(db)
	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)

	number, err := repo.NextOrderNumber(context.Background(), tx, now)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-0001", number)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNextOrderNumberPadsSequence(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM orders`)).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(41))

	repo := NewCheckoutRepository(db)
	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)

	number, err := repo.NextOrderNumber(context.Background(), tx, time.Date(2026, time.December, 31, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-0042", number)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCouponForUpdateLocksRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, code, kind, value, min_amount_paise, valid_from, valid_to, usage_limit, used_count, is_active FROM coupons WHERE code = ? FOR UPDATE`)).
		WithArgs("WELCOME10").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "kind", "value", "min_amount_paise", "valid_from", "valid_to", "usage_limit", "used_count", "is_active"}).
			AddRow(5, "WELCOME10", "PERCENT", 10, 0, nil, nil, 5, 0, true))

	repo := NewCheckoutRepository(db)
	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)

	coupon, err := repo.GetCouponForUpdate(context.Background(), tx, "WELCOME10")
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", coupon.Code)
	assert.Equal(t, int64(10), coupon.Value)
	require.NotNil(t, coupon.UsageLimit)
	assert.Equal(t, 5, *coupon.UsageLimit)
	assert.Nil(t, coupon.ValidFrom)

	require.NoError(t, mock.ExpectationsWereMet())
}
