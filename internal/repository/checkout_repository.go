package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/entity"
)

// CheckoutRepository holds the statements that make up the checkout
// transaction. Every method here takes the *sql.Tx owned by the coordinator;
// nothing commits or rolls back except the coordinator itself.
type CheckoutRepository struct {
	db *sql.DB
}

func NewCheckoutRepository(db *sql.DB) *CheckoutRepository {
	return &CheckoutRepository{db}
}

func (r *CheckoutRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return r.db.BeginTx(ctx, nil)
}

// GetProductForCheckout loads a product by id together with its active sizes.
// Returns sql.ErrNoRows when no active product with that id exists.
func (r *CheckoutRepository) GetProductForCheckout(ctx context.Context, tx *sql.Tx, productID int) (*entity.Product, error) {
	productQuery := `SELECT id, name, description, image_url, currency, base_price_paise, out_of_stock, active FROM products WHERE id = ? AND active = TRUE`
	sizeQuery := `SELECT id, product_id, label, stock, price_override_paise, is_active FROM product_sizes WHERE product_id = ? AND is_active = TRUE`

	product := &entity.Product{}
	err := tx.QueryRowContext(ctx, productQuery, productID).Scan(
		&product.ID, &product.Name, &product.Description, &product.ImageURL,
		&product.Currency, &product.BasePricePaise, &product.OutOfStock, &product.Active,
	)
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, sizeQuery, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		size := entity.SizeVariant{}
		err := rows.Scan(&size.ID, &size.ProductID, &size.Label, &size.Stock, &size.PriceOverridePaise, &size.IsActive)
		if err != nil {
			return nil, err
		}
		product.Sizes = append(product.Sizes, size)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return product, nil
}

// DecrementStock performs the guarded stock decrement as one statement. The
// WHERE clause is what prevents overselling: the row is only changed when
// enough stock remains, so stock can never go negative. Returns false when
// zero rows were affected.
func (r *CheckoutRepository) DecrementStock(ctx context.Context, tx *sql.Tx, sizeID, qty int) (bool, error) {
	query := `UPDATE product_sizes SET stock = stock - ? WHERE id = ? AND stock >= ?`
	res, err := tx.ExecContext(ctx, query, qty, sizeID, qty)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// GetCouponForUpdate reads a coupon row under a row lock so the usage-limit
// check and the later increment are atomic across concurrent checkouts.
// Returns sql.ErrNoRows when the code is unknown.
func (r *CheckoutRepository) GetCouponForUpdate(ctx context.Context, tx *sql.Tx, code string) (*entity.Coupon, error) {
	query := `SELECT id, code, kind, value, min_amount_paise, valid_from, valid_to, usage_limit, used_count, is_active FROM coupons WHERE code = ? FOR UPDATE`

	coupon := &entity.Coupon{}
	err := tx.QueryRowContext(ctx, query, code).Scan(
		&coupon.ID, &coupon.Code, &coupon.Kind, &coupon.Value, &coupon.MinAmountPaise,
		&coupon.ValidFrom, &coupon.ValidTo, &coupon.UsageLimit, &coupon.UsedCount, &coupon.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return coupon, nil
}

// NextOrderNumber derives the year-scoped order number from a count of this
// year's orders taken inside the transaction. The count alone does not rule
// out two concurrent transactions computing the same number; the UNIQUE index
// on order_number plus the coordinator's bounded retry closes that race.
func (r *CheckoutRepository) NextOrderNumber(ctx context.Context, tx *sql.Tx, now time.Time) (string, error) {
	query := `SELECT COUNT(*) FROM orders WHERE created_at >= ? AND created_at < ?`

	year := now.UTC().Year()
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	var count int
	err := tx.QueryRowContext(ctx, query, start, end).Scan(&count)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("ORD-%d-%04d", year, count+1), nil
}

// InsertOrder writes the order row and fills in its generated id.
func (r *CheckoutRepository) InsertOrder(ctx context.Context, tx *sql.Tx, order *entity.Order) (*entity.Order, error) {
	query := `INSERT INTO orders (order_number, user_email, customer_name, phone, address_line1, address_line2, city, state, pincode, product_id, size_label, quantity, unit_price_paise, discount_paise, total_paise, coupon_code, payment_status, payment_provider, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := tx.ExecContext(ctx, query,
		order.OrderNumber, order.UserEmail, order.CustomerName, order.Phone,
		order.AddressLine1, nullString(order.AddressLine2), order.City, order.State, order.Pincode,
		order.ProductID, order.SizeLabel, order.Quantity,
		order.UnitPricePaise, order.DiscountPaise, order.TotalPaise,
		nullString(order.CouponCode), order.PaymentStatus, order.PaymentProvider,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	order.ID = int(id)
	return order, nil
}

// IncrementCouponUsage bumps used_count for a coupon already locked by
// GetCouponForUpdate in the same transaction.
func (r *CheckoutRepository) IncrementCouponUsage(ctx context.Context, tx *sql.Tx, couponID int) error {
	query := `UPDATE coupons SET used_count = used_count + 1 WHERE id = ?`
	_, err := tx.ExecContext(ctx, query, couponID)
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
