package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/entity"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db}
}

const orderColumns = `id, order_number, user_email, customer_name, phone, address_line1, COALESCE(address_line2, ''), city, state, pincode, product_id, size_label, quantity, unit_price_paise, discount_paise, total_paise, COALESCE(coupon_code, ''), payment_status, payment_provider, COALESCE(admin_note, ''), created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*entity.Order, error) {
	order := &entity.Order{}
	err := row.Scan(
		&order.ID, &order.OrderNumber, &order.UserEmail, &order.CustomerName, &order.Phone,
		&order.AddressLine1, &order.AddressLine2, &order.City, &order.State, &order.Pincode,
		&order.ProductID, &order.SizeLabel, &order.Quantity,
		&order.UnitPricePaise, &order.DiscountPaise, &order.TotalPaise,
		&order.CouponCode, &order.PaymentStatus, &order.PaymentProvider, &order.AdminNote,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) GetOrderByNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = ?`
	return scanOrder(r.db.QueryRowContext(ctx, query, orderNumber))
}

func (r *OrderRepository) GetOrdersByEmail(ctx context.Context, email string) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_email = ? ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, email)
}

func (r *OrderRepository) GetOrders(ctx context.Context) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.queryOrders(ctx, query)
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateOrderStatus changes payment_status. Orders are otherwise immutable
// once placed.
func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, id int, status string) error {
	query := `UPDATE orders SET payment_status = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	return err
}

func (r *OrderRepository) UpdateAdminNote(ctx context.Context, id int, note string) error {
	query := `UPDATE orders SET admin_note = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, sql.NullString{String: note, Valid: note != ""}, time.Now().UTC(), id)
	return err
}
