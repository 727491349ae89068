package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/entity"
	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/pricing"
	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Checkout failure reasons surfaced to the caller. Anything else coming out
// of PlaceOrder is a persistence failure and is reported generically.
var (
	ErrProductUnavailable = errors.New("product unavailable")
	ErrSizeUnavailable    = errors.New("size unavailable")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidCoupon      = errors.New("invalid coupon")
	ErrMissingFields      = errors.New("please fill all required fields")
	ErrDuplicateOrder     = errors.New("order already submitted")
)

// Order numbers are count-derived, so two transactions racing within the
// same instant can compute the same number. The UNIQUE index rejects the
// loser and the whole transaction is retried from scratch.
const maxOrderAttempts = 3

const mysqlDuplicateEntry = 1062

// CheckoutService coordinates the checkout transaction: stock reservation,
// coupon validation, pricing and order persistence as one all-or-nothing
// unit of work.
type CheckoutService struct {
	checkoutRepo repository.CheckoutRepository
	couponRepo   repository.CouponRepository
	kafkaWriter  *kafka.Writer
	rdb          *redis.Client
}

// NewCheckoutService creates a new instance of CheckoutService.
func NewCheckoutService(checkoutRepo repository.CheckoutRepository, couponRepo repository.CouponRepository, kafkaWriter *kafka.Writer, rdb *redis.Client) *CheckoutService {
	return &CheckoutService{
		checkoutRepo: checkoutRepo,
		couponRepo:   couponRepo,
		kafkaWriter:  kafkaWriter,
		rdb:          rdb,
	}
}

// PlaceOrder runs the whole checkout for one submission. On success the order
// is durably committed before the order event is published; publish failures
// are logged and never reach the customer.
func (s *CheckoutService) PlaceOrder(ctx context.Context, req *entity.CheckoutRequest) (*entity.Order, error) {
	normalizeCheckoutRequest(req)

	if req.SizeLabel == "" || req.UserEmail == "" || req.CustomerName == "" || req.Phone == "" ||
		req.AddressLine1 == "" || req.City == "" || req.State == "" || req.Pincode == "" {
		return nil, ErrMissingFields
	}

	ok, err := s.claimIdempotentKey(ctx, req.IdempotentKey)
	if err != nil {
		logger.Error().Err(err).Msg("Error validating idempotent key")
		return nil, err
	}
	if !ok {
		return nil, ErrDuplicateOrder
	}

	var order *entity.Order
	for attempt := 1; attempt <= maxOrderAttempts; attempt++ {
		order, err = s.placeOrderOnce(ctx, req)
		if err == nil {
			break
		}
		if !isDuplicateOrderNumber(err) {
			// nothing was committed, so the key must not block a
			// corrected resubmission
			s.releaseIdempotentKey(ctx, req.IdempotentKey)
			return nil, err
		}
		logger.Warn().Int("attempt", attempt).Msg("Duplicate order number, retrying checkout transaction")
	}
	if err != nil {
		s.releaseIdempotentKey(ctx, req.IdempotentKey)
		return nil, err
	}

	if os.Getenv("ENV") == "test" {
		return order, nil
	}
	if err := s.publishOrderEvent(ctx, order); err != nil {
		logger.Error().Err(err).Str("order_number", order.OrderNumber).Msg("Error publishing order event")
	}

	return order, nil
}

// placeOrderOnce is a single pass of the checkout transaction. Every failure
// path rolls the transaction back, so a rejected coupon or a failed insert
// never leaves stock decremented without an order.
func (s *CheckoutService) placeOrderOnce(ctx context.Context, req *entity.CheckoutRequest) (*entity.Order, error) {
	tx, err := s.checkoutRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}

	product, err := s.checkoutRepo.GetProductForCheckout(ctx, tx, req.ProductID)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductUnavailable
		}
		return nil, err
	}
	if product.OutOfStock {
		tx.Rollback()
		return nil, ErrProductUnavailable
	}

	size := findSize(product.Sizes, req.SizeLabel)
	if size == nil {
		tx.Rollback()
		return nil, ErrSizeUnavailable
	}

	ok, err := s.checkoutRepo.DecrementStock(ctx, tx, size.ID, req.Quantity)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if !ok {
		tx.Rollback()
		return nil, ErrInsufficientStock
	}

	unit := pricing.UnitPrice(product, size)
	subtotal := pricing.Subtotal(unit, req.Quantity)

	var coupon *entity.Coupon
	if req.CouponCode != "" {
		coupon, err = s.checkoutRepo.GetCouponForUpdate(ctx, tx, req.CouponCode)
		if err != nil {
			tx.Rollback()
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrInvalidCoupon
			}
			return nil, err
		}
		if !pricing.IsApplicable(coupon, time.Now().UTC(), subtotal) {
			tx.Rollback()
			return nil, ErrInvalidCoupon
		}
	}

	discount, total := pricing.ApplyDiscount(subtotal, coupon)

	now := time.Now().UTC()
	orderNumber, err := s.checkoutRepo.NextOrderNumber(ctx, tx, now)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	order := &entity.Order{
		OrderNumber:     orderNumber,
		UserEmail:       req.UserEmail,
		CustomerName:    req.CustomerName,
		Phone:           req.Phone,
		AddressLine1:    req.AddressLine1,
		AddressLine2:    req.AddressLine2,
		City:            req.City,
		State:           req.State,
		Pincode:         req.Pincode,
		ProductID:       product.ID,
		SizeLabel:       size.Label,
		Quantity:        req.Quantity,
		UnitPricePaise:  unit,
		DiscountPaise:   discount,
		TotalPaise:      total,
		PaymentStatus:   entity.PaymentStatusPending,
		PaymentProvider: "manual",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if coupon != nil {
		order.CouponCode = coupon.Code
	}

	order, err = s.checkoutRepo.InsertOrder(ctx, tx, order)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if coupon != nil {
		if err := s.checkoutRepo.IncrementCouponUsage(ctx, tx, coupon.ID); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return order, nil
}

// CheckoutPreview is the non-authoritative price breakdown shown before
// submission. It may be computed from stale data; the transaction re-checks
// everything.
type CheckoutPreview struct {
	SizeLabel      string `json:"size_label"`
	Quantity       int    `json:"quantity"`
	UnitPricePaise int64  `json:"unit_price_paise"`
	SubtotalPaise  int64  `json:"subtotal_paise"`
	DiscountPaise  int64  `json:"discount_paise"`
	TotalPaise     int64  `json:"total_paise"`
	CouponApplied  bool   `json:"coupon_applied"`
	TotalDisplay   string `json:"total_display"`
}

// Preview computes the price breakdown for a size/qty/coupon combination
// without touching stock or coupon usage.
func (s *CheckoutService) Preview(ctx context.Context, product *entity.Product, sizeLabel string, qty int, couponCode string) (*CheckoutPreview, error) {
	sizeLabel = strings.ToUpper(strings.TrimSpace(sizeLabel))
	couponCode = strings.ToUpper(strings.TrimSpace(couponCode))
	if qty < 1 {
		qty = 1
	}

	size := findSize(product.Sizes, sizeLabel)
	if size == nil {
		return nil, ErrSizeUnavailable
	}

	unit := pricing.UnitPrice(product, size)
	subtotal := pricing.Subtotal(unit, qty)

	var coupon *entity.Coupon
	if couponCode != "" {
		c, err := s.couponRepo.GetCouponByCode(ctx, couponCode)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		if c != nil && pricing.IsApplicable(c, time.Now().UTC(), subtotal) {
			coupon = c
		}
	}

	discount, total := pricing.ApplyDiscount(subtotal, coupon)

	return &CheckoutPreview{
		SizeLabel:      size.Label,
		Quantity:       qty,
		UnitPricePaise: unit,
		SubtotalPaise:  subtotal,
		DiscountPaise:  discount,
		TotalPaise:     total,
		CouponApplied:  coupon != nil,
		TotalDisplay:   pricing.FormatPaise(total),
	}, nil
}

func (s *CheckoutService) publishOrderEvent(ctx context.Context, order *entity.Order) error {
	orderJSON, err := json.Marshal(order)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order.created.%d", order.ID)),
		Value: orderJSON,
	}

	return s.kafkaWriter.WriteMessages(ctx, msg)
}

// claimIdempotentKey marks a submission key as seen for 24 hours so a client
// resubmitting the same checkout does not create a second order.
func (s *CheckoutService) claimIdempotentKey(ctx context.Context, key string) (bool, error) {
	if os.Getenv("ENV") == "test" || key == "" {
		return true, nil
	}

	redisKey := fmt.Sprintf("idempotent-key:%s", key)
	ok, err := s.rdb.SetNX(ctx, redisKey, "exists", 24*time.Hour).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// releaseIdempotentKey frees a claimed key when the checkout failed before
// commit; only a committed order should hold its key for the full TTL.
func (s *CheckoutService) releaseIdempotentKey(ctx context.Context, key string) {
	if os.Getenv("ENV") == "test" || key == "" || s.rdb == nil {
		return
	}

	redisKey := fmt.Sprintf("idempotent-key:%s", key)
	if err := s.rdb.Del(ctx, redisKey).Err(); err != nil {
		logger.Error().Err(err).Msg("Error releasing idempotent key")
	}
}

func normalizeCheckoutRequest(req *entity.CheckoutRequest) {
	req.SizeLabel = strings.ToUpper(strings.TrimSpace(req.SizeLabel))
	req.CouponCode = strings.ToUpper(strings.TrimSpace(req.CouponCode))
	req.UserEmail = strings.TrimSpace(req.UserEmail)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.Phone = strings.TrimSpace(req.Phone)
	req.AddressLine1 = strings.TrimSpace(req.AddressLine1)
	req.AddressLine2 = strings.TrimSpace(req.AddressLine2)
	req.City = strings.TrimSpace(req.City)
	req.State = strings.TrimSpace(req.State)
	req.Pincode = strings.TrimSpace(req.Pincode)
	if req.Quantity < 1 {
		req.Quantity = 1
	}
}

func findSize(sizes []entity.SizeVariant, label string) *entity.SizeVariant {
	for i := range sizes {
		if strings.EqualFold(sizes[i].Label, label) {
			return &sizes[i]
		}
	}
	return nil
}

func isDuplicateOrderNumber(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
