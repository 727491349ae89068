package service

import (
	"context"
	"errors"

	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/entity"
	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/repository"
)

var ErrInvalidPaymentStatus = errors.New("invalid payment status")

// OrderService covers the read side (account area, admin list) and the two
// admin mutations an order permits after placement: payment status and note.
type OrderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

func (s *OrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	order, err := s.orderRepo.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		logger.Error().Err(err).Str("order_number", orderNumber).Msg("Error getting order by number")
		return nil, err
	}
	return order, nil
}

func (s *OrderService) GetOrdersByEmail(ctx context.Context, email string) ([]*entity.Order, error) {
	orders, err := s.orderRepo.GetOrdersByEmail(ctx, email)
	if err != nil {
		logger.Error().Err(err).Str("email", email).Msg("Error getting orders by email")
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) GetOrders(ctx context.Context) ([]*entity.Order, error) {
	orders, err := s.orderRepo.GetOrders(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting orders")
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, id int, status string) error {
	switch status {
	case entity.PaymentStatusPending, entity.PaymentStatusPaid, entity.PaymentStatusFailed, entity.PaymentStatusRefunded:
	default:
		return ErrInvalidPaymentStatus
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, id, status); err != nil {
		logger.Error().Err(err).Int("id", id).Msg("Error updating order status")
		return err
	}
	return nil
}

func (s *OrderService) UpdateAdminNote(ctx context.Context, id int, note string) error {
	if err := s.orderRepo.UpdateAdminNote(ctx, id, note); err != nil {
		logger.Error().Err(err).Int("id", id).Msg("Error updating admin note")
		return err
	}
	return nil
}
