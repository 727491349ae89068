package api

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/entity"
	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/service"
)

type StoreHandler struct {
	catalogService  service.CatalogService
	checkoutService service.CheckoutService
	orderService    service.OrderService
}

func NewStoreHandler(catalogService service.CatalogService, checkoutService service.CheckoutService, orderService service.OrderService) *StoreHandler {
	return &StoreHandler{
		catalogService:  catalogService,
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

// GetStoreProduct returns the storefront product --> GET /store/product
func (h *StoreHandler) GetStoreProduct(c echo.Context) error {
	product, err := h.catalogService.GetStoreProduct(c.Request().Context())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(404, map[string]string{"error": "no active product"})
		}
		return c.JSON(500, map[string]string{"error": "could not load product"})
	}
	return c.JSON(200, product)
}

// PreviewCheckout returns a non-authoritative price breakdown --> GET /checkout/preview
func (h *StoreHandler) PreviewCheckout(c echo.Context) error {
	ctx := c.Request().Context()

	qty, err := strconv.Atoi(c.QueryParam("qty"))
	if err != nil {
		qty = 1
	}

	product, err := h.catalogService.GetStoreProduct(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(404, map[string]string{"error": "no active product"})
		}
		return c.JSON(500, map[string]string{"error": "could not load product"})
	}

	preview, err := h.checkoutService.Preview(ctx, product, c.QueryParam("size"), qty, c.QueryParam("coupon"))
	if err != nil {
		if errors.Is(err, service.ErrSizeUnavailable) {
			return c.JSON(400, map[string]string{"error": err.Error()})
		}
		return c.JSON(500, map[string]string{"error": "could not compute preview"})
	}

	return c.JSON(200, preview)
}

// PlaceOrder runs the checkout transaction --> POST /checkout
func (h *StoreHandler) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()

	req := entity.CheckoutRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	req.IdempotentKey = c.Request().Header.Get("Idempotent-Key")
	if req.IdempotentKey == "" {
		req.IdempotentKey = uuid.NewString()
	}

	order, err := h.checkoutService.PlaceOrder(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields),
			errors.Is(err, service.ErrProductUnavailable),
			errors.Is(err, service.ErrSizeUnavailable),
			errors.Is(err, service.ErrInvalidCoupon):
			return c.JSON(400, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrInsufficientStock),
			errors.Is(err, service.ErrDuplicateOrder):
			return c.JSON(409, map[string]string{"error": err.Error()})
		default:
			return c.JSON(500, map[string]string{"error": "could not place order"})
		}
	}

	return c.JSON(201, order)
}

// GetOrderByNumber returns one order for the confirmation page --> GET /orders/:number
func (h *StoreHandler) GetOrderByNumber(c echo.Context) error {
	order, err := h.orderService.GetOrderByNumber(c.Request().Context(), c.Param("number"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(404, map[string]string{"error": "order not found"})
		}
		return c.JSON(500, map[string]string{"error": "could not load order"})
	}
	return c.JSON(200, order)
}

// GetAccountOrders lists a customer's orders --> GET /account/orders?email=
func (h *StoreHandler) GetAccountOrders(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(400, map[string]string{"error": "email is required"})
	}

	orders, err := h.orderService.GetOrdersByEmail(c.Request().Context(), email)
	if err != nil {
		return c.JSON(500, map[string]string{"error": "could not load orders"})
	}
	return c.JSON(200, orders)
}
