package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/entity"
	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/pricing"
	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/service"
)

type AdminHandler struct {
	authService    service.AuthService
	productService service.ProductService
	couponService  service.CouponService
	orderService   service.OrderService
}

func NewAdminHandler(authService service.AuthService, productService service.ProductService, couponService service.CouponService, orderService service.OrderService) *AdminHandler {
	return &AdminHandler{
		authService:    authService,
		productService: productService,
		couponService:  couponService,
		orderService:   orderService,
	}
}

// Login issues the admin session token --> POST /admin/login
func (h *AdminHandler) Login(c echo.Context) error {
	login := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := c.Bind(&login); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	token, err := h.authService.Login(c.Request().Context(), login.Email, login.Password)
	if err != nil {
		return c.JSON(401, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, map[string]string{"token": token})
}

// adminTokenInfo pulls the email claim and raw token out of the context
// entry set by the JWT middleware.
func adminTokenInfo(c echo.Context) (email, raw string, ok bool) {
	token, tok := c.Get("user").(*jwt.Token)
	if !tok {
		return "", "", false
	}
	claims, cok := token.Claims.(jwt.MapClaims)
	if !cok {
		return "", "", false
	}
	email, _ = claims["email"].(string)
	return email, token.Raw, email != ""
}

// SessionGuard runs after JWT signature verification and rejects tokens
// whose stored session was revoked by logout.
func (h *AdminHandler) SessionGuard(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		email, raw, ok := adminTokenInfo(c)
		if !ok {
			return c.JSON(401, map[string]string{"error": "Unauthorized"})
		}
		if err := h.authService.ValidateSession(c.Request().Context(), email, raw); err != nil {
			return c.JSON(401, map[string]string{"error": "Unauthorized"})
		}
		return next(c)
	}
}

// Logout revokes the current admin session --> POST /admin/logout
func (h *AdminHandler) Logout(c echo.Context) error {
	email, _, ok := adminTokenInfo(c)
	if !ok {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	if err := h.authService.Logout(c.Request().Context(), email); err != nil {
		return c.JSON(500, map[string]string{"error": "could not log out"})
	}
	return c.JSON(200, map[string]string{"message": "logged out"})
}

// productPayload lets the admin form submit the price as a rupee string;
// paise input still wins when both are present.
type productPayload struct {
	entity.Product
	BasePriceRupees string `json:"base_price_rupees"`
}

// couponPayload mirrors the original admin form: AMOUNT values and the
// minimum spend arrive as rupee strings.
type couponPayload struct {
	entity.Coupon
	ValueRupees string `json:"value_rupees"`
	MinRupees   string `json:"min_rupees"`
}

func (p *couponPayload) applyRupeeFields() {
	if p.ValueRupees != "" && strings.EqualFold(p.Kind, entity.CouponKindAmount) {
		p.Value = pricing.RupeesToPaise(p.ValueRupees)
	}
	if p.MinRupees != "" {
		p.MinAmountPaise = pricing.RupeesToPaise(p.MinRupees)
	}
}

// UpsertProduct creates or updates the storefront product --> PUT /admin/product
func (h *AdminHandler) UpsertProduct(c echo.Context) error {
	payload := productPayload{}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	if payload.BasePriceRupees != "" && payload.BasePricePaise == 0 {
		payload.BasePricePaise = pricing.RupeesToPaise(payload.BasePriceRupees)
	}

	saved, err := h.productService.SaveProduct(c.Request().Context(), &payload.Product)
	if err != nil {
		if errors.Is(err, service.ErrProductInvalid) {
			return c.JSON(400, map[string]string{"error": err.Error()})
		}
		return c.JSON(500, map[string]string{"error": err.Error()})
	}
	return c.JSON(200, saved)
}

// CreateSize adds a size variant --> POST /admin/sizes
func (h *AdminHandler) CreateSize(c echo.Context) error {
	size := entity.SizeVariant{}
	if err := c.Bind(&size); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	created, err := h.productService.CreateSize(c.Request().Context(), &size)
	if err != nil {
		if errors.Is(err, service.ErrSizeInvalid) {
			return c.JSON(400, map[string]string{"error": err.Error()})
		}
		return c.JSON(500, map[string]string{"error": err.Error()})
	}
	return c.JSON(200, created)
}

// UpdateSize edits a size variant --> PUT /admin/sizes
func (h *AdminHandler) UpdateSize(c echo.Context) error {
	size := entity.SizeVariant{}
	if err := c.Bind(&size); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	updated, err := h.productService.UpdateSize(c.Request().Context(), &size)
	if err != nil {
		if errors.Is(err, service.ErrSizeInvalid) {
			return c.JSON(400, map[string]string{"error": err.Error()})
		}
		return c.JSON(500, map[string]string{"error": err.Error()})
	}
	return c.JSON(200, updated)
}

// DeleteSize removes a size variant --> DELETE /admin/sizes/:id
func (h *AdminHandler) DeleteSize(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	if err := h.productService.DeleteSize(c.Request().Context(), id); err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}
	return c.JSON(200, map[string]string{"message": "deleted"})
}

// RestockSize adds stock to a size --> POST /admin/sizes/:id/restock
func (h *AdminHandler) RestockSize(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	body := struct {
		Quantity int `json:"quantity"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	if body.Quantity < 1 {
		return c.JSON(400, map[string]string{"error": "quantity must be at least 1"})
	}

	if err := h.productService.RestockSize(c.Request().Context(), id, body.Quantity); err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}
	return c.JSON(200, map[string]string{"message": "restocked"})
}

// GetCoupons lists coupons --> GET /admin/coupons
func (h *AdminHandler) GetCoupons(c echo.Context) error {
	coupons, err := h.couponService.GetCoupons(c.Request().Context())
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}
	return c.JSON(200, coupons)
}

// CreateCoupon creates a coupon --> POST /admin/coupons
func (h *AdminHandler) CreateCoupon(c echo.Context) error {
	payload := couponPayload{}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	payload.applyRupeeFields()

	created, err := h.couponService.CreateCoupon(c.Request().Context(), &payload.Coupon)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponCodeRequired),
			errors.Is(err, service.ErrCouponKindInvalid),
			errors.Is(err, service.ErrCouponValueInvalid):
			return c.JSON(400, map[string]string{"error": err.Error()})
		default:
			return c.JSON(500, map[string]string{"error": err.Error()})
		}
	}
	return c.JSON(200, created)
}

// UpdateCoupon edits a coupon --> PUT /admin/coupons
func (h *AdminHandler) UpdateCoupon(c echo.Context) error {
	payload := couponPayload{}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	payload.applyRupeeFields()

	updated, err := h.couponService.UpdateCoupon(c.Request().Context(), &payload.Coupon)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponKindInvalid),
			errors.Is(err, service.ErrCouponValueInvalid):
			return c.JSON(400, map[string]string{"error": err.Error()})
		default:
			return c.JSON(500, map[string]string{"error": err.Error()})
		}
	}
	return c.JSON(200, updated)
}

// DeleteCoupon removes a coupon --> DELETE /admin/coupons/:id
func (h *AdminHandler) DeleteCoupon(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	if err := h.couponService.DeleteCoupon(c.Request().Context(), id); err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}
	return c.JSON(200, map[string]string{"message": "deleted"})
}

// GetOrders lists all orders --> GET /admin/orders
func (h *AdminHandler) GetOrders(c echo.Context) error {
	orders, err := h.orderService.GetOrders(c.Request().Context())
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}
	return c.JSON(200, orders)
}

// UpdateOrderStatus updates payment status --> PUT /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	body := struct {
		Status string `json:"status"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	if err := h.orderService.UpdateOrderStatus(c.Request().Context(), id, body.Status); err != nil {
		if errors.Is(err, service.ErrInvalidPaymentStatus) {
			return c.JSON(400, map[string]string{"error": err.Error()})
		}
		return c.JSON(500, map[string]string{"error": err.Error()})
	}
	return c.JSON(200, map[string]string{"message": "updated"})
}

// UpdateAdminNote updates the order's admin note --> PUT /admin/orders/:id/note
func (h *AdminHandler) UpdateAdminNote(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	body := struct {
		Note string `json:"note"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	if err := h.orderService.UpdateAdminNote(c.Request().Context(), id, body.Note); err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}
	return c.JSON(200, map[string]string{"message": "updated"})
}
