package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/api"
	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/config"
	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/mailer"
	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/repository"
	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/service"
	"github.com/Harshith-Reddy-Revoori/oneproduct-store/migrations"
)

func connectDBEnv(host, port, user, pass, dbname string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB %s", dbname)
				return db, nil
			}
		}
		log.Printf("Retry %d: Failed to connect to DB %s (%s:%s): %v", i+1, dbname, host, port, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s at %s:%s after retries: %v", dbname, host, port, err)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	db, err := connectDBEnv(
		envOr("DB_HOST", "127.0.0.1"), envOr("DB_PORT", "3306"),
		envOr("DB_USER", "root"), os.Getenv("DB_PASS"), envOr("DB_NAME", "store-db"),
	)
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigrateProducts(3, db); err != nil {
		log.Fatalf("Failed to migrate products table: %v", err)
	}
	if err := migrations.AutoMigrateProductSizes(3, db); err != nil {
		log.Fatalf("Failed to migrate product_sizes table: %v", err)
	}
	if err := migrations.AutoMigrateCoupons(3, db); err != nil {
		log.Fatalf("Failed to migrate coupons table: %v", err)
	}
	if err := migrations.AutoMigrateOrders(3, db); err != nil {
		log.Fatalf("Failed to migrate orders table: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: envOr("REDIS_ADDR", "localhost:6379"),
	})

	kafkaWriter := config.NewKafkaWriter(config.OrderTopic)

	checkoutRepo := repository.NewCheckoutRepository(db)
	productRepo := repository.NewProductRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	catalogService := service.NewCatalogService(*productRepo, rdb)
	checkoutService := service.NewCheckoutService(*checkoutRepo, *couponRepo, kafkaWriter, rdb)
	productService := service.NewProductService(*productRepo, catalogService)
	couponService := service.NewCouponService(*couponRepo)
	orderService := service.NewOrderService(*orderRepo)
	authService := service.NewAuthService(
		envOr("ADMIN_EMAIL", "admin@example.com"),
		envOr("ADMIN_PASSWORD", "admin"),
		[]byte(envOr("JWT_SECRET", "secret")),
		rdb,
	)

	storeHandler := api.NewStoreHandler(*catalogService, *checkoutService, *orderService)
	adminHandler := api.NewAdminHandler(*authService, *productService, *couponService, *orderService)

	// mailer consumes order events and sends emails best-effort
	orderMailer := mailer.NewMailer(config.NewKafkaReader(config.OrderTopic, "mailer-group"))
	go orderMailer.Start(context.Background())

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(5),
				Burst:     10,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	e.GET("/store/product", storeHandler.GetStoreProduct)
	e.GET("/checkout/preview", storeHandler.PreviewCheckout)
	e.POST("/checkout", storeHandler.PlaceOrder)
	e.GET("/orders/:number", storeHandler.GetOrderByNumber)
	e.GET("/account/orders", storeHandler.GetAccountOrders)

	e.POST("/admin/login", adminHandler.Login)

	admin := e.Group("/admin")
	admin.Use(echojwt.JWT([]byte(envOr("JWT_SECRET", "secret"))))
	admin.Use(adminHandler.SessionGuard)
	admin.POST("/logout", adminHandler.Logout)
	admin.PUT("/product", adminHandler.UpsertProduct)
	admin.POST("/sizes", adminHandler.CreateSize)
	admin.PUT("/sizes", adminHandler.UpdateSize)
	admin.DELETE("/sizes/:id", adminHandler.DeleteSize)
	admin.POST("/sizes/:id/restock", adminHandler.RestockSize)
	admin.GET("/coupons", adminHandler.GetCoupons)
	admin.POST("/coupons", adminHandler.CreateCoupon)
	admin.PUT("/coupons", adminHandler.UpdateCoupon)
	admin.DELETE("/coupons/:id", adminHandler.DeleteCoupon)
	admin.GET("/orders", adminHandler.GetOrders)
	admin.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)
	admin.PUT("/orders/:id/note", adminHandler.UpdateAdminNote)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "oneproduct-store",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	e.Logger.Fatal(e.Start(":" + envOr("PORT", "8080")))
}
