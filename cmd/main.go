package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/api"
	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/config"
	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/repository"
	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/service"
	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/migrations"
)

func connectDB(cfg config.Config) (*sql.DB, error) {
	// clientFoundRows so RowsAffected reports matched rows, not changed ones
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&clientFoundRows=true",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB %s", cfg.DBName)
				return db, nil
			}
		}
		log.Printf("Retry %d: Failed to connect to DB %s (%s:%s): %v", i+1, cfg.DBName, cfg.DBHost, cfg.DBPort, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s at %s:%s after retries: %v", cfg.DBName, cfg.DBHost, cfg.DBPort, err)
}

func main() {
	cfg := config.Load()

	db, err := connectDB(cfg)
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigrateProducts(3, db); err != nil {
		log.Fatalf("Failed to migrate products table: %v", err)
	}
	if err := migrations.AutoMigrateUsers(3, db); err != nil {
		log.Fatalf("Failed to migrate users table: %v", err)
	}
	if err := migrations.AutoMigrateOrders(3, db); err != nil {
		log.Fatalf("Failed to migrate orders table: %v", err)
	}
	if err := migrations.AutoMigrateOrderItems(3, db); err != nil {
		log.Fatalf("Failed to migrate order_items table: %v", err)
	}
	if err := migrations.SeedProducts(db); err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	kafkaWriter := config.NewKafkaWriter("order-topic")

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	cartStore := repository.NewCartStore()

	productService := service.NewProductService(productRepo, rdb)
	orderService := service.NewOrderService(orderRepo, productRepo, kafkaWriter, rdb)
	cartService := service.NewCartService(cartStore, productRepo)
	userService := service.NewUserService(userRepo, []byte(cfg.JWTSecret))

	productHandler := api.NewProductHandler(productService)
	orderHandler := api.NewOrderHandler(orderService)
	cartHandler := api.NewCartHandler(cartService)
	userHandler := api.NewUserHandler(userService)
	adminHandler := api.NewAdminHandler(productService)

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(20),
				Burst:     50,
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
	e.Use(middleware.CORS())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	jwtAuth := api.JWT([]byte(cfg.JWTSecret))

	e.GET("/api", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"message": "VoltHive Marketplace API",
			"version": "1.0.0",
			"endpoints": map[string]string{
				"products": "/api/products",
				"auth":     "/api/auth",
				"cart":     "/api/cart",
				"orders":   "/api/orders",
				"admin":    "/api/admin",
			},
		})
	})

	e.GET("/api/products", productHandler.ListProducts)
	e.GET("/api/products/meta/categories", productHandler.GetCategories)
	e.GET("/api/products/:id", productHandler.GetProduct)

	e.POST("/api/auth/signup", userHandler.Signup)
	e.POST("/api/auth/login", userHandler.Login)
	e.GET("/api/auth/me", userHandler.Me, jwtAuth)

	e.POST("/api/cart/add", cartHandler.Add)
	e.GET("/api/cart", cartHandler.List)
	e.PUT("/api/cart/update", cartHandler.Update)
	e.DELETE("/api/cart/remove", cartHandler.Remove)
	e.DELETE("/api/cart/clear", cartHandler.Clear)

	e.POST("/api/orders/checkout", orderHandler.Checkout)
	e.GET("/api/orders/user/:userId", orderHandler.GetUserOrders)
	e.GET("/api/orders", orderHandler.GetOrders, jwtAuth, api.RequireAdmin)
	e.GET("/api/orders/:id", orderHandler.GetOrder)

	admin := e.Group("/api/admin", jwtAuth, api.RequireAdmin)
	admin.GET("/products", adminHandler.ListProducts)
	admin.POST("/products", adminHandler.CreateProduct)
	admin.PUT("/products/:id", adminHandler.UpdateProduct)
	admin.DELETE("/products/:id", adminHandler.DeleteProduct)
	admin.PUT("/products/:id/stock", adminHandler.SetStock)

	e.GET("/api/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "volthive",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
