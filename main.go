package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"maker3d-backend/config"
	"maker3d-backend/database"
	"maker3d-backend/internal/api"
	"maker3d-backend/internal/middleware"
	"maker3d-backend/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	// Run database migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Middleware
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins, cfg.AllowAllOrigins))
	router.Use(middleware.SecurityMiddleware(&middleware.SecurityConfig{
		MaxRequestSize:    10 * 1024 * 1024,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   time.Duration(cfg.RateLimitWindow) * time.Second,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Maker3D API is running",
		})
	})

	// Initialize services
	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpiration)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	// Initialize handlers
	authHandlers := api.NewAuthHandlers(db, authService)
	userHandlers := api.NewUserHandlers(db)
	productHandlers := api.NewProductHandlers(db)
	orderHandlers := api.NewOrderHandlers(db)
	paymentHandlers := api.NewPaymentHandlers(db, cfg)

	// API routes
	apiGroup := router.Group("/api")
	{
		// User routes
		users := apiGroup.Group("/users")
		{
			users.POST("/", authHandlers.Register)
			users.POST("/login", authHandlers.Login)
			users.GET("/profile", authMiddleware.AuthRequired(), authHandlers.GetProfile)
			users.PUT("/profile", authMiddleware.AuthRequired(), authHandlers.UpdateProfile)

			users.POST("/address", authMiddleware.AuthRequired(), userHandlers.AddAddress)
			users.PUT("/address/:id", authMiddleware.AuthRequired(), userHandlers.UpdateAddress)
			users.DELETE("/address/:id", authMiddleware.AuthRequired(), userHandlers.DeleteAddress)

			users.GET("/wishlist", authMiddleware.AuthRequired(), userHandlers.GetWishlist)
			users.POST("/wishlist/:productId", authMiddleware.AuthRequired(), userHandlers.AddToWishlist)
			users.DELETE("/wishlist/:productId", authMiddleware.AuthRequired(), userHandlers.RemoveFromWishlist)

			// Admin user management
			admin := users.Group("/", authMiddleware.AuthRequired(), authMiddleware.AdminRequired())
			{
				admin.GET("/", userHandlers.ListUsers)
				admin.GET("/:id", userHandlers.GetUser)
				admin.PUT("/:id", userHandlers.UpdateUser)
				admin.DELETE("/:id", userHandlers.DeleteUser)
			}
		}

		// Product routes
		products := apiGroup.Group("/products")
		{
			products.GET("/", productHandlers.ListProducts)
			products.GET("/top", productHandlers.GetTopProducts)
			products.GET("/featured", productHandlers.GetFeaturedProducts)
			products.GET("/new", productHandlers.GetNewProducts)
			products.GET("/sale", productHandlers.GetSaleProducts)
			products.GET("/category/:category", productHandlers.GetProductsByCategory)
			products.GET("/:id", productHandlers.GetProduct)

			products.POST("/:id/reviews", authMiddleware.AuthRequired(), productHandlers.CreateReview)

			products.POST("/", authMiddleware.AuthRequired(), authMiddleware.AdminRequired(), productHandlers.CreateProduct)
			products.PUT("/:id", authMiddleware.AuthRequired(), authMiddleware.AdminRequired(), productHandlers.UpdateProduct)
			products.DELETE("/:id", authMiddleware.AuthRequired(), authMiddleware.AdminRequired(), productHandlers.DeleteProduct)
		}

		// Order routes
		orders := apiGroup.Group("/orders")
		orders.Use(authMiddleware.AuthRequired())
		{
			orders.POST("/", orderHandlers.CreateOrder)
			orders.GET("/myorders", orderHandlers.GetMyOrders)
			orders.GET("/:id", orderHandlers.GetOrder)
			orders.PUT("/:id/pay", orderHandlers.PayOrder)
			orders.PUT("/:id/cancel", orderHandlers.CancelOrder)

			orders.GET("/", authMiddleware.AdminRequired(), orderHandlers.ListOrders)
			orders.PUT("/:id/deliver", authMiddleware.AdminRequired(), orderHandlers.DeliverOrder)
			orders.PUT("/:id/status", authMiddleware.AdminRequired(), orderHandlers.UpdateOrderStatus)
			orders.PUT("/:id/note", authMiddleware.AdminRequired(), orderHandlers.AddOrderNote)
		}

		// Payment routes
		payment := apiGroup.Group("/payment")
		{
			payment.POST("/create-payment-intent", authMiddleware.AuthRequired(), paymentHandlers.CreatePaymentIntent)
			payment.POST("/webhook", paymentHandlers.Webhook)
		}
	}

	// Configure server with timeouts
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Maker3D API server starting on port %s", cfg.Port)

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server shutdown complete")
}
