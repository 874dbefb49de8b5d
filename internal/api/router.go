package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/phonemart/marketplace-api/docs"
	"github.com/phonemart/marketplace-api/internal/api/handler"
	"github.com/phonemart/marketplace-api/internal/api/middleware"
	"github.com/phonemart/marketplace-api/internal/core/domain"
	"github.com/phonemart/marketplace-api/internal/core/service"
	mongodb "github.com/phonemart/marketplace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/phonemart/marketplace-api/internal/infrastructure/db/redis"
)

// Options carries the router's non-infrastructure settings.
type Options struct {
	JWTSecret  string
	AdminEmail string
	TokenTTL   time.Duration
}

// NewRouter builds the Echo instance with every repository, service and
// route wired up. audit receives admin audit entries for async persistence.
func NewRouter(db *mongo.Database, rdb *redis.Client, audit middleware.AuditSink, opts Options, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	cartRepo := mongodb.NewCartRepository(db)
	listingRepo := mongodb.NewListingRepository(db)
	txRepo := mongodb.NewTransactionRepository(db)
	notifRepo := mongodb.NewNotificationRepository(db)
	cartCache := redisdb.NewCartCountCache(rdb)

	// --- Services ---
	pricer := service.NewPricer(listingRepo, userRepo, log)
	cartSvc := service.NewCartService(cartRepo, listingRepo, cartCache, pricer, log)
	checkoutSvc := service.NewCheckoutService(cartRepo, listingRepo, txRepo, notifRepo, cartCache, pricer, log)
	authSvc := service.NewAuthService(userRepo, opts.JWTSecret, opts.AdminEmail, opts.TokenTTL, log)
	listingSvc := service.NewListingService(listingRepo, userRepo, log)
	wishlistSvc := service.NewWishlistService(userRepo, listingRepo, log)
	adminSvc := service.NewAdminService(userRepo, listingRepo, txRepo, notifRepo, log)

	// --- Handlers ---
	cartHandler := handler.NewCartHandler(cartSvc, checkoutSvc)
	orderHandler := handler.NewOrderHandler(checkoutSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	listingHandler := handler.NewListingHandler(listingSvc)
	wishlistHandler := handler.NewWishlistHandler(wishlistSvc)
	adminHandler := handler.NewAdminHandler(adminSvc)

	authRequired := middleware.Auth(opts.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Account ---
	account := e.Group("/api/account")
	account.POST("/login", authHandler.Login)
	account.POST("/register", authHandler.Register)
	account.POST("/verify", authHandler.Verify)
	account.GET("/profile", authHandler.Profile, authRequired)
	account.PUT("/profile", authHandler.UpdateProfile, authRequired)
	account.POST("/password", authHandler.ChangePassword, authRequired)

	// --- Cart & checkout ---
	cart := e.Group("/api/cart", authRequired)
	cart.GET("", cartHandler.Get)
	cart.GET("/quantity", cartHandler.Quantity)
	cart.POST("/add", cartHandler.Add)
	cart.POST("/update", cartHandler.Update)
	cart.POST("/delete", cartHandler.Delete)
	cart.GET("/checkout", cartHandler.Checkout)

	e.GET("/api/orders", orderHandler.List, authRequired)

	// --- Listings ---
	phones := e.Group("/api/phones")
	phones.GET("", listingHandler.Browse)
	phones.GET("/metadata", listingHandler.Metadata)
	phones.GET("/soldoutsoon", listingHandler.SoldOutSoon)
	phones.GET("/bestsellers", listingHandler.BestSellers)
	phones.GET("/:id", listingHandler.Get)
	phones.GET("/:id/details", listingHandler.Details)
	phones.POST("", listingHandler.Create, authRequired)
	phones.PATCH("/:id", listingHandler.SetDisabled, authRequired)
	phones.DELETE("/:id", listingHandler.Delete, authRequired)
	phones.POST("/:id/reviews", listingHandler.AddReview, authRequired)
	phones.PATCH("/:id/reviews/:index", listingHandler.SetReviewHidden, authRequired)

	// --- Wishlist ---
	wishlist := e.Group("/api/wishlist", authRequired)
	wishlist.GET("", wishlistHandler.List)
	wishlist.POST("/:id", wishlistHandler.Add)
	wishlist.DELETE("/:id", wishlistHandler.Remove)

	// --- Admin (audited) ---
	admin := e.Group("/api/admin", authRequired, adminOnly, middleware.Audit(audit))
	admin.GET("/users", adminHandler.ListUsers)
	admin.PATCH("/users/:id", adminHandler.UpdateUser)
	admin.POST("/users/:id/disable", adminHandler.SetUserDisabled)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.GET("/users/:id/listings", adminHandler.ListUserListings)
	admin.GET("/users/:id/reviews", adminHandler.ListUserReviews)
	admin.GET("/phones", adminHandler.ListListings)
	admin.PATCH("/phones/:id", adminHandler.UpdateListing)
	admin.POST("/phones/:id/disable", adminHandler.DisableListing)
	admin.DELETE("/phones/:id", adminHandler.DeleteListing)
	admin.GET("/reviews", adminHandler.ListReviews)
	admin.PATCH("/phones/:id/reviews/:index", adminHandler.SetReviewVisibility)
	admin.GET("/transactions", adminHandler.ListTransactions)
	admin.GET("/notifications", adminHandler.ListNotifications)

	// --- Ops ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/docs/*", echoSwagger.WrapHandler)

	return e
}
