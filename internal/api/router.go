package api

import (
	"net/http" // Metrics handler type

	"cafe_ordering/internal/metrics"    // Prometheus collectors
	"cafe_ordering/internal/middleware" // Custom middleware

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // Stored role lookup
)

// Deps carries everything the router wires into handlers
type Deps struct {
	Auth    AuthService
	Catalog CatalogService
	Orders  OrderService
	Admin   AdminService
	DB      *gorm.DB // Used by AdminOnlyMiddleware

	Metrics        *metrics.Metrics // Optional
	MetricsHandler http.Handler     // Optional, served on /metrics
	AuthLimiter    *middleware.RateLimiter
	CORSOrigins    []string
	TrustedProxies []string
	IsProd         bool
}

// NewRouter builds the gin engine with every route
func NewRouter(d Deps) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, err
	}

	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}
	r.Use(middleware.CORS(d.CORSOrigins), exposeErrors(!d.IsProd))

	if d.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(d.MetricsHandler))
	}

	apiGroup := r.Group("/api")
	apiGroup.GET("/health", HealthHandler(d.Admin))

	// Auth routes, rate limited per client IP
	authGroup := apiGroup.Group("/auth")
	if d.AuthLimiter != nil {
		authGroup.Use(middleware.RateLimit(d.AuthLimiter))
	}
	authGroup.POST("/register", RegisterHandler(d.Auth))
	authGroup.POST("/login", LoginHandler(d.Auth))
	authGroup.POST("/google", GoogleAuthHandler(d.Auth))
	authGroup.GET("/me", middleware.JWTAuthMiddleware(d.Auth), MeHandler(d.Auth))

	// Public catalog
	apiGroup.GET("/categories", ListCategoriesHandler(d.Catalog))
	apiGroup.GET("/products", ListProductsHandler(d.Catalog))
	apiGroup.GET("/products/:id", GetProductHandler(d.Catalog))

	// Customer orders (protected by JWT)
	orderGroup := apiGroup.Group("/orders")
	orderGroup.Use(middleware.JWTAuthMiddleware(d.Auth))
	orderGroup.POST("", PlaceOrderHandler(d.Orders))
	orderGroup.GET("", ListOrdersHandler(d.Orders))
	orderGroup.GET("/:id", GetOrderHandler(d.Orders))
	orderGroup.PATCH("/:id/status", UpdateOrderStatusHandler(d.Orders))

	// Admin routes (protected, admin only)
	adminGroup := apiGroup.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(d.Auth), middleware.AdminOnlyMiddleware(d.DB))
	adminGroup.GET("/users", ListUsersHandler(d.Admin))
	adminGroup.GET("/orders", ListAllOrdersHandler(d.Admin))
	adminGroup.PATCH("/orders/:id/status", AdminUpdateOrderStatusHandler(d.Orders))

	return r, nil
}
