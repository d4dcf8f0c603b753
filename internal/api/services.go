package api

import (
	"context" // Context for service calls

	"cafe_ordering/internal/domain"  // Importing domain models
	"cafe_ordering/internal/service" // Service inputs and pages
	"cafe_ordering/internal/utils"   // Token claims
)

// AuthService is what the auth handlers need from the credential service
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
	OAuthUpsert(ctx context.Context, email, displayName, googleID string) (*service.AuthResult, error)
	Me(ctx context.Context, userID uint) (*domain.User, error)
	VerifyToken(token string) (*utils.Claims, error)
}

// CatalogService serves the public menu
type CatalogService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListProducts(ctx context.Context, categoryID uint) ([]domain.Product, error)
	GetProduct(ctx context.Context, id uint) (*domain.Product, error)
}

// OrderService places and transitions orders
type OrderService interface {
	PlaceOrder(ctx context.Context, userID uint, in service.PlaceOrderInput) (*domain.Order, error)
	ListOrders(ctx context.Context, userID uint) ([]domain.Order, error)
	GetOrder(ctx context.Context, userID, orderID uint) (*domain.Order, error)
	UpdateStatus(ctx context.Context, actor service.Actor, orderID uint, status string) (*domain.Order, error)
}

// AdminService serves the back-office listings and the health counts
type AdminService interface {
	ListUsers(ctx context.Context, q service.PageQuery) (*service.UserPage, error)
	ListOrders(ctx context.Context, f service.OrderFilter) (*service.OrderPage, error)
	Stats(ctx context.Context) (*service.Stats, error)
}
