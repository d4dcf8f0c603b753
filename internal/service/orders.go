package service

import (
	"context" // Context for cancellation
	"errors"  // Error inspection
	"fmt"     // Field paths and cache keys
	"strconv" // Cache keys
	"strings" // Status normalisation

	"cafe_ordering/internal/domain"  // Importing domain models
	"cafe_ordering/internal/events"  // Order event publisher
	"cafe_ordering/internal/metrics" // Prometheus collectors
	"cafe_ordering/internal/utils"   // Cache, JWT and password helpers

	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Exact money arithmetic
	"github.com/sirupsen/logrus"    // Logrus for structured logging
	"gorm.io/gorm"                  // GORM ORM library
)

const (
	userOrdersCacheKey = "orders:user:"
	// AdminOrdersCachePattern matches every cached admin order listing
	AdminOrdersCachePattern = "admin:orders:*"

	// Generation counters live outside the listing namespaces so that
	// pattern deletes never reset them
	userOrdersGenKey  = "orders:gen:user:"
	adminOrdersGenKey = "orders:gen:admin"
)

// userOrdersKey names the cached order list of a user at a given generation.
// A list read before a write is stored under the old generation and never served.
func userOrdersKey(userID uint, gen int64) string {
	return fmt.Sprintf("%s%d:gen=%d", userOrdersCacheKey, userID, gen)
}

func userOrdersGen(userID uint) string {
	return userOrdersGenKey + strconv.FormatUint(uint64(userID), 10)
}

// OrderItemInput is one requested line. Prices are never taken from the client.
type OrderItemInput struct {
	ProductID uint
	Quantity  int
}

// PlaceOrderInput is the body of a new order
type PlaceOrderInput struct {
	Items []OrderItemInput
	Notes string
}

// Actor is the authenticated caller of an operation
type Actor struct {
	UserID uint
	Role   string
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool { return a.Role == domain.RoleAdmin }

// Orders prices, stores and transitions orders
type Orders struct {
	db        *gorm.DB
	rdb       *redis.Client
	publisher events.Publisher
	metrics   *metrics.Metrics
}

// NewOrders creates the order service. rdb and m may be nil.
func NewOrders(db *gorm.DB, rdb *redis.Client, publisher events.Publisher, m *metrics.Metrics) *Orders {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Orders{db: db, rdb: rdb, publisher: publisher, metrics: m}
}

// PlaceOrder prices the requested items from the live catalog and stores the
// order with its items in one transaction. Nothing is written on failure.
func (s *Orders) PlaceOrder(ctx context.Context, userID uint, in PlaceOrderInput) (*domain.Order, error) {
	const op = "service.Orders.PlaceOrder"
	if len(in.Items) == 0 {
		return nil, validationErr("items", "order items required")
	}
	for i, it := range in.Items {
		if it.ProductID == 0 {
			return nil, validationErr(fmt.Sprintf("items[%d].productId", i), "productId is required")
		}
		if it.Quantity <= 0 {
			return nil, invalidQuantity(i)
		}
	}

	order := domain.Order{
		UserID: userID,
		Status: domain.OrderPending,
		Notes:  strings.TrimSpace(in.Notes),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.Select("id").First(&user, userID).Error; err != nil { // The token may outlive its user
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		products, err := productsByID(tx, in.Items)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, it := range in.Items {
			p, ok := products[it.ProductID]
			if !ok {
				return productUnavailable(it.ProductID, "")
			}
			if !p.IsAvailable {
				return productUnavailable(p.ID, p.Name)
			}
			line := domain.OrderItem{ProductID: p.ID, Quantity: it.Quantity, Price: p.Price} // Price snapshot
			total = total.Add(line.LineTotal())
			order.Items = append(order.Items, line)
		}
		order.TotalPrice = total

		return tx.Create(&order).Error // Order and items commit together
	})
	if err != nil {
		var svcErr *Error
		if errors.As(err, &svcErr) {
			return nil, svcErr
		}
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Order placement failed")
		return nil, internal(op, err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":     userID,
		"order_id":    order.ID,
		"items":       len(order.Items),
		"total_price": order.TotalPrice.StringFixed(2),
	}).Info("Order placed")
	s.metrics.OrderPlaced(order.TotalPrice)
	s.invalidate(ctx, userID)

	stored, err := s.GetOrder(ctx, userID, order.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderPlaced, stored)
	return stored, nil
}

// ListOrders returns the caller's orders, newest first, with items and products
func (s *Orders) ListOrders(ctx context.Context, userID uint) ([]domain.Order, error) {
	// Read before the query: a write committing meanwhile retires this key
	gen, genErr := utils.CacheGeneration(ctx, s.rdb, userOrdersGen(userID))
	key := userOrdersKey(userID, gen)
	orders := []domain.Order{}
	if genErr == nil {
		if found, err := utils.GetCache(ctx, s.rdb, key, &orders); err == nil && found {
			return orders, nil
		}
	}
	err := withItems(s.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Order("id desc").
		Find(&orders).Error
	if err != nil {
		return nil, internal("service.Orders.ListOrders", err)
	}
	if genErr != nil {
		return orders, nil // Without a generation nothing may be cached
	}
	if err := utils.SetCache(ctx, s.rdb, key, orders, utils.CacheTTL); err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Order cache write failed")
	}
	return orders, nil
}

// GetOrder returns one of the caller's orders
func (s *Orders) GetOrder(ctx context.Context, userID, orderID uint) (*domain.Order, error) {
	var order domain.Order
	err := withItems(s.db.WithContext(ctx)).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	} else if err != nil {
		return nil, internal("service.Orders.GetOrder", err)
	}
	return &order, nil
}

// UpdateStatus moves a pending order to completed or cancelled.
// Admins may apply either transition to any order; customers may only
// cancel their own orders.
func (s *Orders) UpdateStatus(ctx context.Context, actor Actor, orderID uint, status string) (*domain.Order, error) {
	const op = "service.Orders.UpdateStatus"
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case domain.OrderPending, domain.OrderCompleted, domain.OrderCancelled:
	default:
		return nil, validationErr("status", "status must be one of pending, completed, cancelled")
	}

	db := s.db.WithContext(ctx)
	query := db.Model(&domain.Order{}).Where("id = ?", orderID)
	if !actor.IsAdmin() {
		query = query.Where("user_id = ?", actor.UserID) // Customers only see their own orders
	}
	var order domain.Order
	if err := query.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, internal(op, err)
	}
	if !actor.IsAdmin() && status != domain.OrderCancelled {
		return nil, ErrForbidden
	}
	if !domain.CanTransition(order.Status, status) {
		return nil, invalidTransition(order.Status, status)
	}

	// Guarded update: a concurrent transition leaves zero rows affected
	res := db.Model(&domain.Order{}).
		Where("id = ? AND status = ?", order.ID, domain.OrderPending).
		Update("status", status)
	if res.Error != nil {
		return nil, internal(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, invalidTransition(domain.OrderPending, status)
	}

	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"actor_id": actor.UserID,
		"from":     order.Status,
		"to":       status,
	}).Info("Order status changed")
	s.metrics.OrderTransitioned(status)
	s.invalidate(ctx, order.UserID)

	stored, err := s.GetOrder(ctx, order.UserID, order.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderStatusChanged, stored)
	return stored, nil
}

// invalidate runs after a commit. Bumping the generations retires every list
// read before the write, including ones still being built; the deletes only
// free memory.
func (s *Orders) invalidate(ctx context.Context, userID uint) {
	gen, err := utils.BumpCacheGeneration(ctx, s.rdb, userOrdersGen(userID))
	if err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Order cache invalidation failed")
	} else if err := utils.DeleteCache(ctx, s.rdb, userOrdersKey(userID, gen-1)); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Stale order list not deleted")
	}
	if _, err := utils.BumpCacheGeneration(ctx, s.rdb, adminOrdersGenKey); err != nil {
		logrus.WithField("error", err.Error()).Warn("Admin order cache invalidation failed")
	}
	if err := utils.DeleteCachePattern(ctx, s.rdb, AdminOrdersCachePattern); err != nil {
		logrus.WithField("error", err.Error()).Warn("Stale admin order lists not deleted")
	}
}

func (s *Orders) publish(ctx context.Context, eventType string, order *domain.Order) {
	if err := s.publisher.Publish(ctx, events.NewOrderEvent(eventType, order)); err != nil {
		logrus.WithFields(logrus.Fields{
			"order_id": order.ID,
			"type":     eventType,
			"error":    err.Error(),
		}).Error("Order event not published")
	}
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Items.Product")
}

func productsByID(tx *gorm.DB, items []OrderItemInput) (map[uint]domain.Product, error) {
	ids := make([]uint, 0, len(items))
	seen := make(map[uint]bool, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	var products []domain.Product
	if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}
