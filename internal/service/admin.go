package service

import (
	"context" // Context for cancellation
	"fmt"     // Cache keys
	"strings" // Status normalisation
	"time"    // Date filters

	"cafe_ordering/internal/domain" // Importing domain models
	"cafe_ordering/internal/utils"  // Cache, JWT and password helpers

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/gorm"                 // GORM ORM library
)

// Pagination bounds
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageQuery selects one page of a listing
type PageQuery struct {
	Page     int
	PageSize int
}

func (q PageQuery) normalize() PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize { // Out of range sizes fall back to the default
		q.PageSize = DefaultPageSize
	}
	return q
}

func (q PageQuery) offset() int { return (q.Page - 1) * q.PageSize }

func totalPages(total int64, size int) int {
	return int((total + int64(size) - 1) / int64(size))
}

// UserPage is one page of users
type UserPage struct {
	Users      []domain.User `json:"users"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"totalPages"`
	Cached     bool          `json:"cached"`
}

// OrderFilter narrows the admin order listing. Zero values match everything.
type OrderFilter struct {
	PageQuery
	Status string
	UserID uint
	From   *time.Time
	To     *time.Time
}

// OrderPage is one page of orders
type OrderPage struct {
	Orders     []domain.Order `json:"orders"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	Total      int64          `json:"total"`
	TotalPages int            `json:"totalPages"`
	Cached     bool           `json:"cached"`
}

// Stats are the row counts reported by the health check
type Stats struct {
	UserCount    int64 `json:"userCount"`
	ProductCount int64 `json:"productCount"`
}

// Admin serves the back-office listings
type Admin struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewAdmin creates the admin service. rdb may be nil.
func NewAdmin(db *gorm.DB, rdb *redis.Client) *Admin {
	return &Admin{db: db, rdb: rdb}
}

// ListUsers returns one page of users ordered by id
func (s *Admin) ListUsers(ctx context.Context, q PageQuery) (*UserPage, error) {
	q = q.normalize()
	key := fmt.Sprintf("admin:users:page=%d:size=%d", q.Page, q.PageSize)

	var page UserPage
	if found, err := utils.GetCache(ctx, s.rdb, key, &page); err == nil && found {
		page.Cached = true
		return &page, nil
	}

	db := s.db.WithContext(ctx)
	var total int64
	if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, internal("service.Admin.ListUsers", err)
	}
	users := []domain.User{} // Empty pages encode as []
	if err := db.Order("id asc").Offset(q.offset()).Limit(q.PageSize).Find(&users).Error; err != nil {
		return nil, internal("service.Admin.ListUsers", err)
	}
	page = UserPage{
		Users:      users,
		Page:       q.Page,
		PageSize:   q.PageSize,
		Total:      total,
		TotalPages: totalPages(total, q.PageSize),
	}
	s.store(ctx, key, page)
	return &page, nil
}

// ListOrders returns one page of every customer's orders, newest first
func (s *Admin) ListOrders(ctx context.Context, f OrderFilter) (*OrderPage, error) {
	f.PageQuery = f.PageQuery.normalize()
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
	switch f.Status {
	case "", domain.OrderPending, domain.OrderCompleted, domain.OrderCancelled:
	default:
		return nil, validationErr("status", "status must be one of pending, completed, cancelled")
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, validationErr("from", "from must not be after to")
	}
	// Read before the query, see Orders.invalidate
	gen, genErr := utils.CacheGeneration(ctx, s.rdb, adminOrdersGenKey)
	key := fmt.Sprintf("%sgen=%d:%s", strings.TrimSuffix(AdminOrdersCachePattern, "*"), gen, f.cacheKey())

	var page OrderPage
	if genErr == nil {
		if found, err := utils.GetCache(ctx, s.rdb, key, &page); err == nil && found {
			page.Cached = true
			return &page, nil
		}
	}

	db := s.db.WithContext(ctx)
	var total int64
	if err := f.apply(db.Model(&domain.Order{})).Count(&total).Error; err != nil {
		return nil, internal("service.Admin.ListOrders", err)
	}
	orders := []domain.Order{}
	err := withItems(f.apply(db)).
		Order("created_at desc").
		Order("id desc").
		Offset(f.offset()).
		Limit(f.PageSize).
		Find(&orders).Error
	if err != nil {
		return nil, internal("service.Admin.ListOrders", err)
	}
	page = OrderPage{
		Orders:     orders,
		Page:       f.Page,
		PageSize:   f.PageSize,
		Total:      total,
		TotalPages: totalPages(total, f.PageSize),
	}
	if genErr == nil {
		s.store(ctx, key, page)
	}
	return &page, nil
}

// Stats counts users and products, which also proves the database answers
func (s *Admin) Stats(ctx context.Context) (*Stats, error) {
	db := s.db.WithContext(ctx)
	var stats Stats
	if err := db.Model(&domain.User{}).Count(&stats.UserCount).Error; err != nil {
		return nil, internal("service.Admin.Stats", err)
	}
	if err := db.Model(&domain.Product{}).Count(&stats.ProductCount).Error; err != nil {
		return nil, internal("service.Admin.Stats", err)
	}
	return &stats, nil
}

func (s *Admin) store(ctx context.Context, key string, value any) {
	if err := utils.SetCache(ctx, s.rdb, key, value, utils.CacheTTL); err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Admin cache write failed")
	}
}

// apply adds the filter conditions to a fresh query chain
func (f OrderFilter) apply(db *gorm.DB) *gorm.DB {
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.UserID != 0 {
		db = db.Where("user_id = ?", f.UserID)
	}
	if f.From != nil {
		db = db.Where("created_at >= ?", f.From.UTC())
	}
	if f.To != nil {
		db = db.Where("created_at <= ?", f.To.UTC())
	}
	return db
}

func (f OrderFilter) cacheKey() string {
	var from, to string
	if f.From != nil {
		from = f.From.UTC().Format(time.RFC3339Nano)
	}
	if f.To != nil {
		to = f.To.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("status=%s:user=%d:from=%s:to=%s:page=%d:size=%d",
		f.Status, f.UserID, from, to, f.Page, f.PageSize)
}
