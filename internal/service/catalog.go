package service

import (
	"context" // Context for cancellation
	"errors"  // Error inspection
	"strconv" // Cache keys

	"cafe_ordering/internal/domain" // Importing domain models
	"cafe_ordering/internal/utils"  // Cache, JWT and password helpers

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/gorm"                 // GORM ORM library
)

// Catalog cache keys
const (
	categoriesCacheKey    = "catalog:categories"
	productsCacheKey      = "catalog:products:category="
	productCacheKeyPrefix = "catalog:product:"
	catalogCachePattern   = "catalog:*"
)

// Catalog serves the public menu
type Catalog struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewCatalog creates the catalog service. rdb may be nil to disable caching.
func NewCatalog(db *gorm.DB, rdb *redis.Client) *Catalog {
	return &Catalog{db: db, rdb: rdb}
}

// ListCategories returns active categories by name, each with its available products
func (s *Catalog) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories := []domain.Category{}
	if s.cached(ctx, categoriesCacheKey, &categories) {
		return categories, nil
	}
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_available = ?", true).Order("name asc") // Only orderable products
		}).
		Order("name asc").
		Find(&categories).Error
	if err != nil {
		return nil, internal("service.Catalog.ListCategories", err)
	}
	s.store(ctx, categoriesCacheKey, categories)
	return categories, nil
}

// ListProducts returns available products of active categories by name.
// A zero categoryID lists every category.
func (s *Catalog) ListProducts(ctx context.Context, categoryID uint) ([]domain.Product, error) {
	key := productsCacheKey + strconv.FormatUint(uint64(categoryID), 10)
	products := []domain.Product{}
	if s.cached(ctx, key, &products) {
		return products, nil
	}
	query := s.db.WithContext(ctx).
		Joins("JOIN categories ON categories.id = products.category_id AND categories.is_active = ?", true).
		Where("products.is_available = ?", true).
		Preload("Category") // Category names for the menu
	if categoryID != 0 {
		query = query.Where("products.category_id = ?", categoryID)
	}
	if err := query.Order("products.name asc").Find(&products).Error; err != nil {
		return nil, internal("service.Catalog.ListProducts", err)
	}
	s.store(ctx, key, products)
	return products, nil
}

// GetProduct returns one product with its category, available or not
func (s *Catalog) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	key := productCacheKeyPrefix + strconv.FormatUint(uint64(id), 10)
	var product domain.Product
	if s.cached(ctx, key, &product) {
		return &product, nil
	}
	err := s.db.WithContext(ctx).Preload("Category").First(&product, id).Error // Fetch product by primary key
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	} else if err != nil {
		return nil, internal("service.Catalog.GetProduct", err)
	}
	s.store(ctx, key, product)
	return &product, nil
}

// Invalidate drops every cached catalog read
func (s *Catalog) Invalidate(ctx context.Context) error {
	return utils.DeleteCachePattern(ctx, s.rdb, catalogCachePattern)
}

func (s *Catalog) cached(ctx context.Context, key string, dest any) bool {
	found, err := utils.GetCache(ctx, s.rdb, key, dest)
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Catalog cache read failed")
		return false
	}
	return found
}

func (s *Catalog) store(ctx context.Context, key string, value any) {
	if err := utils.SetCache(ctx, s.rdb, key, value, utils.CacheTTL); err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Catalog cache write failed")
	}
}
