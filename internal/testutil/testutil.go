// Package testutil builds isolated databases, caches and fixtures for tests.
package testutil

import (
	"testing" // Test helper access

	"cafe_ordering/internal/db"     // Database setup
	"cafe_ordering/internal/domain" // Importing domain models
	"cafe_ordering/internal/utils"  // Password hashing

	"github.com/alicebob/miniredis/v2"    // In-memory Redis
	"github.com/google/uuid"              // Unique database names
	"github.com/redis/go-redis/v9"        // Redis client
	"github.com/shopspring/decimal"       // Product prices
	"github.com/stretchr/testify/require" // Test assertions
	"gorm.io/driver/sqlite"               // SQLite driver for GORM
	"gorm.io/gorm"                        // GORM ORM library
	"gorm.io/gorm/logger"                 // GORM logger levels
)

// DB returns a migrated in-memory SQLite database private to the test
func DB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	gdb, err := db.OpenDialector(sqlite.Open(dsn), logger.Silent)
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // One connection keeps the shared memory database alive and serialised
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// Redis returns a client backed by a fresh miniredis server
func Redis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

// CreateUser stores a password account with the given role
func CreateUser(t *testing.T, gdb *gorm.DB, email, password, role string) *domain.User {
	t.Helper()
	hash, err := utils.HashPassword(password, 10)
	require.NoError(t, err)
	user := &domain.User{
		Email:        email,
		Password:     hash,
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		AuthProvider: domain.AuthProviderPassword,
	}
	require.NoError(t, gdb.Create(user).Error)
	return user
}

// CreateCategory stores a category
func CreateCategory(t *testing.T, gdb *gorm.DB, name string, active bool) *domain.Category {
	t.Helper()
	category := &domain.Category{Name: name, IsActive: active}
	require.NoError(t, gdb.Create(category).Error)
	return category
}

// CreateProduct stores a product priced from a decimal string
func CreateProduct(t *testing.T, gdb *gorm.DB, categoryID uint, name, price string, available bool) *domain.Product {
	t.Helper()
	product := &domain.Product{
		CategoryID:  categoryID,
		Name:        name,
		Price:       decimal.RequireFromString(price),
		IsAvailable: available,
	}
	require.NoError(t, gdb.Create(product).Error)
	return product
}

// CountRows counts the rows of a model
func CountRows(t *testing.T, gdb *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(model).Count(&n).Error)
	return n
}
