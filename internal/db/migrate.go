package db

import (
	"fmt" // Error wrapping

	"cafe_ordering/internal/config" // Configuration
	"cafe_ordering/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/driver/sqlite"      // SQLite driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM logger levels
)

// Models lists every table in dependency order
func Models() []any {
	return []any{&domain.User{}, &domain.Category{}, &domain.Product{}, &domain.Order{}, &domain.OrderItem{}}
}

// Open connects to the configured database
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN()) // MySQL from DSN parts
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath) // Local file database
	default:
		return nil, fmt.Errorf("db.Open: unsupported driver %q", cfg.DBDriver)
	}
	logLevel := logger.Warn
	if cfg.IsProd {
		logLevel = logger.Error
	}
	return OpenDialector(dialector, logLevel)
}

// OpenDialector opens a GORM handle with the settings every caller shares
func OpenDialector(dialector gorm.Dialector, level logger.LogLevel) (*gorm.DB, error) {
	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true, // Map unique violations to gorm.ErrDuplicatedKey
		Logger:         logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("db.Open: %w", err)
	}
	return gdb, nil
}

// Migrate performs automatic migration for the database schema
func Migrate(gdb *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := gdb.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("db.Migrate: %w", err)
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
