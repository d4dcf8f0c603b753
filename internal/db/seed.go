package db

import (
	"errors"
	"fmt"
	"strings"

	"cafe_ordering/internal/domain"
	"cafe_ordering/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type seedProduct struct {
	name, description, price, image string
}

type seedCategory struct {
	name, description, image string
	products                 []seedProduct
}

var menu = []seedCategory{
	{"Hot Beverages", "Freshly brewed hot drinks to warm your soul", "/images/categories/hot-beverages.jpg", []seedProduct{
		{"Espresso", "Rich and bold single shot of espresso", "2.50", "/images/products/espresso.jpg"},
		{"Cappuccino", "Perfect balance of espresso, steamed milk, and foam", "4.25", "/images/products/cappuccino.jpg"},
		{"Latte", "Smooth espresso with steamed milk and light foam", "4.75", "/images/products/latte.jpg"},
		{"Americano", "Espresso shots with hot water for a clean taste", "3.25", "/images/products/americano.jpg"},
	}},
	{"Cold Beverages", "Refreshing cold drinks for any time of day", "/images/categories/cold-beverages.jpg", []seedProduct{
		{"Iced Coffee", "Cold brew coffee served over ice", "3.75", "/images/products/iced-coffee.jpg"},
		{"Frappuccino", "Blended coffee drink with ice and whipped cream", "5.25", "/images/products/frappuccino.jpg"},
		{"Iced Latte", "Espresso with cold milk served over ice", "4.50", "/images/products/iced-latte.jpg"},
	}},
	{"Pastries", "Freshly baked pastries and sweet treats", "/images/categories/pastries.jpg", []seedProduct{
		{"Croissant", "Buttery, flaky French pastry", "3.50", "/images/products/croissant.jpg"},
		{"Blueberry Muffin", "Fresh baked muffin with juicy blueberries", "2.75", "/images/products/blueberry-muffin.jpg"},
		{"Chocolate Chip Cookie", "Warm, gooey chocolate chip cookie", "2.25", "/images/products/chocolate-chip-cookie.jpg"},
	}},
	{"Sandwiches", "Delicious sandwiches made with fresh ingredients", "/images/categories/sandwiches.jpg", []seedProduct{
		{"Turkey Club", "Turkey, bacon, lettuce, tomato on toasted bread", "8.50", "/images/products/turkey-club.jpg"},
		{"Grilled Cheese", "Classic grilled cheese with melted cheddar", "6.25", "/images/products/grilled-cheese.jpg"},
	}},
}

// SeedOptions controls the optional admin account
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	BcryptCost    int
}

// Seed inserts the starter menu and the admin account. Existing rows are kept,
// so running it twice changes nothing.
func Seed(gdb *gorm.DB, opts SeedOptions) error {
	err := gdb.Transaction(func(tx *gorm.DB) error {
		for _, sc := range menu {
			category := domain.Category{Name: sc.name}
			err := tx.Where(domain.Category{Name: sc.name}).
				Attrs(domain.Category{Description: sc.description, ImageURL: sc.image, IsActive: true}).
				FirstOrCreate(&category).Error
			if err != nil {
				return err
			}
			for _, sp := range sc.products {
				var product domain.Product
				err := tx.Where(domain.Product{Name: sp.name, CategoryID: category.ID}).
					Attrs(domain.Product{
						Description: sp.description,
						Price:       decimal.RequireFromString(sp.price),
						ImageURL:    sp.image,
						IsAvailable: true,
					}).
					FirstOrCreate(&product).Error
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("db.Seed: %w", err)
	}
	logrus.Info("Menu seeded")
	return seedAdmin(gdb, opts)
}

func seedAdmin(gdb *gorm.DB, opts SeedOptions) error {
	email := strings.ToLower(strings.TrimSpace(opts.AdminEmail))
	if email == "" || opts.AdminPassword == "" {
		logrus.Warn("Skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}
	if len(opts.AdminPassword) > utils.MaxPasswordBytes {
		return fmt.Errorf("db.seedAdmin: ADMIN_PASSWORD must be at most %d bytes", utils.MaxPasswordBytes)
	}
	var existing domain.User
	err := gdb.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			if err := gdb.Model(&existing).Update("role", domain.RoleAdmin).Error; err != nil {
				return fmt.Errorf("db.seedAdmin: %w", err)
			}
		}
		logrus.WithField("email", email).Info("Admin already exists")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("db.seedAdmin: %w", err)
	}
	hash, err := utils.HashPassword(opts.AdminPassword, opts.BcryptCost)
	if err != nil {
		return fmt.Errorf("db.seedAdmin: %w", err)
	}
	admin := domain.User{
		Email:        email,
		Password:     hash,
		FirstName:    "Admin",
		LastName:     "User",
		Role:         domain.RoleAdmin,
		AuthProvider: domain.AuthProviderPassword,
	}
	if err := gdb.Create(&admin).Error; err != nil {
		return fmt.Errorf("db.seedAdmin: %w", err)
	}
	logrus.WithField("email", email).Info("Admin seeded")
	return nil
}
