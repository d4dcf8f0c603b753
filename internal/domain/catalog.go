package domain

import (
	"time" // Timestamps

	"github.com/shopspring/decimal" // Exact money arithmetic
)

// Category Model
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`                      // Primary key
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"` // Unique category name
	Description string    `json:"description"`                               // Short description
	ImageURL    string    `json:"imageUrl"`                                  // Image reference
	IsActive    bool      `gorm:"not null" json:"isActive"`                  // Hidden from the menu when false
	Products    []Product `json:"products,omitempty"`                        // Products in this category
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Product Model
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`                     // Primary key
	CategoryID  uint            `gorm:"index;not null" json:"categoryId"`         // Foreign key to Category
	Category    *Category       `json:"category,omitempty"`                       // Owning category
	Name        string          `gorm:"size:100;not null" json:"name"`            // Product name
	Description string          `json:"description"`                              // Product description
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"` // Authoritative price
	ImageURL    string          `json:"imageUrl"`                                 // Image reference
	IsAvailable bool            `gorm:"not null" json:"isAvailable"`              // Orderable flag
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
