package domain

import (
	"time" // Timestamps

	"github.com/shopspring/decimal" // Exact money arithmetic
)

// Order statuses
const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// CanTransition reports whether an order may move from one status to another.
// Only pending orders move, and only to completed or cancelled.
func CanTransition(from, to string) bool {
	return from == OrderPending && (to == OrderCompleted || to == OrderCancelled)
}

// Order Model
type Order struct {
	ID         uint            `gorm:"primaryKey" json:"id"`                                       // Primary key
	UserID     uint            `gorm:"index;not null" json:"userId"`                               // Foreign key to User
	Status     string          `gorm:"size:20;index;not null;default:pending" json:"status"`       // pending, completed or cancelled
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"totalPrice"`              // Sum of item snapshots
	Notes      string          `json:"notes"`                                                      // Optional notes from the customer
	Items      []OrderItem     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"` // Line items
	CreatedAt  time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// OrderItem Model
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`                     // Primary key
	OrderID   uint            `gorm:"index;not null" json:"orderId"`            // Foreign key to Order
	ProductID uint            `gorm:"index;not null" json:"productId"`          // Foreign key to Product
	Product   *Product        `json:"product,omitempty"`                        // Referenced product
	Quantity  int             `gorm:"not null" json:"quantity"`                 // Ordered quantity
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"` // Price snapshot at order time
}

// LineTotal is the snapshot price times quantity
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
