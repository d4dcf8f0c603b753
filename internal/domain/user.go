package domain

import "time"

// User roles
const (
	RoleCustomer = "customer" // Ordinary customer
	RoleAdmin    = "admin"    // Administrator
)

// Authentication methods a user account can be created with
const (
	AuthProviderPassword = "password" // Email + password account
	AuthProviderGoogle   = "google"   // Externally authenticated through Google
)

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                          // Primary key
	Email        string    `gorm:"size:191;uniqueIndex;not null" json:"email"`    // Unique, lower-cased email
	Password     string    `gorm:"not null;default:''" json:"-"`                  // Hashed password, empty for external accounts
	FirstName    string    `gorm:"size:100" json:"firstName"`                     // First name
	LastName     string    `gorm:"size:100" json:"lastName"`                      // Last name
	Phone        string    `gorm:"size:50" json:"phone"`                          // Phone number
	Role         string    `gorm:"size:20;not null;default:customer" json:"role"` // Role: customer or admin
	AuthProvider string    `gorm:"size:20;not null;default:password" json:"authProvider"`
	GoogleID     *string   `gorm:"size:191" json:"-"` // Google account id for external accounts
	CreatedAt    time.Time `json:"createdAt"`         // Timestamp of creation
	UpdatedAt    time.Time `json:"updatedAt"`         // Timestamp of last update
}

// UsesPassword reports whether the account can authenticate with a password
func (u *User) UsesPassword() bool {
	return u.AuthProvider == AuthProviderPassword && u.Password != ""
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
