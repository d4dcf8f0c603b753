package service

import (
	"context" // Context for cancellation
	"errors"  // Error inspection
	"fmt"     // Messages
	"strings" // String manipulation
	"sync"    // Dummy hash initialisation
	"time"    // Token lifetime

	"cafe_ordering/internal/domain" // Importing domain models
	"cafe_ordering/internal/utils"  // Cache, JWT and password helpers

	"github.com/go-playground/validator/v10" // Email validation
	"github.com/sirupsen/logrus"             // Logrus for structured logging
	"gorm.io/gorm"                           // GORM ORM library
)

var validate = validator.New()

// RegisterInput holds the fields of a new password account
type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Password  string
}

// AuthResult is returned by every operation that signs a user in
type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Auth registers users, checks credentials and issues bearer tokens
type Auth struct {
	db     *gorm.DB
	secret string
	ttl    time.Duration
	cost   int

	dummyOnce sync.Once
	dummyHash string
}

// NewAuth creates the credential service
func NewAuth(db *gorm.DB, secret string, ttl time.Duration, bcryptCost int) *Auth {
	return &Auth{db: db, secret: secret, ttl: ttl, cost: bcryptCost}
}

// Register creates a password account and signs it in
func (s *Auth) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	const op = "service.Auth.Register"
	email := normalizeEmail(in.Email)
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, validationErr("email", "a valid email is required")
	}
	firstName := strings.TrimSpace(in.FirstName)
	if firstName == "" {
		return nil, validationErr("firstName", "firstName is required")
	}
	lastName := strings.TrimSpace(in.LastName)
	if lastName == "" {
		return nil, validationErr("lastName", "lastName is required")
	}
	if in.Password == "" {
		return nil, validationErr("password", "password is required")
	}
	if len(in.Password) > utils.MaxPasswordBytes {
		return nil, validationErr("password", fmt.Sprintf("password must be at most %d bytes", utils.MaxPasswordBytes))
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, internal(op, err)
	}
	if count > 0 {
		return nil, ErrDuplicateUser
	}

	hash, err := utils.HashPassword(in.Password, s.cost)
	if err != nil {
		return nil, internal(op, err)
	}
	user := domain.User{
		Email:        email,
		Password:     hash,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         domain.RoleCustomer,
		AuthProvider: domain.AuthProviderPassword,
	}
	if err := db.Create(&user).Error; err != nil {
		// A concurrent registration won the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUser
		}
		return nil, internal(op, err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered")
	return s.signIn(op, &user)
}

// Login checks a password and signs the user in.
// Unknown emails, wrong passwords and external accounts fail identically.
func (s *Auth) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	const op = "service.Auth.Login"
	email = normalizeEmail(email)
	if email == "" {
		return nil, validationErr("email", "email is required")
	}
	if password == "" {
		return nil, validationErr("password", "password is required")
	}

	var user domain.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = utils.CheckPassword(s.dummy(), password) // Same cost as a real comparison
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, internal(op, err)
	}
	if !user.UsesPassword() { // Google-only accounts
		_ = utils.CheckPassword(s.dummy(), password)
		return nil, ErrInvalidCredentials
	}
	if err := utils.CheckPassword(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	logrus.WithField("user_id", user.ID).Info("User logged in")
	return s.signIn(op, &user)
}

// VerifyToken validates a bearer token and returns its claims
func (s *Auth) VerifyToken(token string) (*utils.Claims, error) {
	claims, err := utils.ParseJWT(token, s.secret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// OAuthUpsert signs in a Google user, creating the account on first use
func (s *Auth) OAuthUpsert(ctx context.Context, email, displayName, googleID string) (*AuthResult, error) {
	const op = "service.Auth.OAuthUpsert"
	email = normalizeEmail(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, validationErr("email", "a valid email is required")
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, validationErr("name", "name is required")
	}
	googleID = strings.TrimSpace(googleID)

	db := s.db.WithContext(ctx)
	user, err := s.findByEmail(db, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, internal(op, err)
	}

	if user == nil {
		first, last := splitName(displayName)
		user = &domain.User{
			Email:        email,
			FirstName:    first,
			LastName:     last,
			Role:         domain.RoleCustomer,
			AuthProvider: domain.AuthProviderGoogle,
		}
		if googleID != "" {
			user.GoogleID = &googleID
		}
		if err := db.Create(user).Error; err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, internal(op, err)
			}
			// Created concurrently, use the stored row
			if user, err = s.findByEmail(db, email); err != nil {
				return nil, internal(op, err)
			}
		} else {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"email":   user.Email,
			}).Info("Google user created")
		}
	} else if user.GoogleID == nil && googleID != "" {
		if err := db.Model(user).Update("google_id", googleID).Error; err != nil {
			return nil, internal(op, err)
		}
	}

	return s.signIn(op, user)
}

// Me returns the user a token was issued to
func (s *Auth) Me(ctx context.Context, userID uint) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, internal("service.Auth.Me", err)
	}
	return &user, nil
}

func (s *Auth) signIn(op string, user *domain.User) (*AuthResult, error) {
	token, err := utils.GenerateJWT(user.ID, user.Email, user.Role, s.secret, s.ttl)
	if err != nil {
		return nil, internal(op, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *Auth) findByEmail(db *gorm.DB, email string) (*domain.User, error) {
	var user domain.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// dummy is compared against when no real hash exists so that every failed
// login costs one bcrypt comparison
func (s *Auth) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = utils.HashPassword("cafe-dummy-password", s.cost)
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
