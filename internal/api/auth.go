package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"cafe_ordering/internal/middleware" // Caller identity
	"cafe_ordering/internal/service"    // Credential service

	"github.com/gin-gonic/gin" // Gin web framework
)

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GoogleAuthRequest carries the profile the client obtained from Google
type GoogleAuthRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name" binding:"required"`
	GoogleID string `json:"googleId"`
}

// RegisterHandler creates a password account and returns it with a token
func RegisterHandler(auth AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, bindError(err))
			return
		}
		res, err := auth.Register(c.Request.Context(), service.RegisterInput{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
			Password:  req.Password,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(auth AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, bindError(err))
			return
		}
		res, err := auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// GoogleAuthHandler signs in a Google user, creating the account on first use
func GoogleAuthHandler(auth AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GoogleAuthRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, bindError(err))
			return
		}
		res, err := auth.OAuthUpsert(c.Request.Context(), req.Email, req.Name, req.GoogleID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// MeHandler returns the user behind the bearer token
func MeHandler(auth AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := auth.Me(c.Request.Context(), middleware.CurrentUserID(c))
		if errors.Is(err, service.ErrUserNotFound) {
			// The token outlived its account
			writeError(c, service.ErrInvalidToken)
			return
		} else if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}
