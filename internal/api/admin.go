package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Query parsing
	"time"     // Date filters

	"cafe_ordering/internal/domain"  // Roles
	"cafe_ordering/internal/service" // Admin listings

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListUsersHandler returns one page of users
func ListUsersHandler(admin AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := admin.ListUsers(c.Request.Context(), pageQuery(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// ListAllOrdersHandler returns every customer's orders, with optional filtering by
// status, user or creation date
func ListAllOrdersHandler(admin AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := service.OrderFilter{PageQuery: pageQuery(c), Status: c.Query("status")}
		if raw := c.Query("user_id"); raw != "" {
			id, err := parseID(raw, "user_id")
			if err != nil {
				writeError(c, err)
				return
			}
			filter.UserID = id
		}
		var err error
		if filter.From, err = parseTime(c.Query("from"), "from", false); err != nil {
			writeError(c, err)
			return
		}
		if filter.To, err = parseTime(c.Query("to"), "to", true); err != nil {
			writeError(c, err)
			return
		}
		page, err := admin.ListOrders(c.Request.Context(), filter)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// AdminUpdateOrderStatusHandler completes or cancels any pending order
func AdminUpdateOrderStatusHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		updateStatus(c, orders, domain.RoleAdmin) // AdminOnlyMiddleware checked the stored role
	}
}

// HealthHandler reports whether the database answers, with a few counts
func HealthHandler(admin AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := admin.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"userCount":    stats.UserCount,
			"productCount": stats.ProductCount,
		})
	}
}

// pageQuery reads page and page_size; bad values fall back to the defaults
func pageQuery(c *gin.Context) service.PageQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(service.DefaultPageSize)))
	return service.PageQuery{Page: page, PageSize: size}
}

// parseTime accepts RFC 3339 timestamps or plain dates. A plain "to" date
// covers the whole day.
func parseTime(raw, field string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, &service.Error{
			Kind:    service.KindValidation,
			Code:    service.ErrValidation.Code,
			Field:   field,
			Message: field + " must be a date (YYYY-MM-DD) or an RFC 3339 timestamp",
		}
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
