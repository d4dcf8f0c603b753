package api

import (
	"net/http" // HTTP status codes

	"cafe_ordering/internal/domain"     // Roles
	"cafe_ordering/internal/middleware" // Caller identity
	"cafe_ordering/internal/service"    // Order service inputs

	"github.com/gin-gonic/gin" // Gin web framework
)

// OrderItemRequest is one requested line. Any client price is ignored.
type OrderItemRequest struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

// PlaceOrderRequest is the body of POST /api/orders
type PlaceOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
	Notes string             `json:"notes"`
}

// StatusRequest is the body of the status update endpoints
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PlaceOrderHandler prices and stores an order for the caller
func PlaceOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, bindError(err))
			return
		}
		in := service.PlaceOrderInput{Notes: req.Notes}
		for _, it := range req.Items {
			in.Items = append(in.Items, service.OrderItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
		}
		order, err := orders.PlaceOrder(c.Request.Context(), middleware.CurrentUserID(c), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

// ListOrdersHandler returns the caller's orders, newest first
func ListOrdersHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.ListOrders(c.Request.Context(), middleware.CurrentUserID(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GetOrderHandler returns one of the caller's orders
func GetOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"), "id")
		if err != nil {
			writeError(c, err)
			return
		}
		order, err := orders.GetOrder(c.Request.Context(), middleware.CurrentUserID(c), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// UpdateOrderStatusHandler lets customers cancel their own pending orders
func UpdateOrderStatusHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The token's role claim is not trusted here, admins use their own route
		updateStatus(c, orders, domain.RoleCustomer)
	}
}

func updateStatus(c *gin.Context, orders OrderService, role string) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	actor := service.Actor{UserID: middleware.CurrentUserID(c), Role: role}
	order, err := orders.UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
