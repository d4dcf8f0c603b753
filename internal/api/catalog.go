package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Id parsing

	"cafe_ordering/internal/service" // Service errors

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListCategoriesHandler returns active categories with their available products
func ListCategoriesHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := catalog.ListCategories(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// ListProductsHandler returns available products, optionally of one category
func ListProductsHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categoryID uint
		if raw := c.Query("categoryId"); raw != "" {
			id, err := parseID(raw, "categoryId")
			if err != nil {
				writeError(c, err)
				return
			}
			categoryID = id
		}
		products, err := catalog.ListProducts(c.Request.Context(), categoryID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GetProductHandler returns one product
func GetProductHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"), "id")
		if err != nil {
			writeError(c, err)
			return
		}
		product, err := catalog.GetProduct(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// parseID reads a positive integer identifier
func parseID(raw, field string) (uint, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, &service.Error{
			Kind:    service.KindValidation,
			Code:    service.ErrValidation.Code,
			Field:   field,
			Message: field + " must be a positive integer",
		}
	}
	return uint(v), nil
}
