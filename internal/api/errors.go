package api

import (
	"encoding/json" // JSON type errors
	"errors"        // Error inspection
	"net/http"      // HTTP status codes
	"strings"       // Field name rewriting

	"cafe_ordering/internal/middleware" // Request id key
	"cafe_ordering/internal/service"    // Service error kinds

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/go-playground/validator/v10" // Binding validation errors
	"github.com/sirupsen/logrus"             // Logging
)

// keyExposeErrors marks requests whose internal errors may carry detail
const keyExposeErrors = "exposeErrors"

func exposeErrors(expose bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(keyExposeErrors, expose)
		c.Next()
	}
}

// statusOf maps a service error to its HTTP status
func statusOf(e *service.Error) int {
	switch e.Kind {
	case service.KindValidation, service.KindConflict, service.KindUnavailable:
		return http.StatusBadRequest
	case service.KindAuth:
		if errors.Is(e, service.ErrForbidden) {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case service.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// writeError is the single place where errors become responses
func writeError(c *gin.Context, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		svcErr = &service.Error{Kind: service.KindInternal, Code: service.ErrInternal.Code, Message: "unexpected", Err: err}
	}

	status := statusOf(svcErr)
	body := gin.H{"error": svcErr.Message, "code": svcErr.Code}
	switch svcErr.Kind {
	case service.KindValidation:
		if svcErr.Field != "" {
			body["field"] = svcErr.Field
		}
	case service.KindUnavailable:
		body["productId"] = svcErr.ProductID
	case service.KindInternal:
		logrus.WithFields(logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString(middleware.KeyRequestID),
			"error":      svcErr.Error(),
		}).Error("Internal error")
		body["error"] = service.ErrInternal.Message
		if c.GetBool(keyExposeErrors) {
			body["message"] = svcErr.Error()
		}
	}
	c.AbortWithStatusJSON(status, body)
}

// bindError turns a JSON binding failure into a validation error naming the field
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := jsonPath(fe.Namespace())
		msg := field + " is invalid"
		if fe.Tag() == "required" {
			msg = field + " is required"
		} else if fe.Tag() == "email" {
			msg = "a valid email is required"
		}
		return &service.Error{Kind: service.KindValidation, Code: service.ErrValidation.Code, Field: field, Message: msg}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &service.Error{
			Kind:    service.KindValidation,
			Code:    service.ErrValidation.Code,
			Field:   typeErr.Field,
			Message: typeErr.Field + " has the wrong type",
		}
	}
	return &service.Error{Kind: service.KindValidation, Code: service.ErrValidation.Code, Message: "malformed JSON body"}
}

// jsonPath rewrites "loginRequest.Items[0].ProductID" as "items[0].productId"
func jsonPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:] // Drop the struct name
	}
	for i, p := range parts {
		parts[i] = lowerFirst(p)
	}
	return strings.Join(parts, ".")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	if strings.HasSuffix(s, "ID") {
		s = strings.TrimSuffix(s, "ID") + "Id"
	}
	return strings.ToLower(s[:1]) + s[1:]
}
