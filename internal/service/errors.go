package service

import "fmt"

// Kind classifies a service error for the transport layer
type Kind int

// Error kinds
const (
	KindValidation  Kind = iota + 1 // Missing or malformed input
	KindAuth                        // Missing, invalid or insufficient credentials
	KindNotFound                    // Unknown entity
	KindConflict                    // Duplicate or state conflict
	KindUnavailable                 // Product cannot be ordered
	KindInternal                    // Unexpected store failure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindAuth:
		return "AuthError"
	case KindNotFound:
		return "NotFoundError"
	case KindConflict:
		return "ConflictError"
	case KindUnavailable:
		return "UnavailableError"
	case KindInternal:
		return "InternalError"
	}
	return "UnknownError"
}

// Error is the error type returned by every service operation.
// Two errors match under errors.Is when their codes are equal.
type Error struct {
	Kind      Kind
	Code      string
	Message   string
	Field     string // Offending input field, validation errors only
	ProductID uint   // Offending product, unavailable errors only
	Err       error  // Wrapped cause, internal errors only
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on code so that sentinels compare equal to detailed copies
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinel errors
var (
	ErrValidation         = &Error{Kind: KindValidation, Code: "validation", Message: "invalid request"}
	ErrDuplicateUser      = &Error{Kind: KindConflict, Code: "duplicate_user", Message: "user with this email already exists"}
	ErrInvalidCredentials = &Error{Kind: KindAuth, Code: "invalid_credentials", Message: "invalid email or password"}
	ErrInvalidToken       = &Error{Kind: KindAuth, Code: "invalid_token", Message: "invalid or expired token"}
	ErrForbidden          = &Error{Kind: KindAuth, Code: "forbidden", Message: "not allowed"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Code: "user_not_found", Message: "user not found"}
	ErrProductNotFound    = &Error{Kind: KindNotFound, Code: "product_not_found", Message: "product not found"}
	ErrOrderNotFound      = &Error{Kind: KindNotFound, Code: "order_not_found", Message: "order not found"}
	ErrInvalidQuantity    = &Error{Kind: KindValidation, Code: "invalid_quantity", Message: "quantity must be a positive integer"}
	ErrProductUnavailable = &Error{Kind: KindUnavailable, Code: "product_unavailable", Message: "product not available"}
	ErrInvalidTransition  = &Error{Kind: KindConflict, Code: "invalid_transition", Message: "order status cannot change"}
	ErrInternal           = &Error{Kind: KindInternal, Code: "internal", Message: "internal error"}
)

func validationErr(field, msg string) *Error {
	return &Error{Kind: KindValidation, Code: ErrValidation.Code, Field: field, Message: msg}
}

func invalidQuantity(index int) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    ErrInvalidQuantity.Code,
		Field:   fmt.Sprintf("items[%d].quantity", index),
		Message: ErrInvalidQuantity.Message,
	}
}

func productUnavailable(id uint, name string) *Error {
	msg := fmt.Sprintf("product %d not available", id)
	if name != "" {
		msg = fmt.Sprintf("product %d (%s) not available", id, name)
	}
	return &Error{
		Kind:      KindUnavailable,
		Code:      ErrProductUnavailable.Code,
		ProductID: id,
		Message:   msg,
	}
}

func invalidTransition(from, to string) *Error {
	return &Error{
		Kind:    KindConflict,
		Code:    ErrInvalidTransition.Code,
		Message: fmt.Sprintf("cannot move order from %s to %s", from, to),
	}
}

func internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Code: ErrInternal.Code, Message: op, Err: err}
}
