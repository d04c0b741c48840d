package apierror

// domain.go
// Typed business errors raised by the service layer. Handlers translate them
// into HTTP status codes in one place (handler.respondError); services never
// see HTTP concerns.

import "fmt"

// NotFoundError means a referenced entity does not exist or is soft-deleted.
type NotFoundError struct {
	Entity string // "product", "order", "customer", ...
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

func NotFound(entity string) *NotFoundError { return &NotFoundError{Entity: entity} }

// ValidationError is a single-field business rule violation (as opposed to
// FieldErrors, which carries binding/tag failures from the request body).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// InsufficientStockError names the product whose stock cannot cover the
// requested quantity. The whole order is rolled back when it is raised.
type InsufficientStockError struct {
	Product string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.Product)
}

// DuplicateSKUError is raised on product create/update when the SKU collides
// with an existing product, including races caught only at commit time by the
// unique constraint.
type DuplicateSKUError struct {
	SKU string
}

func (e *DuplicateSKUError) Error() string {
	return fmt.Sprintf("product with SKU %s already exists", e.SKU)
}

// InvalidTransitionError rejects an order status change the state machine
// does not allow.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

// ForbiddenError means the actor lacks permission for the requested action
// or scope.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	if e.Reason == "" {
		return "insufficient permissions"
	}
	return e.Reason
}
