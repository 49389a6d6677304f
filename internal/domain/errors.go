package domain

import "fmt"

// Error types for consistent error handling across the BFF.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrExternalService indicates a failure in an external service call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrTimeout indicates an operation exceeded its deadline.
type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("operation timed out: %s", e.Operation)
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrDuplicateOffer indicates the buyer already has an active offer on the
// property. The backend signals it with a 409 and code DUPLICATE_OFFER; it
// must stay distinguishable from generic validation failures.
type ErrDuplicateOffer struct {
	PropertyID string
}

func (e *ErrDuplicateOffer) Error() string {
	return fmt.Sprintf("an active offer already exists for property %s", e.PropertyID)
}

// ErrRole indicates an action attempted by a role not permitted to perform it.
type ErrRole struct {
	Role   Role
	Action string
}

func (e *ErrRole) Error() string {
	return fmt.Sprintf("role %q may not %s", e.Role, e.Action)
}

// ErrInvalidTransition indicates an offer state change the lifecycle forbids.
type ErrInvalidTransition struct {
	From OfferStatus
	To   OfferStatus
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid offer transition %s -> %s", e.From, e.To)
}

// ErrPayment indicates a processor-reported payment failure. The reason is
// surfaced verbatim; the offer stays payable.
type ErrPayment struct {
	Reason string
}

func (e *ErrPayment) Error() string {
	return fmt.Sprintf("payment failed: %s", e.Reason)
}

// ErrUnauthorized indicates invalid credentials or token.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrForbidden indicates the user lacks permission for the operation.
type ErrForbidden struct {
	Action string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Action)
}

// ErrConflict indicates a resource already exists.
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}
