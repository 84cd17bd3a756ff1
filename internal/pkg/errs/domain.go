package errs

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidState      = errors.New("invalid state")
	ErrAccessDenied      = errors.New("access denied")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrContention        = errors.New("resource is busy")
)

// InvalidStateError is returned when an action is not permitted in the current status.
type InvalidStateError struct {
	Action string
	State  string
	Cause  error
}

func NewInvalidStateError(action, state string) *InvalidStateError {
	return &InvalidStateError{Action: action, State: state}
}

func NewInvalidStateErrorWithCause(action, state string, cause error) *InvalidStateError {
	return &InvalidStateError{Action: action, State: state, Cause: cause}
}

func (e *InvalidStateError) Error() string {
	msg := fmt.Sprintf("%s: cannot %s in %s status", ErrInvalidState, e.Action, e.State)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// AccessDeniedError is returned when the acting user may not touch a resource.
type AccessDeniedError struct {
	ActorID  string
	Resource string
	Cause    error
}

func NewAccessDeniedError(actorID, resource string) *AccessDeniedError {
	return &AccessDeniedError{ActorID: actorID, Resource: resource}
}

func NewAccessDeniedErrorWithCause(actorID, resource string, cause error) *AccessDeniedError {
	return &AccessDeniedError{ActorID: actorID, Resource: resource, Cause: cause}
}

func (e *AccessDeniedError) Error() string {
	msg := fmt.Sprintf("%s: user %s has no access to %s", ErrAccessDenied, sanitize(e.ActorID), e.Resource)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *AccessDeniedError) Unwrap() error {
	return ErrAccessDenied
}

// InsufficientStockError names the first product that could not cover its line.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Cause     error
}

func NewInsufficientStockError(productID string, requested int) *InsufficientStockError {
	return &InsufficientStockError{ProductID: productID, Requested: requested}
}

func NewInsufficientStockErrorWithCause(productID string, requested int, cause error) *InsufficientStockError {
	return &InsufficientStockError{ProductID: productID, Requested: requested, Cause: cause}
}

func (e *InsufficientStockError) Error() string {
	msg := fmt.Sprintf("%s: product %s, requested %d", ErrInsufficientStock, sanitize(e.ProductID), e.Requested)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// ContentionError is returned when a lock could not be acquired in time.
// Callers may retry the operation.
type ContentionError struct {
	Resource string
	Cause    error
}

func NewContentionError(resource string) *ContentionError {
	return &ContentionError{Resource: resource}
}

func NewContentionErrorWithCause(resource string, cause error) *ContentionError {
	return &ContentionError{Resource: resource, Cause: cause}
}

func (e *ContentionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrContention, sanitize(e.Resource), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrContention, sanitize(e.Resource))
}

func (e *ContentionError) Unwrap() error {
	return ErrContention
}
