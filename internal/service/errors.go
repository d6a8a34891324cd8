package service

import (
	"errors"
	"fmt"

	"taniku/internal/repository"
)

// ErrValidation is matched by every input validation failure
var ErrValidation = errors.New("validation failed")

var (
	ErrInvalidCategory      = fmt.Errorf("%w: invalid category", ErrValidation)
	ErrInvalidPrice         = fmt.Errorf("%w: price must be a non-negative number", ErrValidation)
	ErrInvalidItemName      = fmt.Errorf("%w: name is required", ErrValidation)
	ErrInvalidCartItem      = fmt.Errorf("%w: incomplete item data", ErrValidation)
	ErrEmptyCart            = fmt.Errorf("%w: cart is empty", ErrValidation)
	ErrMissingShippingField = fmt.Errorf("%w: missing shipping field", ErrValidation)
	ErrInvalidStatus        = fmt.Errorf("%w: invalid order status", ErrValidation)
	ErrPasswordTooShort     = fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	ErrMissingProfileField  = fmt.Errorf("%w: username and email are required", ErrValidation)

	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrCartLineNotFound   = errors.New("item not found in cart")
	ErrOrderNotDeletable  = errors.New("only completed or cancelled orders can be deleted")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// MissingItemError reports a cart line whose item is no longer in the catalog
type MissingItemError struct {
	ItemID int64
}

func (e *MissingItemError) Error() string {
	return fmt.Sprintf("item %d not found in catalog", e.ItemID)
}

func (e *MissingItemError) Unwrap() error { return repository.ErrItemNotFound }
