package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated   = errors.New("unauthenticated")    // 401
	ErrForbidden         = errors.New("forbidden")          // 403
	ErrNotFound          = errors.New("not found")          // 404
	ErrConflict          = errors.New("conflict")           // 409
	ErrValidation        = errors.New("validation")         // 400
	ErrUpstream          = errors.New("upstream failure")   // 502
	ErrSignatureMismatch = errors.New("signature mismatch") // 400
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthenticated)
	ErrAccountInactive    = fmt.Errorf("account inactive: %w", ErrForbidden)

	ErrUsernameTaken     = fmt.Errorf("username taken: %w", ErrConflict)
	ErrEmailTaken        = fmt.Errorf("email taken: %w", ErrConflict)
	ErrInsufficientStock = fmt.Errorf("insufficient stock: %w", ErrConflict)
	ErrCartChanged       = fmt.Errorf("cart changed during checkout: %w", ErrConflict)

	ErrEmptyCart     = fmt.Errorf("empty cart: %w", ErrValidation)
	ErrNoAddress     = fmt.Errorf("no address on file: %w", ErrValidation)
	ErrInvalidStatus = fmt.Errorf("invalid status: %w", ErrValidation)

	ErrSellerNotFound       = fmt.Errorf("seller: %w", ErrNotFound)
	ErrOrderNotFound        = fmt.Errorf("order: %w", ErrNotFound)
	ErrSellerProfileMissing = fmt.Errorf("seller profile: %w", ErrNotFound)

	ErrShippingQuoteInvalid = fmt.Errorf("shipping quote has no total_fee: %w", ErrUpstream)
	ErrShippingQuoteFailed  = fmt.Errorf("shipping quote failed: %w", ErrUpstream)
	ErrPaymentFailed        = fmt.Errorf("payment failed: %w", ErrUpstream)
)
