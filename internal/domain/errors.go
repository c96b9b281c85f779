package domain

import "errors"

var (
	ErrUnauthenticated          = errors.New("unauthenticated")
	ErrUnauthorized             = errors.New("unauthorized")
	ErrInvalidSelection         = errors.New("no valid cart items selected")
	ErrInvalidAddress           = errors.New("invalid shipping address")
	ErrOutOfStock               = errors.New("product out of stock")
	ErrInsufficientBalance      = errors.New("insufficient wallet balance")
	ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")
	ErrInvalidStateTransition   = errors.New("invalid order status transition")
	ErrCannotDeleteLastAddress  = errors.New("cannot delete the last address")
	ErrNotFound                 = errors.New("not found")
	ErrInvalidInput             = errors.New("invalid input")
	ErrConflict                 = errors.New("conflict")
)

var knownErrors = []error{
	ErrUnauthenticated,
	ErrUnauthorized,
	ErrInvalidSelection,
	ErrInvalidAddress,
	ErrOutOfStock,
	ErrInsufficientBalance,
	ErrUnsupportedPaymentMethod,
	ErrInvalidStateTransition,
	ErrCannotDeleteLastAddress,
	ErrNotFound,
	ErrInvalidInput,
	ErrConflict,
}

// IsDomainError reports whether err is one of the expected business failures,
// as opposed to an infrastructure error.
func IsDomainError(err error) bool {
	for _, k := range knownErrors {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}
