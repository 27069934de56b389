package domain

import "errors"

var (
	// Checkout validation — surfaced before any order is persisted.
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrSessionFailed wraps gateway failures during checkout. The pending
	// order is kept; it is recoverable, not rolled back.
	ErrSessionFailed = errors.New("checkout session failed")

	// ErrOrderNotFound during webhook handling is fatal for that event:
	// the handler must error so the gateway redelivers.
	ErrOrderNotFound = errors.New("order not found")

	ErrPaymentNotFound = errors.New("payment not found")

	// ErrMissingPaymentRef means a completed session arrived without a
	// gateway payment reference; the event cannot be settled.
	ErrMissingPaymentRef = errors.New("session has no payment reference")
)
