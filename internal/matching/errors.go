package matching

import "errors"

var (
	// ErrNonPositiveQty is returned by SubmitMarket/SubmitLimit when qty <= 0.
	ErrNonPositiveQty = errors.New("matching: qty must be positive")
	// ErrNonPositivePrice is returned by SubmitLimit when price <= 0.
	ErrNonPositivePrice = errors.New("matching: price must be positive")
)
