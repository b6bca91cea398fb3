package book

import "errors"

var (
	// ErrWrongOrderType is returned by AddLimit for any order whose Type
	// is not common.Limit.
	ErrWrongOrderType = errors.New("book: order type must be Limit")
	// ErrDuplicateId is returned by AddLimit when the order's id is
	// already resting in the book.
	ErrDuplicateId = errors.New("book: duplicate order id")
	// ErrNonPositiveQty is returned by AddLimit when qty <= 0.
	ErrNonPositiveQty = errors.New("book: qty must be positive")
	// ErrNonPositivePrice is returned by AddLimit when price <= 0.
	ErrNonPositivePrice = errors.New("book: limit price must be positive")
)
