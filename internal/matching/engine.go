// Package matching implements the price-time-priority matching engine:
// market and marketable-limit order submission against a book.Book,
// residual posting, and monotonic taker id assignment.
package matching

import (
	"github.com/lobsim/lobsim/internal/book"
	"github.com/lobsim/lobsim/internal/common"
)

// Engine submits orders against a single book and assigns every
// submission a monotonically increasing id, starting at 1.
type Engine struct {
	book   *book.Book
	nextId common.OrderId
}

// New returns an engine that submits into b, with the first assigned id
// being 1.
func New(b *book.Book) *Engine {
	return &Engine{book: b, nextId: 1}
}

func (e *Engine) assignId() common.OrderId {
	id := e.nextId
	e.nextId++
	return id
}

// SubmitMarket sweeps the opposite side of the book for up to qty units.
// Any residual that cannot be filled is discarded — market orders never
// rest. Returns the assigned taker id; fills are appended to out.
func (e *Engine) SubmitMarket(side common.Side, qty common.Qty, ts common.TimePoint, out *[]common.Fill) (common.OrderId, error) {
	if qty <= 0 {
		return 0, ErrNonPositiveQty
	}

	id := e.assignId()
	e.book.Sweep(side, qty, func(common.Price) bool { return true }, func(makerId common.OrderId, price common.Price, traded common.Qty) {
		*out = append(*out, common.Fill{TakerId: id, MakerId: makerId, Side: side, Price: price, Qty: traded, Ts: ts})
	})
	return id, nil
}

// SubmitLimit attempts to match a new limit order against the opposite
// side, gated by its limit price, then posts any residual to its own
// side. Returns the assigned taker id; fills are appended to out.
func (e *Engine) SubmitLimit(side common.Side, price common.Price, qty common.Qty, ts common.TimePoint, out *[]common.Fill) (common.OrderId, error) {
	if qty <= 0 {
		return 0, ErrNonPositiveQty
	}
	if price <= 0 {
		return 0, ErrNonPositivePrice
	}

	id := e.assignId()

	gate := limitGate(side, price)
	remaining := e.book.Sweep(side, qty, gate, func(makerId common.OrderId, makerPx common.Price, traded common.Qty) {
		*out = append(*out, common.Fill{TakerId: id, MakerId: makerId, Side: side, Price: makerPx, Qty: traded, Ts: ts})
	})

	if remaining > 0 {
		resting := &common.Order{Id: id, Side: side, Type: common.Limit, LimitPrice: price, Qty: remaining, Ts: ts}
		// AddLimit cannot fail here: id is fresh, remaining > 0, price > 0.
		_ = e.book.AddLimit(resting)
	}

	return id, nil
}

// limitGate returns the opposite-level admission test for a limit order:
// a buyer refuses to cross above its own limit price, a seller refuses to
// cross below its own limit price.
func limitGate(side common.Side, price common.Price) func(common.Price) bool {
	if side == common.Buy {
		return func(levelPx common.Price) bool { return price >= levelPx }
	}
	return func(levelPx common.Price) bool { return price <= levelPx }
}
