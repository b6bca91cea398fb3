// Package book implements the single-symbol limit order book: two
// price-indexed level queues (bids descending, asks ascending) plus an
// id->(side, price, position) index that lets Cancel find any resting
// order without scanning the book; removing it then re-indexes the
// survivors at its level, O(depth). The book never matches on its own — that is the
// matching engine's job (internal/matching) — it only stores and moves
// resting orders and exposes the primitives the engine sweeps against.
package book

import (
	"github.com/tidwall/btree"

	"github.com/lobsim/lobsim/internal/common"
)

// PriceLevel holds every resting order at one price, in time priority:
// earlier insertions sit nearer the front of Orders.
type PriceLevel struct {
	Price  common.Price
	Orders []*common.Order
}

type levels = btree.BTreeG[*PriceLevel]

type indexEntry struct {
	side  common.Side
	price common.Price
	pos   int
}

// Book is the order book for one symbol. It is not safe for concurrent
// use — access is single-threaded by design, and the matching engine is
// the book's sole owner.
type Book struct {
	bids  *levels // sorted descending: best bid first
	asks  *levels // sorted ascending: best ask first
	index map[common.OrderId]indexEntry
}

// New returns an empty book.
func New() *Book {
	return &Book{
		bids: btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.Price > b.Price
		}),
		asks: btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.Price < b.Price
		}),
		index: make(map[common.OrderId]indexEntry),
	}
}

func (b *Book) levelsFor(side common.Side) *levels {
	if side == common.Buy {
		return b.bids
	}
	return b.asks
}

// BestBid returns the highest bid price, or 0 if there are no bids.
func (b *Book) BestBid() common.Price {
	if lvl, ok := b.bids.Min(); ok {
		return lvl.Price
	}
	return 0
}

// BestAsk returns the lowest ask price, or 0 if there are no asks.
func (b *Book) BestAsk() common.Price {
	if lvl, ok := b.asks.Min(); ok {
		return lvl.Price
	}
	return 0
}

// Mid returns the integer midpoint of best bid and best ask, or 0 if
// either side is empty.
func (b *Book) Mid() common.Price {
	bb, ba := b.BestBid(), b.BestAsk()
	if bb == 0 || ba == 0 {
		return 0
	}
	return (bb + ba) / 2
}

// Contains reports whether id currently names a resting order.
func (b *Book) Contains(id common.OrderId) bool {
	_, ok := b.index[id]
	return ok
}

// AddLimit inserts a fully specified limit order at the back of its price
// level, creating the level if absent. o.Id must not already be resting.
func (b *Book) AddLimit(o *common.Order) error {
	if o.Type != common.Limit {
		return ErrWrongOrderType
	}
	if _, exists := b.index[o.Id]; exists {
		return ErrDuplicateId
	}
	if o.Qty <= 0 {
		return ErrNonPositiveQty
	}
	if o.LimitPrice <= 0 {
		return ErrNonPositivePrice
	}

	ls := b.levelsFor(o.Side)
	lvl, ok := ls.GetMut(&PriceLevel{Price: o.LimitPrice})
	if !ok {
		lvl = &PriceLevel{Price: o.LimitPrice}
		ls.Set(lvl)
	}
	lvl.Orders = append(lvl.Orders, o)
	b.index[o.Id] = indexEntry{side: o.Side, price: o.LimitPrice, pos: len(lvl.Orders) - 1}
	return nil
}

// Cancel removes a resting order by id. Cancelling an unknown id is a
// silent no-op. If the index points at a level/position that no longer
// holds that id (a state that should never arise if invariants hold), the
// stale index entry is dropped defensively.
func (b *Book) Cancel(id common.OrderId) {
	entry, ok := b.index[id]
	if !ok {
		return
	}

	ls := b.levelsFor(entry.side)
	lvl, ok := ls.GetMut(&PriceLevel{Price: entry.price})
	if !ok || entry.pos < 0 || entry.pos >= len(lvl.Orders) || lvl.Orders[entry.pos].Id != id {
		delete(b.index, id)
		return
	}

	lvl.Orders = append(lvl.Orders[:entry.pos], lvl.Orders[entry.pos+1:]...)
	b.reindexLevel(entry.side, lvl)
	if len(lvl.Orders) == 0 {
		ls.Delete(lvl)
	}
	delete(b.index, id)
}

// reindexLevel rewrites the index position of every surviving order at lvl
// after a front/middle removal shifted the rest down by one.
func (b *Book) reindexLevel(side common.Side, lvl *PriceLevel) {
	for i, o := range lvl.Orders {
		b.index[o.Id] = indexEntry{side: side, price: lvl.Price, pos: i}
	}
}

// Sweep drains resting liquidity on the side opposite takerSide, calling
// onFill for each maker consumed, until remaining reaches zero, that side
// empties, or gate rejects the next price level. gate receives the level
// price and returns whether matching may proceed at that level; market
// orders pass a gate that always returns true.
func (b *Book) Sweep(takerSide common.Side, remaining common.Qty, gate func(common.Price) bool, onFill func(makerId common.OrderId, price common.Price, traded common.Qty)) common.Qty {
	oppositeSide := common.Sell
	if takerSide == common.Sell {
		oppositeSide = common.Buy
	}
	ls := b.levelsFor(oppositeSide)

	for remaining > 0 {
		lvl, ok := ls.MinMut()
		if !ok {
			break
		}
		if !gate(lvl.Price) {
			break
		}

		for remaining > 0 && len(lvl.Orders) > 0 {
			maker := lvl.Orders[0]
			traded := remaining
			if maker.Qty < traded {
				traded = maker.Qty
			}

			onFill(maker.Id, lvl.Price, traded)
			maker.Qty -= traded
			remaining -= traded

			if maker.Qty == 0 {
				delete(b.index, maker.Id)
				lvl.Orders = lvl.Orders[1:]
				b.reindexLevel(oppositeSide, lvl)
			}
		}

		if len(lvl.Orders) == 0 {
			ls.Delete(lvl)
		}
	}

	return remaining
}

// RestingCounts returns the number of resting orders on each side.
func (b *Book) RestingCounts() (bids, asks int) {
	b.bids.Scan(func(lvl *PriceLevel) bool { bids += len(lvl.Orders); return true })
	b.asks.Scan(func(lvl *PriceLevel) bool { asks += len(lvl.Orders); return true })
	return
}

// SelfCheck performs a full bidirectional consistency scan between the
// price levels and the id index: every resting order's index entry
// points back to its actual position, every level is non-empty and
// internally consistent, and the book never crosses.
func (b *Book) SelfCheck() bool {
	count := 0
	ok := true

	b.bids.Scan(func(lvl *PriceLevel) bool {
		if !b.checkLevel(common.Buy, lvl) {
			ok = false
		}
		count += len(lvl.Orders)
		return true
	})
	b.asks.Scan(func(lvl *PriceLevel) bool {
		if !b.checkLevel(common.Sell, lvl) {
			ok = false
		}
		count += len(lvl.Orders)
		return true
	})

	if count != len(b.index) {
		ok = false
	}
	if bb, ba := b.BestBid(), b.BestAsk(); bb != 0 && ba != 0 && bb >= ba {
		ok = false
	}
	return ok
}

func (b *Book) checkLevel(side common.Side, lvl *PriceLevel) bool {
	if len(lvl.Orders) == 0 {
		return false
	}
	for i, o := range lvl.Orders {
		if o.Qty <= 0 || o.LimitPrice < 1 {
			return false
		}
		entry, exists := b.index[o.Id]
		if !exists || entry.side != side || entry.price != lvl.Price || entry.pos != i {
			return false
		}
	}
	return true
}
