package book_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lobsim/lobsim/internal/book"
	"github.com/lobsim/lobsim/internal/common"
)

func limitOrder(id common.OrderId, side common.Side, px common.Price, qty common.Qty, ts common.TimePoint) *common.Order {
	return &common.Order{Id: id, Side: side, Type: common.Limit, LimitPrice: px, Qty: qty, Ts: ts}
}

func TestAddLimit_RejectsInvalidArguments(t *testing.T) {
	b := book.New()

	require.ErrorIs(t, b.AddLimit(&common.Order{Id: 1, Type: common.Market, Side: common.Buy, LimitPrice: 10, Qty: 1}), book.ErrWrongOrderType)
	require.ErrorIs(t, b.AddLimit(&common.Order{Id: 1, Type: common.Limit, Side: common.Buy, LimitPrice: 10, Qty: 0}), book.ErrNonPositiveQty)
	require.ErrorIs(t, b.AddLimit(&common.Order{Id: 1, Type: common.Limit, Side: common.Buy, LimitPrice: 0, Qty: 1}), book.ErrNonPositivePrice)

	require.NoError(t, b.AddLimit(limitOrder(1, common.Buy, 10, 5, 0)))
	require.ErrorIs(t, b.AddLimit(limitOrder(1, common.Buy, 11, 5, 0)), book.ErrDuplicateId)
}

// Cancelling an id that was never added is silent and leaves the book
// unchanged.
func TestCancel_UnknownIdIsNoop(t *testing.T) {
	b := book.New()
	require.NoError(t, b.AddLimit(limitOrder(1, common.Buy, 100, 5, 0)))

	bidBefore, askBefore := b.BestBid(), b.BestAsk()

	b.Cancel(424242)

	assert.True(t, b.SelfCheck())
	assert.Equal(t, bidBefore, b.BestBid())
	assert.Equal(t, askBefore, b.BestAsk())
	assert.Equal(t, common.Price(100), b.BestBid())
}

// Cancelling the last order at a level erases that price key.
func TestCancel_ErasesEmptyLevel(t *testing.T) {
	b := book.New()
	require.NoError(t, b.AddLimit(limitOrder(1, common.Sell, 105, 2, 0)))

	b.Cancel(1)

	assert.True(t, b.SelfCheck())
	assert.Equal(t, common.Price(0), b.BestAsk())
	assert.False(t, b.Contains(1))
}

// Adding an order then cancelling it returns the book to its prior
// observable state.
func TestAddThenCancel_RoundTrips(t *testing.T) {
	b := book.New()
	require.NoError(t, b.AddLimit(limitOrder(1, common.Buy, 99, 10, 0)))

	bidBefore, askBefore := b.BestBid(), b.BestAsk()

	require.NoError(t, b.AddLimit(limitOrder(2, common.Buy, 98, 3, 0)))
	b.Cancel(2)

	assert.Equal(t, bidBefore, b.BestBid())
	assert.Equal(t, askBefore, b.BestAsk())
	assert.True(t, b.SelfCheck())
}

func TestCancel_ReindexesSurvivorsAtLevel(t *testing.T) {
	b := book.New()
	require.NoError(t, b.AddLimit(limitOrder(1, common.Sell, 100, 5, 0)))
	require.NoError(t, b.AddLimit(limitOrder(2, common.Sell, 100, 3, 1)))
	require.NoError(t, b.AddLimit(limitOrder(3, common.Sell, 100, 2, 2)))

	b.Cancel(1)

	assert.True(t, b.SelfCheck())
	assert.True(t, b.Contains(2))
	assert.True(t, b.Contains(3))
}

func TestMid_ZeroWhenEitherSideEmpty(t *testing.T) {
	b := book.New()
	assert.Equal(t, common.Price(0), b.Mid())

	require.NoError(t, b.AddLimit(limitOrder(1, common.Buy, 100, 1, 0)))
	assert.Equal(t, common.Price(0), b.Mid())

	require.NoError(t, b.AddLimit(limitOrder(2, common.Sell, 104, 1, 0)))
	assert.Equal(t, common.Price(102), b.Mid())
}
