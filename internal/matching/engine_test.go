package matching_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lobsim/lobsim/internal/book"
	"github.com/lobsim/lobsim/internal/common"
	"github.com/lobsim/lobsim/internal/matching"
)

// A crossing limit buy sweeps two makers at successive ask levels, best
// price first, each filling at the maker's own price.
func TestSubmitLimit_CrossesFIFOAcrossTwoMakers(t *testing.T) {
	b := book.New()
	e := matching.New(b)
	var fills []common.Fill

	_, err := e.SubmitLimit(common.Sell, 101, 5, 0.1, &fills)
	require.NoError(t, err)
	_, err = e.SubmitLimit(common.Sell, 102, 3, 0.2, &fills)
	require.NoError(t, err)

	fills = nil
	taker, err := e.SubmitLimit(common.Buy, 102, 8, 1.0, &fills)
	require.NoError(t, err)
	require.EqualValues(t, 3, taker)

	require.Len(t, fills, 2)
	assert.Equal(t, common.Fill{TakerId: 3, MakerId: 1, Side: common.Buy, Price: 101, Qty: 5, Ts: 1.0}, fills[0])
	assert.Equal(t, common.Fill{TakerId: 3, MakerId: 2, Side: common.Buy, Price: 102, Qty: 3, Ts: 1.0}, fills[1])

	assert.Equal(t, common.Price(0), b.BestAsk())
	assert.True(t, b.SelfCheck())
}

// A market sell walks the bid book, best price and time priority first.
func TestSubmitMarket_WalksBidBook(t *testing.T) {
	b := book.New()
	e := matching.New(b)
	var fills []common.Fill

	_, err := e.SubmitLimit(common.Buy, 100, 6, 0, &fills)
	require.NoError(t, err)
	_, err = e.SubmitLimit(common.Buy, 99, 4, 0, &fills)
	require.NoError(t, err)

	fills = nil
	taker, err := e.SubmitMarket(common.Sell, 7, 2.0, &fills)
	require.NoError(t, err)
	require.EqualValues(t, 3, taker)

	require.Len(t, fills, 2)
	assert.Equal(t, common.Fill{TakerId: 3, MakerId: 1, Side: common.Sell, Price: 100, Qty: 6, Ts: 2.0}, fills[0])
	assert.Equal(t, common.Fill{TakerId: 3, MakerId: 2, Side: common.Sell, Price: 99, Qty: 1, Ts: 2.0}, fills[1])

	assert.Equal(t, common.Price(99), b.BestBid())
	assert.True(t, b.SelfCheck())
}

// A partially-filled marketable limit posts its residual to its own side.
func TestSubmitLimit_PostsResidualAfterPartialFill(t *testing.T) {
	b := book.New()
	e := matching.New(b)
	var fills []common.Fill

	_, err := e.SubmitLimit(common.Sell, 105, 4, 0, &fills)
	require.NoError(t, err)

	fills = nil
	taker, err := e.SubmitLimit(common.Buy, 105, 10, 1.0, &fills)
	require.NoError(t, err)
	require.EqualValues(t, 2, taker)

	require.Len(t, fills, 1)
	assert.Equal(t, common.Fill{TakerId: 2, MakerId: 1, Side: common.Buy, Price: 105, Qty: 4, Ts: 1.0}, fills[0])

	assert.Equal(t, common.Price(105), b.BestBid())
	assert.True(t, b.Contains(2))
	assert.True(t, b.SelfCheck())
}

// Fill quantities sum to the consumed liquidity, and taker ids strictly
// increase within one engine's lifetime.
func TestSubmit_TakerIdsStrictlyIncreasing(t *testing.T) {
	b := book.New()
	e := matching.New(b)
	var fills []common.Fill

	id1, err := e.SubmitLimit(common.Buy, 100, 10, 0, &fills)
	require.NoError(t, err)
	id2, err := e.SubmitLimit(common.Sell, 99, 3, 0, &fills)
	require.NoError(t, err)
	id3, err := e.SubmitMarket(common.Buy, 1, 0, &fills)
	require.NoError(t, err)

	assert.Less(t, id1, id2)
	assert.Less(t, id2, id3)

	var totalFillQty common.Qty
	for _, f := range fills {
		totalFillQty += f.Qty
	}
	assert.EqualValues(t, 3, totalFillQty) // id2's sell crosses 3 units against id1's resting bid
}

func TestSubmitMarket_DiscardsUnfillableResidual(t *testing.T) {
	b := book.New()
	e := matching.New(b)
	var fills []common.Fill

	taker, err := e.SubmitMarket(common.Buy, 100, 0, &fills)
	require.NoError(t, err)
	assert.EqualValues(t, 1, taker)
	assert.Empty(t, fills)
	assert.True(t, b.SelfCheck())
}

func TestSubmitLimit_RejectsNonPositiveArguments(t *testing.T) {
	b := book.New()
	e := matching.New(b)
	var fills []common.Fill

	_, err := e.SubmitLimit(common.Buy, 100, 0, 0, &fills)
	assert.ErrorIs(t, err, matching.ErrNonPositiveQty)

	_, err = e.SubmitLimit(common.Buy, 0, 5, 0, &fills)
	assert.ErrorIs(t, err, matching.ErrNonPositivePrice)

	_, err = e.SubmitMarket(common.Buy, 0, 0, &fills)
	assert.ErrorIs(t, err, matching.ErrNonPositiveQty)
}
