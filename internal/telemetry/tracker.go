// Package telemetry accumulates per-run statistics: event/order
// counters, spread and mid-price sampling with drawdown, VWAP-weighted
// market-order slippage, and limit-order fill-ratio buckets by distance
// from mid at submission time.
package telemetry

import "github.com/lobsim/lobsim/internal/common"

// fill-ratio bucket boundaries, by absolute ticks from mid at
// submission: {0}, {1,2}, {3,4,5}, {6..10}, {>10}.
const numBuckets = 5

// Bucket maps an absolute offset-from-mid (in ticks) to its fill-ratio
// bucket index.
func Bucket(offsetAbs int64) int {
	switch {
	case offsetAbs <= 0:
		return 0
	case offsetAbs <= 2:
		return 1
	case offsetAbs <= 5:
		return 2
	case offsetAbs <= 10:
		return 3
	default:
		return 4
	}
}

// Tracker accumulates telemetry for a single simulator run. Not safe
// for concurrent use; a run has exactly one writer.
type Tracker struct {
	NEvents  int64
	NLimits  int64
	NMarkets int64
	NCancels int64
	NTrades  int64

	VolTraded common.Qty

	SumSpread   float64
	SumMid      float64
	MidSamples  int64
	PeakMid     common.Price
	MaxDrawdown common.Price

	LimitOffsetCount  int64
	LimitOffsetAbsSum int64
	LimitOffsetHist   [64]int64

	LimTotal  [numBuckets]int64
	LimFilled [numBuckets]int64

	mktBuySlipAccum  float64
	mktBuyQty        float64
	mktSellSlipAccum float64
	mktSellQty       float64

	// pendingBucket tracks the fill-ratio bucket assigned to a resting
	// limit order at submission time, until it leaves the book (fully
	// filled or cancelled).
	pendingBucket map[common.OrderId]int
	// filledOnce ensures a limit order contributes to LimFilled at
	// most once, even if it fills across several separate trades.
	filledOnce map[common.OrderId]bool
}

// New returns an empty Tracker.
func New() *Tracker {
	return &Tracker{
		pendingBucket: make(map[common.OrderId]int),
		filledOnce:    make(map[common.OrderId]bool),
	}
}

// RecordEvent marks the start of one simulator loop iteration. Called
// exactly once per event, regardless of how it is ultimately executed.
func (t *Tracker) RecordEvent() {
	t.NEvents++
}

// RecordCancel marks a genuine cancel execution (not a cancel that fell
// back to a fresh limit order for lack of live ids).
func (t *Tracker) RecordCancel() {
	t.NCancels++
}

// RecordFills folds every fill produced by one submission into the
// trade counters. Call once per limit or market submission.
func (t *Tracker) RecordFills(fills []common.Fill) {
	for _, f := range fills {
		t.NTrades++
		t.VolTraded += f.Qty
	}
}

// RecordLimitSubmission records a new limit order's offset from mid and
// assigns it a fill-ratio bucket. bothSidesNonEmpty gates whether the
// bucket is computed from the real offset or forced to bucket 0.
func (t *Tracker) RecordLimitSubmission(id common.OrderId, offsetFromMid int64, bothSidesNonEmpty bool) {
	t.NLimits++

	absOff := offsetFromMid
	if absOff < 0 {
		absOff = -absOff
	}
	t.LimitOffsetCount++
	t.LimitOffsetAbsSum += absOff
	idx := absOff
	if idx >= int64(len(t.LimitOffsetHist)) {
		idx = int64(len(t.LimitOffsetHist)) - 1
	}
	t.LimitOffsetHist[idx]++

	bucket := 0
	if bothSidesNonEmpty {
		bucket = Bucket(absOff)
	}
	t.LimTotal[bucket]++
	t.pendingBucket[id] = bucket
}

// RecordMarketOrder records a market order's VWAP slippage against the
// pre-trade mid. Slippage is signed so that a worse-than-mid execution
// is positive for both sides: a buyer paying above mid, or a seller
// receiving below mid.
func (t *Tracker) RecordMarketOrder(side common.Side, midAtSubmission common.Price, fills []common.Fill) {
	t.NMarkets++

	var qtySum common.Qty
	var pxQtySum float64
	for _, f := range fills {
		qtySum += f.Qty
		pxQtySum += float64(f.Price) * float64(f.Qty)
	}
	if qtySum == 0 {
		return
	}
	vwap := pxQtySum / float64(qtySum)

	if side == common.Buy {
		t.mktBuySlipAccum += (vwap - float64(midAtSubmission)) * float64(qtySum)
		t.mktBuyQty += float64(qtySum)
	} else {
		t.mktSellSlipAccum += (float64(midAtSubmission) - vwap) * float64(qtySum)
		t.mktSellQty += float64(qtySum)
	}
}

// RecordFillAgainstMaker credits makerId's fill-ratio bucket the first
// time it is seen; later fills against the same maker do not recount it.
func (t *Tracker) RecordFillAgainstMaker(makerId common.OrderId) {
	if t.filledOnce[makerId] {
		return
	}
	bucket, tracked := t.pendingBucket[makerId]
	if !tracked {
		return
	}
	t.LimFilled[bucket]++
	t.filledOnce[makerId] = true
}

// ForgetLimit drops a resting order's bucket bookkeeping once it has
// left the book (fully filled or cancelled), bounding the tracker's
// memory to the book's live order count.
func (t *Tracker) ForgetLimit(id common.OrderId) {
	delete(t.pendingBucket, id)
	delete(t.filledOnce, id)
}

// SampleBookStats folds in one spread/mid sample. Call only when both
// sides of the book are non-empty.
func (t *Tracker) SampleBookStats(spread, mid common.Price) {
	t.SumSpread += float64(spread)
	t.SumMid += float64(mid)
	t.MidSamples++
	if mid > t.PeakMid {
		t.PeakMid = mid
	}
	if dd := t.PeakMid - mid; dd > t.MaxDrawdown {
		t.MaxDrawdown = dd
	}
}

// AvgSpread returns sum_spread / mid_samples, the average spread over
// the events where both sides of the book were populated.
func (t *Tracker) AvgSpread() float64 {
	if t.MidSamples == 0 {
		return 0
	}
	return t.SumSpread / float64(t.MidSamples)
}

// AvgSpreadOverEvents returns sum_spread / n_events, printed alongside
// AvgSpread for comparison.
func (t *Tracker) AvgSpreadOverEvents() float64 {
	if t.NEvents == 0 {
		return 0
	}
	return t.SumSpread / float64(t.NEvents)
}

// MarketBuySlippage returns the VWAP-weighted average slippage paid by
// market buys, in ticks.
func (t *Tracker) MarketBuySlippage() float64 {
	if t.mktBuyQty == 0 {
		return 0
	}
	return t.mktBuySlipAccum / t.mktBuyQty
}

// MarketSellSlippage returns the VWAP-weighted average slippage paid by
// market sells, in ticks.
func (t *Tracker) MarketSellSlippage() float64 {
	if t.mktSellQty == 0 {
		return 0
	}
	return t.mktSellSlipAccum / t.mktSellQty
}

// FillRatio returns LimFilled[bucket] / LimTotal[bucket].
func (t *Tracker) FillRatio(bucket int) float64 {
	if bucket < 0 || bucket >= numBuckets || t.LimTotal[bucket] == 0 {
		return 0
	}
	return float64(t.LimFilled[bucket]) / float64(t.LimTotal[bucket])
}
