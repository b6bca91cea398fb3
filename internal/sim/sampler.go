package sim

import "github.com/lobsim/lobsim/internal/common"

// currentMid returns the book's mid if both sides are populated,
// otherwise the configured initial mid, for an empty or one-sided book.
func (s *Simulator) currentMid() common.Price {
	if m := s.book.Mid(); m != 0 {
		return m
	}
	return s.cfg.InitialMidTicks
}

// drawQty samples a shifted-geometric order quantity, qty in {1,2,...},
// with mean close to cfg.MeanQty.
func (s *Simulator) drawQty() common.Qty {
	mean := s.cfg.MeanQty
	p := 1.0
	if mean > 1 {
		p = 1 / mean
	}
	return common.Qty(s.rng.Geometric(p) + 1)
}

// drawTwoSidedOffset samples a signed tick offset from mid via a
// two-sided discrete Laplace ("geolap"): a shifted-geometric magnitude
// with a fair sign, clamped to cfg.MaxOffsetTicks.
func (s *Simulator) drawTwoSidedOffset() int64 {
	alpha := s.cfg.GeolapAlpha
	if alpha <= 0 {
		alpha = 1e-6
	}
	if alpha > 1 {
		alpha = 1
	}
	magnitude := s.rng.Geometric(alpha) + 1
	if s.cfg.MaxOffsetTicks > 0 && magnitude > s.cfg.MaxOffsetTicks {
		magnitude = s.cfg.MaxOffsetTicks
	}
	if s.rng.Bool() {
		return magnitude
	}
	return -magnitude
}

// decideLimitPrice samples a limit price around mid, then applies the
// anti-cross rule: a price that would immediately cross the opposite
// book is kept (marketable, a fair coin) or pulled back to the passive
// side: a buy to min(best bid, mid-|off|), a sell to max(best ask,
// mid+|off|), or to mid∓|off| alone when that own-side best is absent.
// cfg.KeepCrossProb is not consulted; the coin is always fair.
func (s *Simulator) decideLimitPrice(side common.Side) common.Price {
	mid := s.currentMid()
	off := s.drawTwoSidedOffset()
	px := int64(mid) + off

	bestBid, bestAsk := int64(s.book.BestBid()), int64(s.book.BestAsk())

	crosses := false
	if side == common.Buy && bestAsk != 0 && px >= bestAsk {
		crosses = true
	}
	if side == common.Sell && bestBid != 0 && px <= bestBid {
		crosses = true
	}

	if crosses && !s.rng.Bool() {
		absOff := off
		if absOff < 0 {
			absOff = -absOff
		}
		pulledBack := int64(mid) - absOff
		if side == common.Sell {
			pulledBack = int64(mid) + absOff
		}
		if side == common.Buy {
			if bestBid != 0 {
				px = min(bestBid, pulledBack)
			} else {
				px = pulledBack
			}
		} else {
			if bestAsk != 0 {
				px = max(bestAsk, pulledBack)
			} else {
				px = pulledBack
			}
		}
	}

	if px < int64(s.cfg.MinPriceTicks) {
		px = int64(s.cfg.MinPriceTicks)
	}
	return common.Price(px)
}
