// Package sim implements the event-driven stochastic market simulator:
// a Markov-switching regime model drives a Poisson arrival process whose
// events (limit orders, market orders, cancels) are executed against a
// matching.Engine, with running telemetry kept alongside.
package sim

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lobsim/lobsim/internal/book"
	"github.com/lobsim/lobsim/internal/common"
	"github.com/lobsim/lobsim/internal/matching"
	"github.com/lobsim/lobsim/internal/telemetry"
)

// Simulator owns one book, one engine, and the PRNG/telemetry state
// driving a single run. Not safe for concurrent use.
type Simulator struct {
	cfg    Config
	rng    *RNG
	book   *book.Book
	engine *matching.Engine
	live   *LiveIDs
	tel    *telemetry.Tracker
	log    zerolog.Logger
	runID  string

	regime common.Regime
	tCurr  common.TimePoint
}

// New constructs a simulator ready to Run. log and runID are used only
// for heartbeat, snapshot, and stopped-early lines; a zero
// zerolog.Logger discards them.
func New(cfg Config, log zerolog.Logger, runID string) *Simulator {
	b := book.New()
	return &Simulator{
		cfg:    cfg,
		rng:    NewRNG(cfg.Seed),
		book:   b,
		engine: matching.New(b),
		live:   NewLiveIDs(),
		tel:    telemetry.New(),
		log:    log,
		runID:  runID,
		regime: cfg.InitialRegime,
	}
}

// Book exposes the underlying book, chiefly so a caller can log a final
// snapshot after Run returns.
func (s *Simulator) Book() *book.Book { return s.book }

// Run executes up to cfg.MaxEvents events and returns the accumulated
// telemetry, stopping early if ctx is cancelled. Logs a heartbeat every
// 10,000 events and, if cfg.SnapshotEvery > 0, a book snapshot on that
// cadence.
func (s *Simulator) Run(ctx context.Context) *telemetry.Tracker {
	for i := 1; i <= s.cfg.MaxEvents; i++ {
		if ctx.Err() != nil {
			s.log.Info().Str("run_id", s.runID).Int("event", i-1).Msg("stopped early")
			break
		}

		ev := s.nextEvent()
		s.execute(ev)

		if i%10_000 == 0 {
			s.logHeartbeat(i)
		}
		if s.cfg.SnapshotEvery > 0 && i%s.cfg.SnapshotEvery == 0 {
			s.logSnapshot(i)
		}
	}
	return s.tel
}

func (s *Simulator) execute(ev Event) {
	s.tel.RecordEvent()

	switch ev.Type {
	case common.LimitBuy:
		s.executeLimit(common.Buy, ev.Ts)
	case common.LimitSell:
		s.executeLimit(common.Sell, ev.Ts)
	case common.MktBuy:
		s.executeMarket(common.Buy, ev.Ts)
	case common.MktSell:
		s.executeMarket(common.Sell, ev.Ts)
	case common.CancelEvt:
		s.executeCancel(ev.Ts)
	}
}

func (s *Simulator) executeLimit(side common.Side, ts common.TimePoint) {
	bothNonEmpty := s.book.BestBid() != 0 && s.book.BestAsk() != 0
	mid := s.currentMid()
	price := s.decideLimitPrice(side)
	qty := s.drawQty()

	var fills []common.Fill
	id, _ := s.engine.SubmitLimit(side, price, qty, ts, &fills)

	s.tel.RecordLimitSubmission(id, int64(price)-int64(mid), bothNonEmpty)
	s.tel.RecordFills(fills)
	s.absorbFills(fills)

	if s.book.Contains(id) {
		s.live.Add(id)
	} else {
		s.tel.ForgetLimit(id)
	}

	s.sampleBookIfBothNonEmpty()
}

func (s *Simulator) executeMarket(side common.Side, ts common.TimePoint) {
	mid := s.currentMid()
	qty := s.drawQty()

	var fills []common.Fill
	_, _ = s.engine.SubmitMarket(side, qty, ts, &fills)

	s.tel.RecordMarketOrder(side, mid, fills)
	s.tel.RecordFills(fills)
	s.absorbFills(fills)

	s.sampleBookIfBothNonEmpty()
}

func (s *Simulator) executeCancel(ts common.TimePoint) {
	id, ok := s.live.Random(s.rng)
	if !ok {
		// No live resting orders: fall back to a fresh limit order on a
		// fair-coin side. This still counts as a limit, not a cancel.
		side := common.Buy
		if s.rng.Bool() {
			side = common.Sell
		}
		s.executeLimit(side, ts)
		return
	}

	s.book.Cancel(id)
	s.live.Remove(id)
	s.tel.ForgetLimit(id)
	s.tel.RecordCancel()

	s.sampleBookIfBothNonEmpty()
}

// absorbFills updates the live-id registry and fill-ratio bookkeeping
// for every maker consumed by one submission's fills.
func (s *Simulator) absorbFills(fills []common.Fill) {
	for _, f := range fills {
		s.tel.RecordFillAgainstMaker(f.MakerId)
		if !s.book.Contains(f.MakerId) {
			s.live.Remove(f.MakerId)
			s.tel.ForgetLimit(f.MakerId)
		}
	}
}

func (s *Simulator) sampleBookIfBothNonEmpty() {
	bb, ba := s.book.BestBid(), s.book.BestAsk()
	if bb == 0 || ba == 0 {
		return
	}
	s.tel.SampleBookStats(ba-bb, (bb+ba)/2)
}

func (s *Simulator) logHeartbeat(eventIdx int) {
	s.log.Info().
		Str("run_id", s.runID).
		Int("event", eventIdx).
		Float64("t", float64(s.tCurr)).
		Str("regime", s.regime.String()).
		Msg("heartbeat")
}

func (s *Simulator) logSnapshot(eventIdx int) {
	bids, asks := s.book.RestingCounts()
	s.log.Info().
		Str("run_id", s.runID).
		Int("event", eventIdx).
		Float64("t", float64(s.tCurr)).
		Str("regime", s.regime.String()).
		Int64("best_bid", int64(s.book.BestBid())).
		Int64("best_ask", int64(s.book.BestAsk())).
		Int64("mid", int64(s.book.Mid())).
		Int("resting_bids", bids).
		Int("resting_asks", asks).
		Msg("snapshot")
}
