package sim

import "github.com/lobsim/lobsim/internal/common"

// Event is one draw from the arrival process: a type and the
// simulated timestamp it occurred at.
type Event struct {
	Type common.EventType
	Ts   common.TimePoint
}

// maybeSwitchRegime applies the Markov transition for the current
// regime before the next event is drawn.
func (s *Simulator) maybeSwitchRegime() {
	u := s.rng.Float64()
	switch s.regime {
	case common.Low:
		if u >= s.cfg.PLL {
			s.regime = common.High
		}
	case common.High:
		if u >= s.cfg.PHH {
			s.regime = common.Low
		}
	}
}

// drawEventType samples an event type from the current regime's mix via
// cumulative thresholds.
func (s *Simulator) drawEventType() common.EventType {
	mix := s.cfg.Regimes[s.regime].Mix
	events := [5]common.EventType{common.LimitBuy, common.LimitSell, common.MktBuy, common.MktSell, common.CancelEvt}

	u := s.rng.Float64()
	cum := 0.0
	for i, p := range mix {
		cum += p
		if u < cum {
			return events[i]
		}
	}
	return common.CancelEvt // floating-point rounding fallback
}

// nextEvent transitions the regime, advances t_curr by an Exp(lambda)
// inter-arrival draw, and samples the event type — in that order, so a
// run is reproducible draw-for-draw given the same seed.
func (s *Simulator) nextEvent() Event {
	s.maybeSwitchRegime()
	dt := s.rng.Exp(s.cfg.Regimes[s.regime].Lambda)
	s.tCurr += common.TimePoint(dt)
	return Event{Type: s.drawEventType(), Ts: s.tCurr}
}
