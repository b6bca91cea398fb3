package sim

import "github.com/lobsim/lobsim/internal/common"

// RegimeParams holds the per-regime arrival rate and event-type mix.
// Mix is indexed [limit_buy, limit_sell, mkt_buy, mkt_sell, cancel] and
// must sum to 1.
type RegimeParams struct {
	Lambda float64
	Mix    [5]float64
}

// Config parameterizes one simulator run: regime dynamics, price/qty
// samplers, and the run's length and PRNG seed.
type Config struct {
	Seed            uint64
	MaxEvents       int
	InitialMidTicks common.Price
	MinPriceTicks   common.Price
	MaxOffsetTicks  int64
	GeolapAlpha     float64
	KeepCrossProb   float64 // carried for config-surface parity; never read
	MeanQty         float64
	SnapshotEvery   int

	PLL float64 // P(Low -> Low)
	PHH float64 // P(High -> High)

	InitialRegime common.Regime
	Regimes       [2]RegimeParams
}

// DefaultConfig returns a reasonable two-regime configuration: a calm
// "Low" regime and a bursty "High" regime with a heavier market-order mix.
func DefaultConfig() Config {
	return Config{
		Seed:            42,
		MaxEvents:       200_000,
		InitialMidTicks: 10_000,
		MinPriceTicks:   1,
		MaxOffsetTicks:  50,
		GeolapAlpha:     0.35,
		KeepCrossProb:   0.5,
		MeanQty:         8,
		SnapshotEvery:   0,
		PLL:             0.995,
		PHH:             0.990,
		InitialRegime:   common.Low,
		Regimes: [2]RegimeParams{
			common.Low:  {Lambda: 50, Mix: [5]float64{0.30, 0.30, 0.12, 0.12, 0.16}},
			common.High: {Lambda: 300, Mix: [5]float64{0.26, 0.26, 0.17, 0.17, 0.14}},
		},
	}
}
