package sim_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lobsim/lobsim/internal/sim"
)

func smallConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.MaxEvents = 2_000
	cfg.Seed = 1234
	return cfg
}

// Two independently constructed runs from the same seed and
// configuration reach bit-identical telemetry.
func TestRun_SameSeedIsDeterministic(t *testing.T) {
	cfg := smallConfig()

	s1 := sim.New(cfg, zerolog.Nop(), "run-a")
	t1 := s1.Run(context.Background())

	s2 := sim.New(cfg, zerolog.Nop(), "run-b")
	t2 := s2.Run(context.Background())

	require.Equal(t, t1.NEvents, t2.NEvents)
	assert.Equal(t, t1.NLimits, t2.NLimits)
	assert.Equal(t, t1.NMarkets, t2.NMarkets)
	assert.Equal(t, t1.NCancels, t2.NCancels)
	assert.Equal(t, t1.NTrades, t2.NTrades)
	assert.Equal(t, t1.VolTraded, t2.VolTraded)
	assert.Equal(t, t1.AvgSpread(), t2.AvgSpread())
	assert.Equal(t, t1.LimTotal, t2.LimTotal)
	assert.Equal(t, t1.LimFilled, t2.LimFilled)

	assert.EqualValues(t, cfg.MaxEvents, t1.NEvents)
	assert.True(t, s1.Book().SelfCheck())
	assert.True(t, s2.Book().SelfCheck())
}

// A run's total traded volume is never negative, and the book passes its
// self-check at the end of the run.
func TestRun_VolumeIsNonNegative(t *testing.T) {
	s := sim.New(smallConfig(), zerolog.Nop(), "run-vol")
	tr := s.Run(context.Background())

	assert.GreaterOrEqual(t, int64(tr.VolTraded), int64(0))
	assert.True(t, s.Book().SelfCheck())
}
