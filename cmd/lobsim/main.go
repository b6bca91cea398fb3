// Command lobsim runs the limit order book demo scenarios and,
// optionally, the stochastic market simulator.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	tomb "gopkg.in/tomb.v2"

	"github.com/lobsim/lobsim/internal/sim"
)

var (
	runSim  bool
	events  int
	seed    int64
	verbose bool
)

func main() {
	root := &cobra.Command{
		Use:   "lobsim",
		Short: "Limit order book demo and market simulator",
		RunE:  run,
	}
	root.Flags().BoolVar(&runSim, "run-sim", false, "run the stochastic market simulator after the demo scenarios")
	root.Flags().IntVar(&events, "events", 200_000, "number of simulator events to run")
	root.Flags().Int64Var(&seed, "seed", 42, "simulator PRNG seed")
	root.Flags().BoolVar(&verbose, "verbose", false, "log at debug level")

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("lobsim failed")
	}
}

func run(cmd *cobra.Command, args []string) error {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"})

	runID := uuid.New().String()
	logger := log.With().Str("run_id", runID).Logger()

	logger.Info().Msg("running demo scenarios")
	if err := runDemo(); err != nil {
		return fmt.Errorf("demo scenarios failed: %w", err)
	}
	logger.Info().Msg("demo scenarios passed")

	if !runSim {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := sim.DefaultConfig()
	cfg.Seed = uint64(seed)
	cfg.MaxEvents = events

	s := sim.New(cfg, logger, runID)

	var t tomb.Tomb
	t.Go(func() error {
		tr := s.Run(ctx)
		logger.Info().
			Int64("n_events", tr.NEvents).
			Int64("n_limits", tr.NLimits).
			Int64("n_markets", tr.NMarkets).
			Int64("n_cancels", tr.NCancels).
			Int64("n_trades", tr.NTrades).
			Int64("vol_traded", int64(tr.VolTraded)).
			Float64("avg_spread_mid_samples", tr.AvgSpread()).
			Float64("avg_spread_n_events", tr.AvgSpreadOverEvents()).
			Float64("mkt_buy_slip", tr.MarketBuySlippage()).
			Float64("mkt_sell_slip", tr.MarketSellSlippage()).
			Int64("max_drawdown", int64(tr.MaxDrawdown)).
			Float64("fill_ratio_0", tr.FillRatio(0)).
			Float64("fill_ratio_1-2", tr.FillRatio(1)).
			Float64("fill_ratio_3-5", tr.FillRatio(2)).
			Float64("fill_ratio_6-10", tr.FillRatio(3)).
			Float64("fill_ratio_>10", tr.FillRatio(4)).
			Msg("=== SIM DONE ===")
		return nil
	})

	select {
	case <-ctx.Done():
	case <-t.Dead():
	}
	t.Kill(nil)
	if err := t.Wait(); err != nil {
		return fmt.Errorf("simulator run: %w", err)
	}

	return nil
}
