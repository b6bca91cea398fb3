package main

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/lobsim/lobsim/internal/book"
	"github.com/lobsim/lobsim/internal/common"
	"github.com/lobsim/lobsim/internal/matching"
)

// runDemo replays the book and engine's scripted scenarios against a
// fresh book, self-checking invariants after every step. Returns an
// error on the first self-check failure or unexpected engine error.
func runDemo() error {
	b := book.New()
	e := matching.New(b)

	step := func(name string, fn func() error) error {
		if err := fn(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if !b.SelfCheck() {
			return fmt.Errorf("%s: book self-check failed", name)
		}
		log.Info().Str("step", name).Msg("self-check ok")
		return nil
	}

	var fills []common.Fill

	if err := step("resting sell order at 101 qty 5", func() error {
		_, err := e.SubmitLimit(common.Sell, 101, 5, 0.1, &fills)
		return err
	}); err != nil {
		return err
	}
	if err := step("resting sell order at 102 qty 3", func() error {
		_, err := e.SubmitLimit(common.Sell, 102, 3, 0.2, &fills)
		return err
	}); err != nil {
		return err
	}
	if err := step("crossing buy order at 102 qty 8 sweeps FIFO", func() error {
		fills = nil
		_, err := e.SubmitLimit(common.Buy, 102, 8, 1.0, &fills)
		if len(fills) != 2 {
			return fmt.Errorf("expected 2 fills, got %d", len(fills))
		}
		return err
	}); err != nil {
		return err
	}

	if err := step("resting buy order at 100 qty 6", func() error {
		_, err := e.SubmitLimit(common.Buy, 100, 6, 1.1, &fills)
		return err
	}); err != nil {
		return err
	}
	if err := step("resting buy order at 99 qty 4", func() error {
		_, err := e.SubmitLimit(common.Buy, 99, 4, 1.2, &fills)
		return err
	}); err != nil {
		return err
	}
	if err := step("market sell of 7 walks the bid book", func() error {
		fills = nil
		_, err := e.SubmitMarket(common.Sell, 7, 2.0, &fills)
		if len(fills) != 2 {
			return fmt.Errorf("expected 2 fills, got %d", len(fills))
		}
		return err
	}); err != nil {
		return err
	}

	var residualId common.OrderId
	if err := step("resting sell order at 105 qty 4", func() error {
		_, err := e.SubmitLimit(common.Sell, 105, 4, 2.1, &fills)
		return err
	}); err != nil {
		return err
	}
	if err := step("marketable limit buy at 105 qty 10 posts residual", func() error {
		fills = nil
		id, err := e.SubmitLimit(common.Buy, 105, 10, 2.2, &fills)
		residualId = id
		return err
	}); err != nil {
		return err
	}
	if !b.Contains(residualId) {
		return fmt.Errorf("expected residual order %d to rest", residualId)
	}

	var cancelTarget common.OrderId
	if err := step("resting buy order at 100 qty 5", func() error {
		id, err := e.SubmitLimit(common.Buy, 100, 5, 3.0, &fills)
		cancelTarget = id
		return err
	}); err != nil {
		return err
	}
	if err := step("cancel of an unknown id is a no-op", func() error {
		b.Cancel(424_242)
		return nil
	}); err != nil {
		return err
	}
	if err := step("cancel erases the last order at a level", func() error {
		b.Cancel(cancelTarget)
		if b.Contains(cancelTarget) {
			return fmt.Errorf("expected %d to be gone", cancelTarget)
		}
		return nil
	}); err != nil {
		return err
	}

	return nil
}
