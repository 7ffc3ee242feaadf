package main

import (
	"fmt"
	"os"

	"github.com/lox/handbits/internal/randutil"
	"github.com/lox/handbits/internal/trace"
	"github.com/lox/handbits/poker"
)

// DealCmd deals random hands from a freshly shuffled deck
type DealCmd struct {
	Hands int    `short:"n" default:"1" help:"Number of hands to deal"`
	Seed  *int64 `help:"Deterministic RNG seed (overrides config)"`
	Trace bool   `short:"t" help:"Show each step of the calculation"`
}

func (c *DealCmd) Run(g *Globals) error {
	cfg, logger, err := g.setup(os.Stderr)
	if err != nil {
		return err
	}
	if c.Hands < 1 {
		return fmt.Errorf("hands must be at least 1, got %d", c.Hands)
	}

	seed, rng := randutil.Resolve(seedFlag(c.Seed, cfg.Seed))
	logger.Info("Dealing", "hands", c.Hands, "seed", seed)

	deck := poker.NewDeck(rng)
	for i := 0; i < c.Hands; i++ {
		deck.Shuffle()
		tr, err := trace.Classify(deck.DealHand())
		if err != nil {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}
		printHand(os.Stdout, tr, c.Trace)
	}
	return nil
}
