package main

import (
	"fmt"
	"os"

	"github.com/lox/handbits/internal/trace"
	"github.com/lox/handbits/poker"
)

// BitsCmd prints the rank bit reference table with a suit overlay
type BitsCmd struct {
	Suit string `short:"s" default:"h" help:"Suit overlay (s, c, h, d)"`
	All  bool   `short:"a" help:"Print a table for every suit"`
}

func (c *BitsCmd) Run(g *Globals) error {
	if _, err := g.load(); err != nil {
		return err
	}

	suits := poker.Suits[:]
	if !c.All {
		suit, err := poker.ParseSuit(c.Suit)
		if err != nil {
			return err
		}
		suits = []poker.Suit{suit}
	}

	for _, suit := range suits {
		fmt.Fprintln(os.Stdout, trace.TitleStyle.Render(fmt.Sprintf("%s suit flag 0x%X", suit, uint8(suit))))
		fmt.Fprintln(os.Stdout, trace.RenderReference(suit))
	}
	return nil
}
