package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lox/handbits/internal/trace"
	"github.com/lox/handbits/poker"
)

// ClassifyCmd classifies a hand given on the command line
type ClassifyCmd struct {
	Cards []string `arg:"" help:"Five cards, e.g. 'As Kd Qh Jc Ts' or AsKdQhJcTs"`
	Trace bool     `short:"t" help:"Show each step of the calculation"`
}

func (c *ClassifyCmd) Run(g *Globals) error {
	_, logger, err := g.setup(os.Stderr)
	if err != nil {
		return err
	}

	hand, err := poker.ParseCards(strings.Join(c.Cards, " "))
	if err != nil {
		return err
	}

	tr, err := trace.Classify(hand)
	if err != nil {
		return err
	}
	logger.Debug("Classified hand",
		"s", fmt.Sprintf("0x%X", tr.Result.S),
		"v", fmt.Sprintf("0x%X", tr.Result.V),
		"index", tr.Result.Index)

	printHand(os.Stdout, tr, c.Trace)
	return nil
}

// printHand writes either the full trace or a one line summary
func printHand(w io.Writer, tr trace.Trace, withTrace bool) {
	if withTrace {
		fmt.Fprintln(w, trace.Render(tr))
		return
	}
	fmt.Fprintf(w, "%s  %s\n", trace.RenderHand(tr.Hand), trace.RenderResult(tr.Result))
}
