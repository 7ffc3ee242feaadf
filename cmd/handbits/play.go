package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/handbits/internal/randutil"
	"github.com/lox/handbits/internal/tui"
)

// PlayCmd opens the interactive dealer
type PlayCmd struct {
	Seed    *int64 `help:"Deterministic RNG seed (overrides config)"`
	LogFile string `default:"handbits-play.log" help:"File receiving logs while the TUI owns the terminal"`
}

func (c *PlayCmd) Run(g *Globals) error {
	logFile, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o666)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}()

	cfg, logger, err := g.setup(logFile)
	if err != nil {
		return err
	}

	seed, rng := randutil.Resolve(seedFlag(c.Seed, cfg.Seed))
	logger.Info("Starting interactive dealer", "seed", seed)

	model := tui.NewModel(logger, rng)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("dealer exited: %w", err)
	}
	return nil
}
