package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/handbits/internal/config"
)

// Globals are the flags shared by every command
type Globals struct {
	Config   string `short:"c" default:"${config_file}" help:"Path to HCL configuration file"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	NoColor  bool   `help:"Disable colored output"`
}

// load reads the config file and applies flag overrides
func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if g.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	return cfg, nil
}

// setup loads config and builds a logger writing to w
func (g *Globals) setup(w io.Writer) (*config.Config, *log.Logger, error) {
	cfg, err := g.load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(w, cfg.LogLevel, g.NoColor)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Loaded configuration", "file", g.Config, "log_level", cfg.LogLevel)
	return cfg, logger, nil
}

func newLogger(w io.Writer, level string, noColor bool) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	if noColor {
		logger.SetColorProfile(termenv.Ascii)
	}
	return logger, nil
}

// setupSignalHandler returns a context cancelled on interrupt or SIGTERM
func setupSignalHandler(logger *log.Logger) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("Received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	return ctx
}

// seedFlag picks the flag seed over the configured one
func seedFlag(flag, configured *int64) *int64 {
	if flag != nil {
		return flag
	}
	return configured
}
