package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/handbits/internal/randutil"
	"github.com/lox/handbits/internal/server"
)

// ServeCmd runs the WebSocket classification service
type ServeCmd struct {
	Addr string `short:"a" help:"Server address to bind to (overrides config)"`
	Seed *int64 `help:"Deterministic RNG seed for deal requests (overrides config)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, logger, err := g.setup(os.Stderr)
	if err != nil {
		return err
	}

	addr := cfg.Server.Address
	if c.Addr != "" {
		addr = c.Addr
	}

	seed, rng := randutil.Resolve(seedFlag(c.Seed, cfg.Seed))
	writeTimeout := time.Duration(cfg.Server.WriteTimeout) * time.Millisecond
	logger.Info("Starting handbits server", "addr", addr, "seed", seed, "write_timeout", writeTimeout)

	s := server.NewServer(logger, quartz.NewReal(), rng, server.WithWriteTimeout(writeTimeout))

	ctx := setupSignalHandler(logger)

	serverErr := make(chan error, 1)
	go func() {
		if err := s.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
