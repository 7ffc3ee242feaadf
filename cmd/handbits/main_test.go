package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/handbits/internal/survey"
	"github.com/lox/handbits/internal/trace"
	"github.com/lox/handbits/poker"
)

func TestSeedFlag(t *testing.T) {
	flag, configured := int64(1), int64(2)
	assert.Equal(t, &flag, seedFlag(&flag, &configured))
	assert.Equal(t, &configured, seedFlag(nil, &configured))
	assert.Nil(t, seedFlag(nil, nil))
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level   string
		want    log.Level
		wantErr bool
	}{
		{"debug", log.DebugLevel, false},
		{"info", log.InfoLevel, false},
		{"warn", log.WarnLevel, false},
		{"error", log.ErrorLevel, false},
		{"loud", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := newLogger(io.Discard, tt.level, true)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestGlobalsLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "handbits.hcl")
	require.NoError(t, os.WriteFile(path, []byte("log_level = \"warn\"\nseed = 9\n"), 0o644))

	g := Globals{Config: path}
	cfg, err := g.load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, int64(9), *cfg.Seed)

	g.LogLevel = "debug"
	cfg, err = g.load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)

	g.LogLevel = "loud"
	_, err = g.load()
	assert.Error(t, err)

	// A missing file falls back to the defaults
	g = Globals{Config: filepath.Join(dir, "missing.hcl")}
	cfg, err = g.load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Nil(t, cfg.Seed)
}

func TestPrintHand(t *testing.T) {
	tr, err := trace.Classify(poker.MustParseCards("As 2c 3h 4d 5s"))
	require.NoError(t, err)

	var buf bytes.Buffer
	printHand(&buf, tr, false)
	assert.Contains(t, buf.String(), "Result: Straight (Ace low)")
	assert.NotContains(t, buf.String(), "Final calculation")

	buf.Reset()
	printHand(&buf, tr, true)
	assert.Contains(t, buf.String(), "Initial hand")
	assert.Contains(t, buf.String(), "Final calculation")
}

func TestRenderReport(t *testing.T) {
	report := survey.Report{
		Seed:     3,
		Workers:  2,
		Hands:    4,
		Verified: true,
	}
	report.Counts[poker.RoyalFlush] = 1
	report.Counts[poker.HighCard] = 3

	out := renderReport(report)
	assert.Contains(t, out, "Royal Flush")
	assert.Contains(t, out, "75.0000%")
	assert.Contains(t, out, "0.0002%")
	assert.Contains(t, out, "95% interval")
	assert.Contains(t, out, "4 hands, 2 workers, seed 3")
	assert.Contains(t, out, "0 mismatches")
}
