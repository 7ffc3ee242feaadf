package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/coder/quartz"

	"github.com/lox/handbits/internal/randutil"
	"github.com/lox/handbits/internal/reference"
	"github.com/lox/handbits/internal/survey"
	"github.com/lox/handbits/internal/trace"
)

// SurveyCmd tallies categories over many random deals
type SurveyCmd struct {
	Hands   *int   `short:"n" help:"Number of hands to deal (overrides config)"`
	Workers *int   `short:"w" help:"Worker goroutines, 0 for one per CPU (overrides config)"`
	Seed    *int64 `help:"Deterministic RNG seed (overrides config)"`
	Verify  bool   `help:"Check every hand against a reference oracle"`
	Oracle  string `help:"Reference oracle: histogram or library (overrides config)"`
	Output  string `short:"o" type:"path" help:"Also write the report as JSON to this file"`
}

func (c *SurveyCmd) Run(g *Globals) error {
	cfg, logger, err := g.setup(os.Stderr)
	if err != nil {
		return err
	}

	settings := *cfg.Survey
	if c.Hands != nil {
		settings.Hands = *c.Hands
	}
	if c.Workers != nil {
		settings.Workers = *c.Workers
	}
	if c.Verify {
		settings.Verify = true
	}
	if c.Oracle != "" {
		settings.Oracle = c.Oracle
	}

	seed, _ := randutil.Resolve(seedFlag(c.Seed, cfg.Seed))
	opts := survey.Options{
		Hands:   settings.Hands,
		Workers: settings.Workers,
		Seed:    seed,
	}
	if settings.Verify {
		oracle, err := reference.New(settings.Oracle)
		if err != nil {
			return err
		}
		opts.Oracle = oracle
	}

	ctx := setupSignalHandler(logger)
	runner := survey.NewRunner(logger, quartz.NewReal())
	report, err := runner.Run(ctx, opts)
	if err != nil && !errors.Is(err, survey.ErrMismatch) {
		return err
	}

	fmt.Fprintln(os.Stdout, renderReport(report))
	for _, m := range report.Mismatches {
		fmt.Fprintf(os.Stdout, "mismatch: %s classified %s, oracle says %s\n",
			trace.RenderHand(m.Hand), m.Got, m.Want)
	}

	if c.Output != "" {
		if werr := report.WriteJSON(c.Output); werr != nil {
			return werr
		}
		logger.Info("Wrote survey report", "path", c.Output)
	}
	return err
}

func renderReport(r survey.Report) string {
	rows := make([][]string, 0, len(r.Counts))
	for _, row := range r.Rows() {
		mark := ""
		if !row.WithinInterval() {
			mark = " *"
		}
		rows = append(rows, []string{
			row.Category.String(),
			fmt.Sprintf("%d", row.Count),
			fmt.Sprintf("%.4f%%", row.Frequency*100),
			fmt.Sprintf("%.4f%% - %.4f%%", row.Low*100, row.High*100),
			fmt.Sprintf("%.4f%%%s", row.Exact*100, mark),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Category", "Hands", "Frequency", "95% interval", "Exact").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return trace.HeaderStyle
			}
			if col > 0 {
				return trace.CellStyle.Align(lipgloss.Right)
			}
			return trace.CellStyle
		})

	summary := fmt.Sprintf("%d hands, %d workers, seed %d, %.0f hands/s",
		r.Hands, r.Workers, r.Seed, r.Rate())
	if r.Verified {
		summary += fmt.Sprintf(", %d mismatches", r.MismatchCount)
	}
	return lipgloss.JoinVertical(lipgloss.Left, t.String(), trace.ResultStyle.Render(summary))
}
